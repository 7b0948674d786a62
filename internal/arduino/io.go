package arduino

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tarm/serial"
)

// Port последовательный порт платы; в тестах подменяется буфером
type Port interface {
	io.ReadWriter
}

func InitializePort(name string, baud int) (*serial.Port, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: 5 * time.Second,
	})
	return port, err
}

func writeCommand(port Port, command string) error {
	if _, err := port.Write([]byte(command + "\n")); err != nil {
		return fmt.Errorf("error writing to Arduino: %w", err)
	}
	return nil
}

// WaitForArduinoResponse читает одну строку ответа и сравнивает её с ожидаемой
func WaitForArduinoResponse(reader *bufio.Reader, expectedResponse string) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("error reading from Arduino: %w", err)
	}

	response := strings.TrimSpace(line)
	if response == expectedResponse {
		return response, nil
	}
	return "", fmt.Errorf("unexpected response: '%s'", response)
}
