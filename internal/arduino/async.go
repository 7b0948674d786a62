package arduino

import "fmt"

const ackResponse = "received"

// ProcessAndWait отправляет команду и ждёт подтверждения от Arduino.
// Команды не перемешиваются: следующая уходит только после ответа на предыдущую.
func (a *Arduino) ProcessAndWait(command string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := writeCommand(a.port, command); err != nil {
		return err
	}

	// Ожидаем ответа от Arduino
	if _, err := WaitForArduinoResponse(a.reader, ackResponse); err != nil {
		return fmt.Errorf("error waiting for Arduino response to %q: %w", command, err)
	}
	return nil
}
