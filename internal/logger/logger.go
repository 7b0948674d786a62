package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel представляет уровень логирования
type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

// LoggerManager пишет лог в файл и дублирует в консоль.
// Методы можно вызывать на nil: такой логгер ничего не пишет.
type LoggerManager struct {
	mu      sync.Mutex
	file    *os.File
	logger  *log.Logger
	console io.Writer
	debug   bool
}

// NewLoggerManager создает новый экземпляр LoggerManager
func NewLoggerManager(logFilePath string, debug bool) (*LoggerManager, error) {
	// Создаем директорию для логов, если её нет
	logDir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории для логов: %w", err)
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла логов: %w", err)
	}

	return &LoggerManager{
		file:    file,
		logger:  log.New(file, "", 0),
		console: os.Stdout,
		debug:   debug,
	}, nil
}

// NewWriterLogger логгер без файла, всё пишется в w (утилиты и тесты)
func NewWriterLogger(w io.Writer, debug bool) *LoggerManager {
	return &LoggerManager{
		logger: log.New(w, "", 0),
		debug:  debug,
	}
}

// Close закрывает файл логов
func (l *LoggerManager) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *LoggerManager) logWithLevel(level LogLevel, format string, args ...interface{}) {
	if l == nil {
		return
	}
	if level == DEBUG && !l.debug {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logEntry := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Println(logEntry)
	if l.console != nil {
		fmt.Fprintln(l.console, logEntry)
	}
}

// Debug записывает отладочное сообщение
func (l *LoggerManager) Debug(format string, args ...interface{}) {
	l.logWithLevel(DEBUG, format, args...)
}

// Info записывает информационное сообщение
func (l *LoggerManager) Info(format string, args ...interface{}) {
	l.logWithLevel(INFO, format, args...)
}

func (l *LoggerManager) Warn(format string, args ...interface{}) {
	l.logWithLevel(WARN, format, args...)
}

// Error записывает сообщение об ошибке
func (l *LoggerManager) Error(format string, args ...interface{}) {
	l.logWithLevel(ERROR, format, args...)
}

// LogError записывает ошибку с дополнительной информацией
func (l *LoggerManager) LogError(err error, context string) {
	if err != nil {
		l.Error("%s: %v", context, err)
	}
}
