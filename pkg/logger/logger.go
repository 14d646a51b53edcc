// Package logger holds the shared logging instance. The level comes from
// MAESTRO_LOG_LEVEL, with ENV=dev as a debug shortcut.
package logger

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger wraps charmbracelet/log with the installer's defaults.
type Logger struct {
	*log.Logger
}

var (
	instance *Logger
	once     sync.Once
)

// GetLogger returns the shared logger.
func GetLogger() *Logger {
	once.Do(func() {
		instance = &Logger{
			Logger: log.NewWithOptions(os.Stderr, log.Options{
				Level:           log.InfoLevel,
				ReportTimestamp: true,
				TimeFormat:      "15:04:05",
			}),
		}
	})
	return instance
}

// SetLogLevel sets the level by name. Unknown names keep info.
func (l *Logger) SetLogLevel(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	l.SetLevel(parsed)
}

// ConfigureFromEnv applies MAESTRO_LOG_LEVEL, or debug when ENV=dev.
func (l *Logger) ConfigureFromEnv() {
	if level := os.Getenv("MAESTRO_LOG_LEVEL"); level != "" {
		l.SetLogLevel(level)
		return
	}
	if os.Getenv("ENV") == "dev" {
		l.SetLevel(log.DebugLevel)
	}
}

// Debug logs a debug message on the shared logger.
func Debug(msg string, keyvals ...interface{}) {
	GetLogger().Debug(msg, keyvals...)
}

// Info logs an info message on the shared logger.
func Info(msg string, keyvals ...interface{}) {
	GetLogger().Info(msg, keyvals...)
}

// Warn logs a warning on the shared logger.
func Warn(msg string, keyvals ...interface{}) {
	GetLogger().Warn(msg, keyvals...)
}

// Error logs an error on the shared logger.
func Error(msg string, keyvals ...interface{}) {
	GetLogger().Error(msg, keyvals...)
}
