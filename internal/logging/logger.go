package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/umpyre-code/beancounter/internal/config"
)

// Logger is the logger type used throughout the service.
type Logger = *logrus.Logger

// Fields is a set of structured logging fields.
type Fields = logrus.Fields

// NewLogger creates a configured logger instance.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(config.GetLogLevel())
	return logger
}

// NewLoggerWithService creates a logger that tags every entry with a service name.
func NewLoggerWithService(serviceName string) *logrus.Logger {
	logger := NewLogger()
	logger.AddHook(serviceHook{service: serviceName})
	return logger
}

// serviceHook adds a fixed "service" field to every entry.
type serviceHook struct{ service string }

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(entry *logrus.Entry) error {
	entry.Data["service"] = h.service
	return nil
}
