package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger writing to stdout at the given level. An unknown
// level falls back to info.
func New(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level %q, using INFO", level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger
}
