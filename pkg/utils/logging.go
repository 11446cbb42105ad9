package utils

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// SetupLogging configures the global logrus logger. Empty values fall back
// to the environment and then to info/text.
func SetupLogging(level, format string) error {
	if level == "" {
		level = GetLogLevel()
	}
	if format == "" {
		format = GetLogFormat()
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("Failed parse log level: %v", err)
	}
	logrus.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("Unknown log format %q", format)
	}
	return nil
}
