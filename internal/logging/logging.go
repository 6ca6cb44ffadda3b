// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger from the level and format
// settings. An unknown level falls back to info. Format "json" (or an empty
// format outside development) selects the JSON formatter.
func Setup(level, format string, dev bool) {
	Configure(logrus.StandardLogger(), os.Stdout, level, format, dev)
}

// Configure applies the settings to logger, writing to out.
func Configure(logger *logrus.Logger, out io.Writer, level, format string, dev bool) {
	logger.SetOutput(out)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		if dev {
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		} else {
			logger.SetFormatter(&logrus.JSONFormatter{})
		}
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
}
