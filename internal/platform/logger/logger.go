// Package logger configures the process-wide logrus logger.
package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Options controls the logger setup.
type Options struct {
	Level      string
	JSON       bool
	ShowCaller bool
	Output     io.Writer
}

// Setup applies opts to the standard logrus logger.
func Setup(opts Options) error {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	logrus.SetLevel(level)
	logrus.SetReportCaller(opts.ShowCaller)
	if opts.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if opts.Output != nil {
		logrus.SetOutput(opts.Output)
	}
	return nil
}
