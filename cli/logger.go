package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LoggerOption represents a function that configures a logger
type LoggerOption func(*logrus.Logger)

// WithOutput sets the logger output
func WithOutput(w io.Writer) LoggerOption {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// WithLevel sets the log level
func WithLevel(level logrus.Level) LoggerOption {
	return func(l *logrus.Logger) {
		l.SetLevel(level)
	}
}

// NewLogger creates a standalone logger writing to stderr, leaving stdout to
// command output. It is used where the component loggers are not ready yet,
// such as while loading configuration.
func NewLogger(opts ...LoggerOption) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// ConfigLogger returns the logger used while loading configuration for a
// command run with opts.
func ConfigLogger(opts CommandOptions) *logrus.Logger {
	if opts.Verbose {
		return NewLogger(WithLevel(logrus.DebugLevel))
	}
	return NewLogger()
}
