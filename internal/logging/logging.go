// Package logging provides the structured logger used across the analyzer.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/baditaflorin/l"
)

// Logger is the logging surface components depend on.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Close() error
}

// Options controls how the logger writes.
type Options struct {
	Output io.Writer
	JSON   bool
}

type stdLogger struct {
	logger l.Logger
}

// New creates a logger backed by l. A nil Output writes to stderr so that
// reports on stdout stay clean.
func New(opts Options) (Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      out,
		JsonFormat:  opts.JSON,
		AsyncWrite:  true,
		BufferSize:  64 * 1024,
		MaxFileSize: 10 * 1024 * 1024,
		MaxBackups:  5,
		AddSource:   false,
		Metrics:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &stdLogger{logger: logger}, nil
}

func (s *stdLogger) Debug(msg string, keysAndValues ...interface{}) {
	s.logger.Debug(msg, keysAndValues...)
}

func (s *stdLogger) Info(msg string, keysAndValues ...interface{}) {
	s.logger.Info(msg, keysAndValues...)
}

func (s *stdLogger) Warn(msg string, keysAndValues ...interface{}) {
	s.logger.Warn(msg, keysAndValues...)
}

func (s *stdLogger) Error(msg string, keysAndValues ...interface{}) {
	s.logger.Error(msg, keysAndValues...)
}

func (s *stdLogger) Close() error {
	return s.logger.Close()
}

type nopLogger struct{}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Close() error                                   { return nil }
