// Package log provides the prefixed, coloured loggers used across the server.
//
// Every component gets its own Logger created with New, e.g.
//
//	sessionLogger, err := logger.New("SESSION", config.ColorCyan, os.Stdout)
//
// Output is rendered by logrus, so the level and format can be switched with the
// LOG_LEVEL and LOG_FORMAT environment variables.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const colorReset = "\033[0m"

var ErrEmptyPrefix = errors.New("logger prefix must not be empty")

// Logger is the logging surface components depend on.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

type prefixedLogger struct {
	entry *logrus.Entry
}

// New creates a Logger writing to w. The prefix is printed in the given ANSI color
// in front of every line.
func New(prefix, color string, w io.Writer) (Logger, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	if w == nil {
		w = os.Stdout
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(levelFromEnv())
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
		return &prefixedLogger{entry: l.WithField("component", prefix)}, nil
	}

	l.SetFormatter(&prefixFormatter{
		prefix: fmt.Sprintf("%s[%s]%s", color, prefix, colorReset),
		text: &logrus.TextFormatter{
			FullTimestamp:    true,
			ForceColors:      color != "",
			DisableQuote:     true,
			DisableSorting:   true,
			PadLevelText:     true,
			QuoteEmptyFields: true,
		},
	})
	return &prefixedLogger{entry: logrus.NewEntry(l)}, nil
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &prefixedLogger{entry: logrus.NewEntry(l)}
}

func (p *prefixedLogger) Debug(msg string)   { p.entry.Debug(msg) }
func (p *prefixedLogger) Info(msg string)    { p.entry.Info(msg) }
func (p *prefixedLogger) Warning(msg string) { p.entry.Warn(msg) }
func (p *prefixedLogger) Error(msg string)   { p.entry.Error(msg) }

// prefixFormatter puts the component prefix in front of logrus' text output.
type prefixFormatter struct {
	prefix string
	text   *logrus.TextFormatter
}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	b, err := f.text.Format(e)
	if err != nil {
		return nil, err
	}
	return append([]byte(f.prefix+" "), b...), nil
}

func levelFromEnv() logrus.Level {
	raw, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
