// Package logging provides the logging capability injected into the client
// components. Callers construct one Logger per process and pass it down;
// there is no package-level logger.
package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the capability consumed by the client packages.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(err error, msg string, fields ...Field)
}

// Field is a single structured key/value pair attached to a log event.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

type zeroLogger struct {
	log zerolog.Logger
}

// New creates a zerolog-backed Logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) Logger {
	return &zeroLogger{log: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// NewConsole creates a Logger with zerolog's human-readable console output,
// suitable for the interactive CLI.
func NewConsole(w io.Writer, level zerolog.Level) Logger {
	cw := zerolog.ConsoleWriter{Out: w}
	return &zeroLogger{log: zerolog.New(cw).Level(level).With().Timestamp().Logger()}
}

func (z *zeroLogger) Debug(msg string, fields ...Field) {
	apply(z.log.Debug(), fields).Msg(msg)
}

func (z *zeroLogger) Info(msg string, fields ...Field) {
	apply(z.log.Info(), fields).Msg(msg)
}

func (z *zeroLogger) Warn(msg string, fields ...Field) {
	apply(z.log.Warn(), fields).Msg(msg)
}

func (z *zeroLogger) Error(err error, msg string, fields ...Field) {
	apply(z.log.Error().Err(err), fields).Msg(msg)
}

func apply(e *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		e = e.Interface(f.Key, f.Value)
	}
	return e
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...Field)        {}
func (nopLogger) Info(string, ...Field)         {}
func (nopLogger) Warn(string, ...Field)         {}
func (nopLogger) Error(error, string, ...Field) {}
