// Package userinput collects the one-time consent response from the user.
// The collector is selected by configured type name and handed to the
// authorizer as an explicit dependency; there is no global registry.
package userinput

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jrsteele09/go-broker-client/internal/config"
)

// ErrUnknownInputType indicates a configured input type with no
// implementation. Construction fails fast; there is no silent fallback.
var ErrUnknownInputType = errors.New("unknown input type")

// Collector obtains one line of input from the user, typically the full
// redirect URL the browser landed on after consent.
type Collector interface {
	// GetInput blocks until the user responds. prompt overrides the
	// collector's configured default when non-empty.
	GetInput(prompt string) (string, error)
}

// New builds the collector named by cfg.Type.
func New(cfg config.InputConfig) (Collector, error) {
	switch cfg.Type {
	case "terminal":
		return NewTerminal(cfg.Prompt), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInputType, cfg.Type)
	}
}

// Terminal reads one line from standard input, blocking the calling
// goroutine until the user answers.
type Terminal struct {
	defaultPrompt string
	in            *bufio.Reader
	out           io.Writer
}

var _ Collector = (*Terminal)(nil)

// TerminalOption customizes a Terminal collector.
type TerminalOption func(*Terminal)

// WithReader replaces standard input (for tests).
func WithReader(r io.Reader) TerminalOption {
	return func(t *Terminal) { t.in = bufio.NewReader(r) }
}

// WithWriter replaces the prompt destination (for tests).
func WithWriter(w io.Writer) TerminalOption {
	return func(t *Terminal) { t.out = w }
}

// NewTerminal creates a terminal collector with the given default prompt.
func NewTerminal(defaultPrompt string, options ...TerminalOption) *Terminal {
	t := &Terminal{
		defaultPrompt: defaultPrompt,
		in:            bufio.NewReader(os.Stdin),
		out:           os.Stdout,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// GetInput prints the prompt and reads a single line, with the trailing
// newline stripped.
func (t *Terminal) GetInput(prompt string) (string, error) {
	if prompt == "" {
		prompt = t.defaultPrompt
	}
	if prompt != "" {
		fmt.Fprint(t.out, prompt)
	}
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("userinput.Terminal.GetInput: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
