package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Terminal hooks. Tests replace these to drive interactive flows from a pipe.
var (
	stdinIsTerminal = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	readPassword = func() (string, error) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		return string(b), err
	}
)

// errNoInput is returned when stdin closes before a prompt is answered.
var errNoInput = errors.New("no input")

// prompt writes label to stderr and reads one trimmed line from stdin.
func (cc *CLIContext) prompt(label string) (string, error) {
	fmt.Fprint(cc.Stderr, label)

	line, err := cc.stdin.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input: %w", err)
		}

		if line == "" {
			return "", errNoInput
		}
	}

	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo.
func (cc *CLIContext) promptPassword(label string) (string, error) {
	fmt.Fprint(cc.Stderr, label)

	pw, err := readPassword()
	fmt.Fprintln(cc.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return pw, nil
}
