// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger returns a logger writing to stderr. format is
// "text", "json", or "auto", which picks text when stderr is a
// terminal and JSON otherwise.
func NewCommandLogger(level slog.Level, format string) (*slog.Logger, error) {
	return NewLogger(os.Stderr, level, format)
}

// NewLogger is [NewCommandLogger] for an arbitrary output. Only an
// *os.File can count as a terminal for the "auto" format.
func NewLogger(output io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	file, _ := output.(*os.File)
	return newLogger(output, IsTerminal(file), level, format)
}

func newLogger(output io.Writer, terminal bool, level slog.Level, format string) (*slog.Logger, error) {
	options := &slog.HandlerOptions{Level: level}
	switch format {
	case "", "auto":
		if terminal {
			return slog.New(slog.NewTextHandler(output, options)), nil
		}
		return slog.New(slog.NewJSONHandler(output, options)), nil
	case "text":
		return slog.New(slog.NewTextHandler(output, options)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(output, options)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want auto, text, or json)", format)
	}
}

// IsTerminal reports whether file is attached to a terminal.
func IsTerminal(file *os.File) bool {
	return file != nil && term.IsTerminal(int(file.Fd()))
}
