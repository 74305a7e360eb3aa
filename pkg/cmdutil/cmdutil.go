// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdutil holds interactive prompts for command bodies.
//
// Prompts read one line at a time directly from the reader without
// buffering ahead, so several prompts can share one input stream.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

var isTerminalFn = term.IsTerminal

var readPasswordFn = term.ReadPassword

// ErrNoInput is returned when the input ends before an answer is read.
var ErrNoInput = errors.New("no input")

func Confirm(r io.Reader, w io.Writer, msg string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", msg)

	confirm, err := ReadLine(r)
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(confirm)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Ask prompts for a line of text. An empty answer yields def.
func Ask(r io.Reader, w io.Writer, msg, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(w, "%s [%s]: ", msg, def)
	} else {
		fmt.Fprintf(w, "%s: ", msg)
	}
	answer, err := ReadLine(r)
	if err != nil {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Choose lists choices and prompts until the answer is a valid 1-based
// number or the exact text of a choice.
func Choose(r io.Reader, w io.Writer, msg string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("no choices")
	}
	fmt.Fprintln(w, msg)
	for i, c := range choices {
		fmt.Fprintf(w, "  %d) %s\n", i+1, c)
	}
	for {
		fmt.Fprintf(w, "Choose 1-%d: ", len(choices))
		answer, err := ReadLine(r)
		if err != nil {
			return "", fmt.Errorf("failed to read choice: %w", err)
		}
		answer = strings.TrimSpace(answer)
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		for _, c := range choices {
			if answer == c {
				return c, nil
			}
		}
		fmt.Fprintf(w, "Invalid choice %q\n", answer)
	}
}

// Secret prompts for a value without echoing it when r is a terminal.
func Secret(r io.Reader, w io.Writer, msg string) (string, error) {
	fmt.Fprintf(w, "%s: ", msg)
	if f, ok := r.(*os.File); ok && isTerminalFn(int(f.Fd())) {
		b, err := readPasswordFn(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return string(b), nil
	}
	answer, err := ReadLine(r)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return answer, nil
}

// ReadLine reads up to and excluding the next newline. It reads one byte at
// a time so nothing past the newline is consumed. A final line without a
// newline is returned as is; EOF before any byte is ErrNoInput.
func ReadLine(r io.Reader) (string, error) {
	var b strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return strings.TrimSuffix(b.String(), "\r"), nil
			}
			b.WriteByte(buf[0])
		}
		if err == io.EOF {
			if b.Len() == 0 {
				return "", ErrNoInput
			}
			return strings.TrimSuffix(b.String(), "\r"), nil
		}
		if err != nil {
			return "", err
		}
	}
}
