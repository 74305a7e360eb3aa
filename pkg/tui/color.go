// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/yeetrun/argot/pkg/config"
	"golang.org/x/term"
)

var isTerminalFn = term.IsTerminal

type Colorizer struct {
	Enabled bool
}

// NewColorizer decides whether output written to w is colored. mode is one of
// the config.Color values. In auto mode (or an empty mode) color is used only
// when w is a terminal, NO_COLOR is unset and TERM is not dumb.
func NewColorizer(mode string, w io.Writer) Colorizer {
	switch mode {
	case config.ColorAlways:
		return Colorizer{Enabled: true}
	case config.ColorNever:
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return Colorizer{}
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok || !isTerminalFn(int(f.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) Red(text string) string {
	return c.paint(text, color.FgRed, color.Bold)
}

func (c Colorizer) Green(text string) string {
	return c.paint(text, color.FgGreen)
}

func (c Colorizer) Yellow(text string) string {
	return c.paint(text, color.FgYellow)
}

func (c Colorizer) Dim(text string) string {
	return c.paint(text, color.FgHiBlack)
}

func (c Colorizer) paint(text string, attrs ...color.Attribute) string {
	if !c.Enabled {
		return text
	}
	p := color.New(attrs...)
	// The decision was made by NewColorizer; override fatih/color's own
	// stdout detection.
	p.EnableColor()
	return p.Sprint(text)
}
