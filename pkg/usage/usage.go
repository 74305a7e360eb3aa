// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package usage renders usage statements for commands and command lists.
package usage

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yeetrun/argot/pkg/option"
	"github.com/yeetrun/argot/pkg/signature"
)

// Entry is one line of a command listing.
type Entry struct {
	Name        string
	Description string
}

// Render returns the usage statement for a command:
//
//	Usage: app hello <name> [<greeting>] [options]
//
//	Options:
//	  -l, --loudly                   Say it loudly
//	  -n, --number-of-times <times>  Repeat the greeting
//	  -h, --help                     Show this help message
//
// command may be empty for single-command applications. The help option is
// always listed last, preceded by the version option when version is set.
func Render(app, command string, sig signature.Signature, opts []option.Spec, version bool) string {
	var b strings.Builder

	b.WriteString("Usage: ")
	b.WriteString(app)
	if command != "" {
		b.WriteString(" " + command)
	}
	if !sig.IsEmpty() {
		b.WriteString(" " + sig.String())
	}
	b.WriteString(" [options]\n\n")

	type row struct{ label, usage string }
	rows := make([]row, 0, len(opts)+2)
	for _, o := range opts {
		rows = append(rows, row{o.Label(), o.Usage})
	}
	if version {
		rows = append(rows, row{option.VersionShort + ", " + option.VersionLong, "Show version information"})
	}
	rows = append(rows, row{option.HelpShort + ", " + option.HelpLong, "Show this help message"})

	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}
	b.WriteString("Options:\n")
	for _, r := range rows {
		if r.usage == "" {
			fmt.Fprintf(&b, "  %s\n", r.label)
			continue
		}
		fmt.Fprintf(&b, "  %-*s  %s\n", width, r.label, r.usage)
	}
	return b.String()
}

// RenderCommands returns the application help listing every command in name
// order.
func RenderCommands(app, description string, entries []Entry) string {
	var b strings.Builder
	b.WriteString(app)
	if description != "" {
		b.WriteString(" - " + description)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Usage: %s <command> [options]\n\n", app)

	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(x, y Entry) int { return strings.Compare(x.Name, y.Name) })
	width := 0
	for _, e := range sorted {
		width = max(width, len(e.Name))
	}
	if len(sorted) > 0 {
		b.WriteString("Commands:\n")
		for _, e := range sorted {
			fmt.Fprintf(&b, "  %-*s  %s\n", width, e.Name, e.Description)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Run '%s help <command>' for more information on a command.\n", app)
	return b.String()
}
