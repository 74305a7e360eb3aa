// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package option declares command options and binds option tokens to them.
//
// There are two kinds of options. A flag is a boolean switch that takes no
// value (-l, --loudly). A keyed option consumes the token that follows it as
// its value (-n 3, --number-of-times 3, or inline --number-of-times=3).
//
// The help options (-h, --help) are always recognized and the version options
// (-v, --version) are recognized when the set reserves them. Both are checked
// before any declared option and short-circuit binding.
package option

import (
	"errors"
	"fmt"
	"strings"
)

const (
	HelpShort    = "-h"
	HelpLong     = "--help"
	VersionShort = "-v"
	VersionLong  = "--version"
)

var (
	// ErrHelp is returned by Bind when -h or --help is present.
	ErrHelp = errors.New("help requested")

	// ErrVersion is returned by Bind when -v or --version is present and
	// the set reserves the version options.
	ErrVersion = errors.New("version requested")

	errFlagValue = errors.New("option does not take a value")
)

// Kind distinguishes flags from keyed options.
type Kind int

const (
	Flag Kind = iota
	Keyed
)

// Spec declares one option.
type Spec struct {
	Aliases   []string
	Kind      Kind
	Usage     string
	ValueName string // keyed only

	OnFlag  func()             // called once per occurrence of a flag
	OnValue func(string) error // called with the value of a keyed option
}

// Name returns the canonical name used as the key in bound results: the
// first long alias without dashes, or else the first short alias without its
// dash.
func (s Spec) Name() string {
	for _, a := range s.Aliases {
		if strings.HasPrefix(a, "--") {
			return a[2:]
		}
	}
	if len(s.Aliases) == 0 {
		return ""
	}
	return strings.TrimLeft(s.Aliases[0], "-")
}

// Label renders the aliases for usage output, e.g. "-n, --number-of-times <times>".
func (s Spec) Label() string {
	label := strings.Join(s.Aliases, ", ")
	if s.Kind == Keyed {
		label += " <" + s.ValueName + ">"
	}
	return label
}

// Set holds the options declared for one command.
type Set struct {
	specs   []Spec
	index   map[string]int
	version bool
}

// NewSet returns an empty set. When version is true the -v and --version
// aliases are reserved.
func NewSet(version bool) *Set {
	return &Set{index: make(map[string]int), version: version}
}

// Version reports whether the set reserves the version options.
func (s *Set) Version() bool {
	return s.version
}

// Specs returns the declared options in declaration order.
func (s *Set) Specs() []Spec {
	out := make([]Spec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Lookup finds the option declared for alias.
func (s *Set) Lookup(alias string) (Spec, bool) {
	i, ok := s.index[alias]
	if !ok {
		return Spec{}, false
	}
	return s.specs[i], true
}

// Flag declares a flag. aliases is a comma separated list such as
// "-l, --loudly".
func (s *Set) Flag(aliases, usage string, fn func()) {
	s.Add(Spec{Aliases: SplitAliases(aliases), Kind: Flag, Usage: usage, OnFlag: fn})
}

// Keyed declares a keyed option.
func (s *Set) Keyed(aliases, valueName, usage string, fn func(string) error) {
	s.Add(Spec{Aliases: SplitAliases(aliases), Kind: Keyed, ValueName: valueName, Usage: usage, OnValue: fn})
}

// Add declares an option. It panics when the declaration is invalid: no
// aliases, a malformed alias, an alias already declared, or an alias
// reserved for help or version.
func (s *Set) Add(spec Spec) {
	if len(spec.Aliases) == 0 {
		panic("option declared without aliases")
	}
	if spec.Kind == Keyed && spec.ValueName == "" {
		spec.ValueName = "value"
	}
	for _, a := range spec.Aliases {
		if !validAlias(a) {
			panic(fmt.Sprintf("invalid option alias %q", a))
		}
		if s.reserved(a) {
			panic(fmt.Sprintf("option alias %q is reserved", a))
		}
		if _, ok := s.index[a]; ok {
			panic(fmt.Sprintf("option alias %q declared more than once", a))
		}
	}
	s.specs = append(s.specs, spec)
	for _, a := range spec.Aliases {
		s.index[a] = len(s.specs) - 1
	}
}

func (s *Set) reserved(alias string) bool {
	switch alias {
	case HelpShort, HelpLong:
		return true
	case VersionShort, VersionLong:
		return s.version
	}
	return false
}

// SplitAliases splits an alias list such as "-l, --loudly".
func SplitAliases(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '|'
	})
}

func validAlias(a string) bool {
	switch {
	case strings.HasPrefix(a, "--"):
		name := a[2:]
		if name == "" || name[0] == '-' {
			return false
		}
		for _, r := range name {
			if !isNameRune(r) && r != '-' && r != '_' {
				return false
			}
		}
		return true
	case strings.HasPrefix(a, "-"):
		// Digits are excluded: -5 tokenizes as a negative number.
		return len(a) == 2 && isNameRune(rune(a[1])) && (a[1] < '0' || a[1] > '9')
	}
	return false
}

func isNameRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
