// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"fmt"

	"github.com/yeetrun/argot/pkg/token"
)

// UnknownOptionError is returned when an option token matches no declared
// alias.
type UnknownOptionError struct {
	Option string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option: %s", e.Option)
}

// MissingValueError is returned when a keyed option is the last token.
type MissingValueError struct {
	Option    string
	ValueName string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("option %s requires a value <%s>", e.Option, e.ValueName)
}

// ValueError is returned when an option's value is rejected, either by the
// option's handler or because a flag was given an inline value.
type ValueError struct {
	Option string
	Value  string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for option %s: %v", e.Value, e.Option, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// DuplicateOptionError is returned when an option is repeated and the
// binder rejects duplicates.
type DuplicateOptionError struct {
	Option string
}

func (e *DuplicateOptionError) Error() string {
	return fmt.Sprintf("option %s given more than once", e.Option)
}

// Binder binds option tokens against a Set.
type Binder struct {
	Set *Set
	// RejectDuplicates makes a repeated option an error. By default the
	// last occurrence wins.
	RejectDuplicates bool
}

// Bind processes every option token of seq in input order, invoking the
// declared handlers. It returns the bound values keyed by Spec.Name: true
// for flags, the value string for keyed options.
//
// Keyed options consume the following token (whatever it looks like) as
// their value unless the value was given inline.
func (b Binder) Bind(seq *token.Sequence) (map[string]any, error) {
	if err := b.checkImplicit(seq); err != nil {
		return nil, err
	}

	bound := make(map[string]any)
	seen := make(map[string]bool)
	for _, i := range seq.Options() {
		tok := seq.At(i)
		if tok.Kind != token.Option {
			// Consumed as the value of an earlier keyed option.
			continue
		}
		spec, ok := b.Set.Lookup(tok.Value)
		if !ok {
			return nil, &UnknownOptionError{Option: tok.Value}
		}
		name := spec.Name()
		if b.RejectDuplicates && seen[name] {
			return nil, &DuplicateOptionError{Option: tok.Value}
		}
		seen[name] = true

		switch spec.Kind {
		case Flag:
			if tok.HasInline {
				return nil, &ValueError{Option: tok.Value, Value: tok.Inline, Err: errFlagValue}
			}
			if spec.OnFlag != nil {
				spec.OnFlag()
			}
			bound[name] = true
		case Keyed:
			value, err := keyedValue(seq, i, spec)
			if err != nil {
				return nil, err
			}
			if spec.OnValue != nil {
				if err := spec.OnValue(value); err != nil {
					return nil, &ValueError{Option: tok.Value, Value: value, Err: err}
				}
			}
			bound[name] = value
		}
	}
	return bound, nil
}

// checkImplicit looks for -h and -v ahead of binding. A token that a keyed
// option will consume as its value is skipped.
func (b Binder) checkImplicit(seq *token.Sequence) error {
	valueAt := -1
	for _, i := range seq.Options() {
		if i == valueAt {
			continue
		}
		tok := seq.At(i)
		switch tok.Value {
		case HelpShort, HelpLong:
			return ErrHelp
		case VersionShort, VersionLong:
			if b.Set.Version() {
				return ErrVersion
			}
		}
		if spec, ok := b.Set.Lookup(tok.Value); ok && spec.Kind == Keyed && !tok.HasInline {
			valueAt = i + 1
		}
	}
	return nil
}

func keyedValue(seq *token.Sequence, i int, spec Spec) (string, error) {
	tok := seq.At(i)
	if tok.HasInline {
		return tok.Inline, nil
	}
	next := i + 1
	if next >= seq.Len() || seq.At(next).Kind == token.Terminator {
		return "", &MissingValueError{Option: tok.Value, ValueName: spec.ValueName}
	}
	seq.Consume(next)
	return seq.At(next).Value, nil
}
