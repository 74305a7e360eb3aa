// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package signature declares a command's positional parameters and binds
// positional tokens to them.
//
// A signature is written as a sequence of segments:
//
//	<name>      required parameter
//	[<name>]    optional parameter
//	...         marks the preceding parameter variadic
//
// For example "<food> [<drink>]" or "<file> ...". Required parameters must
// precede optional ones and only the last parameter may be variadic.
package signature

import (
	"fmt"
	"strings"

	"github.com/yeetrun/argot/pkg/token"
)

// Param is one signature segment.
type Param struct {
	Name     string
	Required bool
	Variadic bool
}

// Signature is an ordered list of parameters.
type Signature struct {
	params []Param
}

// AmbiguousSignatureError is returned when a declared signature cannot be
// matched unambiguously. It is a programming error in the command
// declaration.
type AmbiguousSignatureError struct {
	Signature string
	Reason    string
}

func (e *AmbiguousSignatureError) Error() string {
	return fmt.Sprintf("ambiguous signature %q: %s", e.Signature, e.Reason)
}

// ArityError is returned when too few or too many positional arguments are
// supplied.
type ArityError struct {
	Command  string // empty when unknown
	Expected string // "2", "at least 1", "at most 2"
	Got      int
}

func (e *ArityError) Error() string {
	msg := fmt.Sprintf("wrong number of arguments: expected %s, got %d", e.Expected, e.Got)
	if e.Command != "" {
		return fmt.Sprintf("%s: %s", e.Command, msg)
	}
	return msg
}

// Parse parses the textual signature form.
func Parse(text string) (Signature, error) {
	var sig Signature
	seen := make(map[string]bool)
	ambiguous := func(format string, args ...any) (Signature, error) {
		return Signature{}, &AmbiguousSignatureError{Signature: text, Reason: fmt.Sprintf(format, args...)}
	}

	for _, field := range strings.Fields(text) {
		variadic := false
		if field != "..." && strings.HasSuffix(field, "...") {
			field = strings.TrimSuffix(field, "...")
			variadic = true
		}
		if field == "..." {
			if len(sig.params) == 0 {
				return ambiguous("variadic marker without a preceding parameter")
			}
			last := &sig.params[len(sig.params)-1]
			if last.Variadic {
				return ambiguous("more than one variadic marker")
			}
			last.Variadic = true
			continue
		}
		if len(sig.params) > 0 && sig.params[len(sig.params)-1].Variadic {
			if variadic {
				return ambiguous("more than one variadic marker")
			}
			return ambiguous("variadic parameter %q must be last", sig.params[len(sig.params)-1].Name)
		}

		p, ok := parseSegment(field)
		if !ok {
			return ambiguous("malformed segment %q", field)
		}
		if seen[p.Name] {
			return ambiguous("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true
		if p.Required && len(sig.params) > 0 && !sig.params[len(sig.params)-1].Required {
			return ambiguous("required parameter %q follows an optional parameter", p.Name)
		}
		p.Variadic = variadic
		sig.params = append(sig.params, p)
	}
	return sig, nil
}

// MustParse is like Parse but panics on error. It is intended for command
// declarations.
func MustParse(text string) Signature {
	sig, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return sig
}

func parseSegment(s string) (Param, bool) {
	required := true
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		required = false
		s = s[1 : len(s)-1]
	}
	if !strings.HasPrefix(s, "<") || !strings.HasSuffix(s, ">") || len(s) < 3 {
		return Param{}, false
	}
	name := s[1 : len(s)-1]
	if strings.ContainsAny(name, "<>[] ") {
		return Param{}, false
	}
	return Param{Name: name, Required: required}, true
}

// Params returns a copy of the parameter list.
func (s Signature) Params() []Param {
	out := make([]Param, len(s.params))
	copy(out, s.params)
	return out
}

// IsEmpty reports whether the signature declares no parameters.
func (s Signature) IsEmpty() bool {
	return len(s.params) == 0
}

// String renders the canonical textual form.
func (s Signature) String() string {
	parts := make([]string, 0, len(s.params)+1)
	for _, p := range s.params {
		if p.Required {
			parts = append(parts, "<"+p.Name+">")
		} else {
			parts = append(parts, "[<"+p.Name+">]")
		}
		if p.Variadic {
			parts = append(parts, "...")
		}
	}
	return strings.Join(parts, " ")
}

func (s Signature) counts() (required, optional int, variadic bool) {
	for _, p := range s.params {
		if p.Required {
			required++
		} else {
			optional++
		}
		if p.Variadic {
			variadic = true
		}
	}
	return required, optional, variadic
}

// Bind assigns positional values to parameter names. Values for a variadic
// parameter are bound as a []string, all others as a string. An optional
// parameter without a value is absent from the result, except an optional
// variadic parameter which is bound to an empty slice.
func (s Signature) Bind(values []string) (map[string]any, error) {
	required, optional, variadic := s.counts()
	got := len(values)
	if got < required {
		expected := fmt.Sprint(required)
		if optional > 0 || variadic {
			expected = "at least " + expected
		}
		return nil, &ArityError{Expected: expected, Got: got}
	}
	if !variadic && got > required+optional {
		expected := fmt.Sprint(required + optional)
		if optional > 0 {
			expected = "at most " + expected
		}
		return nil, &ArityError{Expected: expected, Got: got}
	}

	bound := make(map[string]any, len(s.params))
	next := 0
	for _, p := range s.params {
		if p.Variadic {
			rest := make([]string, len(values)-next)
			copy(rest, values[next:])
			bound[p.Name] = rest
			next = len(values)
			break
		}
		if next >= len(values) {
			continue
		}
		bound[p.Name] = values[next]
		next++
	}
	return bound, nil
}

// BindSequence binds the sequence's unclassified tokens and marks them
// consumed. Nothing is consumed when binding fails.
func (s Signature) BindSequence(seq *token.Sequence) (map[string]any, error) {
	idx := seq.Unclassified()
	values := make([]string, len(idx))
	for i, j := range idx {
		values[i] = seq.At(j).Value
	}
	bound, err := s.Bind(values)
	if err != nil {
		return nil, err
	}
	for _, j := range idx {
		seq.Consume(j)
	}
	return bound, nil
}
