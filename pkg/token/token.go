// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package token splits raw command-line input into an ordered, indexed
// sequence of tokens and assigns each token a role.
//
// Input comes either from a process argument list (FromArgs) or from a single
// free-form command string (FromString, FromStringStrict). Both produce the
// same flat token list: clustered short flags are expanded (-am becomes -a -m)
// and, for string input, double-quoted spans become a single token with the
// quotes removed.
//
// The first token is always the application name. Classify assigns the
// command name and option roles; everything else stays Unclassified until a
// binder consumes it.
package token

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Kind is the role assigned to a token.
type Kind int

const (
	// Unclassified tokens are positional value candidates.
	Unclassified Kind = iota
	AppName
	CommandName
	Option
	// Value marks a token consumed as a positional argument or as the
	// value of a keyed option.
	Value
	// Terminator is the "--" marker; tokens after it are never options.
	Terminator
)

func (k Kind) String() string {
	switch k {
	case Unclassified:
		return "unclassified"
	case AppName:
		return "app"
	case CommandName:
		return "command"
	case Option:
		return "option"
	case Value:
		return "value"
	case Terminator:
		return "terminator"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one classified unit of raw input.
type Token struct {
	Value string
	Index int
	Kind  Kind
	// Inline holds the value of an option written as --name=value.
	// HasInline distinguishes --name= (empty value) from --name.
	Inline    string
	HasInline bool
}

// Sequence is an owned, ordered list of tokens. Traversal is by index.
type Sequence struct {
	tokens []Token
}

type word struct {
	text   string
	quoted bool
}

// FromArgs tokenizes a process argument list. The first element is taken as
// the application name.
func FromArgs(args []string) *Sequence {
	words := make([]word, len(args))
	for i, a := range args {
		words[i] = word{text: a}
	}
	return build(words)
}

// FromString tokenizes a single command string. A double-quoted span is one
// token with the quotes removed; unquoted whitespace separates tokens.
//
// Unbalanced quotes are not an error: an unterminated quote and the text
// following it up to the next whitespace are kept as a literal token.
func FromString(line string) *Sequence {
	return build(splitLine(line))
}

// FromStringStrict tokenizes a command string with POSIX shell quoting rules
// (single quotes, double quotes and backslash escapes). Unlike FromString it
// rejects unterminated quotes.
func FromStringStrict(line string) (*Sequence, error) {
	parts, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("invalid command string: %w", err)
	}
	return FromArgs(parts), nil
}

func build(words []word) *Sequence {
	s := &Sequence{tokens: make([]Token, 0, len(words))}
	terminated := false
	for _, w := range words {
		// A quoted "--" still ends option processing, as Classify treats it.
		if w.text == "--" && !terminated {
			terminated = true
			s.add(Token{Value: w.text})
			continue
		}
		if terminated || w.quoted {
			s.add(Token{Value: w.text})
			continue
		}
		for _, t := range expand(w.text) {
			s.add(t)
		}
	}
	if len(s.tokens) > 0 {
		s.tokens[0].Kind = AppName
	}
	return s
}

func (s *Sequence) add(t Token) {
	t.Index = len(s.tokens)
	t.Kind = Unclassified
	s.tokens = append(s.tokens, t)
}

// expand splits a single argument into one or more tokens.
//
//   - --name=value and -n=value become one option token with an inline value
//   - -abc becomes -a -b -c
//   - negative numbers such as -10 or -3.5 are left alone
func expand(arg string) []Token {
	if strings.HasPrefix(arg, "--") && len(arg) > 2 {
		if idx := strings.Index(arg, "="); idx > 2 {
			return []Token{{Value: arg[:idx], Inline: arg[idx+1:], HasInline: true}}
		}
		return []Token{{Value: arg}}
	}
	if !strings.HasPrefix(arg, "-") || len(arg) <= 2 || isNumeric(arg) {
		return []Token{{Value: arg}}
	}
	if arg[2] == '=' {
		return []Token{{Value: arg[:2], Inline: arg[3:], HasInline: true}}
	}
	out := make([]Token, 0, len(arg)-1)
	for _, r := range arg[1:] {
		out = append(out, Token{Value: "-" + string(r)})
	}
	return out
}

func splitLine(line string) []word {
	var words []word
	i := 0
	for i < len(line) {
		c := line[i]
		if isSpace(c) {
			i++
			continue
		}
		if c == '"' {
			if end := strings.IndexByte(line[i+1:], '"'); end >= 0 {
				words = append(words, word{text: line[i+1 : i+1+end], quoted: true})
				i += end + 2
				continue
			}
			j := i + 1
			for j < len(line) && !isSpace(line[j]) {
				j++
			}
			words = append(words, word{text: line[i:j]})
			i = j
			continue
		}
		j := i
		for j < len(line) && !isSpace(line[j]) && line[j] != '"' {
			j++
		}
		words = append(words, word{text: line[i:j]})
		i = j
	}
	return words
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// isNumeric reports whether s is a number such as "10", "-10" or "-3.14".
func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	start := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		start = 1
	}
	hasDigit := false
	hasDot := false
	for i := start; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == '.':
			if hasDot {
				return false
			}
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit
}

// IsOption reports whether v looks like an option: it starts with a dash, is
// not the bare "-" and is not a negative number.
func IsOption(v string) bool {
	return len(v) > 1 && v[0] == '-' && v != "--" && !isNumeric(v)
}

// Classify walks the sequence once and assigns roles. The token right after
// the application name becomes the command name when hasCommands is set and
// it does not begin with a dash. Tokens that look like options become Option.
// After "--" every token stays Unclassified.
//
// Classify resets any earlier classification.
func (s *Sequence) Classify(hasCommands bool) {
	terminated := false
	for i := range s.tokens {
		t := &s.tokens[i]
		switch {
		case i == 0:
			t.Kind = AppName
		case terminated:
			t.Kind = Unclassified
		case t.Value == "--":
			t.Kind = Terminator
			terminated = true
		case i == 1 && hasCommands && !strings.HasPrefix(t.Value, "-"):
			t.Kind = CommandName
		case IsOption(t.Value):
			t.Kind = Option
		default:
			t.Kind = Unclassified
		}
	}
}

// Len returns the number of tokens.
func (s *Sequence) Len() int {
	return len(s.tokens)
}

// At returns a copy of the token at index i.
func (s *Sequence) At(i int) Token {
	return s.tokens[i]
}

// Tokens returns a copy of all tokens.
func (s *Sequence) Tokens() []Token {
	out := make([]Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Values returns the raw token values in order.
func (s *Sequence) Values() []string {
	out := make([]string, len(s.tokens))
	for i, t := range s.tokens {
		out[i] = t.Value
	}
	return out
}

// AppName returns the first token's value, or "" for an empty sequence.
func (s *Sequence) AppName() string {
	if len(s.tokens) == 0 {
		return ""
	}
	return s.tokens[0].Value
}

// CommandName returns the token classified as the command name, if any.
func (s *Sequence) CommandName() (Token, bool) {
	for _, t := range s.tokens {
		if t.Kind == CommandName {
			return t, true
		}
	}
	return Token{}, false
}

// Indices returns the indices of all tokens currently of the given kind.
func (s *Sequence) Indices(kind Kind) []int {
	var out []int
	for i, t := range s.tokens {
		if t.Kind == kind {
			out = append(out, i)
		}
	}
	return out
}

// Unclassified returns the indices of tokens not yet consumed or classified.
func (s *Sequence) Unclassified() []int {
	return s.Indices(Unclassified)
}

// Options returns the indices of tokens classified as options.
func (s *Sequence) Options() []int {
	return s.Indices(Option)
}

// Consume marks the token at index i as a consumed value.
func (s *Sequence) Consume(i int) {
	s.tokens[i].Kind = Value
}

// Splice replaces the token at index i with the tokens of repl. All tokens
// are re-indexed and reset to Unclassified except the application name; call
// Classify again afterwards.
func (s *Sequence) Splice(i int, repl *Sequence) {
	out := make([]Token, 0, len(s.tokens)-1+len(repl.tokens))
	out = append(out, s.tokens[:i]...)
	out = append(out, repl.tokens...)
	out = append(out, s.tokens[i+1:]...)
	for j := range out {
		out[j].Index = j
		out[j].Kind = Unclassified
	}
	if len(out) > 0 {
		out[0].Kind = AppName
	}
	s.tokens = out
}

// String renders the sequence for debug logging.
func (s *Sequence) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range s.tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%q:%s", t.Value, t.Kind)
		if t.HasInline {
			fmt.Fprintf(&b, "=%q", t.Inline)
		}
	}
	b.WriteByte(']')
	return b.String()
}
