// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"io"

	"github.com/yeetrun/argot/pkg/option"
	"github.com/yeetrun/argot/pkg/signature"
	"github.com/yeetrun/argot/pkg/tui"
)

// Command is a named operation an App dispatches to.
//
// DeclareOptions is called on a fresh option set for every invocation, before
// any option is bound. Execute runs only after both options and positional
// arguments bound successfully.
type Command interface {
	Name() string
	Description() string
	Signature() signature.Signature
	DeclareOptions(*option.Set)
	Execute(context.Context, *Invocation) error
}

// RunFunc is the body of a command built with Func, Build or New.
type RunFunc func(ctx context.Context, inv *Invocation) error

// Arguments are the bound results of one invocation.
type Arguments struct {
	// Params maps parameter names to a string, or a []string for the
	// variadic parameter.
	Params map[string]any
	// Options maps option names to true for flags or the value string for
	// keyed options. Options not given are absent.
	Options map[string]any
}

// Param returns a single-valued parameter, or "" when it was not supplied.
func (a Arguments) Param(name string) string {
	s, _ := a.Params[name].(string)
	return s
}

// Variadic returns the values bound to the variadic parameter.
func (a Arguments) Variadic(name string) []string {
	s, _ := a.Params[name].([]string)
	return s
}

// Has reports whether the parameter was supplied.
func (a Arguments) Has(name string) bool {
	_, ok := a.Params[name]
	return ok
}

// Flag reports whether the flag option was given.
func (a Arguments) Flag(name string) bool {
	b, _ := a.Options[name].(bool)
	return b
}

// Value returns the value of a keyed option.
func (a Arguments) Value(name string) (string, bool) {
	s, ok := a.Options[name].(string)
	return s, ok
}

// Invocation is what a command body receives.
type Invocation struct {
	App     *App
	Command string
	Args    Arguments

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Usage renders the usage statement of the invoked command.
func (inv *Invocation) Usage() string {
	return inv.App.usageFor(inv.App.lookup(inv.Command))
}

// Colorizer returns the color decision for output written to w, following the
// application's configured color mode.
func (inv *Invocation) Colorizer(w io.Writer) tui.Colorizer {
	return tui.NewColorizer(inv.App.color(), w)
}

// Func is a Command declared as a struct literal:
//
//	cli.Func{
//		Cmd:    "order",
//		Desc:   "Order food and an optional drink",
//		Params: "<food> [<drink>]",
//		Run:    order,
//	}
type Func struct {
	Cmd     string
	Desc    string
	Params  string
	Options func(*option.Set)
	Run     RunFunc
}

func (f Func) Name() string        { return f.Cmd }
func (f Func) Description() string { return f.Desc }

// Signature parses Params. It panics on an ambiguous signature, which App
// surfaces at registration.
func (f Func) Signature() signature.Signature { return signature.MustParse(f.Params) }

func (f Func) DeclareOptions(s *option.Set) {
	if f.Options != nil {
		f.Options(s)
	}
}

func (f Func) Execute(ctx context.Context, inv *Invocation) error {
	if f.Run == nil {
		return nil
	}
	return f.Run(ctx, inv)
}

// command is the Command produced by Builder and New.
type command struct {
	name string
	desc string
	sig  signature.Signature
	opts []option.Spec
	run  RunFunc
}

func (c *command) Name() string                   { return c.name }
func (c *command) Description() string            { return c.desc }
func (c *command) Signature() signature.Signature { return c.sig }

func (c *command) Execute(ctx context.Context, inv *Invocation) error {
	if c.run == nil {
		return nil
	}
	return c.run(ctx, inv)
}

func (c *command) DeclareOptions(s *option.Set) {
	for _, o := range c.opts {
		s.Add(o)
	}
}

// Builder declares a Command by chaining:
//
//	cli.Build("eat").
//		Describe("Eat some food").
//		Signature("<food> ...").
//		Flag("-q, --quietly", "Eat quietly", nil).
//		Run(eat)
type Builder struct {
	c command
}

func Build(name string) *Builder {
	return &Builder{c: command{name: name}}
}

func (b *Builder) Describe(desc string) *Builder {
	b.c.desc = desc
	return b
}

// Signature sets the positional parameters. It panics on an ambiguous
// signature.
func (b *Builder) Signature(text string) *Builder {
	b.c.sig = signature.MustParse(text)
	return b
}

func (b *Builder) Flag(aliases, usage string, fn func()) *Builder {
	b.c.opts = append(b.c.opts, option.Spec{Aliases: option.SplitAliases(aliases), Kind: option.Flag, Usage: usage, OnFlag: fn})
	return b
}

func (b *Builder) Keyed(aliases, valueName, usage string, fn func(string) error) *Builder {
	b.c.opts = append(b.c.opts, option.Spec{Aliases: option.SplitAliases(aliases), Kind: option.Keyed, ValueName: valueName, Usage: usage, OnValue: fn})
	return b
}

// Run sets the body and returns the finished command.
func (b *Builder) Run(fn RunFunc) Command {
	c := b.c
	c.opts = append([]option.Spec(nil), b.c.opts...)
	c.run = fn
	return &c
}

// CommandOption configures a command built with New.
type CommandOption func(*command)

func WithDescription(desc string) CommandOption {
	return func(c *command) { c.desc = desc }
}

func WithFlag(aliases, usage string, fn func()) CommandOption {
	return func(c *command) {
		c.opts = append(c.opts, option.Spec{Aliases: option.SplitAliases(aliases), Kind: option.Flag, Usage: usage, OnFlag: fn})
	}
}

func WithKeyed(aliases, valueName, usage string, fn func(string) error) CommandOption {
	return func(c *command) {
		c.opts = append(c.opts, option.Spec{Aliases: option.SplitAliases(aliases), Kind: option.Keyed, ValueName: valueName, Usage: usage, OnValue: fn})
	}
}

// New declares a Command from a name, a textual signature and a body. It
// panics on an ambiguous signature.
func New(name, sig string, fn RunFunc, opts ...CommandOption) Command {
	c := &command{name: name, sig: signature.MustParse(sig), run: fn}
	for _, o := range opts {
		o(c)
	}
	return c
}
