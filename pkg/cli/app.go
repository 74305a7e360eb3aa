// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli dispatches a command line to one of an application's
// registered commands.
//
// An invocation runs through a fixed pipeline: tokenize, expand a configured
// alias, classify, resolve the command, bind options, bind positional
// arguments and finally execute. Any usage error along the way is reported
// together with the command's usage statement.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/yeetrun/argot/pkg/config"
	"github.com/yeetrun/argot/pkg/option"
	"github.com/yeetrun/argot/pkg/signature"
	"github.com/yeetrun/argot/pkg/token"
	"github.com/yeetrun/argot/pkg/tui"
	"github.com/yeetrun/argot/pkg/usage"
)

// Exit codes returned by Run and RunString.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

const (
	helpCommand    = "help"
	versionCommand = "version"
)

// UnknownCommandError is returned when the command name matches no
// registered command or alias.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Name)
}

// UsageError lets a command body report a usage problem. It is printed with
// the command's usage statement and exits with ExitUsage.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func UsageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// App is the explicit application context: the command registry, the
// built-in help and version commands, configuration and I/O.
type App struct {
	name        string
	description string
	version     string

	commands map[string]Command
	root     Command

	cfg       *config.Config
	colorMode string
	logger    *log.Logger
	customLog bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// AppOption configures an App.
type AppOption func(*App)

// WithVersion sets the application version and enables the version command
// and the -v/--version options. It panics if v is not a semantic version.
func WithVersion(v string) AppOption {
	if _, err := semver.NewVersion(v); err != nil {
		panic(fmt.Sprintf("invalid application version %q: %v", v, err))
	}
	return func(a *App) { a.version = v }
}

// WithSummary sets the one-line application description shown by help.
func WithSummary(desc string) AppOption {
	return func(a *App) { a.description = desc }
}

// WithRoot makes the application a single command. No command name is
// classified and every argument goes to cmd.
func WithRoot(cmd Command) AppOption {
	return func(a *App) { a.root = cmd }
}

// WithConfig applies a loaded configuration. A nil config is ignored.
func WithConfig(cfg *config.Config) AppOption {
	return func(a *App) {
		if cfg != nil {
			a.cfg = cfg
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) AppOption {
	return func(a *App) {
		a.logger = l
		a.customLog = true
	}
}

// WithColor overrides the configured color mode (auto, always or never).
func WithColor(mode string) AppOption {
	return func(a *App) { a.colorMode = mode }
}

// WithIO sets the streams handed to commands. Nil streams keep the default.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp returns an application named name. It panics when an option
// declares an invalid root command.
func NewApp(name string, opts ...AppOption) *App {
	a := &App{
		name:     name,
		commands: make(map[string]Command),
		cfg:      &config.Config{},
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, o := range opts {
		o(a)
	}
	if !a.customLog {
		if a.cfg.Debug {
			a.logger = log.New(a.stderr, "argot: ", 0)
		} else {
			a.logger = log.New(io.Discard, "", 0)
		}
	}
	if a.root != nil {
		a.validate(a.root)
		return a
	}
	a.Register(helpCmd(a))
	if a.version != "" {
		a.Register(versionCmd(a))
	}
	return a
}

func (a *App) Name() string    { return a.name }
func (a *App) Version() string { return a.version }

// Register adds a command. It panics when the name is empty, starts with a
// dash or is taken, when the signature is ambiguous or when the declared
// options conflict. Registering on a single-command application panics.
func (a *App) Register(cmds ...Command) {
	for _, cmd := range cmds {
		if a.root != nil {
			panic(fmt.Sprintf("cannot register %q on a single-command application", cmd.Name()))
		}
		name := cmd.Name()
		if name == "" || strings.HasPrefix(name, "-") || strings.ContainsAny(name, " \t") {
			panic(fmt.Sprintf("invalid command name %q", name))
		}
		if _, ok := a.commands[name]; ok {
			panic(fmt.Sprintf("command %q registered more than once", name))
		}
		a.validate(cmd)
		a.commands[name] = cmd
	}
}

func (a *App) validate(cmd Command) {
	cmd.Signature()
	cmd.DeclareOptions(option.NewSet(a.version != ""))
}

// Commands returns the registered commands sorted by name.
func (a *App) Commands() []Command {
	out := make([]Command, 0, len(a.commands))
	for _, c := range a.commands {
		out = append(out, c)
	}
	slices.SortFunc(out, func(x, y Command) int { return strings.Compare(x.Name(), y.Name()) })
	return out
}

func (a *App) lookup(name string) Command {
	if a.root != nil {
		return a.root
	}
	return a.commands[name]
}

// Run executes argv, whose first element is the program name, and returns
// the process exit code.
func (a *App) Run(ctx context.Context, argv []string) int {
	if len(argv) == 0 {
		argv = []string{a.name}
	}
	return a.exec(ctx, token.FromArgs(argv))
}

// RunString executes a single command string such as `hello "Jane Doe" -l`.
// The application name is prepended.
func (a *App) RunString(ctx context.Context, line string) int {
	seq, err := a.tokenize(`"` + a.name + `" ` + line)
	if err != nil {
		return a.report(nil, &UsageError{Msg: err.Error()})
	}
	return a.exec(ctx, seq)
}

func (a *App) tokenize(line string) (*token.Sequence, error) {
	if a.cfg.StrictQuotes {
		return token.FromStringStrict(line)
	}
	return token.FromString(line), nil
}

func (a *App) exec(ctx context.Context, seq *token.Sequence) int {
	cmd, err := a.dispatch(ctx, seq)
	return a.report(cmd, err)
}

func (a *App) dispatch(ctx context.Context, seq *token.Sequence) (Command, error) {
	seq.Classify(a.root == nil)
	if err := a.expandAlias(seq); err != nil {
		return nil, &UsageError{Msg: err.Error()}
	}
	a.logger.Printf("classified %s", seq)

	cmd, err := a.resolve(seq)
	if err != nil {
		return nil, err
	}
	a.logger.Printf("dispatching to %q", cmd.Name())

	set := option.NewSet(a.version != "")
	cmd.DeclareOptions(set)
	binder := option.Binder{Set: set, RejectDuplicates: a.cfg.RejectDuplicateOptions}
	opts, err := binder.Bind(seq)
	if err != nil {
		return cmd, err
	}
	params, err := cmd.Signature().BindSequence(seq)
	if err != nil {
		var arity *signature.ArityError
		if errors.As(err, &arity) {
			arity.Command = a.commandLabel(cmd)
		}
		return cmd, err
	}
	a.logger.Printf("bound params=%v options=%v", params, opts)

	inv := &Invocation{
		App:     a,
		Command: cmd.Name(),
		Args:    Arguments{Params: params, Options: opts},
		Stdin:   a.stdin,
		Stdout:  a.stdout,
		Stderr:  a.stderr,
	}
	return cmd, cmd.Execute(ctx, inv)
}

// expandAlias replaces a command name that matches a configured alias with
// the alias's tokens. Aliases do not expand recursively and never shadow a
// registered command.
func (a *App) expandAlias(seq *token.Sequence) error {
	tok, ok := seq.CommandName()
	if !ok {
		return nil
	}
	if _, registered := a.commands[tok.Value]; registered {
		return nil
	}
	expansion, ok := a.cfg.Aliases[tok.Value]
	if !ok {
		return nil
	}
	repl, err := a.tokenize(expansion)
	if err != nil {
		return fmt.Errorf("alias %s: %w", tok.Value, err)
	}
	a.logger.Printf("alias %q expands to %q", tok.Value, expansion)
	seq.Splice(tok.Index, repl)
	seq.Classify(true)
	return nil
}

func (a *App) resolve(seq *token.Sequence) (Command, error) {
	if a.root != nil {
		return a.root, nil
	}
	tok, ok := seq.CommandName()
	if !ok {
		return a.commands[helpCommand], nil
	}
	cmd, ok := a.commands[tok.Value]
	if !ok {
		return nil, &UnknownCommandError{Name: tok.Value}
	}
	return cmd, nil
}

func (a *App) report(cmd Command, err error) int {
	if err == nil {
		return ExitOK
	}
	switch {
	case errors.Is(err, option.ErrHelp):
		if cmd == nil || (a.root == nil && cmd.Name() == helpCommand) {
			fmt.Fprint(a.stdout, a.commandList())
		} else {
			fmt.Fprint(a.stdout, a.helpFor(cmd))
		}
		return ExitOK
	case errors.Is(err, option.ErrVersion):
		a.printVersion(a.stdout)
		return ExitOK
	}

	a.printError(err)
	var unknown *UnknownCommandError
	switch {
	case errors.As(err, &unknown):
		fmt.Fprintln(a.stderr)
		fmt.Fprint(a.stderr, a.commandList())
		return ExitUsage
	case isUsageError(err):
		// Errors raised before a command resolves show the command list.
		if cmd == nil && a.root != nil {
			cmd = a.root
		}
		fmt.Fprintln(a.stderr)
		fmt.Fprint(a.stderr, a.usageFor(cmd))
		return ExitUsage
	}
	return ExitFailure
}

func isUsageError(err error) bool {
	var (
		arity     *signature.ArityError
		unknown   *option.UnknownOptionError
		missing   *option.MissingValueError
		value     *option.ValueError
		duplicate *option.DuplicateOptionError
		usageErr  *UsageError
	)
	return errors.As(err, &arity) ||
		errors.As(err, &unknown) ||
		errors.As(err, &missing) ||
		errors.As(err, &value) ||
		errors.As(err, &duplicate) ||
		errors.As(err, &usageErr)
}

func (a *App) printError(err error) {
	c := tui.NewColorizer(a.color(), a.stderr)
	fmt.Fprintf(a.stderr, "%s %v\n", c.Red("Error:"), err)
}

func (a *App) color() string {
	if a.colorMode != "" {
		return a.colorMode
	}
	return a.cfg.Color
}

func (a *App) printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s version %s\n", a.name, a.version)
}

func (a *App) commandLabel(cmd Command) string {
	if a.root != nil {
		return a.name
	}
	return cmd.Name()
}

// usageFor renders the usage statement of cmd.
func (a *App) usageFor(cmd Command) string {
	if cmd == nil {
		return a.commandList()
	}
	set := option.NewSet(a.version != "")
	cmd.DeclareOptions(set)
	name := cmd.Name()
	if a.root != nil {
		name = ""
	}
	return usage.Render(a.name, name, cmd.Signature(), set.Specs(), a.version != "")
}

// helpFor renders the description and usage of cmd.
func (a *App) helpFor(cmd Command) string {
	desc := cmd.Description()
	if a.root != nil && desc == "" {
		desc = a.description
	}
	if desc == "" {
		return a.usageFor(cmd)
	}
	return desc + "\n\n" + a.usageFor(cmd)
}

func (a *App) commandList() string {
	entries := make([]usage.Entry, 0, len(a.commands)+len(a.cfg.Aliases))
	for _, c := range a.Commands() {
		entries = append(entries, usage.Entry{Name: c.Name(), Description: c.Description()})
	}
	for _, name := range a.cfg.AliasNames() {
		if _, shadowed := a.commands[name]; shadowed {
			continue
		}
		entries = append(entries, usage.Entry{Name: name, Description: fmt.Sprintf("Alias for %q", a.cfg.Aliases[name])})
	}
	return usage.RenderCommands(a.name, a.description, entries)
}
