// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/argot/pkg/cli"
	"github.com/yeetrun/argot/pkg/cmdutil"
	"github.com/yeetrun/argot/pkg/config"
	"github.com/yeetrun/argot/pkg/fileutil"
	"github.com/yeetrun/argot/pkg/option"
)

func newApp(loc *config.Location, opts ...cli.AppOption) *cli.App {
	opts = append([]cli.AppOption{
		cli.WithVersion(appVersion),
		cli.WithSummary("Order, eat and bake pastries"),
		cli.WithConfig(loc.Config),
	}, opts...)
	app := cli.NewApp(appName, opts...)
	app.Register(
		helloCmd(),
		orderCmd,
		eatCmd(),
		touchCmd(),
		recipeCmd,
		aliasCmd(app, loc),
		shellCmd(app),
	)
	return app
}

func helloCmd() cli.Command {
	return cli.Build("hello").
		Describe("Greet someone").
		Signature("<name> [<greeting>]").
		Flag("-l, --loudly", "Say it loudly", nil).
		Keyed("-n, --number-of-times", "times", "Repeat the greeting", func(v string) error {
			_, err := parseTimes(v)
			return err
		}).
		Run(hello)
}

func parseTimes(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, errors.New("must be a positive integer")
	}
	return n, nil
}

func hello(ctx context.Context, inv *cli.Invocation) error {
	greeting := "Hello"
	if inv.Args.Has("greeting") {
		greeting = inv.Args.Param("greeting")
	}
	msg := fmt.Sprintf("%s, %s!", greeting, inv.Args.Param("name"))
	if inv.Args.Flag("loudly") {
		msg = strings.ToUpper(msg)
	}
	times := 1
	if v, ok := inv.Args.Value("number-of-times"); ok {
		times, _ = parseTimes(v)
	}
	for range times {
		fmt.Fprintln(inv.Stdout, msg)
	}
	return nil
}

var orderCmd = cli.Func{
	Cmd:    "order",
	Desc:   "Order food and an optional drink",
	Params: "<food> [<drink>]",
	Run: func(ctx context.Context, inv *cli.Invocation) error {
		food := inv.Args.Param("food")
		if drink := inv.Args.Param("drink"); drink != "" {
			fmt.Fprintf(inv.Stdout, "One %s and a %s coming right up.\n", food, drink)
			return nil
		}
		fmt.Fprintf(inv.Stdout, "One %s coming right up.\n", food)
		return nil
	},
}

func eatCmd() cli.Command {
	return cli.New("eat", "<food> ...", func(ctx context.Context, inv *cli.Invocation) error {
		fmt.Fprintf(inv.Stdout, "Eating %s.\n", joinList(inv.Args.Variadic("food")))
		return nil
	}, cli.WithDescription("Eat one or more foods"))
}

// joinList renders a, b and c.
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func touchCmd() cli.Command {
	return cli.Build("touch").
		Describe("Create empty files").
		Signature("<file> ...").
		Flag("-f, --force", "Replace existing files", nil).
		Keyed("-m, --mode", "perm", "Octal permissions (default 644)", func(v string) error {
			_, err := fileutil.ParseMode(v)
			return err
		}).
		Run(func(ctx context.Context, inv *cli.Invocation) error {
			mode := fileutil.DefaultMode
			if v, ok := inv.Args.Value("mode"); ok {
				mode, _ = fileutil.ParseMode(v)
			}
			force := inv.Args.Flag("force")
			c := inv.Colorizer(inv.Stdout)
			for _, f := range inv.Args.Variadic("file") {
				if err := fileutil.Touch(f, mode, force); err != nil {
					return err
				}
				fmt.Fprintf(inv.Stdout, "%s %s\n", c.Green("created"), f)
			}
			return nil
		})
}

var pantry = []string{"flour", "butter", "sugar", "eggs", "milk", "yeast"}

type recipe struct {
	Name        string   `toml:"name"`
	Ingredients []string `toml:"ingredients"`
	Secret      string   `toml:"secret,omitempty"`
}

var recipeCmd = cli.Func{
	Cmd:    "recipe",
	Desc:   "Build a recipe interactively",
	Params: "[<name>]",
	Options: func(s *option.Set) {
		s.Keyed("-o, --output", "file", "Save the recipe as TOML", nil)
		s.Flag("-f, --force", "Overwrite the output file", nil)
	},
	Run: func(ctx context.Context, inv *cli.Invocation) error {
		r := recipe{Name: inv.Args.Param("name")}
		if r.Name == "" {
			name, err := cmdutil.Ask(inv.Stdin, inv.Stdout, "Recipe name", "croissant")
			if err != nil {
				return err
			}
			r.Name = name
		}

		for {
			ing, err := cmdutil.Choose(inv.Stdin, inv.Stdout, "Add an ingredient", append(slices.Clone(pantry), "done"))
			if err != nil {
				return err
			}
			if ing == "done" {
				break
			}
			r.Ingredients = append(r.Ingredients, ing)
		}
		if len(r.Ingredients) == 0 {
			return cli.UsageErrorf("a recipe needs at least one ingredient")
		}

		secret, err := cmdutil.Confirm(inv.Stdin, inv.Stdout, "Add a secret ingredient?")
		if err != nil {
			return err
		}
		if secret {
			if r.Secret, err = cmdutil.Secret(inv.Stdin, inv.Stdout, "Secret ingredient"); err != nil {
				return err
			}
		}

		fmt.Fprintf(inv.Stdout, "%s: %s\n", r.Name, joinList(r.Ingredients))
		out, ok := inv.Args.Value("output")
		if !ok {
			return nil
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(r); err != nil {
			return err
		}
		if err := fileutil.WriteFile(out, buf.Bytes(), 0, inv.Args.Flag("force")); err != nil {
			return err
		}
		fmt.Fprintf(inv.Stdout, "%s %s\n", inv.Colorizer(inv.Stdout).Green("saved"), out)
		return nil
	},
}

func aliasCmd(app *cli.App, loc *config.Location) cli.Command {
	return cli.New("alias", "[<name>] [<expansion>] ...", func(ctx context.Context, inv *cli.Invocation) error {
		cfg := loc.Config
		if !inv.Args.Has("name") {
			for _, name := range cfg.AliasNames() {
				fmt.Fprintf(inv.Stdout, "%s = %q\n", name, cfg.Aliases[name])
			}
			return nil
		}
		name := inv.Args.Param("name")
		words := inv.Args.Variadic("expansion")
		if len(words) == 0 {
			return cli.UsageErrorf("alias %s needs an expansion", name)
		}
		for _, c := range app.Commands() {
			if c.Name() == name {
				return cli.UsageErrorf("%s is already a command", name)
			}
		}
		updated := *cfg
		updated.Aliases = make(map[string]string, len(cfg.Aliases)+1)
		for k, v := range cfg.Aliases {
			updated.Aliases[k] = v
		}
		updated.Aliases[name] = strings.Join(words, " ")
		if err := config.Save(loc.Path, &updated); err != nil {
			return err
		}
		*cfg = updated
		fmt.Fprintf(inv.Stdout, "%s alias %s to %s\n", inv.Colorizer(inv.Stdout).Green("saved"), name, loc.Path)
		return nil
	}, cli.WithDescription("List aliases or save one to the config file"))
}

func shellCmd(app *cli.App) cli.Command {
	return cli.New("shell", "", func(ctx context.Context, inv *cli.Invocation) error {
		c := inv.Colorizer(inv.Stderr)
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			fmt.Fprintf(inv.Stdout, "%s> ", appName)
			// Unbuffered so commands such as recipe can prompt on the same
			// input.
			line, err := cmdutil.ReadLine(inv.Stdin)
			if errors.Is(err, cmdutil.ErrNoInput) {
				fmt.Fprintln(inv.Stdout)
				return nil
			}
			if err != nil {
				return err
			}
			line = strings.TrimSpace(line)
			switch first, _, _ := strings.Cut(line, " "); first {
			case "":
				continue
			case "exit", "quit":
				return nil
			case "shell":
				fmt.Fprintln(inv.Stderr, c.Yellow("already in a shell"))
				continue
			}
			if code := app.RunString(ctx, line); code != cli.ExitOK {
				fmt.Fprintln(inv.Stderr, c.Dim(fmt.Sprintf("exit status %d", code)))
			}
		}
	}, cli.WithDescription("Run commands read from standard input"))
}
