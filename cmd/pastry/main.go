// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pastry is a small bakery front end built on the argot packages.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/shayne/yargs"
	"github.com/yeetrun/argot/pkg/cli"
	"github.com/yeetrun/argot/pkg/config"
)

const (
	appName    = "pastry"
	appVersion = "1.0.0"
)

type globalFlagsParsed struct {
	Config  string `flag:"config" help:"Path to an argot.toml or argot.yaml file"`
	NoColor bool   `flag:"no-color" help:"Disable colored output"`
	Debug   bool   `flag:"debug" help:"Log how arguments are parsed"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

// loadConfig loads the file named by path, or the nearest config file above
// the working directory when path is empty. The returned location always
// has a path so that commands can save to it.
func loadConfig(path string) (*config.Location, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return &config.Location{Path: path, Config: &config.Config{}}, nil
			}
			return nil, err
		}
		return &config.Location{Path: path, Config: cfg}, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	loc, err := config.LoadFromDir(cwd)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = &config.Location{Path: filepath.Join(cwd, config.Names[0]), Config: &config.Config{}}
	}
	return loc, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitUsage
	}
	loc, err := loadConfig(flags.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}
	if flags.Debug {
		cfg := *loc.Config
		cfg.Debug = true
		loc.Config = &cfg
	}

	opts := []cli.AppOption{cli.WithIO(stdin, stdout, stderr)}
	if flags.NoColor {
		opts = append(opts, cli.WithColor(config.ColorNever))
	}
	app := newApp(loc, opts...)
	return app.Run(ctx, append([]string{appName}, remaining...))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
