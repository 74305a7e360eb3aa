// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
)

func helpCmd(a *App) Command {
	return Func{
		Cmd:    helpCommand,
		Desc:   "Show help for the application or a command",
		Params: "[<command>]",
		Run: func(ctx context.Context, inv *Invocation) error {
			if !inv.Args.Has("command") {
				fmt.Fprint(inv.Stdout, a.commandList())
				return nil
			}
			name := inv.Args.Param("command")
			if cmd, ok := a.commands[name]; ok {
				fmt.Fprint(inv.Stdout, a.helpFor(cmd))
				return nil
			}
			if expansion, ok := a.cfg.Aliases[name]; ok {
				fmt.Fprintf(inv.Stdout, "%s is an alias for %q\n", name, expansion)
				return nil
			}
			return &UnknownCommandError{Name: name}
		},
	}
}

func versionCmd(a *App) Command {
	return Func{
		Cmd:  versionCommand,
		Desc: "Show the application version",
		Run: func(ctx context.Context, inv *Invocation) error {
			a.printVersion(inv.Stdout)
			return nil
		},
	}
}
