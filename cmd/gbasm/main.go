// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/term"
	"github.com/urfave/cli"

	"github.com/mkeller/gbasm/asm"
	"github.com/mkeller/gbasm/config"
	"github.com/mkeller/gbasm/disasm"
	"github.com/mkeller/gbasm/monitor"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbasm"
	app.Usage = "S-expression assembler for the SM83 (Game Boy) CPU"
	app.Commands = []cli.Command{
		{
			Name:      "assemble",
			Usage:     "Assemble a source file",
			ArgsUsage: "<file>",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "flat",
					Usage: "produce a flat ROM image",
				},
				cli.StringFlag{
					Name:  "out",
					Usage: "output `PATH` (defaults to a.out)",
				},
				cli.BoolFlag{
					Name:  "verbose",
					Usage: "log assembly progress",
				},
			},
			Action: assembleCmd,
		},
		{
			Name:  "disassemble",
			Usage: "Disassemble a binary",
			Subcommands: []cli.Command{
				{
					Name:      "gb",
					Usage:     "Disassemble an SM83 flat binary; provide '-' to read from standard input",
					ArgsUsage: "<file-or-dash>",
					Action:    disassembleGBCmd,
				},
			},
		},
		{
			Name:  "link",
			Usage: "Link object files (reserved)",
			Subcommands: []cli.Command{
				{
					Name:      "gb",
					Usage:     "Link SM83 object files",
					ArgsUsage: "<files...>",
					Action: func(c *cli.Context) error {
						return errors.New("linking currently not supported")
					},
				},
			},
		},
		{
			Name:   "monitor",
			Usage:  "Start the interactive monitor",
			Action: monitorCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func assembleCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("assemble needs exactly one source file")
	}
	if !c.Bool("flat") {
		return errors.New("object file assembly currently not supported")
	}

	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		return err
	}
	out := c.String("out")
	if out == "" {
		out = cfg.Assembler.Out
	}

	opts := asm.Options{
		StdlibRoot: cfg.Assembler.StdlibRoot,
		Verbose:    c.Bool("verbose") || cfg.Assembler.Verbose,
		Log:        os.Stdout,
	}
	result, err := asm.AssembleFile(c.Args().First(), opts)
	if err != nil {
		return err
	}

	data, err := result.Flat()
	if err != nil {
		return err
	}
	return os.WriteFile(out, data, 0644)
}

func disassembleGBCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("disassemble gb needs exactly one input file")
	}

	data, err := readAll(c.Args().First())
	if err != nil {
		return err
	}
	lines, err := disasm.Disassemble(data)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

func monitorCmd(c *cli.Context) error {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		return err
	}

	// Only prompt when standard input is an actual terminal, so that
	// piped command scripts run clean.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	m := monitor.New(cfg)
	m.RunCommands(os.Stdin, os.Stdout, interactive)
	return nil
}

func readAll(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}
