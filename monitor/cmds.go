// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree("gbasm")
	root.AddCommand(cmd.Command{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Monitor).cmdHelp,
	})
	root.AddCommand(cmd.Command{
		Name:  "assemble",
		Brief: "Assemble a source file",
		Description: "Run the assembler on the specified file. The result" +
			" stays loaded for inspection with the sections, labels, dump and" +
			" disassemble commands. If an output filename is given, the flat" +
			" image is written to it as well.",
		Usage: "assemble <filename> [<outfile>]",
		Data:  (*Monitor).cmdAssemble,
	})
	root.AddCommand(cmd.Command{
		Name:  "disassemble",
		Brief: "Disassemble an assembled section",
		Description: "Disassemble the bytes emitted into a section of the" +
			" most recently assembled file.",
		Usage: "disassemble <section>",
		Data:  (*Monitor).cmdDisassemble,
	})
	root.AddCommand(cmd.Command{
		Name:        "sections",
		Brief:       "List assembled sections",
		Description: "List the sections of the most recently assembled file.",
		Usage:       "sections",
		Data:        (*Monitor).cmdSections,
	})
	root.AddCommand(cmd.Command{
		Name:        "labels",
		Brief:       "List assembled labels",
		Description: "List the labels of the most recently assembled file and their addresses.",
		Usage:       "labels",
		Data:        (*Monitor).cmdLabels,
	})
	root.AddCommand(cmd.Command{
		Name:  "dump",
		Brief: "Dump a section's bytes",
		Description: "Dump the bytes emitted into a section of the most" +
			" recently assembled file.",
		Usage: "dump <section>",
		Data:  (*Monitor).cmdDump,
	})
	root.AddCommand(cmd.Command{
		Name:  "evaluate",
		Brief: "Evaluate an address expression",
		Description: "Evaluate an address arithmetic expression against the" +
			" labels of the most recently assembled file. Example:" +
			" evaluate (- 'end 'start)",
		Usage: "evaluate <expression>",
		Data:  (*Monitor).cmdEvaluate,
	})
	root.AddCommand(cmd.Command{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  (*Monitor).cmdSet,
	})
	root.AddCommand(cmd.Command{
		Name:        "quit",
		Brief:       "Quit the monitor",
		Description: "Quit the monitor.",
		Usage:       "quit",
		Data:        (*Monitor).cmdQuit,
	})

	// Command shortcuts.
	root.AddShortcut("a", "assemble")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("e", "evaluate")
	root.AddShortcut("l", "labels")
	root.AddShortcut("m", "dump")
	root.AddShortcut("s", "sections")
	root.AddShortcut("q", "quit")
	root.AddShortcut("?", "help")

	cmds = root
}
