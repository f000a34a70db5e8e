// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package monitor provides an interactive shell over the assembler.
// Within the monitor it is possible to assemble source files, inspect
// the resulting sections and labels, dump and disassemble section
// bytes, and evaluate address arithmetic expressions.
package monitor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/cmd"

	"github.com/mkeller/gbasm"
	"github.com/mkeller/gbasm/asm"
	"github.com/mkeller/gbasm/config"
	"github.com/mkeller/gbasm/disasm"
)

// A Monitor runs the interactive assembler shell.
type Monitor struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	lastCmd     *cmd.Selection
	settings    *settings
	result      *asm.Result
}

// New creates a monitor seeded from the tool configuration.
func New(cfg *config.Config) *Monitor {
	return &Monitor{
		settings: newSettings(cfg),
	}
}

// RunCommands accepts monitor commands from a reader and writes the
// results to a writer. When interactive, a prompt is displayed while
// the monitor waits for the next command.
func (m *Monitor) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	m.input = bufio.NewScanner(r)
	m.output = bufio.NewWriter(w)
	m.interactive = interactive

	if m.interactive {
		m.println("gbasm monitor. Type 'help' for a list of commands.")
	}

	for {
		m.prompt()

		line, err := m.getLine()
		if err != nil {
			break
		}
		if err := m.processCommand(line); err != nil {
			break
		}
	}
	m.flush()
}

func (m *Monitor) processCommand(line string) error {
	var c cmd.Selection
	if line != "" {
		var err error
		c, err = cmds.Lookup(line)
		switch {
		case err == cmd.ErrNotFound:
			m.println("Command not found.")
			return nil
		case err == cmd.ErrAmbiguous:
			m.println("Command is ambiguous.")
			return nil
		case err != nil:
			m.printf("ERROR: %v.\n", err)
			return nil
		}
	} else if m.lastCmd != nil {
		c = *m.lastCmd
	}

	if c.Command == nil {
		return nil
	}
	if c.Command.Data == nil && c.Command.Subtree != nil {
		m.displayCommands(c.Command.Subtree)
		return nil
	}

	m.lastCmd = &c

	handler := c.Command.Data.(func(*Monitor, cmd.Selection) error)
	return handler(m, c)
}

//
// commands
//

func (m *Monitor) cmdHelp(c cmd.Selection) error {
	switch {
	case len(c.Args) == 0:
		m.displayCommands(cmds)
	default:
		s, err := cmds.Lookup(strings.Join(c.Args, " "))
		if err != nil {
			m.printf("%v\n", err)
			return nil
		}
		if s.Command.Usage != "" {
			m.printf("Usage: %s\n\n", s.Command.Usage)
		}
		switch {
		case s.Command.Description != "":
			m.printf("%s\n\n", s.Command.Description)
		case s.Command.Brief != "":
			m.printf("%s.\n\n", s.Command.Brief)
		}
	}
	return nil
}

func (m *Monitor) cmdAssemble(c cmd.Selection) error {
	if len(c.Args) < 1 {
		m.displayUsage(c.Command)
		return nil
	}

	opts := asm.Options{
		StdlibRoot: m.settings.StdlibRoot,
		Verbose:    m.settings.Verbose,
		Log:        m.output,
	}
	result, err := asm.AssembleFile(c.Args[0], opts)
	if err != nil {
		m.printf("Assembly failed: %v\n", err)
		return nil
	}
	m.result = result
	m.printf("Assembled %s: %d section(s), %d label(s).\n",
		c.Args[0], len(result.Sections), len(result.Labels))

	if len(c.Args) > 1 {
		data, err := result.Flat()
		if err != nil {
			m.printf("Flat output failed: %v\n", err)
			return nil
		}
		if err := os.WriteFile(c.Args[1], data, 0644); err != nil {
			m.printf("Write failed: %v\n", err)
			return nil
		}
		m.printf("Wrote %d bytes to %s.\n", len(data), c.Args[1])
	}
	return nil
}

func (m *Monitor) cmdDisassemble(c cmd.Selection) error {
	sec := m.selectSection(c)
	if sec == nil {
		return nil
	}

	lines, err := disasm.Disassemble(sec.Bytes()[:sec.Cursor()])
	if err != nil {
		m.printf("Disassembly failed: %v\n", err)
		return nil
	}
	for _, line := range lines {
		m.println(line)
	}
	return nil
}

func (m *Monitor) cmdSections(c cmd.Selection) error {
	if m.result == nil {
		m.println("Nothing assembled yet.")
		return nil
	}
	for _, sec := range m.result.Sections {
		length := "-"
		if sec.Length >= 0 {
			length = strconv.Itoa(sec.Length)
		}
		m.printf("%-16s offset=%s length=%-5s emitted=%-5d label-only=%v\n",
			sec.Name, sec.Offset, length, sec.Cursor(), sec.LabelOnly)
	}
	return nil
}

func (m *Monitor) cmdLabels(c cmd.Selection) error {
	if m.result == nil {
		m.println("Nothing assembled yet.")
		return nil
	}
	names := make([]string, 0, len(m.result.Labels))
	for name := range m.result.Labels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.printf("%-24s %s\n", "'"+name, m.result.Labels[name])
	}
	return nil
}

func (m *Monitor) cmdDump(c cmd.Selection) error {
	sec := m.selectSection(c)
	if sec == nil {
		return nil
	}

	data := sec.Bytes()[:sec.Cursor()]
	per := m.settings.BytesPerLine
	if per < 1 {
		per = 16
	}
	for i := 0; i < len(data); i += per {
		j := i + per
		if j > len(data) {
			j = len(data)
		}
		addr, _ := sec.Offset.AddBytes(i)
		m.printf("%s  % X\n", addr, data[i:j])
	}
	return nil
}

func (m *Monitor) cmdEvaluate(c cmd.Selection) error {
	if len(c.Args) == 0 {
		m.displayUsage(c.Command)
		return nil
	}

	expr, err := asm.ParseSExp(strings.Join(c.Args, " "))
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	labels := map[string]gbasm.Address{}
	if m.result != nil {
		labels = m.result.Labels
	}
	v, err := asm.EvalAddress(expr, labels)
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}
	m.printf("$%04X (%d)\n", v, v)
	return nil
}

func (m *Monitor) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		m.println("Variables:")
		m.settings.Display(m.output)
	case 2:
		key, value := c.Args[0], c.Args[1]
		var err error
		switch m.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("unknown variable: %s", key)
		case reflect.Bool:
			var v bool
			if v, err = strconv.ParseBool(value); err == nil {
				err = m.settings.Set(key, v)
			}
		case reflect.String:
			err = m.settings.Set(key, value)
		default:
			var v int
			if v, err = strconv.Atoi(value); err == nil {
				err = m.settings.Set(key, v)
			}
		}
		if err != nil {
			m.printf("%v\n", err)
		}
	default:
		m.displayUsage(c.Command)
	}
	return nil
}

func (m *Monitor) cmdQuit(c cmd.Selection) error {
	return errors.New("exiting monitor")
}

//
// helpers
//

// selectSection resolves a section-name argument against the last
// assembly result.
func (m *Monitor) selectSection(c cmd.Selection) *asm.Section {
	if m.result == nil {
		m.println("Nothing assembled yet.")
		return nil
	}
	if len(c.Args) != 1 {
		m.displayUsage(c.Command)
		return nil
	}
	name := strings.TrimPrefix(c.Args[0], ".")
	for _, sec := range m.result.Sections {
		if sec.Name == name {
			return sec
		}
	}
	m.printf("No such section: %s\n", name)
	return nil
}

func (m *Monitor) displayCommands(commands *cmd.Tree) {
	m.printf("%s commands:\n", commands.Title)
	for _, c := range commands.Commands {
		if c.Brief != "" {
			m.printf("    %-15s  %s\n", c.Name, c.Brief)
		}
	}
	m.println()
}

func (m *Monitor) displayUsage(c *cmd.Command) {
	if c.Usage != "" {
		m.printf("Usage: %s\n", c.Usage)
	}
}

func (m *Monitor) printf(format string, args ...any) {
	fmt.Fprintf(m.output, format, args...)
	m.flush()
}

func (m *Monitor) println(args ...any) {
	fmt.Fprintln(m.output, args...)
	m.flush()
}

func (m *Monitor) flush() {
	m.output.Flush()
}

func (m *Monitor) getLine() (string, error) {
	if m.input.Scan() {
		return m.input.Text(), nil
	}
	if m.input.Err() != nil {
		return "", m.input.Err()
	}
	return "", io.EOF
}

func (m *Monitor) prompt() {
	if m.interactive {
		m.printf("* ")
	}
}
