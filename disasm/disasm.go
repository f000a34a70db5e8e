// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm converts flat SM83 machine code back into textual
// S-expression forms.
package disasm

import (
	"fmt"
	"strings"

	"github.com/mkeller/gbasm"
)

// Disassemble decodes an entire byte stream, returning one textual
// form per instruction. An opcode missing from the instruction table
// is an error.
func Disassemble(data []byte) ([]string, error) {
	var result []string
	ip := 0
	for ip < len(data) {
		line, next, err := disassembleAt(data, ip)
		if err != nil {
			return nil, err
		}
		result = append(result, line)
		ip = next
	}
	return result, nil
}

// disassembleAt decodes the instruction at ip. It returns the textual
// form and the index of the following instruction.
func disassembleAt(data []byte, ip int) (line string, next int, err error) {
	inst, err := gbasm.Decode(data[ip])
	if err != nil {
		return "", 0, err
	}
	ip++

	if ip+inst.StreamArgs > len(data) {
		return "", 0, fmt.Errorf("truncated instruction: %s", inst.Mnemonic)
	}
	var operand string
	switch inst.StreamArgs {
	case 1:
		operand = fmt.Sprintf("0x%02x", data[ip])
	case 2:
		operand = fmt.Sprintf("0x%04x", uint16(data[ip])|uint16(data[ip+1])<<8)
	}
	ip += inst.StreamArgs

	// Fixed args appear in operand order; a '*' placeholder marks
	// where the stream operand belongs. Without one, the operand
	// trails the fixed args.
	args := make([]string, 0, len(inst.ImmediateArgs)+1)
	placed := false
	for _, arg := range inst.ImmediateArgs {
		if operand != "" && strings.Contains(arg, "*") {
			arg = strings.Replace(arg, "*", operand, 1)
			placed = true
		}
		args = append(args, arg)
	}
	if operand != "" && !placed {
		args = append(args, operand)
	}

	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(inst.Mnemonic)
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	b.WriteByte(')')
	return b.String(), ip, nil
}
