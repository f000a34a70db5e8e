// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gbasm holds the SM83 architecture data shared by the
// assembler and the disassembler: the instruction table and the
// 16-bit address type.
package gbasm

import "fmt"

// Opcode values for the SM83 instruction subset handled by the
// assembler. The Instructions table below is the single source of
// truth mapping these values to their textual forms.
const (
	OpNop  = 0x00
	OpHalt = 0x76

	OpJp   = 0xC3
	OpJpNZ = 0xC2
	OpJpZ  = 0xCA
	OpJpNC = 0xD2
	OpJpC  = 0xDA

	OpJr   = 0x18
	OpJrNZ = 0x20
	OpJrZ  = 0x28
	OpJrNC = 0x30
	OpJrC  = 0x38

	OpCpImm   = 0xFE
	OpCpB     = 0xB8
	OpCpC     = 0xB9
	OpCpD     = 0xBA
	OpCpE     = 0xBB
	OpCpH     = 0xBC
	OpCpL     = 0xBD
	OpCpHLInd = 0xBE
	OpCpA     = 0xBF

	OpIncB     = 0x04
	OpIncC     = 0x0C
	OpIncD     = 0x14
	OpIncE     = 0x1C
	OpIncH     = 0x24
	OpIncL     = 0x2C
	OpIncA     = 0x3C
	OpIncBC    = 0x03
	OpIncDE    = 0x13
	OpIncHL    = 0x23
	OpIncSP    = 0x33
	OpIncHLInd = 0x34

	OpDecB     = 0x05
	OpDecC     = 0x0D
	OpDecD     = 0x15
	OpDecE     = 0x1D
	OpDecH     = 0x25
	OpDecL     = 0x2D
	OpDecA     = 0x3D
	OpDecBC    = 0x0B
	OpDecDE    = 0x1B
	OpDecHL    = 0x2B
	OpDecSP    = 0x3B
	OpDecHLInd = 0x35

	OpLdBCImm16 = 0x01
	OpLdDEImm16 = 0x11
	OpLdHLImm16 = 0x21
	OpLdSPImm16 = 0x31

	OpLdBImm     = 0x06
	OpLdCImm     = 0x0E
	OpLdDImm     = 0x16
	OpLdEImm     = 0x1E
	OpLdHImm     = 0x26
	OpLdLImm     = 0x2E
	OpLdAImm     = 0x3E
	OpLdHLIndImm = 0x36

	OpLdBCIndA = 0x02
	OpLdDEIndA = 0x12
	OpLdHLIndA = 0x77
	OpLdHLIncA = 0x22
	OpLdHLDecA = 0x32

	OpLdABCInd = 0x0A
	OpLdADEInd = 0x1A
	OpLdAHLInd = 0x7E
	OpLdAHLInc = 0x2A
	OpLdAHLDec = 0x3A

	OpLdAMem = 0xFA
	OpLdMemA = 0xEA

	OpRst00 = 0xC7
	OpRst08 = 0xCF
	OpRst10 = 0xD7
	OpRst18 = 0xDF
	OpRst20 = 0xE7
	OpRst28 = 0xEF
	OpRst30 = 0xF7
	OpRst38 = 0xFF
)

// An Instruction describes one SM83 opcode. Mnemonic is the head of
// the instruction's source form. ImmediateArgs are fixed textual
// arguments implied by the opcode; they are consumed only by the
// disassembler. An ImmediateArgs entry may contain a '*' placeholder
// marking where the formatted stream operand belongs. StreamArgs is
// the number of operand bytes following the opcode in the encoded
// stream.
type Instruction struct {
	Mnemonic      string
	Opcode        byte
	ImmediateArgs []string
	StreamArgs    int
}

// Instructions lists every (opcode, form) pair known to the
// assembler, in opcode order.
var Instructions = []Instruction{
	{"nop", OpNop, nil, 0},
	{"ld", OpLdBCImm16, []string{"%bc"}, 2},
	{"ld", OpLdBCIndA, []string{"(%bc)", "%a"}, 0},
	{"inc", OpIncBC, []string{"%bc"}, 0},
	{"inc", OpIncB, []string{"%b"}, 0},
	{"dec", OpDecB, []string{"%b"}, 0},
	{"ld", OpLdBImm, []string{"%b"}, 1},
	{"ld", OpLdABCInd, []string{"%a", "(%bc)"}, 0},
	{"dec", OpDecBC, []string{"%bc"}, 0},
	{"inc", OpIncC, []string{"%c"}, 0},
	{"dec", OpDecC, []string{"%c"}, 0},
	{"ld", OpLdCImm, []string{"%c"}, 1},
	{"ld", OpLdDEImm16, []string{"%de"}, 2},
	{"ld", OpLdDEIndA, []string{"(%de)", "%a"}, 0},
	{"inc", OpIncDE, []string{"%de"}, 0},
	{"inc", OpIncD, []string{"%d"}, 0},
	{"dec", OpDecD, []string{"%d"}, 0},
	{"ld", OpLdDImm, []string{"%d"}, 1},
	{"jr", OpJr, nil, 1},
	{"ld", OpLdADEInd, []string{"%a", "(%de)"}, 0},
	{"dec", OpDecDE, []string{"%de"}, 0},
	{"inc", OpIncE, []string{"%e"}, 0},
	{"dec", OpDecE, []string{"%e"}, 0},
	{"ld", OpLdEImm, []string{"%e"}, 1},
	{"jr", OpJrNZ, []string{"#nz"}, 1},
	{"ld", OpLdHLImm16, []string{"%hl"}, 2},
	{"ld", OpLdHLIncA, []string{"(%hl +)", "%a"}, 0},
	{"inc", OpIncHL, []string{"%hl"}, 0},
	{"inc", OpIncH, []string{"%h"}, 0},
	{"dec", OpDecH, []string{"%h"}, 0},
	{"ld", OpLdHImm, []string{"%h"}, 1},
	{"jr", OpJrZ, []string{"#z"}, 1},
	{"ld", OpLdAHLInc, []string{"%a", "(%hl +)"}, 0},
	{"dec", OpDecHL, []string{"%hl"}, 0},
	{"inc", OpIncL, []string{"%l"}, 0},
	{"dec", OpDecL, []string{"%l"}, 0},
	{"ld", OpLdLImm, []string{"%l"}, 1},
	{"jr", OpJrNC, []string{"#nc"}, 1},
	{"ld", OpLdSPImm16, []string{"%sp"}, 2},
	{"ld", OpLdHLDecA, []string{"(%hl -)", "%a"}, 0},
	{"inc", OpIncSP, []string{"%sp"}, 0},
	{"inc", OpIncHLInd, []string{"(%hl)"}, 0},
	{"dec", OpDecHLInd, []string{"(%hl)"}, 0},
	{"ld", OpLdHLIndImm, []string{"(%hl)"}, 1},
	{"jr", OpJrC, []string{"#c"}, 1},
	{"ld", OpLdAHLDec, []string{"%a", "(%hl -)"}, 0},
	{"dec", OpDecSP, []string{"%sp"}, 0},
	{"inc", OpIncA, []string{"%a"}, 0},
	{"dec", OpDecA, []string{"%a"}, 0},
	{"ld", OpLdAImm, []string{"%a"}, 1},
	{"halt", OpHalt, nil, 0},
	{"ld", OpLdHLIndA, []string{"(%hl)", "%a"}, 0},
	{"ld", OpLdAHLInd, []string{"%a", "(%hl)"}, 0},
	{"cp", OpCpB, []string{"%b"}, 0},
	{"cp", OpCpC, []string{"%c"}, 0},
	{"cp", OpCpD, []string{"%d"}, 0},
	{"cp", OpCpE, []string{"%e"}, 0},
	{"cp", OpCpH, []string{"%h"}, 0},
	{"cp", OpCpL, []string{"%l"}, 0},
	{"cp", OpCpHLInd, []string{"(%hl)"}, 0},
	{"cp", OpCpA, []string{"%a"}, 0},
	{"jp", OpJpNZ, []string{"#nz"}, 2},
	{"jp", OpJp, nil, 2},
	{"rst", OpRst00, []string{"0x00"}, 0},
	{"jp", OpJpZ, []string{"#z"}, 2},
	{"rst", OpRst08, []string{"0x08"}, 0},
	{"jp", OpJpNC, []string{"#nc"}, 2},
	{"rst", OpRst10, []string{"0x10"}, 0},
	{"jp", OpJpC, []string{"#c"}, 2},
	{"rst", OpRst18, []string{"0x18"}, 0},
	{"rst", OpRst20, []string{"0x20"}, 0},
	{"ld", OpLdMemA, []string{"(*)", "%a"}, 2},
	{"rst", OpRst28, []string{"0x28"}, 0},
	{"rst", OpRst30, []string{"0x30"}, 0},
	{"ld", OpLdAMem, []string{"%a", "(*)"}, 2},
	{"cp", OpCpImm, nil, 1},
	{"rst", OpRst38, []string{"0x38"}, 0},
}

var decodeTable [256]*Instruction

func init() {
	for i := range Instructions {
		inst := &Instructions[i]
		if decodeTable[inst.Opcode] != nil {
			panic(fmt.Sprintf("duplicate instruction table entry: %02X", inst.Opcode))
		}
		decodeTable[inst.Opcode] = inst
	}
}

// Decode returns the instruction table entry for an opcode.
func Decode(opcode byte) (*Instruction, error) {
	inst := decodeTable[opcode]
	if inst == nil {
		return nil, fmt.Errorf("unknown instruction: %02X", opcode)
	}
	return inst, nil
}
