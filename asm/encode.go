// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"fmt"

	"github.com/mkeller/gbasm"
)

// Instruction encoding dispatches first on the mnemonic and then on
// the shape of the operand S-expressions. Shapes classify operands
// without validating them; each emitter rejects the register or flag
// names it cannot encode.

type shapeKind byte

const (
	shapeInvalid shapeKind = iota
	shapeReg8
	shapeReg16
	shapeRegUnknown
	shapeImm
	shapeLabel
	shapeFlag
	shapeDerefReg    // (%r)
	shapeDerefRegInc // (%r +)
	shapeDerefRegDec // (%r -)
	shapeDerefLabel  // ('l)
	shapeArith       // (+ ...) or (- ...)
)

type opShape struct {
	kind shapeKind
	name string // register, flag or label name
	imm  uint64
	expr SExp // label symbol or arithmetic form, for references
}

var reg8Names = map[string]bool{
	"a": true, "b": true, "c": true, "d": true, "e": true, "h": true, "l": true,
}

var reg16Names = map[string]bool{
	"bc": true, "de": true, "hl": true, "sp": true,
}

func operandShape(e SExp) opShape {
	switch e := e.(type) {
	case Immediate:
		return opShape{kind: shapeImm, imm: uint64(e)}

	case Symbol:
		switch e.Kind {
		case SymRegister:
			switch {
			case reg8Names[e.Name]:
				return opShape{kind: shapeReg8, name: e.Name}
			case reg16Names[e.Name]:
				return opShape{kind: shapeReg16, name: e.Name}
			default:
				return opShape{kind: shapeRegUnknown, name: e.Name}
			}
		case SymLabel:
			return opShape{kind: shapeLabel, name: e.Name, expr: e}
		case SymFlag:
			return opShape{kind: shapeFlag, name: e.Name}
		}

	case *Form:
		// A bare labeled form in operand position is a dereferenced
		// label address.
		if e.Label != "" && e.Op.Name == "" && len(e.Args) == 0 {
			return opShape{kind: shapeDerefLabel, name: e.Label, expr: Symbol{Kind: SymLabel, Name: e.Label}}
		}
		if e.Op.Kind == SymRegister {
			if len(e.Args) == 0 {
				return opShape{kind: shapeDerefReg, name: e.Op.Name}
			}
			if len(e.Args) == 1 {
				if s, ok := e.Args[0].(Symbol); ok && s.Kind == SymBareword {
					switch s.Name {
					case "+":
						return opShape{kind: shapeDerefRegInc, name: e.Op.Name}
					case "-":
						return opShape{kind: shapeDerefRegDec, name: e.Op.Name}
					}
				}
			}
			return opShape{kind: shapeInvalid}
		}
		if e.Op.Kind == SymBareword && (e.Op.Name == "+" || e.Op.Name == "-") {
			return opShape{kind: shapeArith, expr: e}
		}
	}
	return opShape{kind: shapeInvalid}
}

//
// simple mnemonics
//

func (a *assembler) nop(f *Form) error {
	if len(f.Args) != 0 {
		return errors.New("nop: illegal parameters")
	}
	return a.emitBytes(f, gbasm.OpNop)
}

func (a *assembler) halt(f *Form) error {
	if len(f.Args) != 0 {
		return errors.New("halt: illegal parameters")
	}
	return a.emitBytes(f, gbasm.OpHalt)
}

func (a *assembler) rst(f *Form) error {
	if len(f.Args) != 1 {
		return errors.New("rst: illegal parameters")
	}
	v, err := expectImmediate(f.Args[0])
	if err != nil {
		return err
	}
	if v > 0x38 || v%8 != 0 {
		return fmt.Errorf("rst: illegal vector %d", v)
	}
	return a.emitBytes(f, gbasm.OpRst00|byte(v))
}

//
// cp
//

var cpRegOps = map[string]byte{
	"b": gbasm.OpCpB, "c": gbasm.OpCpC, "d": gbasm.OpCpD, "e": gbasm.OpCpE,
	"h": gbasm.OpCpH, "l": gbasm.OpCpL, "a": gbasm.OpCpA,
}

func (a *assembler) cp(f *Form) error {
	if len(f.Args) != 1 {
		return errors.New("cp: illegal parameters")
	}
	switch shape := operandShape(f.Args[0]); shape.kind {
	case shapeImm:
		if shape.imm > 0xFF {
			return fmt.Errorf("cp: value %d does not fit in a byte", shape.imm)
		}
		return a.emitBytes(f, gbasm.OpCpImm, byte(shape.imm))
	case shapeReg8:
		return a.emitBytes(f, cpRegOps[shape.name])
	case shapeDerefReg:
		if shape.name == "hl" {
			return a.emitBytes(f, gbasm.OpCpHLInd)
		}
	case shapeRegUnknown:
		return fmt.Errorf("cp: unknown register: %%%s", shape.name)
	}
	return errors.New("cp: illegal parameters")
}

//
// inc / dec
//

var incRegOps = map[string]byte{
	"b": gbasm.OpIncB, "c": gbasm.OpIncC, "d": gbasm.OpIncD, "e": gbasm.OpIncE,
	"h": gbasm.OpIncH, "l": gbasm.OpIncL, "a": gbasm.OpIncA,
	"bc": gbasm.OpIncBC, "de": gbasm.OpIncDE, "hl": gbasm.OpIncHL, "sp": gbasm.OpIncSP,
}

var incDerefOps = map[string]byte{"hl": gbasm.OpIncHLInd}

var decRegOps = map[string]byte{
	"b": gbasm.OpDecB, "c": gbasm.OpDecC, "d": gbasm.OpDecD, "e": gbasm.OpDecE,
	"h": gbasm.OpDecH, "l": gbasm.OpDecL, "a": gbasm.OpDecA,
	"bc": gbasm.OpDecBC, "de": gbasm.OpDecDE, "hl": gbasm.OpDecHL, "sp": gbasm.OpDecSP,
}

var decDerefOps = map[string]byte{"hl": gbasm.OpDecHLInd}

func (a *assembler) inc(f *Form) error {
	return a.step(f, "inc", incRegOps, incDerefOps)
}

func (a *assembler) dec(f *Form) error {
	return a.step(f, "dec", decRegOps, decDerefOps)
}

func (a *assembler) step(f *Form, mnemonic string, regOps, derefOps map[string]byte) error {
	if len(f.Args) != 1 {
		return fmt.Errorf("%s: illegal parameters", mnemonic)
	}

	var opcode byte
	var ok bool
	switch shape := operandShape(f.Args[0]); shape.kind {
	case shapeReg8, shapeReg16:
		opcode, ok = regOps[shape.name]
	case shapeDerefReg:
		opcode, ok = derefOps[shape.name]
	case shapeRegUnknown:
		return fmt.Errorf("%s: unknown register: %%%s", mnemonic, shape.name)
	}
	if !ok {
		return fmt.Errorf("%s: illegal parameters", mnemonic)
	}
	return a.emitBytes(f, opcode)
}

//
// jp / jr
//

var jpOps = map[string]byte{
	"": gbasm.OpJp, "nz": gbasm.OpJpNZ, "z": gbasm.OpJpZ, "nc": gbasm.OpJpNC, "c": gbasm.OpJpC,
}

var jrOps = map[string]byte{
	"": gbasm.OpJr, "nz": gbasm.OpJrNZ, "z": gbasm.OpJrZ, "nc": gbasm.OpJrNC, "c": gbasm.OpJrC,
}

// condOpcode strips an optional leading condition flag off the
// argument list and selects the matching opcode.
func condOpcode(mnemonic string, ops map[string]byte, args []SExp) (byte, []SExp, error) {
	flag := ""
	if len(args) > 0 {
		if s, ok := args[0].(Symbol); ok && s.Kind == SymFlag {
			flag = s.Name
			args = args[1:]
		}
	}
	opcode, ok := ops[flag]
	if !ok {
		return 0, nil, fmt.Errorf("%s: unknown condition flag: #%s", mnemonic, flag)
	}
	return opcode, args, nil
}

func (a *assembler) jp(f *Form) error {
	opcode, args, err := condOpcode("jp", jpOps, f.Args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("jp: illegal parameters")
	}
	label, err := expectLabelName(args[0])
	if err != nil {
		return err
	}

	sec, err := a.beginEmit(3)
	if err != nil {
		return err
	}
	if err := sec.pushByte(opcode); err != nil {
		return err
	}
	patch := sec.cursor
	if err := sec.pushWord(0); err != nil {
		return err
	}
	a.enqueueAbsolute("jp", Symbol{Kind: SymLabel, Name: label}, sec.Name, patch)
	a.logEmit(sec, f, 3)
	return nil
}

func (a *assembler) jr(f *Form) error {
	if len(f.Args) == 0 {
		return errors.New("jr: needs at least one argument")
	}
	opcode, args, err := condOpcode("jr", jrOps, f.Args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("jr: illegal parameters")
	}
	label, err := expectLabelName(args[0])
	if err != nil {
		return err
	}

	sec, err := a.beginEmit(2)
	if err != nil {
		return err
	}
	if err := sec.pushByte(opcode); err != nil {
		return err
	}
	patch := sec.cursor
	if err := sec.pushByte(0); err != nil {
		return err
	}
	// a.addr has already advanced past the instruction, which is the
	// origin PC-relative displacements are measured from.
	a.enqueueRelative("jr", label, a.addr, sec.Name, patch)
	a.logEmit(sec, f, 2)
	return nil
}

//
// ld
//

// The ld family is dispatched through a table keyed by the shapes of
// both operands.
type ldKey struct {
	dst, src shapeKind
}

var ldOps = map[ldKey]func(*assembler, *Form, opShape, opShape) error{
	{shapeReg16, shapeLabel}:      (*assembler).ldReg16Addr,
	{shapeReg16, shapeArith}:      (*assembler).ldReg16Addr,
	{shapeReg16, shapeImm}:        (*assembler).ldReg16Imm,
	{shapeReg8, shapeImm}:         (*assembler).ldReg8Imm,
	{shapeDerefReg, shapeImm}:     (*assembler).ldDerefImm,
	{shapeDerefReg, shapeReg8}:    (*assembler).ldDerefA,
	{shapeDerefRegInc, shapeReg8}: (*assembler).ldDerefIncA,
	{shapeDerefRegDec, shapeReg8}: (*assembler).ldDerefDecA,
	{shapeReg8, shapeDerefReg}:    (*assembler).ldADeref,
	{shapeReg8, shapeDerefRegInc}: (*assembler).ldADerefInc,
	{shapeReg8, shapeDerefRegDec}: (*assembler).ldADerefDec,
	{shapeReg8, shapeDerefLabel}:  (*assembler).ldAMem,
	{shapeDerefLabel, shapeReg8}:  (*assembler).ldMemA,
}

func (a *assembler) ld(f *Form) error {
	if len(f.Args) != 2 {
		return errors.New("ld: illegal parameters")
	}
	dst := operandShape(f.Args[0])
	src := operandShape(f.Args[1])
	if dst.kind == shapeRegUnknown {
		return fmt.Errorf("ld: unknown target register: %%%s", dst.name)
	}
	if src.kind == shapeRegUnknown {
		return fmt.Errorf("ld: unknown source register: %%%s", src.name)
	}

	emit, ok := ldOps[ldKey{dst.kind, src.kind}]
	if !ok {
		return errors.New("ld: illegal parameters")
	}
	return emit(a, f, dst, src)
}

var ldReg16Ops = map[string]byte{
	"bc": gbasm.OpLdBCImm16, "de": gbasm.OpLdDEImm16,
	"hl": gbasm.OpLdHLImm16, "sp": gbasm.OpLdSPImm16,
}

var ldReg8ImmOps = map[string]byte{
	"b": gbasm.OpLdBImm, "c": gbasm.OpLdCImm, "d": gbasm.OpLdDImm, "e": gbasm.OpLdEImm,
	"h": gbasm.OpLdHImm, "l": gbasm.OpLdLImm, "a": gbasm.OpLdAImm,
}

var ldDerefAOps = map[string]byte{
	"bc": gbasm.OpLdBCIndA, "de": gbasm.OpLdDEIndA, "hl": gbasm.OpLdHLIndA,
}

var ldADerefOps = map[string]byte{
	"bc": gbasm.OpLdABCInd, "de": gbasm.OpLdADEInd, "hl": gbasm.OpLdAHLInd,
}

// ld %r16 'label / ld %r16 (- 'a 'b): 16-bit address operand, patched
// once labels resolve.
func (a *assembler) ldReg16Addr(f *Form, dst, src opShape) error {
	sec, err := a.beginEmit(3)
	if err != nil {
		return err
	}
	if err := sec.pushByte(ldReg16Ops[dst.name]); err != nil {
		return err
	}
	patch := sec.cursor
	if err := sec.pushWord(0); err != nil {
		return err
	}
	a.enqueueAbsolute("ld", src.expr, sec.Name, patch)
	a.logEmit(sec, f, 3)
	return nil
}

func (a *assembler) ldReg16Imm(f *Form, dst, src opShape) error {
	if src.imm > 0xFFFF {
		return fmt.Errorf("ld: value %d does not fit in 16 bits", src.imm)
	}
	return a.emitBytes(f, ldReg16Ops[dst.name], byte(src.imm), byte(src.imm>>8))
}

func (a *assembler) ldReg8Imm(f *Form, dst, src opShape) error {
	if src.imm > 0xFF {
		return fmt.Errorf("ld: value %d does not fit in a byte", src.imm)
	}
	return a.emitBytes(f, ldReg8ImmOps[dst.name], byte(src.imm))
}

// ld (%hl) IMM
func (a *assembler) ldDerefImm(f *Form, dst, src opShape) error {
	if dst.name != "hl" {
		return errors.New("ld: illegal parameters")
	}
	if src.imm > 0xFF {
		return fmt.Errorf("ld: value %d does not fit in a byte", src.imm)
	}
	return a.emitBytes(f, gbasm.OpLdHLIndImm, byte(src.imm))
}

// ld (%r16) %a
func (a *assembler) ldDerefA(f *Form, dst, src opShape) error {
	opcode, ok := ldDerefAOps[dst.name]
	if !ok || src.name != "a" {
		return errors.New("ld: illegal parameters")
	}
	return a.emitBytes(f, opcode)
}

// ld (%hl +) %a
func (a *assembler) ldDerefIncA(f *Form, dst, src opShape) error {
	if dst.name != "hl" || src.name != "a" {
		return errors.New("ld: illegal parameters")
	}
	return a.emitBytes(f, gbasm.OpLdHLIncA)
}

// ld (%hl -) %a
func (a *assembler) ldDerefDecA(f *Form, dst, src opShape) error {
	if dst.name != "hl" || src.name != "a" {
		return errors.New("ld: illegal parameters")
	}
	return a.emitBytes(f, gbasm.OpLdHLDecA)
}

// ld %a (%r16)
func (a *assembler) ldADeref(f *Form, dst, src opShape) error {
	opcode, ok := ldADerefOps[src.name]
	if !ok || dst.name != "a" {
		return errors.New("ld: illegal parameters")
	}
	return a.emitBytes(f, opcode)
}

// ld %a (%hl +)
func (a *assembler) ldADerefInc(f *Form, dst, src opShape) error {
	if dst.name != "a" || src.name != "hl" {
		return errors.New("ld: illegal parameters")
	}
	return a.emitBytes(f, gbasm.OpLdAHLInc)
}

// ld %a (%hl -)
func (a *assembler) ldADerefDec(f *Form, dst, src opShape) error {
	if dst.name != "a" || src.name != "hl" {
		return errors.New("ld: illegal parameters")
	}
	return a.emitBytes(f, gbasm.OpLdAHLDec)
}

// ld %a ('label)
func (a *assembler) ldAMem(f *Form, dst, src opShape) error {
	if dst.name != "a" {
		return errors.New("ld: illegal parameters")
	}
	return a.emitMemLoad(f, gbasm.OpLdAMem, src.expr)
}

// ld ('label) %a
func (a *assembler) ldMemA(f *Form, dst, src opShape) error {
	if src.name != "a" {
		return errors.New("ld: illegal parameters")
	}
	return a.emitMemLoad(f, gbasm.OpLdMemA, dst.expr)
}

func (a *assembler) emitMemLoad(f *Form, opcode byte, target SExp) error {
	sec, err := a.beginEmit(3)
	if err != nil {
		return err
	}
	if err := sec.pushByte(opcode); err != nil {
		return err
	}
	patch := sec.cursor
	if err := sec.pushWord(0); err != nil {
		return err
	}
	a.enqueueAbsolute("ld", target, sec.Name, patch)
	a.logEmit(sec, f, 3)
	return nil
}
