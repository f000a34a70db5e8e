// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements an S-expression driven SM83 assembler.
//
// Source files are a sequence of parenthesized forms. Directive forms
// manage sections and data (def-section, section, db, ds, label,
// include); mnemonic forms emit instructions. Label references are
// emitted as zero placeholders and patched after the final form, so
// forward references need no pre-scan.
package asm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mkeller/gbasm"
)

// Options configures an assembly run.
type Options struct {
	// StdlibRoot is the directory against which (include :std "...")
	// paths resolve. Empty selects "stdlib".
	StdlibRoot string

	// Verbose enables assembly logging to Log.
	Verbose bool

	// Log receives verbose output. Defaults to standard output.
	Log io.Writer
}

// A Result holds the outcome of a successful assembly: the sections
// in definition order, fully patched, and the label map.
type Result struct {
	Sections []*Section
	Labels   map[string]gbasm.Address
}

// The assembler threads a single mutable state through the whole run,
// shared with every included file: the section list, the current
// section cursor, the label map and the pending-reference queue.
type assembler struct {
	sections []*Section
	current  string        // current section name, empty if none
	addr     gbasm.Address // address a label defined now would receive
	labels   map[string]gbasm.Address
	pending  []reference
	includes []string // canonical paths of the files on the include stack
	dirs     []string // directories of the files on the include stack
	opts     Options
}

// Assemble parses and assembles source read from r. The name is used
// to resolve relative include paths.
func Assemble(r io.Reader, name string, opts Options) (*Result, error) {
	tl, err := Parse(r)
	if err != nil {
		return nil, err
	}

	a := newAssembler(opts)
	a.pushFile(name)
	if err := a.run(tl); err != nil {
		return nil, err
	}
	a.popFile()

	if err := a.resolve(); err != nil {
		return nil, err
	}
	return &Result{Sections: a.sections, Labels: a.labels}, nil
}

// AssembleFile assembles the named source file.
func AssembleFile(path string, opts Options) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Assemble(file, path, opts)
}

func newAssembler(opts Options) *assembler {
	if opts.StdlibRoot == "" {
		opts.StdlibRoot = "stdlib"
	}
	if opts.Log == nil {
		opts.Log = os.Stdout
	}
	return &assembler{
		labels: make(map[string]gbasm.Address),
		opts:   opts,
	}
}

// Top-level operator dispatch. Mnemonic handlers live in encode.go.
var topLevelOps map[string]func(*assembler, *Form) error

func init() {
	topLevelOps = map[string]func(*assembler, *Form) error{
		"include":     (*assembler).include,
		"def-section": (*assembler).defSection,
		"section":     (*assembler).setSection,
		"db":          (*assembler).db,
		"ds":          (*assembler).ds,
		"label":       (*assembler).labelDirective,
		"sub-section": (*assembler).subSection,
		"nop":         (*assembler).nop,
		"halt":        (*assembler).halt,
		"ld":          (*assembler).ld,
		"jp":          (*assembler).jp,
		"jr":          (*assembler).jr,
		"inc":         (*assembler).inc,
		"dec":         (*assembler).dec,
		"cp":          (*assembler).cp,
		"rst":         (*assembler).rst,
	}
}

func (a *assembler) run(tl *TopLevel) error {
	for _, form := range tl.Forms {
		if form.Op.Kind != SymBareword {
			return fmt.Errorf("illegal top-level form: %s", form.Op)
		}

		// An attached label names the address of the form it precedes.
		if form.Label != "" {
			if err := a.defineLabel(form.Label); err != nil {
				return err
			}
		}
		if form.Op.Name == "" {
			continue // label-only form
		}

		op, ok := topLevelOps[form.Op.Name]
		if !ok {
			return fmt.Errorf("unknown top-level: %s", form.Op.Name)
		}
		if err := op(a, form); err != nil {
			return err
		}
	}
	return nil
}

func (a *assembler) defineLabel(name string) error {
	if _, ok := a.labels[name]; ok {
		return fmt.Errorf("duplicate label definition: '%s", name)
	}
	a.labels[name] = a.addr
	a.logf("%s  label '%s", a.addr, name)
	return nil
}

func (a *assembler) lookupSection(name string) *Section {
	for _, sec := range a.sections {
		if sec.Name == name {
			return sec
		}
	}
	return nil
}

// writableSection returns the current section, ready for emission.
func (a *assembler) writableSection() (*Section, error) {
	if a.current == "" {
		return nil, errors.New("not in a section")
	}
	sec := a.lookupSection(a.current)
	if sec.LabelOnly {
		return nil, fmt.Errorf("section %s is label-only", sec.Name)
	}
	return sec, nil
}

// beginEmit advances the current address by size bytes before
// acquiring the writable section, so that PC-relative origins observe
// the post-emission address.
func (a *assembler) beginEmit(size int) (*Section, error) {
	addr, err := a.addr.AddBytes(size)
	if err != nil {
		return nil, err
	}
	a.addr = addr
	return a.writableSection()
}

// emitBytes writes a fully concrete byte sequence to the current
// section.
func (a *assembler) emitBytes(f *Form, b ...byte) error {
	sec, err := a.beginEmit(len(b))
	if err != nil {
		return err
	}
	for _, v := range b {
		if err := sec.pushByte(v); err != nil {
			return err
		}
	}
	a.logEmit(sec, f, len(b))
	return nil
}

//
// directives
//

func (a *assembler) defSection(f *Form) error {
	if len(f.Args) == 0 {
		return errors.New("illegal def-section")
	}
	name, err := expectSectionName(f.Args[0])
	if err != nil {
		return err
	}

	offset, err := keyImmediateOr(f.Args, "offset", 0)
	if err != nil {
		return err
	}
	if offset > 0xFFFF {
		return fmt.Errorf("def-section: offset %d does not fit in 16 bits", offset)
	}

	length := -1
	if exp, err := keyValue(f.Args, "length"); err != nil {
		return err
	} else if exp != nil {
		v, err := expectImmediate(exp)
		if err != nil {
			return err
		}
		if v > 0xFFFF {
			return fmt.Errorf("def-section: length %d does not fit in 16 bits", v)
		}
		length = int(v)
	}

	labelOnly := false
	if exp, err := keyValue(f.Args, "label-only"); err != nil {
		return err
	} else if exp != nil {
		labelOnly, err = expectBool(exp)
		if err != nil {
			return err
		}
	}

	a.sections = append(a.sections, newSection(name, gbasm.Address(offset), length, labelOnly))
	a.logf("def-section %s offset=%s length=%d label-only=%v",
		name, gbasm.Address(offset), length, labelOnly)
	return nil
}

func (a *assembler) setSection(f *Form) error {
	if len(f.Args) != 1 {
		return errors.New("illegal section")
	}
	name, err := expectSectionName(f.Args[0])
	if err != nil {
		return err
	}
	sec := a.lookupSection(name)
	if sec == nil {
		return fmt.Errorf("no such section: %s", name)
	}
	a.current = name
	a.addr = sec.Offset
	a.logf("section %s at %s", name, sec.Offset)
	return nil
}

func (a *assembler) db(f *Form) error {
	if _, err := a.writableSection(); err != nil {
		return err
	}
	if len(f.Args) == 0 {
		return errors.New("db: needs at least one value")
	}

	vals := make([]byte, len(f.Args))
	for i, arg := range f.Args {
		v, err := expectImmediate(arg)
		if err != nil {
			return err
		}
		if v > 0xFF {
			return fmt.Errorf("db: value %d does not fit in a byte", v)
		}
		vals[i] = byte(v)
	}
	return a.emitBytes(f, vals...)
}

func (a *assembler) ds(f *Form) error {
	if len(f.Args) != 1 {
		return errors.New("ds: needs a length")
	}
	n, err := expectImmediate(f.Args[0])
	if err != nil {
		return err
	}
	if n > 0xFFFF {
		return fmt.Errorf("ds: length %d does not fit in 16 bits", n)
	}

	sec, err := a.beginEmit(int(n))
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if err := sec.pushByte(0); err != nil {
			return err
		}
	}
	a.logEmit(sec, f, int(n))
	return nil
}

func (a *assembler) labelDirective(f *Form) error {
	if len(f.Args) != 1 {
		return errors.New("label expected")
	}
	name, err := expectLabelName(f.Args[0])
	if err != nil {
		return err
	}
	return a.defineLabel(name)
}

// sub-section is reserved.
func (a *assembler) subSection(f *Form) error {
	return nil
}

//
// includes
//

func (a *assembler) include(f *Form) error {
	if len(f.Args) < 1 {
		return errors.New("include must at least provide file to include")
	}

	var path string
	if isKeyword(f.Args[0], "std") {
		if len(f.Args) < 2 {
			return errors.New("std include path required")
		}
		name, err := expectString(f.Args[1])
		if err != nil {
			return err
		}
		path = filepath.Join(a.opts.StdlibRoot, name+".asm")
	} else {
		name, err := expectString(f.Args[0])
		if err != nil {
			return err
		}
		path = filepath.Join(a.dir(), name+".asm")
	}
	return a.includeFile(path)
}

func (a *assembler) includeFile(path string) error {
	canon := canonicalPath(path)
	for _, p := range a.includes {
		if p == canon {
			return fmt.Errorf("include cycle: %s", path)
		}
	}

	// The file is read to completion and closed before any of its own
	// includes are opened.
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	tl, perr := Parse(file)
	file.Close()
	if perr != nil {
		return perr
	}

	a.logf("include %s", path)
	a.pushFile(path)
	defer a.popFile()
	return a.run(tl)
}

func (a *assembler) pushFile(path string) {
	a.includes = append(a.includes, canonicalPath(path))
	a.dirs = append(a.dirs, filepath.Dir(path))
}

func (a *assembler) popFile() {
	a.includes = a.includes[:len(a.includes)-1]
	a.dirs = a.dirs[:len(a.dirs)-1]
}

// dir returns the directory of the file currently being assembled.
func (a *assembler) dir() string {
	if len(a.dirs) == 0 {
		return "."
	}
	return a.dirs[len(a.dirs)-1]
}

func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

//
// logging
//

func (a *assembler) logf(format string, args ...any) {
	if a.opts.Verbose {
		fmt.Fprintf(a.opts.Log, format+"\n", args...)
	}
}

func (a *assembler) logEmit(sec *Section, f *Form, size int) {
	if !a.opts.Verbose || size == 0 {
		return
	}
	start := gbasm.Address(uint16(a.addr) - uint16(size))
	if size > 16 {
		a.logf("%s  %d bytes  %s", start, size, f)
		return
	}
	a.logf("%s  %-9s  %s", start, byteString(sec.data[sec.cursor-size:sec.cursor]), f)
}

//
// form helpers
//

func isKeyword(e SExp, name string) bool {
	sym, ok := e.(Symbol)
	return ok && sym.Kind == SymKeyword && sym.Name == name
}

// keyValue scans a directive's arguments for a keyword and returns
// the expression following it, or nil if the keyword is absent.
func keyValue(args []SExp, name string) (SExp, error) {
	for i, arg := range args {
		if isKeyword(arg, name) {
			if i+1 >= len(args) {
				return nil, errors.New("no value for keyword")
			}
			return args[i+1], nil
		}
	}
	return nil, nil
}

func keyImmediateOr(args []SExp, name string, or uint64) (uint64, error) {
	exp, err := keyValue(args, name)
	if err != nil {
		return 0, err
	}
	if exp == nil {
		return or, nil
	}
	return expectImmediate(exp)
}

func expectSectionName(e SExp) (string, error) {
	sym, ok := e.(Symbol)
	if !ok || sym.Kind != SymSection {
		return "", errors.New("section name expected")
	}
	return sym.Name, nil
}

func expectLabelName(e SExp) (string, error) {
	sym, ok := e.(Symbol)
	if !ok || sym.Kind != SymLabel {
		return "", errors.New("label expected")
	}
	return sym.Name, nil
}

func expectImmediate(e SExp) (uint64, error) {
	imm, ok := e.(Immediate)
	if !ok {
		return 0, fmt.Errorf("not an immediate value: %s", e)
	}
	return uint64(imm), nil
}

func expectString(e SExp) (string, error) {
	lit, ok := e.(StringLit)
	if !ok {
		return "", errors.New("string expected")
	}
	return string(lit), nil
}

func expectBool(e SExp) (bool, error) {
	sym, ok := e.(Symbol)
	if !ok || sym.Kind != SymBareword {
		return false, errors.New("not a bool symbol")
	}
	switch sym.Name {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, errors.New("symbol but not true|false")
	}
}
