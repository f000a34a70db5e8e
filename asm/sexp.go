// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"strings"
)

// A SymKind identifies the category of a symbol. The category is
// selected by the symbol's prefix character in source; once parsed it
// is carried as an explicit tag so the encoder can dispatch on it
// exhaustively.
type SymKind byte

const (
	SymBareword SymKind = iota // no prefix: mnemonic, operator, identifier
	SymKeyword                 // ':' prefix: named option in a directive
	SymSection                 // '.' prefix: section reference
	SymLabel                   // '\'' prefix: label reference
	SymRegister                // '%' prefix: CPU register
	SymFlag                    // '#' prefix: CPU condition flag
)

var symPrefix = []string{"", ":", ".", "'", "%", "#"}

// A Symbol is a prefix-categorized identifier.
type Symbol struct {
	Kind SymKind
	Name string
}

func (s Symbol) String() string {
	return symPrefix[s.Kind] + s.Name
}

// An SExp is a parsed S-expression node: a Symbol, a Form, a StringLit
// or an Immediate.
type SExp interface {
	fmt.Stringer
	sexp()
}

func (Symbol) sexp()    {}
func (*Form) sexp()     {}
func (StringLit) sexp() {}
func (Immediate) sexp() {}

// A StringLit is a double-quoted string literal.
type StringLit string

func (s StringLit) String() string {
	return `"` + string(s) + `"`
}

// An Immediate is an unsigned numeric literal.
type Immediate uint64

func (i Immediate) String() string {
	return fmt.Sprintf("%d", uint64(i))
}

// A Form is a parenthesized expression led by an operator symbol,
// optionally carrying an attached label. A label-only form has an
// empty bareword operator.
type Form struct {
	Label string // attached label, empty if none
	Op    Symbol
	Args  []SExp
}

func (f *Form) String() string {
	var b strings.Builder
	b.WriteByte('(')
	if f.Label != "" {
		b.WriteByte('\'')
		b.WriteString(f.Label)
		if f.Op.Name != "" || len(f.Args) > 0 {
			b.WriteByte(' ')
		}
	}
	b.WriteString(f.Op.String())
	for _, arg := range f.Args {
		b.WriteByte(' ')
		b.WriteString(arg.String())
	}
	b.WriteByte(')')
	return b.String()
}

// A TopLevel is the ordered sequence of forms parsed from one source
// file.
type TopLevel struct {
	Forms []*Form
}
