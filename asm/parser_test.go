// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "testing"

func parseOne(t *testing.T, src string) *Form {
	t.Helper()
	tl, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(tl.Forms) != 1 {
		t.Fatalf("expected 1 form, got %d", len(tl.Forms))
	}
	return tl.Forms[0]
}

func checkParseError(t *testing.T, src, errString string) {
	t.Helper()
	_, err := ParseString(src)
	if err == nil {
		t.Fatalf("expected error %q on %s, didn't get one", errString, src)
	}
	if err.Error() != errString {
		t.Errorf("expected %q, got %q", errString, err.Error())
	}
}

func TestParseForm(t *testing.T) {
	f := parseOne(t, "(ld %a 42)")
	if f.Op.Kind != SymBareword || f.Op.Name != "ld" {
		t.Errorf("unexpected operator: %s", f.Op)
	}
	if len(f.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(f.Args))
	}
	if reg, ok := f.Args[0].(Symbol); !ok || reg.Kind != SymRegister || reg.Name != "a" {
		t.Errorf("unexpected first arg: %s", f.Args[0])
	}
	if imm, ok := f.Args[1].(Immediate); !ok || imm != 42 {
		t.Errorf("unexpected second arg: %s", f.Args[1])
	}
}

func TestParseSymbolPrefixes(t *testing.T) {
	f := parseOne(t, "(op :kw .sec 'lbl %hl #nz bare)")
	kinds := []SymKind{SymKeyword, SymSection, SymLabel, SymRegister, SymFlag, SymBareword}
	names := []string{"kw", "sec", "lbl", "hl", "nz", "bare"}
	for i, arg := range f.Args {
		sym, ok := arg.(Symbol)
		if !ok {
			t.Fatalf("arg %d is not a symbol: %s", i, arg)
		}
		if sym.Kind != kinds[i] || sym.Name != names[i] {
			t.Errorf("arg %d: expected kind %d name %q, got kind %d name %q",
				i, kinds[i], names[i], sym.Kind, sym.Name)
		}
	}
}

func TestParseLabelOnlyForm(t *testing.T) {
	f := parseOne(t, "('start)")
	if f.Label != "start" {
		t.Errorf("expected attached label start, got %q", f.Label)
	}
	if f.Op.Kind != SymBareword || f.Op.Name != "" {
		t.Errorf("expected a synthesized empty operator, got %s", f.Op)
	}
}

func TestParseLabeledForm(t *testing.T) {
	f := parseOne(t, "('init ld %a 1)")
	if f.Label != "init" || f.Op.Name != "ld" || len(f.Args) != 2 {
		t.Errorf("unexpected form: %s", f)
	}
}

func TestParseNestedForm(t *testing.T) {
	f := parseOne(t, "(ld %a (%hl +))")
	sub, ok := f.Args[1].(*Form)
	if !ok {
		t.Fatalf("expected a nested form, got %s", f.Args[1])
	}
	if sub.Op.Kind != SymRegister || sub.Op.Name != "hl" {
		t.Errorf("unexpected nested operator: %s", sub.Op)
	}
	if len(sub.Args) != 1 {
		t.Fatalf("expected 1 nested arg, got %d", len(sub.Args))
	}
	if sym, ok := sub.Args[0].(Symbol); !ok || sym.Kind != SymBareword || sym.Name != "+" {
		t.Errorf("unexpected nested arg: %s", sub.Args[0])
	}
}

func TestParseImmediates(t *testing.T) {
	f := parseOne(t, "(db 10 0x1f 0b101 0)")
	expected := []Immediate{10, 31, 5, 0}
	for i, want := range expected {
		if imm := f.Args[i].(Immediate); imm != want {
			t.Errorf("arg %d: expected %d, got %d", i, want, imm)
		}
	}
}

func TestParseString(t *testing.T) {
	f := parseOne(t, `(include "lib/io")`)
	if lit, ok := f.Args[0].(StringLit); !ok || lit != "lib/io" {
		t.Errorf("unexpected string literal: %s", f.Args[0])
	}
}

func TestParseComments(t *testing.T) {
	tl, err := ParseString("; header comment\n(nop) ; trailing\n;tail\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Forms) != 1 || tl.Forms[0].Op.Name != "nop" {
		t.Errorf("unexpected forms: %v", tl.Forms)
	}
}

func TestParseMultipleForms(t *testing.T) {
	tl, err := ParseString("(nop)\n(halt)")
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(tl.Forms))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src string
		err string
	}{
		{"(", "unexpected form end"},
		{"(nop", "unexpected form end"},
		{"()", "empty form"},
		{"(')", "empty symbol"},
		{"(db %)", "empty symbol"},
		{`(include "x`, "unexpected end of string"},
		{"(db 0x)", "invalid hex immediate"},
		{"(db 0bff 1)", "invalid binary immediate"},
		{"nop)", "expected (, but got n"},
	}

	for _, c := range cases {
		checkParseError(t, c.src, c.err)
	}
}

func TestParseSExpSingle(t *testing.T) {
	e, err := ParseSExp(" 'main ")
	if err != nil {
		t.Fatal(err)
	}
	if sym, ok := e.(Symbol); !ok || sym.Kind != SymLabel || sym.Name != "main" {
		t.Errorf("unexpected expression: %s", e)
	}

	e, err = ParseSExp("(- 'end 'start)")
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := e.(*Form); !ok || f.Op.Name != "-" || len(f.Args) != 2 {
		t.Errorf("unexpected expression: %s", e)
	}

	if _, err = ParseSExp("'a 'b"); err == nil {
		t.Error("expected an error for trailing characters")
	}
}
