// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "testing"

func TestLdVariants(t *testing.T) {
	src := `(def-section .code :offset 0 :length 22)(section .code)
		(ld %b 5)
		(ld %a 0x10)
		(ld %hl 0x1234)
		(ld %sp 0xfffe)
		(ld (%hl) 7)
		(ld (%hl) %a)
		(ld (%bc) %a)
		(ld (%de) %a)
		(ld (%hl +) %a)
		(ld (%hl -) %a)
		(ld %a (%bc))
		(ld %a (%de))
		(ld %a (%hl))
		(ld %a (%hl +))
		(ld %a (%hl -))`

	checkFlat(t, src, "06053E1021341231FEFF360777021222320A1A7E2A3A")
}

func TestLdReg16Label(t *testing.T) {
	src := `(def-section .code :offset 0 :length 12)(section .code)
		(ld %bc 'x)
		(ld %de 'x)
		(ld %hl 'x)
		(ld %sp 'x)
		(label 'x)`

	checkFlat(t, src, "010C00110C00210C00310C00")
}

func TestLdMemDeref(t *testing.T) {
	src := `(def-section .code :offset 0 :length 6)(section .code)
		(ld %a ('data))
		(ld ('data) %a)
		(label 'data)`

	checkFlat(t, src, "FA0600EA0600")
}

func TestIncDec(t *testing.T) {
	src := `(def-section .code :offset 0 :length 24)(section .code)
		(inc %a)(inc %b)(inc %c)(inc %d)(inc %e)(inc %h)(inc %l)
		(inc %bc)(inc %de)(inc %hl)(inc %sp)(inc (%hl))
		(dec %a)(dec %b)(dec %c)(dec %d)(dec %e)(dec %h)(dec %l)
		(dec %bc)(dec %de)(dec %hl)(dec %sp)(dec (%hl))`

	checkFlat(t, src, "3C040C141C242C03132333343D050D151D252D0B1B2B3B35")
}

func TestCpVariants(t *testing.T) {
	src := `(def-section .code :offset 0 :length 10)(section .code)
		(cp %b)(cp %c)(cp %d)(cp %e)(cp %h)(cp %l)(cp %a)(cp (%hl))(cp 0x90)`

	checkFlat(t, src, "B8B9BABBBCBDBFBEFE90")
}

func TestHaltRst(t *testing.T) {
	src := `(def-section .code :offset 0 :length 4)(section .code)
		(halt)(rst 0x38)(rst 0x10)(rst 0)`

	checkFlat(t, src, "76FFD7C7")
}

func TestJrConditions(t *testing.T) {
	src := `(def-section .code :offset 0 :length 10)(section .code)
		(label 'l)
		(jr 'l)(jr #nz 'l)(jr #z 'l)(jr #nc 'l)(jr #c 'l)`

	checkFlat(t, src, "18FE20FC28FA30F838F6")
}

func TestJpConditions(t *testing.T) {
	src := `(def-section .code :offset 0 :length 15)(section .code)
		(jp 'l)(jp #nz 'l)(jp #z 'l)(jp #nc 'l)(jp #c 'l)
		(label 'l)`

	checkFlat(t, src, "C30F00C20F00CA0F00D20F00DA0F00")
}

func TestEncodingErrors(t *testing.T) {
	prefix := `(def-section .c :offset 0 :length 16)(section .c)`
	cases := []struct {
		src string
		err string
	}{
		{`(ld %a)`, "ld: illegal parameters"},
		{`(ld %q 4)`, "ld: unknown target register: %q"},
		{`(ld %a %b)`, "ld: illegal parameters"},
		{`(ld (%sp) %a)`, "ld: illegal parameters"},
		{`(ld (%hl) %b)`, "ld: illegal parameters"},
		{`(ld %b (%hl))`, "ld: illegal parameters"},
		{`(ld %a "x")`, "ld: illegal parameters"},
		{`(ld %b 256)`, "ld: value 256 does not fit in a byte"},
		{`(ld %hl 65536)`, "ld: value 65536 does not fit in 16 bits"},
		{`(inc %q)`, "inc: unknown register: %q"},
		{`(inc)`, "inc: illegal parameters"},
		{`(dec %hl %a)`, "dec: illegal parameters"},
		{`(cp)`, "cp: illegal parameters"},
		{`(cp 300)`, "cp: value 300 does not fit in a byte"},
		{`(jr)`, "jr: needs at least one argument"},
		{`(jr #x 'l)`, "jr: unknown condition flag: #x"},
		{`(jr 'l 'l)`, "jr: illegal parameters"},
		{`(jp #z)`, "jp: illegal parameters"},
		{`(jp 42)`, "label expected"},
		{`(rst 3)`, "rst: illegal vector 3"},
		{`(rst 0x40)`, "rst: illegal vector 64"},
		{`(nop 1)`, "nop: illegal parameters"},
		{`(halt %a)`, "halt: illegal parameters"},
	}

	for _, c := range cases {
		checkError(t, prefix+c.src, c.err)
	}
}
