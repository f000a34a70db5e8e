// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "testing"

func TestFlatPadding(t *testing.T) {
	src := `(def-section .a :offset 0 :length 2)
		(def-section .b :offset 4 :length 2)
		(section .a)(db 1 2)
		(section .b)(db 3 4)`

	checkFlat(t, src, "010200000304")
}

func TestFlatSortsByOffset(t *testing.T) {
	// Definition order and layout order are independent.
	src := `(def-section .high :offset 4 :length 2)
		(def-section .low :offset 0 :length 2)
		(section .high)(db 3 4)
		(section .low)(db 1 2)`

	checkFlat(t, src, "010200000304")
}

func TestFlatSkipsLabelOnlySections(t *testing.T) {
	src := `(def-section .code :offset 0 :length 2)
		(def-section .vars :offset 0xC000 :label-only true)
		(section .vars)(label 'counter)
		(section .code)(db 1 2)`

	checkFlat(t, src, "0102")
}

func TestFlatRequiresLength(t *testing.T) {
	result, err := assemble(t, `(def-section .d :offset 0)(section .d)(db 1)`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := result.Flat(); err == nil {
		t.Fatal("expected an error for a section without length, got none")
	} else if err.Error() != "flat assembly needs sections with specified length (section d)" {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestFlatDetectsOverlap(t *testing.T) {
	result, err := assemble(t, `(def-section .a :offset 0 :length 4)
		(def-section .b :offset 2 :length 2)
		(section .a)(db 1)
		(section .b)(db 2)`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := result.Flat(); err == nil {
		t.Fatal("expected an overlap error, got none")
	} else if err.Error() != "section b overlaps the previous section" {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestFlatOutputLength(t *testing.T) {
	// The image is as long as the furthest section end.
	src := `(def-section .a :offset 0 :length 2)
		(def-section .b :offset 0x10 :length 8)
		(section .a)(db 1)
		(section .b)(db 2)`

	data := flatten(t, src)
	if len(data) != 0x18 {
		t.Errorf("expected 0x18 bytes, got 0x%X", len(data))
	}
}
