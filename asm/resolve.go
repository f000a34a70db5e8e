// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"

	"github.com/mkeller/gbasm"
)

type refKind byte

const (
	refRelative refKind = iota // signed 8-bit PC-relative displacement
	refAbsolute                // unsigned 16-bit address, little-endian
)

// A reference records a patch site in a section's byte buffer where a
// label's address, or an address expression's value, must be written
// once every label is known.
type reference struct {
	kind     refKind
	mnemonic string        // for range diagnostics
	label    string        // relative: target label
	origin   gbasm.Address // relative: address after the instruction
	expr     SExp          // absolute: label symbol or arithmetic form
	section  string
	patch    int // byte index of the patch site within the section
	width    int
}

func (a *assembler) enqueueRelative(mnemonic, label string, origin gbasm.Address, section string, patch int) {
	a.pending = append(a.pending, reference{
		kind:     refRelative,
		mnemonic: mnemonic,
		label:    label,
		origin:   origin,
		section:  section,
		patch:    patch,
		width:    1,
	})
}

func (a *assembler) enqueueAbsolute(mnemonic string, expr SExp, section string, patch int) {
	a.pending = append(a.pending, reference{
		kind:     refAbsolute,
		mnemonic: mnemonic,
		expr:     expr,
		section:  section,
		patch:    patch,
		width:    2,
	})
}

// resolve patches every pending reference, in enqueue order. Any
// lookup failure or range violation aborts the assembly.
func (a *assembler) resolve() error {
	for i := range a.pending {
		ref := &a.pending[i]
		sec := a.lookupSection(ref.section)

		switch ref.width {
		case 1:
			target, ok := a.labels[ref.label]
			if !ok {
				return fmt.Errorf("undefined label: '%s", ref.label)
			}
			dist := int64(target) - int64(ref.origin)
			if dist < -128 {
				return fmt.Errorf("%s: max -128 jumps back, was %d", ref.mnemonic, dist)
			}
			if dist > 127 {
				return fmt.Errorf("%s: max 127 jumps forward, was %d", ref.mnemonic, dist)
			}
			sec.data[ref.patch] = byte(dist) // two's complement
			a.logf("patch %s[%d] = %02X (jr '%s, dist %d)",
				ref.section, ref.patch, byte(dist), ref.label, dist)

		case 2:
			v, err := EvalAddress(ref.expr, a.labels)
			if err != nil {
				return err
			}
			if v > 0xFFFF {
				return fmt.Errorf("%s: max 65535 jumps forward, was %d", ref.mnemonic, v)
			}
			sec.data[ref.patch] = byte(v)
			sec.data[ref.patch+1] = byte(v >> 8)
			a.logf("patch %s[%d] = %04X (%s)", ref.section, ref.patch, v, ref.expr)

		default:
			return fmt.Errorf("unsupported patch width: %d", ref.width)
		}
	}
	return nil
}
