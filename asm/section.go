// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"

	"github.com/mkeller/gbasm"
)

// A Section is a named contiguous region of the target address space.
// A section with a declared length has its buffer allocated up front
// and the cursor may never pass the end; a section without one grows
// as bytes are emitted. A label-only section admits no emission at
// all.
type Section struct {
	Name      string
	Offset    gbasm.Address
	Length    int // declared length in bytes, -1 if undeclared
	LabelOnly bool

	data   []byte
	cursor int
}

func newSection(name string, offset gbasm.Address, length int, labelOnly bool) *Section {
	sec := &Section{Name: name, Offset: offset, Length: length, LabelOnly: labelOnly}
	if length >= 0 {
		sec.data = make([]byte, length)
	}
	return sec
}

// Bytes returns the section's byte buffer. For a section with a
// declared length the buffer spans the whole section, bytes past the
// cursor still zero.
func (s *Section) Bytes() []byte {
	return s.data
}

// Cursor returns the number of bytes emitted into the section.
func (s *Section) Cursor() int {
	return s.cursor
}

func (s *Section) pushByte(v byte) error {
	if s.Length >= 0 {
		if s.cursor >= s.Length {
			return fmt.Errorf("section %s: write past end of section", s.Name)
		}
		s.data[s.cursor] = v
	} else {
		s.data = append(s.data, v)
	}
	s.cursor++
	return nil
}

// pushWord stores a 16-bit value little-endian.
func (s *Section) pushWord(v uint16) error {
	if err := s.pushByte(byte(v)); err != nil {
		return err
	}
	return s.pushByte(byte(v >> 8))
}
