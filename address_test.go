// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbasm

import "testing"

func TestAddressAddBytes(t *testing.T) {
	addr, err := Address(0x4000).AddBytes(3)
	if err != nil {
		t.Fatal(err)
	}
	if addr != 0x4003 {
		t.Errorf("expected $4003, got %s", addr)
	}

	addr, err = Address(0xFFFE).AddBytes(1)
	if err != nil {
		t.Fatal(err)
	}
	if addr != 0xFFFF {
		t.Errorf("expected $FFFF, got %s", addr)
	}
}

func TestAddressOverflow(t *testing.T) {
	if _, err := Address(0xFFFF).AddBytes(1); err == nil {
		t.Error("expected an overflow error, got none")
	}
	if _, err := Address(0x8000).AddBytes(0x8000); err == nil {
		t.Error("expected an overflow error, got none")
	}
}

func TestAddressString(t *testing.T) {
	if s := Address(0x1F).String(); s != "$001F" {
		t.Errorf("unexpected format: %s", s)
	}
}
