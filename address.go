// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbasm

import "fmt"

// An Address is an offset into the 16-bit SM83 address space.
type Address uint16

// AddBytes advances the address by n bytes. Overflow past the end of
// the address space is an error.
func (a Address) AddBytes(n int) (Address, error) {
	sum := int(a) + n
	if sum > 0xFFFF {
		return a, fmt.Errorf("address overflow: %04X + %d exceeds the 16-bit address space", uint16(a), n)
	}
	return Address(sum), nil
}

func (a Address) String() string {
	return fmt.Sprintf("$%04X", uint16(a))
}
