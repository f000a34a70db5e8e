// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"sort"
)

// Flat renders the assembled sections as a flat ROM image. Sections
// are laid out at their declared offsets in ascending order, the gaps
// between them zero-filled. Label-only sections occupy no output.
// Every concrete section must declare a length, and sections may not
// overlap.
func (r *Result) Flat() ([]byte, error) {
	secs := make([]*Section, len(r.Sections))
	copy(secs, r.Sections)
	sort.SliceStable(secs, func(i, j int) bool {
		return secs[i].Offset < secs[j].Offset
	})

	var out []byte
	last := 0
	for _, sec := range secs {
		if sec.LabelOnly {
			continue
		}
		if sec.Length < 0 {
			return nil, fmt.Errorf("flat assembly needs sections with specified length (section %s)", sec.Name)
		}
		if int(sec.Offset) < last {
			return nil, fmt.Errorf("section %s overlaps the previous section", sec.Name)
		}
		out = append(out, make([]byte, int(sec.Offset)-last)...)
		out = append(out, sec.data...)
		last = int(sec.Offset) + sec.Length
	}
	return out, nil
}
