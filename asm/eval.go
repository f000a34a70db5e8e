// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"

	"github.com/mkeller/gbasm"
)

// EvalAddress evaluates an address arithmetic expression: a label
// reference, or a form applying '+' or '-' to further address
// arithmetic expressions. The result is unconstrained here; the
// 16-bit range check happens where the value is patched into a
// section.
func EvalAddress(e SExp, labels map[string]gbasm.Address) (uint64, error) {
	switch e := e.(type) {
	case Symbol:
		if e.Kind != SymLabel {
			return 0, fmt.Errorf("illegal address arithmetic expression: %s", e)
		}
		addr, ok := labels[e.Name]
		if !ok {
			return 0, fmt.Errorf("undefined label: '%s", e.Name)
		}
		return uint64(addr), nil

	case *Form:
		if e.Op.Kind != SymBareword {
			return 0, fmt.Errorf("illegal arithmetic address operator: %s", e.Op)
		}
		switch e.Op.Name {
		case "+":
			return evalSum(e, labels)
		case "-":
			return evalDifference(e, labels)
		default:
			return 0, fmt.Errorf("illegal arithmetic address operator: %s", e.Op.Name)
		}

	default:
		return 0, fmt.Errorf("illegal address arithmetic expression: %s", e)
	}
}

// The empty sum is 0.
func evalSum(f *Form, labels map[string]gbasm.Address) (uint64, error) {
	var sum uint64
	for _, arg := range f.Args {
		v, err := EvalAddress(arg, labels)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

// Subtraction left-folds from the first operand and requires at least
// two. Intermediate results must stay non-negative.
func evalDifference(f *Form, labels map[string]gbasm.Address) (uint64, error) {
	if len(f.Args) < 2 {
		return 0, fmt.Errorf("-: invalid number of arguments %d", len(f.Args))
	}

	acc, err := EvalAddress(f.Args[0], labels)
	if err != nil {
		return 0, err
	}
	for _, arg := range f.Args[1:] {
		v, err := EvalAddress(arg, labels)
		if err != nil {
			return 0, err
		}
		if acc < v {
			return 0, fmt.Errorf("-: negative address")
		}
		acc -= v
	}
	return acc, nil
}
