// Package emu provides functional RV32I emulation.
package emu

import "github.com/sarchlab/rv32sim/control"

// ALU implements the RV32I arithmetic, logic, shift and compare functions.
// It is purely combinational.
type ALU struct{}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Execute applies op to operands a and b. Shift amounts use b[4:0]. Unknown
// codes fall back to addition, the engine's default function.
func (u *ALU) Execute(op control.ALUOp, a, b uint32) uint32 {
	shamt := b & 0x1F

	switch op {
	case control.ALUSub:
		return a - b
	case control.ALUSll:
		return a << shamt
	case control.ALUSlt:
		return boolToWord(lessThan(a, b, false))
	case control.ALUSltu:
		return boolToWord(lessThan(a, b, true))
	case control.ALUXor:
		return a ^ b
	case control.ALUSrl:
		return a >> shamt
	case control.ALUSra:
		return uint32(int32(a) >> shamt)
	case control.ALUOr:
		return a | b
	case control.ALUAnd:
		return a & b
	case control.ALULui:
		return b << 12
	case control.ALUAuipc:
		return a + b<<12
	default:
		return a + b
	}
}

// lessThan reports a < b using the borrow and overflow of a - b, the way a
// subtractor-based comparator does.
func lessThan(a, b uint32, unsigned bool) bool {
	diff := a - b

	if unsigned {
		// Borrow out of bit 31.
		borrow := (^a & b) | (^(a ^ b) & diff)
		return borrow>>31 == 1
	}

	// Sign of the difference, corrected for signed overflow.
	overflow := (a ^ b) & (a ^ diff)
	return (diff^overflow)>>31 == 1
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
