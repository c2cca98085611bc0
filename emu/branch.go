// Package emu provides functional RV32I emulation.
package emu

import "github.com/sarchlab/rv32sim/control"

// BranchComparator compares two register operands for the decode engine.
// The signedness is dictated by the engine's BranchUnsigned signal.
type BranchComparator struct{}

// NewBranchComparator creates a new BranchComparator.
func NewBranchComparator() *BranchComparator {
	return &BranchComparator{}
}

// Compare returns the less-than and equal flags for a and b.
func (c *BranchComparator) Compare(a, b uint32, unsigned bool) control.Compare {
	return control.Compare{
		Less:  lessThan(a, b, unsigned),
		Equal: a^b == 0,
	}
}
