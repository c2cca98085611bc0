// Package emu provides functional RV32I emulation.
package emu

import "github.com/bits-and-blooms/bitset"

// NumRegs is the number of integer registers.
const NumRegs = 32

// RegFile represents the RV32I register file and program counter.
// The zero value is a reset register file.
type RegFile struct {
	// X holds integer registers x0-x31. X[0] always reads as 0.
	X [NumRegs]uint32

	// PC is the program counter.
	PC uint32

	// written records which registers have been written since reset.
	written bitset.BitSet
}

// ReadReg reads a register value. x0 and out-of-range indices return 0.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == 0 || reg >= NumRegs {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to x0 are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	if reg == 0 || reg >= NumRegs {
		return
	}
	r.X[reg] = value
	r.written.Set(uint(reg))
}

// Written reports whether reg has been written since the last reset.
func (r *RegFile) Written(reg uint8) bool {
	return r.written.Test(uint(reg))
}

// WrittenCount returns how many distinct registers have been written.
func (r *RegFile) WrittenCount() uint {
	return r.written.Count()
}

// Reset clears all registers and the PC.
func (r *RegFile) Reset() {
	r.X = [NumRegs]uint32{}
	r.PC = 0
	r.written.ClearAll()
}
