// Package emu provides functional RV32I emulation.
package emu

// Device is a memory-mapped peripheral reached through the load-store
// unit. Offsets are byte offsets from the start of the MMIO window and are
// word aligned; sub-word accesses are merged by the load-store unit.
type Device interface {
	ReadWord(offset uint32) uint32
	WriteWord(offset uint32, value uint32)
}

// RegisterBank is a Device made of plain word latches. Writes are stored
// and read back unchanged; offsets past the bank read as zero and drop
// writes.
type RegisterBank struct {
	regs []uint32
}

// NewRegisterBank creates a bank of n word registers.
func NewRegisterBank(n int) *RegisterBank {
	return &RegisterBank{regs: make([]uint32, n)}
}

// ReadWord implements Device.
func (b *RegisterBank) ReadWord(offset uint32) uint32 {
	idx := offset / 4
	if idx >= uint32(len(b.regs)) {
		return 0
	}
	return b.regs[idx]
}

// WriteWord implements Device.
func (b *RegisterBank) WriteWord(offset uint32, value uint32) {
	idx := offset / 4
	if idx >= uint32(len(b.regs)) {
		return
	}
	b.regs[idx] = value
}

// Len returns the number of registers.
func (b *RegisterBank) Len() int {
	return len(b.regs)
}
