// Package emu provides functional RV32I emulation.
package emu

import "github.com/sarchlab/rv32sim/insts"

// Access widths selected by funct3[1:0].
const (
	widthByte = 0b00
	widthHalf = 0b01
)

// LoadStoreUnit implements RV32I loads and stores. It owns address
// decoding: addresses inside the MMIO window go to the device, everything
// else goes to memory.
type LoadStoreUnit struct {
	memory *Memory
	device Device

	mmioBase uint32
	mmioSize uint32
}

// NewLoadStoreUnit creates a new LoadStoreUnit. A nil device or a zero
// mmioSize disables the MMIO window.
func NewLoadStoreUnit(memory *Memory, device Device, mmioBase, mmioSize uint32) *LoadStoreUnit {
	return &LoadStoreUnit{
		memory:   memory,
		device:   device,
		mmioBase: mmioBase,
		mmioSize: mmioSize,
	}
}

// IsMMIO reports whether addr falls inside the device window.
func (lsu *LoadStoreUnit) IsMMIO(addr uint32) bool {
	return lsu.device != nil && addr >= lsu.mmioBase && addr-lsu.mmioBase < lsu.mmioSize
}

// Load reads from addr with the width and extension encoded in funct3:
// funct3[1:0] selects byte, half or word and funct3[2] selects zero
// extension.
func (lsu *LoadStoreUnit) Load(addr uint32, funct3 uint8) (uint32, error) {
	width := funct3 & 0b11
	unsigned := funct3&0b100 != 0

	if lsu.IsMMIO(addr) {
		return lsu.loadMMIO(addr, width, unsigned), nil
	}

	switch width {
	case widthByte:
		v, err := lsu.memory.Read8(addr)
		if err != nil {
			return 0, err
		}
		return extend(uint32(v), 8, unsigned), nil
	case widthHalf:
		v, err := lsu.memory.Read16(addr)
		if err != nil {
			return 0, err
		}
		return extend(uint32(v), 16, unsigned), nil
	default:
		return lsu.memory.Read32(addr)
	}
}

// Store writes the low byte, half or word of value to addr as selected by
// funct3[1:0].
func (lsu *LoadStoreUnit) Store(addr uint32, value uint32, funct3 uint8) error {
	width := funct3 & 0b11

	if lsu.IsMMIO(addr) {
		lsu.storeMMIO(addr, value, width)
		return nil
	}

	switch width {
	case widthByte:
		return lsu.memory.Write8(addr, uint8(value))
	case widthHalf:
		return lsu.memory.Write16(addr, uint16(value))
	default:
		return lsu.memory.Write32(addr, value)
	}
}

// widthMask returns the value mask and byte count of an access width.
func widthMask(width uint8) (mask uint32, size uint32) {
	switch width {
	case widthByte:
		return 0xFF, 1
	case widthHalf:
		return 0xFFFF, 2
	default:
		return 0xFFFFFFFF, 4
	}
}

// loadMMIO reads the addressed bytes from the device in little-endian
// order. Accesses that straddle a word boundary read both device words.
func (lsu *LoadStoreUnit) loadMMIO(addr uint32, width uint8, unsigned bool) uint32 {
	offset := addr - lsu.mmioBase
	aligned := offset &^ 3
	lane := (offset & 3) * 8
	mask, size := widthMask(width)

	v := lsu.device.ReadWord(aligned) >> lane
	if offset&3+size > 4 {
		v |= lsu.device.ReadWord(aligned+4) << (32 - lane)
	}
	v &= mask

	switch width {
	case widthByte:
		return extend(v, 8, unsigned)
	case widthHalf:
		return extend(v, 16, unsigned)
	default:
		return v
	}
}

// storeMMIO merges sub-word and misaligned stores into the device words
// they cover.
func (lsu *LoadStoreUnit) storeMMIO(addr uint32, value uint32, width uint8) {
	offset := addr - lsu.mmioBase
	aligned := offset &^ 3
	lane := (offset & 3) * 8
	mask, size := widthMask(width)

	if lane == 0 && size == 4 {
		lsu.device.WriteWord(aligned, value)
		return
	}

	lo := mask << lane
	old := lsu.device.ReadWord(aligned)
	lsu.device.WriteWord(aligned, old&^lo|(value<<lane)&lo)

	if offset&3+size > 4 {
		hi := mask >> (32 - lane)
		old = lsu.device.ReadWord(aligned + 4)
		lsu.device.WriteWord(aligned+4, old&^hi|(value>>(32-lane))&hi)
	}
}

func extend(v uint32, bits uint, unsigned bool) uint32 {
	if unsigned {
		return v
	}
	return insts.SignExtend(v, bits)
}
