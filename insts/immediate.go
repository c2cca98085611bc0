package insts

import "golang.org/x/exp/constraints"

// SignExtend widens the low width bits of value to 32 bits, replicating
// bit width-1 into the upper bits.
func SignExtend[T constraints.Unsigned](value T, width uint) uint32 {
	shift := 32 - width
	return uint32(int32(uint32(value)<<shift) >> shift)
}

// ImmI returns the sign-extended I-type immediate imm[11:0].
func ImmI(w Word) uint32 {
	return SignExtend(uint32(w)>>20, 12)
}

// ImmS returns the sign-extended S-type immediate imm[11:5|4:0].
func ImmS(w Word) uint32 {
	raw := (uint32(w)>>25)<<5 | (uint32(w)>>7)&0x1F
	return SignExtend(raw, 12)
}

// ImmB returns the sign-extended B-type branch offset imm[12|10:5|4:1|11].
func ImmB(w Word) uint32 {
	raw := ((uint32(w)>>31)&0x1)<<12 | // bit 12
		((uint32(w)>>7)&0x1)<<11 | // bit 11
		((uint32(w)>>25)&0x3F)<<5 | // bits 10:5
		((uint32(w)>>8)&0xF)<<1 // bits 4:1
	return SignExtend(raw, 13)
}

// ImmU returns the U-type immediate imm[31:12] right-aligned. The ALU's
// LUI and AUIPC operations apply the 12-bit shift.
func ImmU(w Word) uint32 {
	return uint32(w) >> 12
}

// ImmJ returns the sign-extended J-type jump offset imm[20|10:1|11|19:12].
func ImmJ(w Word) uint32 {
	raw := ((uint32(w)>>31)&0x1)<<20 | // bit 20
		((uint32(w)>>12)&0xFF)<<12 | // bits 19:12
		((uint32(w)>>20)&0x1)<<11 | // bit 11
		((uint32(w)>>21)&0x3FF)<<1 // bits 10:1
	return SignExtend(raw, 21)
}

// Immediate extracts the immediate operand for the word's encoding format.
// Formats without an immediate yield 0.
func Immediate(w Word) uint32 {
	switch w.Opcode().Format() {
	case FormatI:
		return ImmI(w)
	case FormatS:
		return ImmS(w)
	case FormatB:
		return ImmB(w)
	case FormatU:
		return ImmU(w)
	case FormatJ:
		return ImmJ(w)
	default:
		return 0
	}
}
