// Package insts provides RV32I instruction definitions and decoding.
//
// This package implements field extraction and structured decoding of RV32I
// machine code. It supports:
//   - Register-register and register-immediate ALU operations
//   - Loads and stores (byte, halfword, word)
//   - Conditional branches, JAL and JALR
//   - LUI and AUIPC
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00500093) // ADDI x1, x0, 5
//	fmt.Println(insts.Disassemble(inst)) // addi x1, x0, 5
package insts

// Word is a raw 32-bit RV32I instruction word.
type Word uint32

// Opcode returns bits [6:0].
func (w Word) Opcode() Opcode {
	return Opcode(w & 0x7F)
}

// Rd returns bits [11:7].
func (w Word) Rd() uint8 {
	return uint8((w >> 7) & 0x1F)
}

// Funct3 returns bits [14:12].
func (w Word) Funct3() uint8 {
	return uint8((w >> 12) & 0x7)
}

// Rs1 returns bits [19:15].
func (w Word) Rs1() uint8 {
	return uint8((w >> 15) & 0x1F)
}

// Rs2 returns bits [24:20].
func (w Word) Rs2() uint8 {
	return uint8((w >> 20) & 0x1F)
}

// Funct7 returns bits [31:25].
func (w Word) Funct7() uint8 {
	return uint8((w >> 25) & 0x7F)
}
