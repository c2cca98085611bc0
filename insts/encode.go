package insts

// Encoders build instruction words from fields. They are used by tests and
// by tools that synthesize small programs; immediates are truncated to the
// width of their format.

// EncodeR encodes an R-type instruction.
func EncodeR(op Opcode, rd, funct3, rs1, rs2, funct7 uint8) Word {
	return Word(uint32(funct7&0x7F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(op&0x7F))
}

// EncodeI encodes an I-type instruction with a 12-bit immediate.
func EncodeI(op Opcode, rd, funct3, rs1 uint8, imm int32) Word {
	return Word((uint32(imm)&0xFFF)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(op&0x7F))
}

// EncodeS encodes an S-type instruction.
func EncodeS(op Opcode, funct3, rs1, rs2 uint8, imm int32) Word {
	u := uint32(imm)
	return Word(((u>>5)&0x7F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		(u&0x1F)<<7 |
		uint32(op&0x7F))
}

// EncodeB encodes a B-type instruction. The offset must be even.
func EncodeB(op Opcode, funct3, rs1, rs2 uint8, offset int32) Word {
	u := uint32(offset)
	return Word(((u>>12)&0x1)<<31 |
		((u>>5)&0x3F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		((u>>1)&0xF)<<8 |
		((u>>11)&0x1)<<7 |
		uint32(op&0x7F))
}

// EncodeU encodes a U-type instruction. imm20 is the right-aligned upper
// immediate.
func EncodeU(op Opcode, rd uint8, imm20 uint32) Word {
	return Word((imm20&0xFFFFF)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(op&0x7F))
}

// EncodeJ encodes a J-type instruction. The offset must be even.
func EncodeJ(op Opcode, rd uint8, offset int32) Word {
	u := uint32(offset)
	return Word(((u>>20)&0x1)<<31 |
		((u>>1)&0x3FF)<<21 |
		((u>>11)&0x1)<<20 |
		((u>>12)&0xFF)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(op&0x7F))
}

// Convenience encoders for common instructions.

// ADDI encodes addi rd, rs1, imm.
func ADDI(rd, rs1 uint8, imm int32) Word {
	return EncodeI(OpcodeOpImm, rd, 0b000, rs1, imm)
}

// ADD encodes add rd, rs1, rs2.
func ADD(rd, rs1, rs2 uint8) Word {
	return EncodeR(OpcodeOp, rd, 0b000, rs1, rs2, 0)
}

// SUB encodes sub rd, rs1, rs2.
func SUB(rd, rs1, rs2 uint8) Word {
	return EncodeR(OpcodeOp, rd, 0b000, rs1, rs2, 0b0100000)
}

// LW encodes lw rd, imm(rs1).
func LW(rd, rs1 uint8, imm int32) Word {
	return EncodeI(OpcodeLoad, rd, 0b010, rs1, imm)
}

// SW encodes sw rs2, imm(rs1).
func SW(rs2, rs1 uint8, imm int32) Word {
	return EncodeS(OpcodeStore, 0b010, rs1, rs2, imm)
}

// BEQ encodes beq rs1, rs2, offset.
func BEQ(rs1, rs2 uint8, offset int32) Word {
	return EncodeB(OpcodeBranch, 0b000, rs1, rs2, offset)
}

// BNE encodes bne rs1, rs2, offset.
func BNE(rs1, rs2 uint8, offset int32) Word {
	return EncodeB(OpcodeBranch, 0b001, rs1, rs2, offset)
}

// JAL encodes jal rd, offset.
func JAL(rd uint8, offset int32) Word {
	return EncodeJ(OpcodeJAL, rd, offset)
}

// JALR encodes jalr rd, imm(rs1).
func JALR(rd, rs1 uint8, imm int32) Word {
	return EncodeI(OpcodeJALR, rd, 0b000, rs1, imm)
}

// LUI encodes lui rd, imm20.
func LUI(rd uint8, imm20 uint32) Word {
	return EncodeU(OpcodeLUI, rd, imm20)
}

// AUIPC encodes auipc rd, imm20.
func AUIPC(rd uint8, imm20 uint32) Word {
	return EncodeU(OpcodeAUIPC, rd, imm20)
}

// SLLI encodes slli rd, rs1, shamt.
func SLLI(rd, rs1, shamt uint8) Word {
	return EncodeI(OpcodeOpImm, rd, 0b001, rs1, int32(shamt&0x1F))
}

// SRAI encodes srai rd, rs1, shamt.
func SRAI(rd, rs1, shamt uint8) Word {
	return EncodeI(OpcodeOpImm, rd, 0b101, rs1, int32(shamt&0x1F)|0x400)
}

// XOR encodes xor rd, rs1, rs2.
func XOR(rd, rs1, rs2 uint8) Word {
	return EncodeR(OpcodeOp, rd, 0b100, rs1, rs2, 0)
}

// AND encodes and rd, rs1, rs2.
func AND(rd, rs1, rs2 uint8) Word {
	return EncodeR(OpcodeOp, rd, 0b111, rs1, rs2, 0)
}

// OR encodes or rd, rs1, rs2.
func OR(rd, rs1, rs2 uint8) Word {
	return EncodeR(OpcodeOp, rd, 0b110, rs1, rs2, 0)
}

// SLT encodes slt rd, rs1, rs2.
func SLT(rd, rs1, rs2 uint8) Word {
	return EncodeR(OpcodeOp, rd, 0b010, rs1, rs2, 0)
}

// BLT encodes blt rs1, rs2, offset.
func BLT(rs1, rs2 uint8, offset int32) Word {
	return EncodeB(OpcodeBranch, 0b100, rs1, rs2, offset)
}

// LBU encodes lbu rd, imm(rs1).
func LBU(rd, rs1 uint8, imm int32) Word {
	return EncodeI(OpcodeLoad, rd, 0b100, rs1, imm)
}

// SB encodes sb rs2, imm(rs1).
func SB(rs2, rs1 uint8, imm int32) Word {
	return EncodeS(OpcodeStore, 0b000, rs1, rs2, imm)
}
