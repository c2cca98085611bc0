package control

import "github.com/sarchlab/rv32sim/insts"

// BranchCond describes when an instruction redirects the PC to the ALU
// result.
type BranchCond uint8

// Branch conditions.
const (
	CondNever    BranchCond = iota // sequential
	CondAlways                     // JAL, JALR
	CondEqual                      // BEQ
	CondNotEqual                   // BNE
	CondLess                       // BLT, BLTU
	CondNotLess                    // BGE, BGEU
)

// Taken evaluates the condition against the comparator outputs.
func (c BranchCond) Taken(cmp Compare) bool {
	switch c {
	case CondAlways:
		return true
	case CondEqual:
		return cmp.Equal
	case CondNotEqual:
		return !cmp.Equal
	case CondLess:
		return cmp.Less
	case CondNotLess:
		return !cmp.Less
	default:
		return false
	}
}

// Raw holds the unmasked signals produced by Classify. For an invalid word
// the fields are whatever the matched opcode class requested, which is why
// they must pass through Mask before reaching the datapath.
type Raw struct {
	Branch         BranchCond
	RegWrite       bool
	MemWrite       bool
	BranchUnsigned bool
	OperandA       OperandASelect
	OperandB       OperandBSelect
	ALUOp          ALUOp
	Writeback      WritebackSelect
}

// Decode produces the control vector for word given the branch
// comparator's less-than and equal outputs. The returned bool equals
// Vector.Valid.
func Decode(word insts.Word, branchLess, branchEqual bool) (Vector, bool) {
	raw, valid := Classify(word)
	vec := Mask(raw, valid, Compare{Less: branchLess, Equal: branchEqual})
	return vec, vec.Valid
}

// Classify maps the instruction word to raw signals and a validity flag.
// Fields not relevant to the recognized opcode keep their defaults.
func Classify(word insts.Word) (Raw, bool) {
	raw := Raw{}

	switch word.Opcode() {
	case insts.OpcodeOp:
		return classifyOp(word, raw)
	case insts.OpcodeOpImm:
		return classifyOpImm(word, raw)
	case insts.OpcodeLoad:
		raw.OperandB = OperandBImmediate
		raw.RegWrite = true
		raw.Writeback = WritebackLoad
		return raw, true
	case insts.OpcodeStore:
		raw.OperandB = OperandBImmediate
		raw.MemWrite = true
		return raw, word.Funct3() <= 0b010
	case insts.OpcodeBranch:
		return classifyBranch(word, raw)
	case insts.OpcodeLUI:
		raw.OperandB = OperandBImmediate
		raw.ALUOp = ALULui
		raw.RegWrite = true
		return raw, true
	case insts.OpcodeAUIPC:
		raw.OperandA = OperandAPC
		raw.OperandB = OperandBImmediate
		raw.ALUOp = ALUAuipc
		raw.RegWrite = true
		return raw, true
	case insts.OpcodeJAL:
		raw.OperandA = OperandAPC
		raw.OperandB = OperandBImmediate
		raw.RegWrite = true
		raw.Writeback = WritebackPCPlus4
		raw.Branch = CondAlways
		return raw, true
	case insts.OpcodeJALR:
		raw.OperandB = OperandBImmediate
		raw.RegWrite = true
		raw.Writeback = WritebackPCPlus4
		raw.Branch = CondAlways
		return raw, word.Funct3() == 0b000
	default:
		return raw, false
	}
}

// aluOpFunct3 maps funct3 to the ALU function shared by OP and OP-IMM.
// Entries 000 and 101 are refined by funct7.
var aluOpFunct3 = [8]ALUOp{
	0b000: ALUAdd,
	0b001: ALUSll,
	0b010: ALUSlt,
	0b011: ALUSltu,
	0b100: ALUXor,
	0b101: ALUSrl,
	0b110: ALUOr,
	0b111: ALUAnd,
}

// classifyOp handles register-register ALU instructions. Every funct3 is
// valid; funct7 bit 5 selects SUB and SRA and is otherwise ignored.
func classifyOp(word insts.Word, raw Raw) (Raw, bool) {
	funct3 := word.Funct3()
	alt := word.Funct7()&0x20 != 0

	raw.RegWrite = true
	raw.ALUOp = aluOpFunct3[funct3]

	switch funct3 {
	case 0b000:
		if alt {
			raw.ALUOp = ALUSub
		}
	case 0b101:
		if alt {
			raw.ALUOp = ALUSra
		}
	}

	return raw, true
}

// classifyOpImm handles register-immediate ALU instructions. Shifts take
// the shift amount from imm[4:0] and must carry an exact funct7.
func classifyOpImm(word insts.Word, raw Raw) (Raw, bool) {
	funct3 := word.Funct3()
	funct7 := word.Funct7()

	raw.OperandB = OperandBImmediate
	raw.RegWrite = true
	raw.ALUOp = aluOpFunct3[funct3]

	switch funct3 {
	case 0b001:
		return raw, funct7 == 0b0000000
	case 0b101:
		switch funct7 {
		case 0b0000000:
			return raw, true
		case 0b0100000:
			raw.ALUOp = ALUSra
			return raw, true
		}
		return raw, false
	}

	return raw, true
}

// classifyBranch handles conditional branches. The target PC + offset is
// computed by the ALU; the comparator outputs decide whether it is taken.
func classifyBranch(word insts.Word, raw Raw) (Raw, bool) {
	raw.OperandA = OperandAPC
	raw.OperandB = OperandBImmediate

	switch word.Funct3() {
	case 0b000:
		raw.Branch = CondEqual
	case 0b001:
		raw.Branch = CondNotEqual
	case 0b100:
		raw.Branch = CondLess
	case 0b101:
		raw.Branch = CondNotLess
	case 0b110:
		raw.Branch = CondLess
		raw.BranchUnsigned = true
	case 0b111:
		raw.Branch = CondNotLess
		raw.BranchUnsigned = true
	default:
		return raw, false
	}

	return raw, true
}

// Mask resolves the branch condition against cmp and gates every signal
// with valid. Write enables and the PC redirect are ANDed with valid; the
// remaining selects fall back to their defaults when invalid.
func Mask(raw Raw, valid bool, cmp Compare) Vector {
	vec := Vector{
		Valid:    valid,
		RegWrite: raw.RegWrite && valid,
		MemWrite: raw.MemWrite && valid,
	}

	if raw.Branch.Taken(cmp) && valid {
		vec.PCSelect = PCTarget
	}

	if !valid {
		return vec
	}

	vec.BranchUnsigned = raw.BranchUnsigned
	vec.OperandA = raw.OperandA
	vec.OperandB = raw.OperandB
	vec.ALUOp = raw.ALUOp
	vec.Writeback = raw.Writeback

	return vec
}
