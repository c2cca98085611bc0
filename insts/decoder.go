// Package insts provides RV32I instruction definitions and decoding.
package insts

// Opcode is the 7-bit major opcode field.
type Opcode uint8

// RV32I major opcodes.
const (
	OpcodeLoad   Opcode = 0b0000011
	OpcodeOpImm  Opcode = 0b0010011
	OpcodeAUIPC  Opcode = 0b0010111
	OpcodeStore  Opcode = 0b0100011
	OpcodeOp     Opcode = 0b0110011
	OpcodeLUI    Opcode = 0b0110111
	OpcodeBranch Opcode = 0b1100011
	OpcodeJALR   Opcode = 0b1100111
	OpcodeJAL    Opcode = 0b1101111
)

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // Register-register
	FormatI              // Register-immediate, loads, JALR
	FormatS              // Stores
	FormatB              // Conditional branches
	FormatU              // LUI, AUIPC
	FormatJ              // JAL
)

// Format returns the encoding format used by the opcode.
func (o Opcode) Format() Format {
	switch o {
	case OpcodeOp:
		return FormatR
	case OpcodeOpImm, OpcodeLoad, OpcodeJALR:
		return FormatI
	case OpcodeStore:
		return FormatS
	case OpcodeBranch:
		return FormatB
	case OpcodeLUI, OpcodeAUIPC:
		return FormatU
	case OpcodeJAL:
		return FormatJ
	default:
		return FormatUnknown
	}
}

// Op represents an RV32I mnemonic.
type Op uint8

// RV32I mnemonics.
const (
	OpUnknown Op = iota
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpLUI:     "lui",
	OpAUIPC:   "auipc",
	OpJAL:     "jal",
	OpJALR:    "jalr",
	OpBEQ:     "beq",
	OpBNE:     "bne",
	OpBLT:     "blt",
	OpBGE:     "bge",
	OpBLTU:    "bltu",
	OpBGEU:    "bgeu",
	OpLB:      "lb",
	OpLH:      "lh",
	OpLW:      "lw",
	OpLBU:     "lbu",
	OpLHU:     "lhu",
	OpSB:      "sb",
	OpSH:      "sh",
	OpSW:      "sw",
	OpADDI:    "addi",
	OpSLTI:    "slti",
	OpSLTIU:   "sltiu",
	OpXORI:    "xori",
	OpORI:     "ori",
	OpANDI:    "andi",
	OpSLLI:    "slli",
	OpSRLI:    "srli",
	OpSRAI:    "srai",
	OpADD:     "add",
	OpSUB:     "sub",
	OpSLL:     "sll",
	OpSLT:     "slt",
	OpSLTU:    "sltu",
	OpXOR:     "xor",
	OpSRL:     "srl",
	OpSRA:     "sra",
	OpOR:      "or",
	OpAND:     "and",
}

// String returns the assembler mnemonic.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpUnknown]
}

// Instruction represents a decoded RV32I instruction.
type Instruction struct {
	Word   Word   // Raw encoding
	Op     Op     // Mnemonic
	Format Format // Encoding format

	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Funct3 uint8
	Funct7 uint8

	// Imm is the sign-extended immediate. For U-type instructions it holds
	// imm[31:12] right-aligned.
	Imm uint32
}

// Decoder decodes RV32I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit RV32I instruction word. Encodings outside the
// base ISA decode with Op set to OpUnknown.
func (d *Decoder) Decode(word Word) *Instruction {
	inst := &Instruction{
		Word:   word,
		Op:     OpUnknown,
		Format: word.Opcode().Format(),
		Rd:     word.Rd(),
		Rs1:    word.Rs1(),
		Rs2:    word.Rs2(),
		Funct3: word.Funct3(),
		Funct7: word.Funct7(),
		Imm:    Immediate(word),
	}

	switch word.Opcode() {
	case OpcodeLUI:
		inst.Op = OpLUI
	case OpcodeAUIPC:
		inst.Op = OpAUIPC
	case OpcodeJAL:
		inst.Op = OpJAL
	case OpcodeJALR:
		if inst.Funct3 == 0 {
			inst.Op = OpJALR
		}
	case OpcodeBranch:
		inst.Op = d.decodeBranch(inst.Funct3)
	case OpcodeLoad:
		inst.Op = d.decodeLoad(inst.Funct3)
	case OpcodeStore:
		inst.Op = d.decodeStore(inst.Funct3)
	case OpcodeOpImm:
		inst.Op = d.decodeOpImm(inst.Funct3, inst.Funct7)
	case OpcodeOp:
		inst.Op = d.decodeOp(inst.Funct3, inst.Funct7)
	}

	return inst
}

func (d *Decoder) decodeBranch(funct3 uint8) Op {
	switch funct3 {
	case 0b000:
		return OpBEQ
	case 0b001:
		return OpBNE
	case 0b100:
		return OpBLT
	case 0b101:
		return OpBGE
	case 0b110:
		return OpBLTU
	case 0b111:
		return OpBGEU
	default:
		return OpUnknown
	}
}

func (d *Decoder) decodeLoad(funct3 uint8) Op {
	switch funct3 {
	case 0b000:
		return OpLB
	case 0b001:
		return OpLH
	case 0b010:
		return OpLW
	case 0b100:
		return OpLBU
	case 0b101:
		return OpLHU
	default:
		return OpUnknown
	}
}

func (d *Decoder) decodeStore(funct3 uint8) Op {
	switch funct3 {
	case 0b000:
		return OpSB
	case 0b001:
		return OpSH
	case 0b010:
		return OpSW
	default:
		return OpUnknown
	}
}

// decodeOpImm decodes OP-IMM. Shift encodings carry the shift kind in
// funct7; SRAI is funct7 0100000.
func (d *Decoder) decodeOpImm(funct3, funct7 uint8) Op {
	switch funct3 {
	case 0b000:
		return OpADDI
	case 0b010:
		return OpSLTI
	case 0b011:
		return OpSLTIU
	case 0b100:
		return OpXORI
	case 0b110:
		return OpORI
	case 0b111:
		return OpANDI
	case 0b001:
		if funct7 == 0 {
			return OpSLLI
		}
	case 0b101:
		switch funct7 {
		case 0b0000000:
			return OpSRLI
		case 0b0100000:
			return OpSRAI
		}
	}
	return OpUnknown
}

// decodeOp decodes OP. Only funct7 bit 5 is significant, and only for
// funct3 000 (ADD/SUB) and 101 (SRL/SRA).
func (d *Decoder) decodeOp(funct3, funct7 uint8) Op {
	alt := funct7&0x20 != 0

	switch funct3 {
	case 0b000:
		if alt {
			return OpSUB
		}
		return OpADD
	case 0b001:
		return OpSLL
	case 0b010:
		return OpSLT
	case 0b011:
		return OpSLTU
	case 0b100:
		return OpXOR
	case 0b101:
		if alt {
			return OpSRA
		}
		return OpSRL
	case 0b110:
		return OpOR
	default:
		return OpAND
	}
}
