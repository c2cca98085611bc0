// Package control implements the RV32I decode/control engine.
//
// The engine is a pure function from an instruction word and the branch
// comparator outputs to the control-signal vector that steers a single-cycle
// datapath. Decoding runs in two steps: Classify derives the raw signals and
// a validity flag from opcode, funct3 and funct7, and Mask gates every
// state-changing signal with that flag. An invalid encoding therefore always
// retires as a no-op.
//
// Usage:
//
//	vec, valid := control.Decode(0x00500093, false, false) // ADDI x1, x0, 5
//	fmt.Println(valid, vec.ALUOp) // true add
package control

import (
	"fmt"
	"strings"
)

// PCSelect chooses the next program counter source.
type PCSelect uint8

// PC sources.
const (
	PCSequential PCSelect = iota // PC + 4
	PCTarget                     // ALU result
)

// OperandASelect chooses the ALU's first operand.
type OperandASelect uint8

// Operand A sources.
const (
	OperandARegister OperandASelect = iota // x[rs1]
	OperandAPC                             // PC
)

// OperandBSelect chooses the ALU's second operand.
type OperandBSelect uint8

// Operand B sources.
const (
	OperandBRegister  OperandBSelect = iota // x[rs2]
	OperandBImmediate                       // sign-extended immediate
)

// WritebackSelect chooses the value committed to the register file.
type WritebackSelect uint8

// Write-back sources.
const (
	WritebackALU    WritebackSelect = iota // ALU result
	WritebackLoad                          // load-store unit data
	WritebackPCPlus4                       // PC + 4
)

// ALUOp is the 4-bit ALU function code.
type ALUOp uint8

// ALU functions.
const (
	ALUAdd   ALUOp = iota // a + b
	ALUSub                // a - b
	ALUSll                // a << b[4:0]
	ALUSlt                // signed a < b
	ALUSltu               // unsigned a < b
	ALUXor                // a ^ b
	ALUSrl                // a >> b[4:0], logical
	ALUSra                // a >> b[4:0], arithmetic
	ALUOr                 // a | b
	ALUAnd                // a & b
	ALULui                // b << 12
	ALUAuipc              // a + b << 12

	// NumALUOps is the size of the ALU function set.
	NumALUOps = int(ALUAuipc) + 1
)

var aluOpNames = [...]string{
	ALUAdd:   "add",
	ALUSub:   "sub",
	ALUSll:   "sll",
	ALUSlt:   "slt",
	ALUSltu:  "sltu",
	ALUXor:   "xor",
	ALUSrl:   "srl",
	ALUSra:   "sra",
	ALUOr:    "or",
	ALUAnd:   "and",
	ALULui:   "lui",
	ALUAuipc: "auipc",
}

func (op ALUOp) String() string {
	if int(op) < len(aluOpNames) {
		return aluOpNames[op]
	}
	return fmt.Sprintf("aluop(%d)", uint8(op))
}

func (s PCSelect) String() string {
	if s == PCTarget {
		return "target"
	}
	return "seq"
}

func (s OperandASelect) String() string {
	if s == OperandAPC {
		return "pc"
	}
	return "rs1"
}

func (s OperandBSelect) String() string {
	if s == OperandBImmediate {
		return "imm"
	}
	return "rs2"
}

func (s WritebackSelect) String() string {
	switch s {
	case WritebackLoad:
		return "load"
	case WritebackPCPlus4:
		return "pc+4"
	default:
		return "alu"
	}
}

// Compare holds the branch comparator outputs for x[rs1] and x[rs2].
type Compare struct {
	Less  bool
	Equal bool
}

// Vector is the control-signal vector for one instruction.
//
// The zero Vector is the safe no-op: sequential PC, no register or memory
// write, ALU add on register operands, signed branch mode, invalid.
type Vector struct {
	PCSelect       PCSelect
	RegWrite       bool
	Valid          bool
	BranchUnsigned bool
	OperandA       OperandASelect
	OperandB       OperandBSelect
	ALUOp          ALUOp
	MemWrite       bool
	Writeback      WritebackSelect
}

// NoOp returns the vector every invalid encoding decodes to.
func NoOp() Vector {
	return Vector{}
}

// String renders the vector for trace output.
func (v Vector) String() string {
	var sb strings.Builder

	if !v.Valid {
		sb.WriteString("invalid ")
	}
	fmt.Fprintf(&sb, "alu=%s a=%s b=%s wb=%s pc=%s", v.ALUOp, v.OperandA, v.OperandB, v.Writeback, v.PCSelect)
	if v.RegWrite {
		sb.WriteString(" regwr")
	}
	if v.MemWrite {
		sb.WriteString(" memwr")
	}
	if v.BranchUnsigned {
		sb.WriteString(" unsigned")
	}

	return sb.String()
}
