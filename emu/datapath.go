// Package emu provides functional RV32I emulation.
package emu

import (
	"github.com/sarchlab/rv32sim/control"
	"github.com/sarchlab/rv32sim/insts"
)

// The functions in this file are the execution contract: how a control
// vector combines operand values into the next PC and the write-back value.

// Operands selects the ALU inputs.
func Operands(vec control.Vector, pc, rs1, rs2, imm uint32) (a, b uint32) {
	a = rs1
	if vec.OperandA == control.OperandAPC {
		a = pc
	}

	b = rs2
	if vec.OperandB == control.OperandBImmediate {
		b = imm
	}

	return a, b
}

// NextPC returns the PC after the instruction at pc. A JALR target has bit 0
// cleared; the ALU itself only computes rs1 + imm.
func NextPC(vec control.Vector, word insts.Word, pc, aluResult uint32) uint32 {
	if vec.PCSelect != control.PCTarget {
		return pc + 4
	}

	if word.Opcode() == insts.OpcodeJALR {
		return aluResult &^ 1
	}

	return aluResult
}

// WritebackValue selects the value committed to x[rd].
func WritebackValue(vec control.Vector, aluResult, loaded, pcPlus4 uint32) uint32 {
	switch vec.Writeback {
	case control.WritebackLoad:
		return loaded
	case control.WritebackPCPlus4:
		return pcPlus4
	default:
		return aluResult
	}
}
