package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/control"
	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("ALU", func() {
	var alu *emu.ALU

	BeforeEach(func() {
		alu = emu.NewALU()
	})

	DescribeTable("Execute",
		func(op control.ALUOp, a, b, expected uint32) {
			Expect(alu.Execute(op, a, b)).To(Equal(expected))
		},
		Entry("add", control.ALUAdd, uint32(3), uint32(4), uint32(7)),
		Entry("add wraps", control.ALUAdd, uint32(0xFFFFFFFF), uint32(1), uint32(0)),
		Entry("sub", control.ALUSub, uint32(10), uint32(3), uint32(7)),
		Entry("sub underflows", control.ALUSub, uint32(0), uint32(1), uint32(0xFFFFFFFF)),
		Entry("sll", control.ALUSll, uint32(1), uint32(31), uint32(0x80000000)),
		Entry("sll uses low five bits", control.ALUSll, uint32(1), uint32(33), uint32(2)),
		Entry("slt negative < positive", control.ALUSlt, uint32(0xFFFFFFFF), uint32(1), uint32(1)),
		Entry("slt positive > negative", control.ALUSlt, uint32(1), uint32(0xFFFFFFFF), uint32(0)),
		Entry("slt min < max", control.ALUSlt, uint32(0x80000000), uint32(0x7FFFFFFF), uint32(1)),
		Entry("slt equal", control.ALUSlt, uint32(5), uint32(5), uint32(0)),
		Entry("sltu max > 1", control.ALUSltu, uint32(0xFFFFFFFF), uint32(1), uint32(0)),
		Entry("sltu 0 < max", control.ALUSltu, uint32(0), uint32(0xFFFFFFFF), uint32(1)),
		Entry("xor", control.ALUXor, uint32(0xF0F0), uint32(0xFF00), uint32(0x0FF0)),
		Entry("srl", control.ALUSrl, uint32(0x80000000), uint32(31), uint32(1)),
		Entry("sra", control.ALUSra, uint32(0x80000000), uint32(31), uint32(0xFFFFFFFF)),
		Entry("sra with funct7 bit in imm", control.ALUSra, uint32(0xFFFFFF00), uint32(0x404), uint32(0xFFFFFFF0)),
		Entry("or", control.ALUOr, uint32(0xF0), uint32(0x0F), uint32(0xFF)),
		Entry("and", control.ALUAnd, uint32(0xF0), uint32(0x3C), uint32(0x30)),
		Entry("lui", control.ALULui, uint32(0x1234), uint32(0xABCDE), uint32(0xABCDE000)),
		Entry("auipc", control.ALUAuipc, uint32(0x1000), uint32(0x1), uint32(0x2000)),
		Entry("unknown op adds", control.ALUOp(15), uint32(2), uint32(2), uint32(4)),
	)
})
