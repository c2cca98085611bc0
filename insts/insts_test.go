package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have an Instruction type", func() {
		var i insts.Instruction
		Expect(i).To(BeZero())
	})

	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
	})

	Describe("Word fields", func() {
		// SUB x3, x1, x2 -> 0x402081B3
		It("should slice every field of SUB x3, x1, x2", func() {
			w := insts.Word(0x402081B3)

			Expect(w.Opcode()).To(Equal(insts.OpcodeOp))
			Expect(w.Rd()).To(Equal(uint8(3)))
			Expect(w.Funct3()).To(Equal(uint8(0)))
			Expect(w.Rs1()).To(Equal(uint8(1)))
			Expect(w.Rs2()).To(Equal(uint8(2)))
			Expect(w.Funct7()).To(Equal(uint8(0b0100000)))
		})

		It("should report all ones for 0xFFFFFFFF", func() {
			w := insts.Word(0xFFFFFFFF)

			Expect(w.Opcode()).To(Equal(insts.Opcode(0x7F)))
			Expect(w.Rd()).To(Equal(uint8(31)))
			Expect(w.Funct3()).To(Equal(uint8(7)))
			Expect(w.Funct7()).To(Equal(uint8(0x7F)))
		})
	})

	Describe("SignExtend", func() {
		It("should keep positive values", func() {
			Expect(insts.SignExtend(uint32(0x7FF), 12)).To(Equal(uint32(0x7FF)))
		})

		It("should extend negative values", func() {
			Expect(insts.SignExtend(uint32(0x800), 12)).To(Equal(uint32(0xFFFFF800)))
			Expect(insts.SignExtend(uint8(0x80), 8)).To(Equal(uint32(0xFFFFFF80)))
			Expect(insts.SignExtend(uint16(0xFFFF), 16)).To(Equal(uint32(0xFFFFFFFF)))
		})

		It("should ignore bits above the width", func() {
			Expect(insts.SignExtend(uint32(0xABC01), 12)).To(Equal(uint32(0xFFFFFC01)))
		})
	})

	Describe("Immediates", func() {
		It("should extract a negative I immediate", func() {
			Expect(insts.ImmI(insts.ADDI(1, 2, -1))).To(Equal(uint32(0xFFFFFFFF)))
			Expect(insts.ImmI(insts.ADDI(1, 2, -2048))).To(Equal(uint32(0xFFFFF800)))
		})

		It("should extract S immediates", func() {
			Expect(insts.ImmS(insts.SW(2, 1, 8))).To(Equal(uint32(8)))
			Expect(int32(insts.ImmS(insts.SW(2, 1, -4)))).To(Equal(int32(-4)))
		})

		It("should extract B offsets", func() {
			Expect(insts.ImmB(insts.BEQ(0, 0, 16))).To(Equal(uint32(16)))
			Expect(int32(insts.ImmB(insts.BEQ(0, 0, -4096)))).To(Equal(int32(-4096)))
			Expect(insts.ImmB(insts.BEQ(0, 0, 4094))).To(Equal(uint32(4094)))
		})

		It("should extract J offsets", func() {
			Expect(insts.ImmJ(insts.JAL(1, 2048))).To(Equal(uint32(2048)))
			Expect(int32(insts.ImmJ(insts.JAL(0, -8)))).To(Equal(int32(-8)))
			Expect(int32(insts.ImmJ(insts.JAL(0, -(1 << 20))))).To(Equal(int32(-(1 << 20))))
		})

		It("should keep U immediates right-aligned", func() {
			Expect(insts.ImmU(insts.LUI(5, 0x12345))).To(Equal(uint32(0x12345)))
			Expect(insts.ImmU(insts.AUIPC(5, 0xFFFFF))).To(Equal(uint32(0xFFFFF)))
		})

		It("should dispatch by format", func() {
			Expect(insts.Immediate(insts.SW(2, 1, 12))).To(Equal(uint32(12)))
			Expect(insts.Immediate(insts.ADD(1, 2, 3))).To(BeZero())
			Expect(insts.Immediate(insts.Word(0xFFFFFFFF))).To(BeZero())
		})
	})
})
