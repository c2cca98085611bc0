package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Register-immediate", func() {
		// ADDI x1, x0, 5 -> 0x00500093
		It("should decode ADDI x1, x0, 5", func() {
			inst := decoder.Decode(0x00500093)

			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Format).To(Equal(insts.FormatI))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Rs1).To(Equal(uint8(0)))
			Expect(inst.Imm).To(Equal(uint32(5)))
		})

		It("should decode SRAI only with funct7 0100000", func() {
			srai := insts.EncodeI(insts.OpcodeOpImm, 1, 0b101, 2, 0x400|3)
			srli := insts.EncodeI(insts.OpcodeOpImm, 1, 0b101, 2, 3)
			bad := insts.EncodeI(insts.OpcodeOpImm, 1, 0b101, 2, 0x020|3)

			Expect(decoder.Decode(srai).Op).To(Equal(insts.OpSRAI))
			Expect(decoder.Decode(srli).Op).To(Equal(insts.OpSRLI))
			Expect(decoder.Decode(bad).Op).To(Equal(insts.OpUnknown))
		})

		It("should reject SLLI with a nonzero funct7", func() {
			w := insts.EncodeI(insts.OpcodeOpImm, 1, 0b001, 2, 0x400|1)
			Expect(decoder.Decode(w).Op).To(Equal(insts.OpUnknown))
		})
	})

	Describe("Register-register", func() {
		DescribeTable("funct3/funct7 mapping",
			func(funct3, funct7 uint8, expected insts.Op) {
				inst := decoder.Decode(insts.EncodeR(insts.OpcodeOp, 3, funct3, 1, 2, funct7))
				Expect(inst.Op).To(Equal(expected))
				Expect(inst.Format).To(Equal(insts.FormatR))
			},
			Entry("add", uint8(0b000), uint8(0), insts.OpADD),
			Entry("sub", uint8(0b000), uint8(0b0100000), insts.OpSUB),
			Entry("sll", uint8(0b001), uint8(0), insts.OpSLL),
			Entry("slt", uint8(0b010), uint8(0), insts.OpSLT),
			Entry("sltu", uint8(0b011), uint8(0), insts.OpSLTU),
			Entry("xor", uint8(0b100), uint8(0), insts.OpXOR),
			Entry("srl", uint8(0b101), uint8(0), insts.OpSRL),
			Entry("sra", uint8(0b101), uint8(0b0100000), insts.OpSRA),
			Entry("or", uint8(0b110), uint8(0), insts.OpOR),
			Entry("and", uint8(0b111), uint8(0), insts.OpAND),
			Entry("sll ignores funct7", uint8(0b001), uint8(0b1111111), insts.OpSLL),
		)
	})

	Describe("Memory", func() {
		It("should decode LW x5, -4(x2)", func() {
			inst := decoder.Decode(insts.LW(5, 2, -4))

			Expect(inst.Op).To(Equal(insts.OpLW))
			Expect(inst.Rd).To(Equal(uint8(5)))
			Expect(inst.Rs1).To(Equal(uint8(2)))
			Expect(int32(inst.Imm)).To(Equal(int32(-4)))
		})

		// SW x2, 0(x1) -> 0x0020A023
		It("should decode SW x2, 0(x1)", func() {
			inst := decoder.Decode(0x0020A023)

			Expect(inst.Op).To(Equal(insts.OpSW))
			Expect(inst.Format).To(Equal(insts.FormatS))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Rs2).To(Equal(uint8(2)))
			Expect(inst.Imm).To(BeZero())
		})

		It("should leave undefined store widths unknown", func() {
			w := insts.EncodeS(insts.OpcodeStore, 0b011, 1, 2, 0)
			Expect(decoder.Decode(w).Op).To(Equal(insts.OpUnknown))
		})
	})

	Describe("Control flow", func() {
		It("should decode every branch condition", func() {
			ops := map[uint8]insts.Op{
				0b000: insts.OpBEQ,
				0b001: insts.OpBNE,
				0b100: insts.OpBLT,
				0b101: insts.OpBGE,
				0b110: insts.OpBLTU,
				0b111: insts.OpBGEU,
			}
			for funct3, op := range ops {
				w := insts.EncodeB(insts.OpcodeBranch, funct3, 1, 2, -8)
				Expect(decoder.Decode(w).Op).To(Equal(op))
			}

			reserved := insts.EncodeB(insts.OpcodeBranch, 0b010, 1, 2, 8)
			Expect(decoder.Decode(reserved).Op).To(Equal(insts.OpUnknown))
		})

		It("should decode JAL and JALR", func() {
			jal := decoder.Decode(insts.JAL(1, 2048))
			Expect(jal.Op).To(Equal(insts.OpJAL))
			Expect(jal.Imm).To(Equal(uint32(2048)))

			jalr := decoder.Decode(insts.JALR(1, 1, 4))
			Expect(jalr.Op).To(Equal(insts.OpJALR))
			Expect(jalr.Imm).To(Equal(uint32(4)))

			badJalr := decoder.Decode(insts.EncodeI(insts.OpcodeJALR, 1, 0b001, 1, 4))
			Expect(badJalr.Op).To(Equal(insts.OpUnknown))
		})

		It("should decode LUI and AUIPC", func() {
			Expect(decoder.Decode(insts.LUI(1, 0x12345)).Op).To(Equal(insts.OpLUI))
			Expect(decoder.Decode(insts.AUIPC(1, 1)).Op).To(Equal(insts.OpAUIPC))
		})
	})

	It("should decode an unrecognized opcode as unknown", func() {
		inst := decoder.Decode(0xFFFFFFFF)
		Expect(inst.Op).To(Equal(insts.OpUnknown))
		Expect(inst.Format).To(Equal(insts.FormatUnknown))
	})

	Describe("Disassemble", func() {
		DescribeTable("assembler syntax",
			func(word insts.Word, expected string) {
				Expect(insts.DisassembleWord(word)).To(Equal(expected))
			},
			Entry("addi", insts.ADDI(1, 0, 5), "addi x1, x0, 5"),
			Entry("negative addi", insts.ADDI(2, 2, -16), "addi x2, x2, -16"),
			Entry("sub", insts.SUB(3, 1, 2), "sub x3, x1, x2"),
			Entry("lw", insts.LW(5, 2, -4), "lw x5, -4(x2)"),
			Entry("sw", insts.SW(2, 1, 0), "sw x2, 0(x1)"),
			Entry("beq", insts.BEQ(0, 0, -8), "beq x0, x0, -8"),
			Entry("jal", insts.JAL(1, 16), "jal x1, 16"),
			Entry("jalr", insts.JALR(1, 1, 4), "jalr x1, 4(x1)"),
			Entry("lui", insts.LUI(7, 0x12345), "lui x7, 0x12345"),
			Entry("srai", insts.EncodeI(insts.OpcodeOpImm, 1, 0b101, 2, 0x400|3), "srai x1, x2, 3"),
			Entry("unknown", insts.Word(0xFFFFFFFF), ".word 0xffffffff"),
		)
	})
})
