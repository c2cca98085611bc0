package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should start zeroed", func() {
		for i := uint8(0); i < emu.NumRegs; i++ {
			Expect(regFile.ReadReg(i)).To(BeZero())
		}
		Expect(regFile.PC).To(BeZero())
		Expect(regFile.WrittenCount()).To(BeZero())
	})

	It("should read back written values", func() {
		regFile.WriteReg(5, 0xDEADBEEF)

		Expect(regFile.ReadReg(5)).To(Equal(uint32(0xDEADBEEF)))
		Expect(regFile.Written(5)).To(BeTrue())
		Expect(regFile.Written(6)).To(BeFalse())
	})

	It("should ignore writes to x0", func() {
		regFile.WriteReg(0, 42)

		Expect(regFile.ReadReg(0)).To(BeZero())
		Expect(regFile.Written(0)).To(BeFalse())
	})

	It("should ignore out-of-range registers", func() {
		regFile.WriteReg(32, 42)

		Expect(regFile.ReadReg(32)).To(BeZero())
		Expect(regFile.WrittenCount()).To(BeZero())
	})

	It("should count distinct written registers", func() {
		regFile.WriteReg(1, 1)
		regFile.WriteReg(1, 2)
		regFile.WriteReg(31, 3)

		Expect(regFile.WrittenCount()).To(Equal(uint(2)))
	})

	It("should clear everything on reset", func() {
		regFile.WriteReg(3, 3)
		regFile.PC = 0x100

		regFile.Reset()

		Expect(regFile.ReadReg(3)).To(BeZero())
		Expect(regFile.PC).To(BeZero())
		Expect(regFile.Written(3)).To(BeFalse())
	})
})
