package insts

import "fmt"

// Disassemble renders an instruction in RISC-V assembler syntax. Branch and
// jump targets are printed as signed byte offsets relative to the
// instruction.
func Disassemble(inst *Instruction) string {
	if inst.Op == OpUnknown {
		return fmt.Sprintf(".word 0x%08x", uint32(inst.Word))
	}

	name := inst.Op.String()
	imm := int32(inst.Imm)

	switch inst.Format {
	case FormatR:
		return fmt.Sprintf("%s x%d, x%d, x%d", name, inst.Rd, inst.Rs1, inst.Rs2)
	case FormatI:
		switch inst.Word.Opcode() {
		case OpcodeLoad, OpcodeJALR:
			return fmt.Sprintf("%s x%d, %d(x%d)", name, inst.Rd, imm, inst.Rs1)
		}
		switch inst.Op {
		case OpSLLI, OpSRLI, OpSRAI:
			return fmt.Sprintf("%s x%d, x%d, %d", name, inst.Rd, inst.Rs1, inst.Imm&0x1F)
		}
		return fmt.Sprintf("%s x%d, x%d, %d", name, inst.Rd, inst.Rs1, imm)
	case FormatS:
		return fmt.Sprintf("%s x%d, %d(x%d)", name, inst.Rs2, imm, inst.Rs1)
	case FormatB:
		return fmt.Sprintf("%s x%d, x%d, %d", name, inst.Rs1, inst.Rs2, imm)
	case FormatU:
		return fmt.Sprintf("%s x%d, 0x%x", name, inst.Rd, inst.Imm)
	case FormatJ:
		return fmt.Sprintf("%s x%d, %d", name, inst.Rd, imm)
	}

	return fmt.Sprintf(".word 0x%08x", uint32(inst.Word))
}

// DisassembleWord decodes and disassembles a raw word.
func DisassembleWord(word Word) string {
	return Disassemble(NewDecoder().Decode(word))
}
