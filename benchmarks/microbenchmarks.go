package benchmarks

import (
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

// Register aliases used by the programs below.
const (
	zero = 0
	ra   = 1
	t0   = 5
	t1   = 6
	t2   = 7
	a0   = 10
	a1   = 11
	a2   = 12
	a3   = 13
	a4   = 14
	a5   = 15
	a6   = 16
	t3   = 28
)

// halt is the jump-to-self that ends every program.
var halt = insts.JAL(zero, 0)

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each
// program leaves its result in a0.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		functionCalls(),
		branchTaken(),
		mixedOperations(),
		shiftAddMultiply(),
		byteCopy(),
		loopSimulation(),
	}
}

// GetCoreBenchmarks returns a minimal set of benchmarks for quick
// validation: a loop, a multiply and branch-heavy code.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loopSimulation(),
		shiftAddMultiply(),
		branchTaken(),
	}
}

// 1. Arithmetic Sequential - independent ADDIs across five registers
func arithmeticSequential() Benchmark {
	program := make([]insts.Word, 0, 21)
	for i := 0; i < 4; i++ {
		for rd := uint8(a0); rd <= a4; rd++ {
			program = append(program, insts.ADDI(rd, rd, 1))
		}
	}
	program = append(program, halt)

	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "20 independent ADDIs - measures ALU throughput",
		Program:     program,
		Expected:    4,
	}
}

// 2. Dependency Chain - every ADDI reads the previous result
func dependencyChain() Benchmark {
	program := make([]insts.Word, 0, 21)
	for i := 0; i < 20; i++ {
		program = append(program, insts.ADDI(a0, a0, 1))
	}
	program = append(program, halt)

	return Benchmark{
		Name:        "dependency_chain",
		Description: "20 dependent ADDIs (a0 = a0 + 1)",
		Program:     program,
		Expected:    20,
	}
}

// 3. Memory Sequential - store ten words, then load and sum them
func memorySequential() Benchmark {
	program := []insts.Word{insts.ADDI(t0, zero, 0x100)}
	for i := int32(0); i < 10; i++ {
		program = append(program,
			insts.ADDI(t1, zero, i+1),
			insts.SW(t1, t0, 4*i),
		)
	}
	for i := int32(0); i < 10; i++ {
		program = append(program,
			insts.LW(t2, t0, 4*i),
			insts.ADD(a0, a0, t2),
		)
	}
	program = append(program, halt)

	return Benchmark{
		Name:        "memory_sequential",
		Description: "10 SW then 10 LW to sequential words",
		Program:     program,
		Expected:    55,
	}
}

// 4. Function Calls - five JAL/JALR round trips
func functionCalls() Benchmark {
	const calls = 5
	const fn = 4 * (calls + 1) // after the calls and the halt

	program := make([]insts.Word, 0, calls+3)
	for i := int32(0); i < calls; i++ {
		program = append(program, insts.JAL(ra, fn-4*i))
	}
	program = append(program,
		halt,
		insts.ADDI(a0, a0, 3),
		insts.JALR(zero, ra, 0),
	)

	return Benchmark{
		Name:        "function_calls",
		Description: "5 calls to a leaf function - measures JAL/JALR",
		Program:     program,
		Expected:    15,
	}
}

// 5. Branch Taken - five forward branches that skip an ADDI
func branchTaken() Benchmark {
	program := make([]insts.Word, 0, 16)
	for i := 0; i < 5; i++ {
		program = append(program,
			insts.BEQ(zero, zero, 8),
			insts.ADDI(a0, a0, 100),
			insts.ADDI(a0, a0, 1),
		)
	}
	program = append(program, halt)

	return Benchmark{
		Name:        "branch_taken",
		Description: "5 always-taken forward branches",
		Program:     program,
		Expected:    5,
	}
}

// 6. Mixed Operations - one of each R-type family plus a shift
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "ADD, SUB, AND, OR, XOR, SLLI and SLT on the same operands",
		Program: []insts.Word{
			insts.ADDI(t0, zero, 7),
			insts.ADDI(t1, zero, 3),
			insts.ADD(a0, t0, t1),
			insts.SUB(a1, t0, t1),
			insts.AND(a2, t0, t1),
			insts.OR(a3, t0, t1),
			insts.XOR(a4, t0, t1),
			insts.SLLI(a5, t0, 2),
			insts.SLT(a6, t1, t0),
			insts.ADD(a0, a0, a1),
			insts.ADD(a0, a0, a2),
			insts.ADD(a0, a0, a3),
			insts.ADD(a0, a0, a4),
			insts.ADD(a0, a0, a5),
			insts.ADD(a0, a0, a6),
			halt,
		},
		Expected: 57,
	}
}

// 7. Shift-Add Multiply - 13 * 11 without a multiplier
func shiftAddMultiply() Benchmark {
	return Benchmark{
		Name:        "shift_add_multiply",
		Description: "13 * 11 by shift-and-add - loop with a data-dependent branch",
		Program: []insts.Word{
			insts.ADDI(t0, zero, 13),
			insts.ADDI(t1, zero, 11),
			// loop:
			insts.EncodeI(insts.OpcodeOpImm, t2, 0b111, t1, 1), // andi t2, t1, 1
			insts.BEQ(t2, zero, 8),
			insts.ADD(a0, a0, t0),
			insts.SLLI(t0, t0, 1),
			insts.EncodeI(insts.OpcodeOpImm, t1, 0b101, t1, 1), // srli t1, t1, 1
			insts.BNE(t1, zero, -20),
			halt,
		},
		Expected: 143,
	}
}

// 8. Byte Copy - copy 16 bytes with LBU/SB and sum them
func byteCopy() Benchmark {
	const src, dst = 0x200, 0x300

	return Benchmark{
		Name:        "byte_copy",
		Description: "16-byte LBU/SB copy loop",
		Setup: func(e *emu.Emulator) error {
			data := make([]byte, 16)
			for i := range data {
				data[i] = byte(i + 1)
			}
			return e.Memory().LoadProgram(src, data)
		},
		Program: []insts.Word{
			insts.ADDI(t0, zero, src),
			insts.ADDI(t1, zero, dst),
			insts.ADDI(t2, zero, 16),
			// loop:
			insts.LBU(t3, t0, 0),
			insts.SB(t3, t1, 0),
			insts.ADD(a0, a0, t3),
			insts.ADDI(t0, t0, 1),
			insts.ADDI(t1, t1, 1),
			insts.ADDI(t2, t2, -1),
			insts.BNE(t2, zero, -24),
			halt,
		},
		Expected: 136,
	}
}

// 9. Loop Simulation - sum 1..100 with a counted loop
func loopSimulation() Benchmark {
	return Benchmark{
		Name:        "loop_simulation",
		Description: "Sum 1..100 - a tight ADD/ADDI/BNE loop",
		Program: []insts.Word{
			insts.ADDI(t0, zero, 100),
			// loop:
			insts.ADD(a0, a0, t0),
			insts.ADDI(t0, t0, -1),
			insts.BNE(t0, zero, -8),
			halt,
		},
		Expected: 5050,
	}
}
