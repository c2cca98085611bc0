// Package emu provides functional RV32I emulation.
package emu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/rv32sim/config"
	"github.com/sarchlab/rv32sim/control"
	"github.com/sarchlab/rv32sim/insts"
)

// Errors reported by the emulator.
var (
	// ErrInvalidInstruction is returned by Step for an invalid encoding
	// when trap-on-invalid is enabled.
	ErrInvalidInstruction = errors.New("invalid instruction")

	// ErrBusFault is returned when a fetch, load or store falls outside
	// memory.
	ErrBusFault = errors.New("bus fault")

	// ErrMaxInstructions is returned once the instruction limit is reached.
	ErrMaxInstructions = errors.New("max instructions reached")
)

// Default MMIO window.
const (
	DefaultMMIOBase uint32 = 0x10000000
	DefaultMMIOSize uint32 = 0x100
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the instruction jumped to itself.
	Halted bool

	// Invalid is true if the word decoded as invalid.
	Invalid bool

	// Err is set if the instruction could not retire.
	Err error
}

// Emulator executes RV32I instructions one per step, following the
// single-cycle datapath: fetch, decode, compare, execute, memory,
// write-back and PC update.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	device  Device

	// Execution units
	alu        *ALU
	comparator *BranchComparator
	lsu        *LoadStoreUnit

	logger *slog.Logger

	mmioBase      uint32
	mmioSize      uint32
	resetPC       uint32
	trapOnInvalid bool

	// Execution state
	instructionCount uint64
	invalidCount     uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMemory sets the memory the emulator fetches from and loads/stores to.
func WithMemory(memory *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = memory
	}
}

// WithMemorySize creates a fresh memory of the given size.
func WithMemorySize(size uint64) EmulatorOption {
	return func(e *Emulator) {
		e.memory = NewMemory(size)
	}
}

// WithDevice sets the device behind the MMIO window.
func WithDevice(device Device) EmulatorOption {
	return func(e *Emulator) {
		e.device = device
	}
}

// WithMMIOWindow places the MMIO window at [base, base+size).
func WithMMIOWindow(base, size uint32) EmulatorOption {
	return func(e *Emulator) {
		e.mmioBase = base
		e.mmioSize = size
	}
}

// WithResetPC sets the PC loaded on reset.
func WithResetPC(pc uint32) EmulatorOption {
	return func(e *Emulator) {
		e.resetPC = pc
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithTrapOnInvalid makes Step fail with ErrInvalidInstruction instead of
// retiring invalid encodings as no-ops.
func WithTrapOnInvalid(trap bool) EmulatorOption {
	return func(e *Emulator) {
		e.trapOnInvalid = trap
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// OptionsFromConfig translates a simulator configuration into emulator
// options.
func OptionsFromConfig(cfg *config.Config) []EmulatorOption {
	return []EmulatorOption{
		WithMemorySize(cfg.MemorySize),
		WithMMIOWindow(cfg.MMIOBase, cfg.MMIOSize),
		WithResetPC(cfg.ResetPC),
		WithMaxInstructions(cfg.MaxInstructions),
		WithTrapOnInvalid(cfg.TrapOnInvalid),
	}
}

// NewEmulator creates a new RV32I emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile:  &RegFile{},
		mmioBase: DefaultMMIOBase,
		mmioSize: DefaultMMIOSize,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.memory == nil {
		e.memory = NewMemory(DefaultMemorySize)
	}
	if e.device == nil {
		e.device = NewRegisterBank(int(e.mmioSize / 4))
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	// Create execution units
	e.alu = NewALU()
	e.comparator = NewBranchComparator()
	e.lsu = NewLoadStoreUnit(e.memory, e.device, e.mmioBase, e.mmioSize)

	e.regFile.PC = e.resetPC

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Device returns the device behind the MMIO window.
func (e *Emulator) Device() Device {
	return e.device
}

// InstructionCount returns the number of instructions retired, including
// invalid words retired as no-ops.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// InvalidCount returns the number of invalid words encountered.
func (e *Emulator) InvalidCount() uint64 {
	return e.invalidCount
}

// SetEntry makes pc the reset vector and moves the PC there.
func (e *Emulator) SetEntry(pc uint32) {
	e.resetPC = pc
	e.regFile.PC = pc
}

// LoadProgram loads program bytes at entry and makes entry the reset vector.
func (e *Emulator) LoadProgram(entry uint32, program []byte) error {
	if err := e.memory.LoadProgram(entry, program); err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}
	e.SetEntry(entry)
	return nil
}

// LoadWords loads instruction words at entry and makes entry the reset
// vector.
func (e *Emulator) LoadWords(entry uint32, words []uint32) error {
	if err := e.memory.LoadWords(entry, words); err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}
	e.SetEntry(entry)
	return nil
}

// Reset forces the PC to the reset vector and clears the register file and
// counters. Memory contents are kept, so a loaded program can be rerun.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.regFile.PC = e.resetPC
	e.instructionCount = 0
	e.invalidCount = 0
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("%w: %d", ErrMaxInstructions, e.maxInstructions),
		}
	}

	pc := e.regFile.PC

	// 1. Fetch
	fetched, err := e.memory.Read32(pc)
	if err != nil {
		return StepResult{Err: fmt.Errorf("fetch at PC=%s: %w", hex32(pc), err)}
	}
	word := insts.Word(fetched)

	// 2. Decode. The comparator runs in the mode the engine dictates.
	raw, valid := control.Classify(word)
	rs1 := e.regFile.ReadReg(word.Rs1())
	rs2 := e.regFile.ReadReg(word.Rs2())
	cmp := e.comparator.Compare(rs1, rs2, raw.BranchUnsigned && valid)
	vec := control.Mask(raw, valid, cmp)

	if !vec.Valid {
		e.invalidCount++
		e.logger.Debug("invalid instruction",
			"pc", hex32(pc),
			"word", hex32(fetched),
		)

		if e.trapOnInvalid {
			return StepResult{
				Invalid: true,
				Err:     fmt.Errorf("%w: %s at PC=%s", ErrInvalidInstruction, hex32(fetched), hex32(pc)),
			}
		}
	}

	// 3. Execute
	a, b := Operands(vec, pc, rs1, rs2, insts.Immediate(word))
	aluResult := e.alu.Execute(vec.ALUOp, a, b)

	// 4. Memory
	var loaded uint32
	if vec.MemWrite {
		if err := e.lsu.Store(aluResult, rs2, word.Funct3()); err != nil {
			return StepResult{Err: fmt.Errorf("store at PC=%s: %w", hex32(pc), err)}
		}
	}
	if vec.RegWrite && vec.Writeback == control.WritebackLoad {
		loaded, err = e.lsu.Load(aluResult, word.Funct3())
		if err != nil {
			return StepResult{Err: fmt.Errorf("load at PC=%s: %w", hex32(pc), err)}
		}
	}

	// 5. Write-back
	if vec.RegWrite {
		e.regFile.WriteReg(word.Rd(), WritebackValue(vec, aluResult, loaded, pc+4))
	}

	// 6. PC update
	next := NextPC(vec, word, pc, aluResult)
	e.regFile.PC = next
	e.instructionCount++

	if e.logger.Enabled(context.Background(), LevelTrace) {
		Trace(e.logger, "retire",
			"pc", hex32(pc),
			"inst", insts.DisassembleWord(word),
			"signals", vec.String(),
			"next", hex32(next),
		)
	}

	return StepResult{
		Halted:  next == pc,
		Invalid: !vec.Valid,
	}
}

// Run executes instructions until the program halts or an error occurs.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Halted {
			e.logger.Info("halted",
				"pc", hex32(e.regFile.PC),
				"instructions", e.instructionCount,
				"invalid", e.invalidCount,
			)
			return nil
		}
	}
}
