// Package core drives the RV32I emulator from an akita event engine.
// The core is single-cycle: every tick retires exactly one instruction.
package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32sim/emu"
)

// Stats holds statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Invalid is the number of invalid words retired as no-ops.
	Invalid uint64
}

// Core is a ticking component that steps an emulator once per cycle.
type Core struct {
	*sim.TickingComponent

	emulator *emu.Emulator

	cycles uint64
	halted bool
	err    error
}

// Tick retires one instruction. It reports no progress once the program
// halts or fails, which lets the engine drain.
func (c *Core) Tick() (madeProgress bool) {
	if c.halted || c.err != nil {
		return false
	}

	c.cycles++

	result := c.emulator.Step()
	if result.Err != nil {
		c.err = result.Err
		return false
	}

	if result.Halted {
		c.halted = true
		return false
	}

	return true
}

// Run starts ticking and runs the engine until the core stops. It returns
// the error that stopped the core, if any.
func (c *Core) Run() error {
	c.TickNow()

	if err := c.Engine.Run(); err != nil {
		return err
	}

	return c.err
}

// Emulator returns the emulator the core steps.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Halted returns true if the program has jumped to itself.
func (c *Core) Halted() bool {
	return c.halted
}

// Err returns the error that stopped the core, or nil.
func (c *Core) Err() error {
	return c.err
}

// Stats returns statistics for the core.
func (c *Core) Stats() Stats {
	return Stats{
		Cycles:       c.cycles,
		Instructions: c.emulator.InstructionCount(),
		Invalid:      c.emulator.InvalidCount(),
	}
}

// Reset resets the emulator and clears the core state.
func (c *Core) Reset() {
	c.emulator.Reset()
	c.cycles = 0
	c.halted = false
	c.err = nil
}
