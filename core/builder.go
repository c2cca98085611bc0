package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32sim/emu"
)

// Builder can create new cores.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	emulator *emu.Emulator
}

// NewBuilder returns a builder with a 1 GHz clock.
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithEmulator sets the emulator the core steps.
func (b Builder) WithEmulator(emulator *emu.Emulator) Builder {
	b.emulator = emulator
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.engine == nil {
		panic("core: engine is not set")
	}

	c := &Core{
		emulator: b.emulator,
	}
	if c.emulator == nil {
		c.emulator = emu.NewEmulator()
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
