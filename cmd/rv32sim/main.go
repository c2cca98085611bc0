// Package main provides the entry point for rv32sim.
// rv32sim is a single-cycle RV32I simulator built on Akita.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/rv32sim/config"
	"github.com/sarchlab/rv32sim/core"
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/loader"
)

var abiNames = [emu.NumRegs]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

type options struct {
	configPath  string
	format      string
	entry       string
	max         uint64
	trapInvalid bool
	ticks       bool
	verbose     bool
}

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	fs := flag.NewFlagSet("rv32sim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to simulator configuration (YAML or JSON)")
	fs.StringVar(&opts.format, "format", "auto", "Program format: auto, elf, bin or hex")
	fs.StringVar(&opts.entry, "entry", "", "Entry point; also the load address of bin and hex images")
	fs.Uint64Var(&opts.max, "max", 0, "Maximum instructions to execute (0 = config value)")
	fs.BoolVar(&opts.trapInvalid, "trap-invalid", false, "Stop on invalid instructions")
	fs.BoolVar(&opts.ticks, "ticks", false, "Drive the core from the Akita event engine")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(stderr, "Usage: rv32sim [options] <program>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
		return 2
	}

	if err := simulate(fs.Arg(0), opts, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func simulate(programPath string, opts options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	level, err := emu.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	format, err := loader.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	base := cfg.ResetPC
	if opts.entry != "" {
		entry, err := strconv.ParseUint(opts.entry, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid entry point %q: %w", opts.entry, err)
		}
		base = uint32(entry)
	}

	prog, err := loader.Load(programPath, format, base)
	if err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}

	emulator := emu.NewEmulator(append(emu.OptionsFromConfig(cfg), emu.WithLogger(logger))...)
	if err := prog.LoadInto(emulator.Memory()); err != nil {
		return err
	}

	entry := prog.EntryPoint
	if opts.entry != "" {
		entry = base
	}
	emulator.SetEntry(entry)

	if opts.verbose {
		fmt.Fprintf(stdout, "Loaded: %s\n", programPath)
		fmt.Fprintf(stdout, "Entry point: 0x%08X\n", entry)
		fmt.Fprintf(stdout, "Segments: %d (%d bytes)\n", len(prog.Segments), prog.Size())
	}

	var runErr error
	if opts.ticks {
		runErr = runTicks(emulator, cfg, stdout)
	} else {
		runErr = emulator.Run()
	}

	fmt.Fprintf(stdout, "Instructions: %d\n", emulator.InstructionCount())
	fmt.Fprintf(stdout, "Invalid: %d\n", emulator.InvalidCount())
	fmt.Fprintf(stdout, "PC: 0x%08X\n", emulator.RegFile().PC)
	fmt.Fprintln(stdout, registerTable(emulator.RegFile()))

	return runErr
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	if opts.max > 0 {
		cfg.MaxInstructions = opts.max
	}
	if opts.trapInvalid {
		cfg.TrapOnInvalid = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// runTicks drives the emulator one instruction per cycle from a serial
// Akita engine.
func runTicks(emulator *emu.Emulator, cfg *config.Config, stdout io.Writer) error {
	engine := sim.NewSerialEngine()
	c := core.NewBuilder().
		WithEngine(engine).
		WithFreq(sim.Freq(cfg.FrequencyMHz) * sim.MHz).
		WithEmulator(emulator).
		Build("Core")

	err := c.Run()

	stats := c.Stats()
	fmt.Fprintf(stdout, "Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(stdout, "Simulated time: %.9fs\n", float64(engine.CurrentTime()))

	return err
}

// registerTable renders the register file as eight rows of four registers.
func registerTable(regFile *emu.RegFile) string {
	t := table.NewWriter()
	t.SetTitle("Registers")
	t.AppendHeader(table.Row{"Reg", "Value", "Reg", "Value", "Reg", "Value", "Reg", "Value"})

	for row := 0; row < emu.NumRegs/4; row++ {
		cells := make(table.Row, 0, 8)
		for col := 0; col < 4; col++ {
			reg := uint8(col*8 + row)
			cells = append(cells,
				fmt.Sprintf("x%d/%s", reg, abiNames[reg]),
				fmt.Sprintf("0x%08X", regFile.ReadReg(reg)),
			)
		}
		t.AppendRow(cells)
	}

	return t.Render()
}
