// Package main provides a profiling wrapper for rv32sim to identify performance bottlenecks.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/rv32sim/core"
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/loader"
)

var (
	ticks       = flag.Bool("ticks", false, "Drive the core from the Akita event engine")
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	instruction = flag.Uint64("max-instr", 1000000, "max instructions to execute (0 = unlimited)")
	memorySize  = flag.Uint64("mem", 16<<20, "memory size in bytes")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			atexit.Exit(1)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			_ = f.Close()
			atexit.Exit(1)
		}
		atexit.Register(func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		})
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath, loader.FormatAuto, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		atexit.Exit(1)
	}

	fmt.Printf("Loaded: %s\n", programPath)
	fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)

	emulator := emu.NewEmulator(
		emu.WithMemorySize(*memorySize),
		emu.WithMaxInstructions(*instruction),
		emu.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err := prog.LoadInto(emulator.Memory()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading segments: %v\n", err)
		atexit.Exit(1)
	}
	emulator.SetEntry(prog.EntryPoint)

	start := time.Now()

	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		atexit.Exit(2)
	}()

	if *ticks {
		err = runTicks(emulator)
	} else {
		err = emulator.Run()
	}

	elapsed := time.Since(start)

	if *memProfile != "" {
		writeHeapProfile(*memProfile)
	}

	instrCount := emulator.InstructionCount()

	fmt.Printf("\nProfiling Results:\n")
	switch {
	case err == nil:
		fmt.Printf("Stopped: halted at PC=0x%08X\n", emulator.RegFile().PC)
	case errors.Is(err, emu.ErrMaxInstructions):
		fmt.Printf("Stopped: instruction limit\n")
	default:
		fmt.Printf("Stopped: %v\n", err)
	}
	fmt.Printf("Instructions executed: %d\n", instrCount)
	fmt.Printf("Invalid instructions: %d\n", emulator.InvalidCount())
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}

	atexit.Exit(0)
}

func runTicks(emulator *emu.Emulator) error {
	c := core.NewBuilder().
		WithEngine(sim.NewSerialEngine()).
		WithEmulator(emulator).
		Build("Core")
	return c.Run()
}

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
		return
	}
	defer func() { _ = f.Close() }()

	if err := pprof.WriteHeapProfile(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
	}
}
