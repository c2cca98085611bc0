// Package benchmarks provides RV32I microbenchmarks and a harness that runs
// them on the emulator.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32sim/core"
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

// ProgramAddr is where benchmark programs are loaded.
const ProgramAddr = 0

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Cycles is the number of ticks when driven by the engine. In direct
	// mode it equals InstructionsRetired.
	Cycles uint64 `json:"cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// InvalidInstructions is the number of invalid words retired as no-ops
	InvalidInstructions uint64 `json:"invalid_instructions"`

	// Result is the final value of a0 (x10)
	Result uint32 `json:"result"`

	// Expected is the a0 value the program should produce
	Expected uint32 `json:"expected"`

	// Passed is true if the program halted with the expected result
	Passed bool `json:"passed"`

	// Error is set if the program did not halt cleanly
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// MIPS returns the simulation speed in millions of instructions per second.
func (r BenchmarkResult) MIPS() float64 {
	if r.WallTime <= 0 {
		return 0
	}
	return float64(r.InstructionsRetired) / r.WallTime.Seconds() / 1e6
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the emulator state (e.g., initialize memory)
	Setup func(e *emu.Emulator) error

	// Program is the RV32I machine code to execute. It must end in a
	// jump-to-self.
	Program []insts.Word

	// Expected is the expected value of a0 (for validation)
	Expected uint32
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// UseEngine drives the emulator from an Akita serial engine instead of
	// calling Run directly.
	UseEngine bool

	// MaxInstructions bounds each run. Zero means no limit.
	MaxInstructions uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		UseEngine:       false,
		MaxInstructions: 10_000_000,
		Output:          os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
	logger     *slog.Logger
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
		Expected:    bench.Expected,
	}

	e := emu.NewEmulator(
		emu.WithMaxInstructions(h.config.MaxInstructions),
		emu.WithLogger(h.logger),
	)

	if err := e.LoadWords(ProgramAddr, BuildProgram(bench.Program...)); err != nil {
		result.Error = err.Error()
		return result
	}

	if bench.Setup != nil {
		if err := bench.Setup(e); err != nil {
			result.Error = fmt.Sprintf("setup: %v", err)
			return result
		}
	}

	start := time.Now()
	var err error
	if h.config.UseEngine {
		engine := sim.NewSerialEngine()
		c := core.NewBuilder().
			WithEngine(engine).
			WithEmulator(e).
			Build("Core")
		err = c.Run()
		result.Cycles = c.Stats().Cycles
	} else {
		err = e.Run()
		result.Cycles = e.InstructionCount()
	}
	result.WallTime = time.Since(start)

	result.InstructionsRetired = e.InstructionCount()
	result.InvalidInstructions = e.InvalidCount()
	result.Result = e.RegFile().ReadReg(10)

	if err != nil {
		result.Error = err.Error()
	}
	result.Passed = err == nil && result.Result == result.Expected

	return result
}

// PrintResults outputs benchmark results as a table.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	t := table.NewWriter()
	t.SetOutputMirror(h.config.Output)
	t.SetTitle("rv32sim Benchmark Results")
	t.AppendHeader(table.Row{
		"Benchmark", "Instructions", "Cycles", "a0", "Expected", "Status", "Wall Time", "MIPS",
	})

	for _, r := range results {
		status := "ok"
		if !r.Passed {
			status = "FAIL"
			if r.Error != "" {
				status = "FAIL: " + r.Error
			}
		}

		t.AppendRow(table.Row{
			r.Name,
			r.InstructionsRetired,
			r.Cycles,
			r.Result,
			r.Expected,
			status,
			r.WallTime,
			fmt.Sprintf("%.2f", r.MIPS()),
		})
	}

	t.Render()
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,instructions,cycles,invalid,result,expected,passed,wall_time_ns")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%t,%d\n",
			r.Name,
			r.InstructionsRetired,
			r.Cycles,
			r.InvalidInstructions,
			r.Result,
			r.Expected,
			r.Passed,
			r.WallTime.Nanoseconds(),
		)
	}
}

// BenchmarkReport is the JSON output format for benchmark results.
type BenchmarkReport struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// UseEngine records whether the Akita engine drove the runs
	UseEngine bool `json:"use_engine"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// TotalInstructions is the sum of all instructions retired
	TotalInstructions uint64 `json:"total_instructions"`

	// Failed is the number of benchmarks that did not pass
	Failed int `json:"failed"`
}

// PrintJSON outputs benchmark results in JSON format for automated
// comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	report := BenchmarkReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		UseEngine: h.config.UseEngine,
		Results:   results,
	}

	for _, r := range results {
		report.TotalInstructions += r.InstructionsRetired
		if !r.Passed {
			report.Failed++
		}
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// BuildProgram converts instruction words to the form the emulator loads.
func BuildProgram(program ...insts.Word) []uint32 {
	words := make([]uint32, len(program))
	for i, w := range program {
		words[i] = uint32(w)
	}
	return words
}
