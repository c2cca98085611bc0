// Command benchmark runs the rv32sim microbenchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv    Output results in CSV format (default: human-readable)
//	-json   Output results as a JSON report
//	-ticks  Drive each run from the Akita event engine
//	-core   Run only the core subset
//	-max    Instruction limit per benchmark
//
// Example:
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/rv32sim/benchmarks"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	useEngine := flag.Bool("ticks", false, "Drive each run from the Akita event engine")
	coreOnly := flag.Bool("core", false, "Run only the core benchmarks")
	maxInstr := flag.Uint64("max", 10_000_000, "Instruction limit per benchmark (0 = unlimited)")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.UseEngine = *useEngine
	config.MaxInstructions = *maxInstr
	config.Output = os.Stdout

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("rv32sim Benchmark Harness")
		fmt.Println("=========================")
		fmt.Printf("Event engine: %v\n", config.UseEngine)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			atexit.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Passed {
			atexit.Exit(1)
		}
	}
	atexit.Exit(0)
}
