// Package main provides the entry point for rv32sim.
// rv32sim is a single-cycle RV32I simulator built on Akita.
//
// For the full CLI, use: go run ./cmd/rv32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32sim - single-cycle RV32I simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: rv32sim [options] <program>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config        Path to simulator configuration (YAML or JSON)")
	fmt.Println("  -format        Program format: auto, elf, bin or hex")
	fmt.Println("  -entry         Entry point and load address")
	fmt.Println("  -max           Maximum instructions to execute")
	fmt.Println("  -trap-invalid  Stop on invalid instructions")
	fmt.Println("  -ticks         Drive the core from the Akita event engine")
	fmt.Println("  -v             Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32sim' instead.")
	}
}
