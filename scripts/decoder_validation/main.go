// Validate decoder allocations - the two-phase control decode must not allocate
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/sarchlab/rv32sim/control"
	"github.com/sarchlab/rv32sim/insts"
)

func main() {
	words := []insts.Word{
		insts.ADDI(10, 0, 42),
		insts.ADD(1, 2, 3),
		insts.LW(5, 2, 8),
		insts.SW(5, 2, 12),
		insts.BNE(5, 0, -8),
		insts.JAL(1, 16),
		insts.LUI(6, 0x12345),
		insts.Word(0xFFFFFFFF), // invalid
	}

	// Warm up
	for i := 0; i < 1000; i++ {
		_, _ = control.Decode(words[i%len(words)], false, false)
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	var valid int
	for i := 0; i < iterations; i++ {
		for j, w := range words {
			vec, ok := control.Decode(w, j%2 == 0, j%3 == 0)
			if ok && vec.Valid {
				valid++
			}
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * len(words)
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("Control Decode Validation Results:\n")
	fmt.Printf("==================================\n")
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Valid decodes: %d\n", valid)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocated bytes: %d\n", allocatedBytes)
	fmt.Printf("Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))

	if float64(allocations)/float64(totalDecodes) < 0.01 {
		fmt.Printf("\nOK: decode path does not allocate\n")
	} else {
		fmt.Printf("\nWARNING: decode path allocates\n")
	}
}
