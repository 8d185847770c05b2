// Validate decoder allocation behavior - DecodeInto must not allocate
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sarchlab/vanilla/insts"
)

func main() {
	decoder := insts.NewDecoder()
	var inst insts.Instruction

	words := []uint32{
		0x01123000, // ADD r3, r1, r2
		0x08240000, // NOT r4, r2
		0x0E700000, // JGT r7
		0x142BEEFF, // LOADIMM.hi r2, #0xBEEF
		0x16123450, // LOAD r5, [0x1234]
		0x1960000F, // STORER [r0], r6
		0xFFFFFFFF, // unknown
	}

	// Warm up
	for i := 0; i < 1000; i++ {
		decoder.DecodeInto(words[i%len(words)], &inst)
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	for i := 0; i < iterations; i++ {
		for _, w := range words {
			decoder.DecodeInto(w, &inst)
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * len(words)
	allocations := m2.Mallocs - m1.Mallocs

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))

	fmt.Printf("\nOpcode table:\n")
	for op := 0; op < 256; op++ {
		decoder.DecodeInto(uint32(op)<<24, &inst)
		if inst.Op != insts.OpUnknown {
			fmt.Printf("  0x%02X %-8s %v\n", op, inst.Op, inst.Format)
		}
	}

	if float64(allocations)/float64(totalDecodes) >= 0.1 {
		fmt.Printf("\nWARNING: High allocation rate detected\n")
		os.Exit(1)
	}
}
