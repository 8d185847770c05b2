// Package main points at the vanilla command.
//
// Vanilla is a clocked Vanilla-32 CPU core with a bus testbench. The runner
// lives in ./cmd/vanilla and the workload harness in ./cmd/benchmark.
package main

import "fmt"

func main() {
	fmt.Println("Vanilla - Vanilla-32 CPU core and bus testbench")
	fmt.Println("")
	fmt.Println("Run a program image: go run ./cmd/vanilla [options] <image>")
	fmt.Println("Run the workloads:   go run ./cmd/benchmark [options]")
	fmt.Println("")
	fmt.Println("Pass -h to either command for its options.")
}
