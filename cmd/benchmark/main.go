// Command benchmark runs the Vanilla-32 workload harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv       Output results in CSV format (default: human-readable)
//	-json      Output results as a JSON report
//	-no-cache  Disable the cache between the bus and RAM
//	-core      Run only the three core workloads
//	-config    Path to testbench configuration JSON file
//
// Example:
//
//	# Run all workloads with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/vanilla/benchmarks"
	"github.com/sarchlab/vanilla/config"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as a JSON report")
	noCache := flag.Bool("no-cache", false, "Disable the cache")
	coreOnly := flag.Bool("core", false, "Run only the core workloads")
	configPath := flag.String("config", "", "Path to testbench configuration JSON file")
	flag.Parse()

	hc := benchmarks.DefaultConfig()
	hc.EnableCache = !*noCache
	hc.Output = os.Stdout

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		hc.Machine = cfg
	}

	harness := benchmarks.NewHarness(hc)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("Vanilla-32 Benchmark Harness")
		fmt.Println("============================")
		fmt.Printf("Cache: %v\n", hc.EnableCache)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.OutputOK || r.Error != "" {
			os.Exit(1)
		}
	}
}
