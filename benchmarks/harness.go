// Package benchmarks provides a workload harness that runs Vanilla-32
// programs on the bus testbench and reports their cycle counts.
package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/sarchlab/vanilla/config"
	"github.com/sarchlab/vanilla/loader"
	"github.com/sarchlab/vanilla/machine"
)

// Version is reported in JSON benchmark reports.
const Version = "0.1.0"

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the number of clock periods simulated
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of recognized instructions executed
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// Loads and Stores count completed memory transactions
	Loads  uint64 `json:"loads"`
	Stores uint64 `json:"stores"`

	// CacheHits/Misses (if cache enabled)
	CacheHits   uint64 `json:"cache_hits,omitempty"`
	CacheMisses uint64 `json:"cache_misses,omitempty"`

	// Halted is true if the program reached its halt loop
	Halted bool `json:"halted"`

	// Output is everything the program wrote to stdout
	Output []uint32 `json:"output"`

	// OutputOK is true if Output matched the expected output
	OutputOK bool `json:"output_ok"`

	// Error is the run error, if any
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the machine after the program is loaded (e.g.,
	// initialize data memory)
	Setup func(m *machine.Machine)

	// Program is loaded at address 0
	Program []uint32

	// Stdin is presented on the stdin port in order
	Stdin []int32

	// ExpectedOutput is the expected stdout (for validation)
	ExpectedOutput []uint32
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableCache puts the cache between the bus and RAM
	EnableCache bool

	// Machine is the testbench configuration (default: config.Default())
	Machine *config.Config

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableCache: true,
		Machine:     config.Default(),
		Output:      os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
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
		result := h.runBenchmark(bench)
		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "ran %s: %d cycles\n",
				result.Name, result.SimulatedCycles)
		}
		results = append(results, result)
	}

	return results
}

// runBenchmark executes a single benchmark on a fresh machine.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	cfg := h.config.Machine
	if cfg == nil {
		cfg = config.Default()
	}
	cfg = cfg.Clone()
	cfg.Cache.Enabled = h.config.EnableCache

	m, err := machine.New(cfg, machine.WithStdin(bench.Stdin...))
	if err != nil {
		result.Error = err.Error()
		return result
	}

	m.LoadProgram(&loader.Program{
		Segments: []loader.Segment{{Base: 0, Words: bench.Program}},
	})
	if bench.Setup != nil {
		bench.Setup(m)
	}

	start := time.Now()
	res, err := m.Run(context.Background(), 0)
	result.WallTime = time.Since(start)

	if err != nil {
		result.Error = err.Error()
	}

	result.SimulatedCycles = res.Cycles
	result.InstructionsRetired = res.Stats.Instructions
	if res.Stats.Instructions > 0 {
		result.CPI = float64(res.Cycles) / float64(res.Stats.Instructions)
	}
	result.Loads = res.Stats.Loads
	result.Stores = res.Stats.Stores
	result.CacheHits = res.Cache.Hits
	result.CacheMisses = res.Cache.Misses
	result.Halted = res.Halted
	result.Output = res.Output
	result.OutputOK = slices.Equal(res.Output, bench.ExpectedOutput)

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	w := h.config.Output
	_, _ = fmt.Fprintln(w, "=== Vanilla-32 Benchmark Results ===")
	_, _ = fmt.Fprintln(w, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(w, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(w, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(w, "  Halted: %v\n", r.Halted)
		_, _ = fmt.Fprintf(w, "  Output: %v (ok: %v)\n", r.Output, r.OutputOK)
		if r.Error != "" {
			_, _ = fmt.Fprintf(w, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(w, "  --- Timing ---")
		_, _ = fmt.Fprintf(w, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(w, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(w, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(w, "  Loads:                %d\n", r.Loads)
		_, _ = fmt.Fprintf(w, "  Stores:               %d\n", r.Stores)

		if r.CacheHits > 0 || r.CacheMisses > 0 {
			_, _ = fmt.Fprintln(w, "  --- Cache ---")
			_, _ = fmt.Fprintf(w, "  Hits:   %d\n", r.CacheHits)
			_, _ = fmt.Fprintf(w, "  Misses: %d\n", r.CacheMisses)
		}

		_, _ = fmt.Fprintf(w, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(w, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,loads,stores,cache_hits,cache_misses,halted,output_ok")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%d,%v,%v\n",
			r.Name,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.CPI,
			r.Loads,
			r.Stores,
			r.CacheHits,
			r.CacheMisses,
			r.Halted,
			r.OutputOK,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Version of the simulator
	Version string `json:"version"`

	// Config is the testbench configuration used
	Config *config.Config `json:"config"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	TotalBenchmarks   int           `json:"total_benchmarks"`
	TotalCycles       uint64        `json:"total_cycles"`
	TotalInstructions uint64        `json:"total_instructions"`
	AverageCPI        float64       `json:"average_cpi"`
	Failures          int           `json:"failures"`
	TotalWallTime     time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	var summary ReportSummary
	summary.TotalBenchmarks = len(results)
	for _, r := range results {
		summary.TotalCycles += r.SimulatedCycles
		summary.TotalInstructions += r.InstructionsRetired
		summary.TotalWallTime += r.WallTime
		if !r.OutputOK || r.Error != "" {
			summary.Failures++
		}
	}
	if summary.TotalInstructions > 0 {
		summary.AverageCPI = float64(summary.TotalCycles) / float64(summary.TotalInstructions)
	}

	cfg := h.config.Machine
	if cfg == nil {
		cfg = config.Default()
	}
	cfg = cfg.Clone()
	cfg.Cache.Enabled = h.config.EnableCache

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
			Config:    cfg,
		},
		Results: results,
		Summary: summary,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
