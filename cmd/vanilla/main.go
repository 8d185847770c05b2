// Package main provides the vanilla command, which runs a Vanilla-32
// program image on the bus testbench.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vanilla/config"
	"github.com/sarchlab/vanilla/loader"
	"github.com/sarchlab/vanilla/machine"
)

var (
	configPath = flag.String("config", "", "Path to testbench configuration JSON file")
	cycles     = flag.Uint64("cycles", 0, "Maximum clock cycles to run (0 = config max_cycles)")
	stdinWords = flag.String("stdin", "", "Comma-separated words to present on stdin")
	verbose    = flag.Bool("v", false, "Verbose output (debug logging)")
	dump       = flag.Bool("dump", false, "Print the register file after the run")
	timeout    = flag.Duration("timeout", 0, "Stop the run after this wall-clock duration (0 = none)")
	cpuProfile = flag.String("cpuprofile", "", "Write a CPU profile to file")
)

func main() {
	os.Exit(realMain())
}

// realMain runs the command and returns its exit code. Deferred cleanup
// runs before main exits.
func realMain() int {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: vanilla [options] <program image>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		return 1
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	words, err := parseStdin(*stdinWords)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -stdin: %v\n", err)
		return 1
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.Level())
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	opts := options{
		maxCycles: *cycles,
		stdin:     words,
		dump:      *dump,
	}

	if err := run(ctx, flag.Arg(0), cfg, log, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

type options struct {
	maxCycles uint64
	stdin     []int32
	dump      bool
}

// run loads the image at path, runs it and reports to w.
func run(
	ctx context.Context,
	path string,
	cfg *config.Config,
	log logrus.FieldLogger,
	opts options,
	w io.Writer,
) error {
	prog, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	log.WithFields(logrus.Fields{
		"image":    path,
		"entry":    prog.Entry,
		"segments": len(prog.Segments),
	}).Debug("loaded")

	m, err := machine.New(cfg,
		machine.WithLogger(log),
		machine.WithStdout(w),
		machine.WithStdin(opts.stdin...),
	)
	if err != nil {
		return err
	}
	m.LoadProgram(prog)

	start := time.Now()
	res, runErr := m.Run(ctx, opts.maxCycles)
	wallTime := time.Since(start)

	printSummary(w, path, res, wallTime)
	if opts.dump {
		_, _ = fmt.Fprintf(w, "\nRegisters:\n%s", m.CPU().RegFile())
	}

	return runErr
}

func printSummary(w io.Writer, path string, res machine.Result, wallTime time.Duration) {
	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "Program: %s\n", path)
	_, _ = fmt.Fprintf(w, "Halted: %v\n", res.Halted)
	_, _ = fmt.Fprintf(w, "Cycles: %d\n", res.Cycles)
	_, _ = fmt.Fprintf(w, "Instructions: %d\n", res.Stats.Instructions)
	_, _ = fmt.Fprintf(w, "Loads: %d\n", res.Stats.Loads)
	_, _ = fmt.Fprintf(w, "Stores: %d\n", res.Stats.Stores)
	if res.Cache.Reads+res.Cache.Writes > 0 {
		_, _ = fmt.Fprintf(w, "Cache: %d hits, %d misses, %d writebacks\n",
			res.Cache.Hits, res.Cache.Misses, res.Cache.Writebacks)
	}
	_, _ = fmt.Fprintf(w, "Wall Time: %v\n", wallTime)
}

// parseStdin parses a comma-separated list of decimal or 0x-prefixed hex
// words.
func parseStdin(s string) ([]int32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var words []int32
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		v, err := strconv.ParseInt(field, 0, 64)
		if err != nil || v < -1<<31 || v > 1<<32-1 {
			return nil, fmt.Errorf("bad word %q", field)
		}
		words = append(words, int32(v))
	}
	return words, nil
}
