// Package machine provides a testbench that runs a Vanilla-32 CPU against
// a clock, a RAM and stdin/stdout devices on a simulated bus.
//
// The machine plays the part of the host simulator. Time advances in host
// time units: the clock rises at the start of each period and falls halfway
// through. CPU outputs land after the adapter's propagation delay and the
// RAM answers reads after the configured memory latency. Every change to a
// CPU input triggers another propagation, so the CPU sees the same sequence
// of evaluations it would in a host circuit.
package machine

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vanilla/bus"
	"github.com/sarchlab/vanilla/config"
	"github.com/sarchlab/vanilla/emu"
	"github.com/sarchlab/vanilla/loader"
	"github.com/sarchlab/vanilla/memory"
)

// Result summarizes a run.
type Result struct {
	// Cycles is the number of clock periods simulated so far.
	Cycles uint64
	// Halted is true if the CPU fetched the same address twice in a row.
	Halted bool
	// Stats holds the CPU counters.
	Stats emu.Stats
	// Cache holds the cache counters. It is zero when the cache is
	// disabled.
	Cache memory.Statistics
	// Output holds every word written to stdout.
	Output []uint32
}

// Machine is a single-threaded testbench around one CPU.
type Machine struct {
	cfg *config.Config

	cpu     *emu.CPU
	adapter *bus.Adapter
	ram     *memory.RAM
	cache   *memory.Cache
	store   memory.Store

	now    int
	events eventQueue

	// Levels the machine drives into the CPU.
	clock emu.Value
	reset emu.Value

	// Levels the CPU drives, indexed by port.
	driven [bus.NumPorts]emu.Value

	// RAM side of the memory line. ramGen counts requests so a stale
	// answer is dropped.
	ramDrive emu.Value
	ramGen   uint64

	stdin    []int32
	consumed uint64
	output   []uint32
	stdout   io.Writer

	cycles    uint64
	fetches   uint64
	lastFetch uint32
	tracking  bool
	halted    bool

	log logrus.FieldLogger
}

// Option is a functional option for configuring the Machine.
type Option func(*Machine)

// WithLogger sets the logger shared by the machine and its CPU.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Machine) {
		m.log = log
	}
}

// WithStdout echoes every stdout word to w as a signed decimal line.
func WithStdout(w io.Writer) Option {
	return func(m *Machine) {
		m.stdout = w
	}
}

// WithStdin queues words for the stdin port.
func WithStdin(words ...int32) Option {
	return func(m *Machine) {
		m.stdin = append(m.stdin, words...)
	}
}

// New creates a machine with zeroed RAM, the clock low and Reset released.
func New(cfg *config.Config, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m := &Machine{
		cfg:      cfg.Clone(),
		ram:      memory.NewRAM(),
		clock:    emu.Bool(false),
		reset:    emu.Bool(false),
		ramDrive: emu.Unknown(emu.DataWidth),
	}

	for i := range m.driven {
		m.driven[i] = emu.Unknown(bus.Ports[i].Width)
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		m.log = quiet
	}

	m.cpu = emu.NewCPU(
		emu.WithLogger(m.log),
		emu.WithResetClearsFlags(m.cfg.ResetClearsFlags),
	)
	m.adapter = bus.NewAdapter(m.cpu, m.cfg.Delay)

	m.store = m.ram
	if m.cfg.Cache.Enabled {
		m.cache = memory.NewCache(m.cfg.Cache.Geometry(), m.ram)
		m.store = m.cache
	}

	return m, nil
}

// CPU returns the machine's CPU.
func (m *Machine) CPU() *emu.CPU {
	return m.cpu
}

// RAM returns the backing memory. Writes held in the cache reach it on
// Flush or at the end of Run.
func (m *Machine) RAM() *memory.RAM {
	return m.ram
}

// Cache returns the cache, or nil when it is disabled.
func (m *Machine) Cache() *memory.Cache {
	return m.cache
}

// Now returns the current simulated time.
func (m *Machine) Now() int {
	return m.now
}

// Cycles returns the number of clock periods simulated.
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

// Halted reports whether the CPU has fetched the same address twice in a
// row.
func (m *Machine) Halted() bool {
	return m.halted
}

// Output returns a copy of the words written to stdout.
func (m *Machine) Output() []uint32 {
	out := make([]uint32, len(m.output))
	copy(out, m.output)
	return out
}

// LoadProgram writes the program into RAM and points the CPU at its entry.
func (m *Machine) LoadProgram(prog *loader.Program) {
	m.Flush()
	for _, seg := range prog.Segments {
		m.ram.Load(seg.Base, seg.Words)
	}
	m.cpu.SetPC(uint32(prog.Entry))
	m.log.WithFields(logrus.Fields{
		"segments": len(prog.Segments),
		"words":    prog.Size(),
		"entry":    prog.Entry,
	}).Debug("program loaded")
}

// Feed queues words for the stdin port.
func (m *Machine) Feed(words ...int32) {
	m.stdin = append(m.stdin, words...)
}

// Flush writes cached data back to RAM.
func (m *Machine) Flush() {
	if m.cache != nil {
		m.cache.Flush()
	}
}

// SetReset drives the Reset line. The CPU sees the new level at once.
func (m *Machine) SetReset(level bool) error {
	m.reset = emu.Bool(level)
	if level {
		m.halted = false
		m.tracking = false
	}
	return m.propagate()
}

// Step simulates one clock period: the rising edge, the first half period,
// the falling edge and the second half period.
func (m *Machine) Step() error {
	start := m.now
	half := m.cfg.ClockPeriod / 2

	m.clock = emu.Bool(true)
	if err := m.propagate(); err != nil {
		return err
	}
	if err := m.settle(start + half); err != nil {
		return err
	}

	m.clock = emu.Bool(false)
	if err := m.propagate(); err != nil {
		return err
	}
	if err := m.settle(start + m.cfg.ClockPeriod); err != nil {
		return err
	}

	m.cycles++
	m.checkHalt()

	return nil
}

// Run steps the machine until it halts, the CPU faults, ctx is done or
// maxCycles periods have run. A maxCycles of zero uses the configured
// budget. The cache is flushed before returning.
func (m *Machine) Run(ctx context.Context, maxCycles uint64) (Result, error) {
	if maxCycles == 0 {
		maxCycles = m.cfg.MaxCycles
	}

	var err error
	for n := uint64(0); n < maxCycles && !m.halted; n++ {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = m.Step(); err != nil {
			break
		}
	}

	m.Flush()
	res := m.result()

	entry := m.log.WithFields(logrus.Fields{
		"cycles":       res.Cycles,
		"instructions": res.Stats.Instructions,
		"halted":       res.Halted,
	})
	if err != nil {
		entry.WithError(err).Warn("run stopped")
	} else {
		entry.Info("run finished")
	}

	return res, err
}

func (m *Machine) result() Result {
	res := Result{
		Cycles: m.cycles,
		Halted: m.halted,
		Stats:  m.cpu.Stats(),
		Output: m.Output(),
	}
	if m.cache != nil {
		res.Cache = m.cache.Stats()
	}
	return res
}

// checkHalt records a new fetch and flags a fetch that repeats the previous
// address. Fetches under Reset never halt.
func (m *Machine) checkHalt() {
	fetches := m.cpu.Stats().Fetches
	if fetches == m.fetches {
		return
	}

	m.fetches = fetches

	// A fetch under Reset does not count as the previous address, so the
	// first fetch after release never matches it.
	if m.reset.IsTrue() {
		m.tracking = false
		return
	}

	addr, _ := m.cpu.LastFetch()
	if m.tracking && addr == m.lastFetch {
		m.halted = true
		m.log.WithField("pc", addr).Debug("halt")
	}

	m.tracking = true
	m.lastFetch = addr
}
