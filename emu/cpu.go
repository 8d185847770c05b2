package emu

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vanilla/insts"
)

// Stats holds execution counters.
type Stats struct {
	// Cycles is the number of rising clock edges observed.
	Cycles uint64
	// Fetches is the number of instruction fetches issued.
	Fetches uint64
	// Instructions is the number of recognized instructions executed.
	Instructions uint64
	// Loads is the number of completed loads (LOAD, LOADR).
	Loads uint64
	// Stores is the number of completed stores (STORE, STORER).
	Stores uint64
	// Inputs is the number of IN instructions executed.
	Inputs uint64
	// Outputs is the number of OUT instructions executed.
	Outputs uint64
	// Resets is the number of evaluations with Reset asserted.
	Resets uint64
}

// CPU is the Vanilla-32 core. It is driven by Evaluate, once per host
// evaluation, and is not safe for concurrent use.
type CPU struct {
	regFile *RegFile
	flags   CompareFlags
	tasks   TaskQueue
	decoder *insts.Decoder
	inst    insts.Instruction

	// Execution units
	alu        *ALU
	branchUnit *BranchUnit
	lsu        *LoadStoreUnit

	lastClock Value
	fault     error

	lastFetch uint32
	fetched   bool

	resetClearsFlags bool

	stats Stats
	log   logrus.FieldLogger
}

// Option is a functional option for configuring the CPU.
type Option func(*CPU)

// WithLogger sets the logger used for instruction tracing and faults.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *CPU) {
		c.log = log
	}
}

// WithResetClearsFlags makes Reset clear the compare flags as well as the
// registers and program counter.
func WithResetClearsFlags(enabled bool) Option {
	return func(c *CPU) {
		c.resetClearsFlags = enabled
	}
}

// NewCPU creates a new CPU with all registers, the program counter and the
// compare flags at zero and the clock last seen low.
func NewCPU(opts ...Option) *CPU {
	c := &CPU{
		regFile:   &RegFile{},
		decoder:   insts.NewDecoder(),
		lastClock: Bool(false),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		c.log = quiet
	}

	c.alu = NewALU(c.regFile)
	c.branchUnit = NewBranchUnit(c.regFile, &c.flags)
	c.lsu = NewLoadStoreUnit(c.regFile, &c.tasks)

	return c
}

// RegFile returns the CPU's register file.
func (c *CPU) RegFile() *RegFile {
	return c.regFile
}

// Flags returns the latched compare operands.
func (c *CPU) Flags() CompareFlags {
	return c.flags
}

// PC returns the program counter.
func (c *CPU) PC() uint32 {
	return c.regFile.PC
}

// SetPC sets the program counter. Values above MaxPC are clamped at the
// next fetch.
func (c *CPU) SetPC(pc uint32) {
	c.regFile.PC = pc
}

// Tasks returns the pending tasks, front first.
func (c *CPU) Tasks() []Task {
	return c.tasks.Tasks()
}

// Stats returns the execution counters.
func (c *CPU) Stats() Stats {
	return c.stats
}

// LastFetch returns the address of the most recent instruction fetch.
// ok is false until the first fetch.
func (c *CPU) LastFetch() (addr uint32, ok bool) {
	return c.lastFetch, c.fetched
}

// Fault returns the latched execution error, or nil.
func (c *CPU) Fault() error {
	return c.fault
}

// Evaluate performs one evaluation of the CPU against the sampled inputs.
//
// A Reset level clears the registers and program counter. A rising clock
// edge, the clock going from known low to known high since the previous
// evaluation, either issues a fetch or retires the oldest pending task.
// Every other evaluation only records the clock level.
//
// The returned assertions are the outputs to drive, in order. After an
// execution error the CPU is faulted and returns that error from every
// evaluation until Reset is asserted.
func (c *CPU) Evaluate(in Inputs) (Assertions, error) {
	var out Assertions

	prevClock := c.lastClock
	c.lastClock = in.Clock

	if in.Reset.IsTrue() {
		c.reset()
	}

	if c.fault != nil {
		return nil, c.fault
	}

	if !prevClock.IsFalse() || !in.Clock.IsTrue() {
		return out, nil
	}

	c.stats.Cycles++

	task, ok := c.tasks.Dequeue()
	if !ok {
		addr := c.lsu.Fetch(&out)
		c.lastFetch = addr
		c.fetched = true
		c.stats.Fetches++
		c.log.WithFields(logrus.Fields{
			"pc":      addr,
			"address": AddressTag | addr,
		}).Debug("fetch")
		return out, nil
	}

	switch task.Kind {
	case TaskFetch:
		if err := c.execute(in.Memory.Uint32(), in, &out); err != nil {
			c.fault = err
			c.log.WithFields(logrus.Fields{
				"pc": c.lastFetch,
			}).WithError(err).Error("cpu fault")
			return nil, err
		}
	case TaskWrite:
		c.lsu.Write(task, &out)
		c.stats.Stores++
		c.log.WithField("task", task.String()).Debug("retire")
	case TaskSetRegister:
		c.lsu.SetRegister(task, in.Memory)
		c.stats.Loads++
		c.log.WithField("task", task.String()).Debug("retire")
	}

	return out, nil
}

// reset clears the state a Reset level owns. Pending tasks survive, and so
// do the compare flags unless the CPU was built WithResetClearsFlags.
func (c *CPU) reset() {
	c.regFile.Reset()
	if c.resetClearsFlags {
		c.flags.Reset()
	}
	c.fault = nil
	c.stats.Resets++
}

// execute decodes and executes one instruction word. Unassigned opcodes do
// nothing.
func (c *CPU) execute(word uint32, in Inputs, out *Assertions) error {
	inst := &c.inst
	c.decoder.DecodeInto(word, inst)

	if inst.Op == insts.OpUnknown {
		return nil
	}

	c.stats.Instructions++
	c.log.WithFields(logrus.Fields{
		"pc":   c.lastFetch,
		"inst": inst.String(),
	}).Debug("execute")

	var err error

	switch inst.Op {
	case insts.OpADD:
		c.alu.ADD(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpSUB:
		c.alu.SUB(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpMUL:
		c.alu.MUL(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpDIV:
		err = c.alu.DIV(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpMOD:
		err = c.alu.MOD(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpAND:
		c.alu.AND(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpOR:
		c.alu.OR(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpNOT:
		c.alu.NOT(inst.Rd, inst.Rn)
	case insts.OpXOR:
		c.alu.XOR(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpSHL:
		c.alu.SHL(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpSHR:
		c.alu.SHR(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpCMP:
		c.branchUnit.CMP(inst.Rn, inst.Rm)
	case insts.OpJMP, insts.OpJGT, insts.OpJGE, insts.OpJLT,
		insts.OpJLE, insts.OpJEQ, insts.OpJNE:
		c.branchUnit.Jump(inst.Rn, inst.Cond)
	case insts.OpLOADIMM:
		c.alu.LOADIMM(inst.Rd, inst.Imm, inst.High)
	case insts.OpMOV:
		c.alu.MOV(inst.Rd, inst.Rn)
	case insts.OpLOAD:
		c.lsu.LOAD(inst.Rd, inst.Imm, out)
	case insts.OpSTORE:
		c.lsu.STORE(inst.Rn, inst.Imm)
	case insts.OpLOADR:
		c.lsu.LOADR(inst.Rd, inst.Rn, out)
	case insts.OpSTORER:
		c.lsu.STORER(inst.Rn, inst.Rm)
	case insts.OpIN:
		c.lsu.IN(inst.Rd, in.Stdin)
		c.stats.Inputs++
	case insts.OpOUT:
		c.lsu.OUT(inst.Rn, out)
		c.stats.Outputs++
	}

	if err != nil {
		return &ExecError{PC: c.lastFetch, Word: word, Err: err}
	}
	return nil
}
