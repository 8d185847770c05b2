package bus

import (
	"fmt"

	"github.com/sarchlab/vanilla/emu"
)

// State is the host's view of one component instance.
type State interface {
	// Port returns the current level of a port.
	Port(p Port) emu.Value
	// SetPort drives a port after delay time units.
	SetPort(p Port, v emu.Value, delay int)
}

// Evaluator is the CPU as seen by the adapter.
type Evaluator interface {
	Evaluate(in emu.Inputs) (emu.Assertions, error)
}

// Adapter connects a CPU to host ports.
type Adapter struct {
	cpu   Evaluator
	delay int
}

// NewAdapter creates an adapter that drives outputs after delay time units.
// A delay of zero or less selects DefaultDelay.
func NewAdapter(cpu Evaluator, delay int) *Adapter {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Adapter{cpu: cpu, delay: delay}
}

// Delay returns the propagation delay applied to outputs.
func (a *Adapter) Delay() int {
	return a.delay
}

// Propagate runs one CPU evaluation against the host state. Execution
// errors from the CPU are returned unchanged and no output is driven.
func (a *Adapter) Propagate(s State) error {
	out, err := a.cpu.Evaluate(emu.Inputs{
		Clock:  s.Port(PortClock),
		Reset:  s.Port(PortReset),
		Memory: s.Port(PortMemory),
		Stdin:  s.Port(PortStdin),
	})
	if err != nil {
		return err
	}

	for _, as := range out {
		p, ok := PortOf(as.Signal)
		if !ok {
			return fmt.Errorf("no port for signal %v", as.Signal)
		}
		s.SetPort(p, as.Value, a.delay)
	}

	return nil
}
