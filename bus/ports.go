// Package bus adapts the Vanilla-32 core to a host simulator's port model.
//
// The host sees the CPU as a component with six ports. On every host
// evaluation the Adapter samples the input ports, runs one CPU evaluation
// and drives the resulting outputs back with a propagation delay.
package bus

import "github.com/sarchlab/vanilla/emu"

// Port is the index of a component port.
type Port int

// Component ports, in the order the host lists them.
const (
	PortClock Port = iota
	PortReset
	PortMemory
	PortAddress
	PortStdin
	PortStdout

	NumPorts
)

// Direction is the direction of a port as seen from the CPU.
type Direction uint8

// Port directions.
const (
	Input Direction = iota
	Output
	InOut
)

// PortSpec describes one port.
type PortSpec struct {
	Name      string
	Width     uint8
	Direction Direction
}

// Ports lists every port, indexed by Port.
var Ports = [NumPorts]PortSpec{
	PortClock:   {"CLOCK", emu.ControlWidth, Input},
	PortReset:   {"RESET", emu.ControlWidth, Input},
	PortMemory:  {"MEMORY", emu.DataWidth, InOut},
	PortAddress: {"ADDRESS", emu.AddressWidth, Output},
	PortStdin:   {"STDIN", emu.DataWidth, Input},
	PortStdout:  {"STDOUT", emu.DataWidth, Output},
}

// DefaultDelay is the propagation delay, in host time units, announced for
// every output the CPU drives.
const DefaultDelay = 50

func (p Port) String() string {
	if p >= 0 && p < NumPorts {
		return Ports[p].Name
	}
	return "PORT?"
}

// signalPorts maps CPU outputs to the ports that carry them.
var signalPorts = map[emu.Signal]Port{
	emu.SignalAddress: PortAddress,
	emu.SignalMemory:  PortMemory,
	emu.SignalStdout:  PortStdout,
}

// PortOf returns the port that carries a CPU output signal.
func PortOf(s emu.Signal) (Port, bool) {
	p, ok := signalPorts[s]
	return p, ok
}
