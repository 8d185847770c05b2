package emu

import (
	"fmt"
	"strings"
)

// Bus widths in bits.
const (
	ControlWidth = 1
	AddressWidth = 17
	DataWidth    = 32
)

// AddressTag marks an asserted address as a live memory request.
const AddressTag = 0x10000

// Value is the level of a bus signal. An unknown value means nobody drives
// the signal.
type Value struct {
	bits  uint32
	width uint8
	known bool
}

// Known creates a driven value. Bits above width are dropped.
func Known(width uint8, bits uint32) Value {
	return Value{bits: bits & widthMask(width), width: width, known: true}
}

// Unknown creates a released value of the given width.
func Unknown(width uint8) Value {
	return Value{width: width}
}

// Bool creates a 1-bit known value.
func Bool(b bool) Value {
	if b {
		return Known(ControlWidth, 1)
	}
	return Known(ControlWidth, 0)
}

func widthMask(width uint8) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << width) - 1
}

// Width returns the bit width of the value.
func (v Value) Width() uint8 {
	return v.width
}

// IsKnown reports whether the value is driven.
func (v Value) IsKnown() bool {
	return v.known
}

// IsTrue reports whether the value is a known logic 1.
func (v Value) IsTrue() bool {
	return v.known && v.bits&1 == 1
}

// IsFalse reports whether the value is a known logic 0.
func (v Value) IsFalse() bool {
	return v.known && v.bits&1 == 0
}

// Uint32 returns the value as an integer. An unknown value reads as all
// ones.
func (v Value) Uint32() uint32 {
	if !v.known {
		return 0xFFFFFFFF
	}
	return v.bits
}

// Int32 returns the value as a signed integer. An unknown value reads as -1.
func (v Value) Int32() int32 {
	return int32(v.Uint32())
}

// String returns the value in hex, or x for each unknown nibble.
func (v Value) String() string {
	digits := (int(v.width) + 3) / 4
	if !v.known {
		return strings.Repeat("x", digits)
	}
	return fmt.Sprintf("%0*X", digits, v.bits)
}

// Signal identifies an output the CPU drives.
type Signal uint8

// CPU output signals.
const (
	SignalAddress Signal = iota
	SignalMemory
	SignalStdout
)

func (s Signal) String() string {
	switch s {
	case SignalAddress:
		return "address"
	case SignalMemory:
		return "memory"
	case SignalStdout:
		return "stdout"
	default:
		return fmt.Sprintf("signal(%d)", uint8(s))
	}
}

// Assertion is one output the CPU drives during an evaluation.
type Assertion struct {
	Signal Signal
	Value  Value
}

// Assertions collects the outputs of one evaluation in issue order.
type Assertions []Assertion

func (a *Assertions) drive(s Signal, v Value) {
	*a = append(*a, Assertion{Signal: s, Value: v})
}

// Last returns the last value driven on s during the evaluation.
func (a Assertions) Last(s Signal) (Value, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Signal == s {
			return a[i].Value, true
		}
	}
	return Value{}, false
}

// Inputs holds the input levels sampled by one evaluation.
type Inputs struct {
	Clock  Value
	Reset  Value
	Memory Value
	Stdin  Value
}
