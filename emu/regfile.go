// Package emu provides the clocked Vanilla-32 CPU core.
package emu

import (
	"fmt"
	"strings"
)

// NumRegisters is the size of the register file.
const NumRegisters = 16

// MaxPC is the highest program counter value. The counter saturates here.
const MaxPC = 0xFFFF

// Register is a single 32-bit storage cell.
type Register struct {
	value int32
}

// Get returns the stored value.
func (r *Register) Get() int32 {
	return r.value
}

// Set stores v.
func (r *Register) Set(v int32) {
	r.value = v
}

// Reset sets the register to 0.
func (r *Register) Reset() {
	r.value = 0
}

// RegFile represents the Vanilla-32 register file.
// It contains 16 general-purpose registers (r0-r15) and the program
// counter (PC).
type RegFile struct {
	// R holds general-purpose registers r0-r15.
	R [NumRegisters]Register

	// PC is the program counter.
	PC uint32
}

// ReadReg reads a register value. Only the low four bits of reg are used.
func (r *RegFile) ReadReg(reg uint8) int32 {
	return r.R[reg&0xF].Get()
}

// WriteReg writes a value to a register. Only the low four bits of reg are
// used.
func (r *RegFile) WriteReg(reg uint8, value int32) {
	r.R[reg&0xF].Set(value)
}

// Reset clears all registers and the program counter.
func (r *RegFile) Reset() {
	for i := range r.R {
		r.R[i].Reset()
	}
	r.PC = 0
}

// String returns the register file as a four-column dump.
func (r *RegFile) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "   pc: %04X\n", r.PC)
	for i := range r.R {
		fmt.Fprintf(&sb, "% 5s: %08X", fmt.Sprintf("r%d", i), uint32(r.R[i].Get()))
		if i%4 == 3 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("  ")
		}
	}
	return sb.String()
}
