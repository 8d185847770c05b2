package emu

import (
	"errors"
	"fmt"
)

var (
	// ErrDivideByZero is returned when DIV or MOD has a zero divisor.
	ErrDivideByZero = errors.New("integer divide by zero")
)

// ExecError is a fatal error raised while executing an instruction.
type ExecError struct {
	PC   uint32 // Address the instruction was fetched from
	Word uint32 // Instruction word
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%04x: %08x: %v", e.PC, e.Word, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
