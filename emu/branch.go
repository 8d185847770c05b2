package emu

import "github.com/sarchlab/vanilla/insts"

// CompareFlags holds the operands latched by the last CMP.
type CompareFlags struct {
	A int32
	B int32
}

// Reset clears both latched operands.
func (f *CompareFlags) Reset() {
	f.A = 0
	f.B = 0
}

// BranchUnit implements Vanilla-32 compare and jump operations.
type BranchUnit struct {
	regFile *RegFile
	flags   *CompareFlags
}

// NewBranchUnit creates a new BranchUnit connected to the given register
// file and compare flags.
func NewBranchUnit(regFile *RegFile, flags *CompareFlags) *BranchUnit {
	return &BranchUnit{regFile: regFile, flags: flags}
}

// CMP latches Rn and Rm as the compare operands.
func (b *BranchUnit) CMP(rn, rm uint8) {
	b.flags.A = b.regFile.ReadReg(rn)
	b.flags.B = b.regFile.ReadReg(rm)
}

// CheckCondition evaluates a jump condition against the compare flags.
// The comparison is signed.
func (b *BranchUnit) CheckCondition(cond insts.Cond) bool {
	a, bb := b.flags.A, b.flags.B

	switch cond {
	case insts.CondAL:
		return true
	case insts.CondGT:
		return a > bb
	case insts.CondGE:
		return a >= bb
	case insts.CondLT:
		return a < bb
	case insts.CondLE:
		return a <= bb
	case insts.CondEQ:
		return a == bb
	case insts.CondNE:
		return a != bb
	default:
		return false
	}
}

// Jump sets PC to the bit pattern of Rn if cond holds. The target is not
// clamped here; the next fetch clamps it to MaxPC.
// Returns whether the jump was taken.
func (b *BranchUnit) Jump(rn uint8, cond insts.Cond) bool {
	if !b.CheckCondition(cond) {
		return false
	}
	b.regFile.PC = uint32(b.regFile.ReadReg(rn))
	return true
}
