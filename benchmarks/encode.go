package benchmarks

import "github.com/sarchlab/vanilla/insts"

// Helper functions for building Vanilla-32 programs

// EncodeALU encodes a three-register operation: Rd = Rn op Rm.
func EncodeALU(op insts.Op, rd, rn, rm uint8) uint32 {
	return uint32(op)<<24 | uint32(rn&0xF)<<20 | uint32(rm&0xF)<<16 | uint32(rd&0xF)<<12
}

// EncodeADD encodes ADD rd, rn, rm.
func EncodeADD(rd, rn, rm uint8) uint32 {
	return EncodeALU(insts.OpADD, rd, rn, rm)
}

// EncodeSUB encodes SUB rd, rn, rm.
func EncodeSUB(rd, rn, rm uint8) uint32 {
	return EncodeALU(insts.OpSUB, rd, rn, rm)
}

// EncodeMOV encodes MOV rd, rn. The destination sits in the m field.
func EncodeMOV(rd, rn uint8) uint32 {
	return uint32(insts.OpMOV)<<24 | uint32(rn&0xF)<<20 | uint32(rd&0xF)<<16
}

// EncodeJump encodes JMP or a conditional jump to the address in rn.
func EncodeJump(op insts.Op, rn uint8) uint32 {
	return uint32(op)<<24 | uint32(rn&0xF)<<20
}

// EncodeCMP encodes CMP rn, rm.
func EncodeCMP(rn, rm uint8) uint32 {
	return uint32(insts.OpCMP)<<24 | uint32(rn&0xF)<<20 | uint32(rm&0xF)<<16
}

// EncodeLOADIMM encodes LOADIMM rd, #imm, or LOADIMM.hi when high is set.
// The immediate is ORed into rd.
func EncodeLOADIMM(rd uint8, imm uint16, high bool) uint32 {
	inst := uint32(insts.OpLOADIMM)<<24 | uint32(rd&0xF)<<20 | uint32(imm)<<4
	if high {
		inst |= 0xF
	}
	return inst
}

// EncodeLOAD encodes LOAD rd, [addr].
func EncodeLOAD(rd uint8, addr uint16) uint32 {
	return uint32(insts.OpLOAD)<<24 | uint32(addr)<<8 | uint32(rd&0xF)<<4
}

// EncodeSTORE encodes STORE [addr], rn.
func EncodeSTORE(rn uint8, addr uint16) uint32 {
	return uint32(insts.OpSTORE)<<24 | uint32(rn&0xF)<<20 | uint32(addr)<<4
}

// EncodeLOADR encodes LOADR rd, [rn].
func EncodeLOADR(rd, rn uint8) uint32 {
	return uint32(insts.OpLOADR)<<24 | uint32(rn&0xF)<<20 | uint32(rd&0xF)<<16
}

// EncodeSTORER encodes STORER [rm], rn.
func EncodeSTORER(rm, rn uint8) uint32 {
	return uint32(insts.OpSTORER)<<24 | uint32(rn&0xF)<<20 | uint32(rm&0xF)<<16
}

// EncodeIN encodes IN rd.
func EncodeIN(rd uint8) uint32 {
	return uint32(insts.OpIN)<<24 | uint32(rd&0xF)<<20
}

// EncodeOUT encodes OUT rn.
func EncodeOUT(rn uint8) uint32 {
	return uint32(insts.OpOUT)<<24 | uint32(rn&0xF)<<20
}

// haltReg is clobbered by the halt sequence.
const haltReg = 15

// BuildProgram appends a halt sequence to the instruction words. The
// program is meant to be loaded at address 0.
func BuildProgram(instrs ...uint32) []uint32 {
	at := uint16(len(instrs))
	program := make([]uint32, 0, len(instrs)+3)
	program = append(program, instrs...)
	return append(program,
		EncodeALU(insts.OpXOR, haltReg, haltReg, haltReg),
		EncodeLOADIMM(haltReg, at+2, false),
		EncodeJump(insts.OpJMP, haltReg),
	)
}
