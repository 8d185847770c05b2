package emu

// ALU implements Vanilla-32 arithmetic and logic operations.
// Values are 32-bit two's complement and wrap on overflow.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ADD performs addition: Rd = Rn + Rm
func (a *ALU) ADD(rd, rn, rm uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rn)+a.regFile.ReadReg(rm))
}

// SUB performs subtraction: Rd = Rn - Rm
func (a *ALU) SUB(rd, rn, rm uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rn)-a.regFile.ReadReg(rm))
}

// MUL performs multiplication: Rd = Rn * Rm (low 32 bits)
func (a *ALU) MUL(rd, rn, rm uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rn)*a.regFile.ReadReg(rm))
}

// DIV performs signed division truncated toward zero: Rd = Rn / Rm.
// Rd is left unchanged when Rm is zero.
func (a *ALU) DIV(rd, rn, rm uint8) error {
	divisor := a.regFile.ReadReg(rm)
	if divisor == 0 {
		return ErrDivideByZero
	}
	// math.MinInt32 / -1 wraps to math.MinInt32.
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rn)/divisor)
	return nil
}

// MOD performs the signed remainder: Rd = Rn % Rm, with the sign of Rn.
// Rd is left unchanged when Rm is zero.
func (a *ALU) MOD(rd, rn, rm uint8) error {
	divisor := a.regFile.ReadReg(rm)
	if divisor == 0 {
		return ErrDivideByZero
	}
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rn)%divisor)
	return nil
}

// AND performs bitwise AND: Rd = Rn & Rm
func (a *ALU) AND(rd, rn, rm uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rn)&a.regFile.ReadReg(rm))
}

// OR performs bitwise OR: Rd = Rn | Rm
func (a *ALU) OR(rd, rn, rm uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rn)|a.regFile.ReadReg(rm))
}

// XOR performs bitwise exclusive OR: Rd = Rn ^ Rm
func (a *ALU) XOR(rd, rn, rm uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rn)^a.regFile.ReadReg(rm))
}

// NOT performs bitwise complement: Rd = ^Rn
func (a *ALU) NOT(rd, rn uint8) {
	a.regFile.WriteReg(rd, ^a.regFile.ReadReg(rn))
}

// SHL performs a left shift: Rd = Rn << (Rm & 31)
func (a *ALU) SHL(rd, rn, rm uint8) {
	shift := uint32(a.regFile.ReadReg(rm)) & 31
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rn)<<shift)
}

// SHR performs a logical right shift: Rd = Rn >>> (Rm & 31)
func (a *ALU) SHR(rd, rn, rm uint8) {
	shift := uint32(a.regFile.ReadReg(rm)) & 31
	a.regFile.WriteReg(rd, int32(uint32(a.regFile.ReadReg(rn))>>shift))
}

// MOV copies a register: Rd = Rn
func (a *ALU) MOV(rd, rn uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rn))
}

// LOADIMM merges a 16-bit immediate into Rd. With high set the immediate
// is ORed into bits [31:16], otherwise into bits [15:0]. Bits already set in
// Rd are kept.
func (a *ALU) LOADIMM(rd uint8, imm uint16, high bool) {
	merged := uint32(imm)
	if high {
		merged <<= 16
	}
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rd)|int32(merged))
}
