// Package insts provides Vanilla-32 instruction definitions and decoding.
package insts

// Op represents a Vanilla-32 opcode. Its value is the top byte of the
// instruction word.
type Op uint8

// Vanilla-32 opcodes.
const (
	OpUnknown Op = 0x00
	OpADD     Op = 0x01
	OpSUB     Op = 0x02
	OpMUL     Op = 0x03
	OpDIV     Op = 0x04
	OpMOD     Op = 0x05
	OpAND     Op = 0x06
	OpOR      Op = 0x07
	OpNOT     Op = 0x08
	OpXOR     Op = 0x09
	OpSHL     Op = 0x0A
	OpSHR     Op = 0x0B
	OpJMP     Op = 0x0C
	OpCMP     Op = 0x0D
	OpJGT     Op = 0x0E
	OpJGE     Op = 0x0F
	OpJLT     Op = 0x10
	OpJLE     Op = 0x11
	OpJEQ     Op = 0x12
	OpJNE     Op = 0x13
	OpLOADIMM Op = 0x14
	OpMOV     Op = 0x15
	OpLOAD    Op = 0x16
	OpSTORE   Op = 0x17
	OpLOADR   Op = 0x18
	OpSTORER  Op = 0x19
	OpIN      Op = 0x1A
	OpOUT     Op = 0x1B
)

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown  Format = iota
	FormatALU             // d=[15:12] n=[23:20] m=[19:16]
	FormatUnary           // d=[19:16] n=[23:20]
	FormatJump            // n=[23:20]
	FormatCompare         // n=[23:20] m=[19:16]
	FormatLoadImm         // d=[23:20] imm=[19:4] high=([3:0]==0xF)
	FormatLoad            // d=[7:4] imm=[23:8]
	FormatStore           // n=[23:20] imm=[19:4]
	FormatLoadReg         // n=[23:20] d=[19:16]
	FormatStoreReg        // n=[23:20] m=[19:16]
	FormatIn              // d=[23:20]
	FormatOut             // n=[23:20]
)

// Cond represents the comparison a jump applies to the latched compare flags.
type Cond uint8

// Jump conditions.
const (
	CondAL Cond = iota // Always
	CondGT             // A > B
	CondGE             // A >= B
	CondLT             // A < B
	CondLE             // A <= B
	CondEQ             // A == B
	CondNE             // A != B
)

// Instruction represents a decoded Vanilla-32 instruction.
type Instruction struct {
	Word   uint32 // Raw instruction word
	Op     Op     // Operation code, OpUnknown if the top byte is unassigned
	Format Format // Encoding format

	Rd uint8 // Destination register
	Rn uint8 // First source register (value, jump target or address)
	Rm uint8 // Second source register

	Imm  uint16 // 16-bit immediate (value or address)
	High bool   // LOADIMM targets the upper half
	Cond Cond   // Jump condition
}

// Opcode returns the raw top byte of the instruction word.
func (i *Instruction) Opcode() uint8 {
	return uint8(i.Word >> 24)
}

// Operand returns the low 24 bits of the instruction word.
func (i *Instruction) Operand() uint32 {
	return i.Word & 0x00FFFFFF
}

type opEntry struct {
	op     Op
	format Format
	cond   Cond
}

// opTable maps every top byte to its operation. Unassigned entries stay zero
// (OpUnknown, FormatUnknown).
var opTable = [256]opEntry{
	0x01: {OpADD, FormatALU, CondAL},
	0x02: {OpSUB, FormatALU, CondAL},
	0x03: {OpMUL, FormatALU, CondAL},
	0x04: {OpDIV, FormatALU, CondAL},
	0x05: {OpMOD, FormatALU, CondAL},
	0x06: {OpAND, FormatALU, CondAL},
	0x07: {OpOR, FormatALU, CondAL},
	0x08: {OpNOT, FormatUnary, CondAL},
	0x09: {OpXOR, FormatALU, CondAL},
	0x0A: {OpSHL, FormatALU, CondAL},
	0x0B: {OpSHR, FormatALU, CondAL},
	0x0C: {OpJMP, FormatJump, CondAL},
	0x0D: {OpCMP, FormatCompare, CondAL},
	0x0E: {OpJGT, FormatJump, CondGT},
	0x0F: {OpJGE, FormatJump, CondGE},
	0x10: {OpJLT, FormatJump, CondLT},
	0x11: {OpJLE, FormatJump, CondLE},
	0x12: {OpJEQ, FormatJump, CondEQ},
	0x13: {OpJNE, FormatJump, CondNE},
	0x14: {OpLOADIMM, FormatLoadImm, CondAL},
	0x15: {OpMOV, FormatUnary, CondAL},
	0x16: {OpLOAD, FormatLoad, CondAL},
	0x17: {OpSTORE, FormatStore, CondAL},
	0x18: {OpLOADR, FormatLoadReg, CondAL},
	0x19: {OpSTORER, FormatStoreReg, CondAL},
	0x1A: {OpIN, FormatIn, CondAL},
	0x1B: {OpOUT, FormatOut, CondAL},
}

// Decoder decodes Vanilla-32 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new Vanilla-32 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word. Words with an unassigned top
// byte decode to OpUnknown with no fields set.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{}
	d.DecodeInto(word, inst)
	return inst
}

// DecodeInto decodes word into inst, overwriting every field.
func (d *Decoder) DecodeInto(word uint32, inst *Instruction) {
	entry := opTable[word>>24]

	*inst = Instruction{
		Word:   word,
		Op:     entry.op,
		Format: entry.format,
		Cond:   entry.cond,
	}

	n := uint8((word >> 20) & 0xF) // bits [23:20]
	m := uint8((word >> 16) & 0xF) // bits [19:16]

	switch entry.format {
	case FormatALU:
		inst.Rd = uint8((word >> 12) & 0xF) // bits [15:12]
		inst.Rn = n
		inst.Rm = m
	case FormatUnary:
		inst.Rd = m
		inst.Rn = n
	case FormatJump, FormatOut:
		inst.Rn = n
	case FormatCompare, FormatStoreReg:
		inst.Rn = n
		inst.Rm = m
	case FormatLoadImm:
		inst.Rd = n
		inst.Imm = uint16((word >> 4) & 0xFFFF) // bits [19:4]
		inst.High = word&0xF == 0xF
	case FormatLoad:
		inst.Rd = uint8((word >> 4) & 0xF)     // bits [7:4]
		inst.Imm = uint16((word >> 8) & 0xFFFF) // bits [23:8]
	case FormatStore:
		inst.Rn = n
		inst.Imm = uint16((word >> 4) & 0xFFFF) // bits [19:4]
	case FormatLoadReg:
		inst.Rn = n
		inst.Rd = m
	case FormatIn:
		inst.Rd = n
	}
}
