package insts

import "fmt"

var opNames = map[Op]string{
	OpADD:     "ADD",
	OpSUB:     "SUB",
	OpMUL:     "MUL",
	OpDIV:     "DIV",
	OpMOD:     "MOD",
	OpAND:     "AND",
	OpOR:      "OR",
	OpNOT:     "NOT",
	OpXOR:     "XOR",
	OpSHL:     "SHL",
	OpSHR:     "SHR",
	OpJMP:     "JMP",
	OpCMP:     "CMP",
	OpJGT:     "JGT",
	OpJGE:     "JGE",
	OpJLT:     "JLT",
	OpJLE:     "JLE",
	OpJEQ:     "JEQ",
	OpJNE:     "JNE",
	OpLOADIMM: "LOADIMM",
	OpMOV:     "MOV",
	OpLOAD:    "LOAD",
	OpSTORE:   "STORE",
	OpLOADR:   "LOADR",
	OpSTORER:  "STORER",
	OpIN:      "IN",
	OpOUT:     "OUT",
}

// String returns the mnemonic of the opcode.
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_%02X", uint8(op))
}

// String returns the assembly form of the instruction.
func (i *Instruction) String() string {
	switch i.Format {
	case FormatALU:
		return fmt.Sprintf("%v r%d, r%d, r%d", i.Op, i.Rd, i.Rn, i.Rm)
	case FormatUnary:
		return fmt.Sprintf("%v r%d, r%d", i.Op, i.Rd, i.Rn)
	case FormatJump, FormatOut:
		return fmt.Sprintf("%v r%d", i.Op, i.Rn)
	case FormatCompare:
		return fmt.Sprintf("%v r%d, r%d", i.Op, i.Rn, i.Rm)
	case FormatLoadImm:
		half := "lo"
		if i.High {
			half = "hi"
		}
		return fmt.Sprintf("%v.%s r%d, #0x%04X", i.Op, half, i.Rd, i.Imm)
	case FormatLoad:
		return fmt.Sprintf("%v r%d, [0x%04X]", i.Op, i.Rd, i.Imm)
	case FormatStore:
		return fmt.Sprintf("%v [0x%04X], r%d", i.Op, i.Imm, i.Rn)
	case FormatLoadReg:
		return fmt.Sprintf("%v r%d, [r%d]", i.Op, i.Rd, i.Rn)
	case FormatStoreReg:
		return fmt.Sprintf("%v [r%d], r%d", i.Op, i.Rm, i.Rn)
	case FormatIn:
		return fmt.Sprintf("%v r%d", i.Op, i.Rd)
	default:
		return fmt.Sprintf(".word 0x%08X", i.Word)
	}
}
