// Package insts provides Vanilla-32 instruction definitions and decoding.
//
// A Vanilla-32 instruction is one 32-bit word. The top byte selects the
// operation and the low 24 bits carry opcode-dependent fields: 4-bit register
// indices and 16-bit immediates. The decoder normalizes those fields so the
// execution units never look at raw bit positions:
//   - ALU (ADD..SHR except NOT): Rd <- Rn op Rm
//   - Unary / move (NOT, MOV): Rd <- f(Rn)
//   - Jumps (JMP, Jxx): target register Rn, condition Cond
//   - Compare (CMP): Rn, Rm
//   - Immediates (LOADIMM, LOAD, STORE): Imm, plus High for LOADIMM
//   - Register-addressed memory (LOADR, STORER) and port I/O (IN, OUT)
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x01123000) // ADD r3, r1, r2
//	fmt.Printf("Op: %v, Rd: %d, Rn: %d, Rm: %d\n", inst.Op, inst.Rd, inst.Rn, inst.Rm)
package insts
