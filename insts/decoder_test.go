package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vanilla/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("ALU format", func() {
		// ADD r3, r1, r2 -> 0x01123000
		// n=1 [23:20], m=2 [19:16], d=3 [15:12]
		It("should decode ADD r3, r1, r2", func() {
			inst := decoder.Decode(0x01123000)

			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Format).To(Equal(insts.FormatALU))
			Expect(inst.Rd).To(Equal(uint8(3)))
			Expect(inst.Rn).To(Equal(uint8(1)))
			Expect(inst.Rm).To(Equal(uint8(2)))
		})

		It("should ignore the low 12 bits", func() {
			inst := decoder.Decode(0x02675FFF)

			Expect(inst.Op).To(Equal(insts.OpSUB))
			Expect(inst.Rd).To(Equal(uint8(5)))
			Expect(inst.Rn).To(Equal(uint8(6)))
			Expect(inst.Rm).To(Equal(uint8(7)))
		})

		DescribeTable("should map every ALU opcode",
			func(word uint32, op insts.Op) {
				inst := decoder.Decode(word)
				Expect(inst.Op).To(Equal(op))
				Expect(inst.Format).To(Equal(insts.FormatALU))
			},
			Entry("ADD", uint32(0x01000000), insts.OpADD),
			Entry("SUB", uint32(0x02000000), insts.OpSUB),
			Entry("MUL", uint32(0x03000000), insts.OpMUL),
			Entry("DIV", uint32(0x04000000), insts.OpDIV),
			Entry("MOD", uint32(0x05000000), insts.OpMOD),
			Entry("AND", uint32(0x06000000), insts.OpAND),
			Entry("OR", uint32(0x07000000), insts.OpOR),
			Entry("XOR", uint32(0x09000000), insts.OpXOR),
			Entry("SHL", uint32(0x0A000000), insts.OpSHL),
			Entry("SHR", uint32(0x0B000000), insts.OpSHR),
		)
	})

	Describe("Unary format", func() {
		// NOT r4, r2 -> 0x08240000 (src n=2, dst m=4)
		It("should decode NOT with the destination in [19:16]", func() {
			inst := decoder.Decode(0x08240000)

			Expect(inst.Op).To(Equal(insts.OpNOT))
			Expect(inst.Format).To(Equal(insts.FormatUnary))
			Expect(inst.Rd).To(Equal(uint8(4)))
			Expect(inst.Rn).To(Equal(uint8(2)))
		})

		It("should decode MOV r9, r1", func() {
			inst := decoder.Decode(0x15190000)

			Expect(inst.Op).To(Equal(insts.OpMOV))
			Expect(inst.Rd).To(Equal(uint8(9)))
			Expect(inst.Rn).To(Equal(uint8(1)))
		})
	})

	Describe("Jumps and compare", func() {
		It("should decode JMP r7 as an unconditional jump", func() {
			inst := decoder.Decode(0x0C700000)

			Expect(inst.Op).To(Equal(insts.OpJMP))
			Expect(inst.Format).To(Equal(insts.FormatJump))
			Expect(inst.Cond).To(Equal(insts.CondAL))
			Expect(inst.Rn).To(Equal(uint8(7)))
		})

		DescribeTable("should attach the condition to each conditional jump",
			func(word uint32, op insts.Op, cond insts.Cond) {
				inst := decoder.Decode(word)
				Expect(inst.Op).To(Equal(op))
				Expect(inst.Cond).To(Equal(cond))
				Expect(inst.Rn).To(Equal(uint8(0xA)))
			},
			Entry("JGT", uint32(0x0EA00000), insts.OpJGT, insts.CondGT),
			Entry("JGE", uint32(0x0FA00000), insts.OpJGE, insts.CondGE),
			Entry("JLT", uint32(0x10A00000), insts.OpJLT, insts.CondLT),
			Entry("JLE", uint32(0x11A00000), insts.OpJLE, insts.CondLE),
			Entry("JEQ", uint32(0x12A00000), insts.OpJEQ, insts.CondEQ),
			Entry("JNE", uint32(0x13A00000), insts.OpJNE, insts.CondNE),
		)

		It("should decode CMP r1, r2", func() {
			inst := decoder.Decode(0x0D120000)

			Expect(inst.Op).To(Equal(insts.OpCMP))
			Expect(inst.Format).To(Equal(insts.FormatCompare))
			Expect(inst.Rn).To(Equal(uint8(1)))
			Expect(inst.Rm).To(Equal(uint8(2)))
		})
	})

	Describe("Immediates", func() {
		// LOADIMM r2, #0xBEEF (low half) -> 0x142BEEF0
		It("should decode a low-half LOADIMM", func() {
			inst := decoder.Decode(0x142BEEF0)

			Expect(inst.Op).To(Equal(insts.OpLOADIMM))
			Expect(inst.Format).To(Equal(insts.FormatLoadImm))
			Expect(inst.Rd).To(Equal(uint8(2)))
			Expect(inst.Imm).To(Equal(uint16(0xBEEF)))
			Expect(inst.High).To(BeFalse())
		})

		It("should select the high half only when the marker nibble is 0xF", func() {
			Expect(decoder.Decode(0x142BEEFF).High).To(BeTrue())
			Expect(decoder.Decode(0x142BEEFE).High).To(BeFalse())
		})

		// LOAD r5, [0x1234] -> 0x16123450
		It("should decode LOAD with the address in [23:8]", func() {
			inst := decoder.Decode(0x16123450)

			Expect(inst.Op).To(Equal(insts.OpLOAD))
			Expect(inst.Format).To(Equal(insts.FormatLoad))
			Expect(inst.Rd).To(Equal(uint8(5)))
			Expect(inst.Imm).To(Equal(uint16(0x1234)))
		})

		// STORE [0x0ABC], r9 -> 0x1790ABC0
		It("should decode STORE with the address in [19:4]", func() {
			inst := decoder.Decode(0x1790ABC0)

			Expect(inst.Op).To(Equal(insts.OpSTORE))
			Expect(inst.Format).To(Equal(insts.FormatStore))
			Expect(inst.Rn).To(Equal(uint8(9)))
			Expect(inst.Imm).To(Equal(uint16(0x0ABC)))
		})
	})

	Describe("Register-addressed memory and ports", func() {
		It("should decode LOADR r3, [r4]", func() {
			inst := decoder.Decode(0x18430000)

			Expect(inst.Op).To(Equal(insts.OpLOADR))
			Expect(inst.Rn).To(Equal(uint8(4)))
			Expect(inst.Rd).To(Equal(uint8(3)))
		})

		It("should decode STORER [r6], r5", func() {
			inst := decoder.Decode(0x19560000)

			Expect(inst.Op).To(Equal(insts.OpSTORER))
			Expect(inst.Rn).To(Equal(uint8(5)))
			Expect(inst.Rm).To(Equal(uint8(6)))
		})

		It("should decode IN r8 and OUT r9", func() {
			in := decoder.Decode(0x1A800000)
			out := decoder.Decode(0x1B900000)

			Expect(in.Op).To(Equal(insts.OpIN))
			Expect(in.Rd).To(Equal(uint8(8)))
			Expect(out.Op).To(Equal(insts.OpOUT))
			Expect(out.Rn).To(Equal(uint8(9)))
		})
	})

	Describe("Unknown instructions", func() {
		DescribeTable("should decode unassigned opcodes to OpUnknown",
			func(word uint32) {
				inst := decoder.Decode(word)
				Expect(inst.Op).To(Equal(insts.OpUnknown))
				Expect(inst.Format).To(Equal(insts.FormatUnknown))
				Expect(inst.Word).To(Equal(word))
				Expect(inst.Rd).To(BeZero())
				Expect(inst.Rn).To(BeZero())
				Expect(inst.Rm).To(BeZero())
			},
			Entry("zero word", uint32(0x00000000)),
			Entry("first unassigned", uint32(0x1C123456)),
			Entry("all ones", uint32(0xFFFFFFFF)),
		)
	})

	Describe("DecodeInto", func() {
		It("should clear fields left over from a previous decode", func() {
			var inst insts.Instruction
			decoder.DecodeInto(0x142BEEFF, &inst)
			decoder.DecodeInto(0x0C700000, &inst)

			Expect(inst.Op).To(Equal(insts.OpJMP))
			Expect(inst.Imm).To(BeZero())
			Expect(inst.High).To(BeFalse())
		})
	})

	Describe("String", func() {
		DescribeTable("should disassemble",
			func(word uint32, text string) {
				Expect(decoder.Decode(word).String()).To(Equal(text))
			},
			Entry("ALU", uint32(0x01123000), "ADD r3, r1, r2"),
			Entry("NOT", uint32(0x08240000), "NOT r4, r2"),
			Entry("JGT", uint32(0x0E700000), "JGT r7"),
			Entry("LOADIMM hi", uint32(0x142BEEFF), "LOADIMM.hi r2, #0xBEEF"),
			Entry("LOAD", uint32(0x16123450), "LOAD r5, [0x1234]"),
			Entry("STORE", uint32(0x1790ABC0), "STORE [0x0ABC], r9"),
			Entry("LOADR", uint32(0x18430000), "LOADR r3, [r4]"),
			Entry("STORER", uint32(0x19560000), "STORER [r6], r5"),
			Entry("unknown", uint32(0xFF000001), ".word 0xFF000001"),
		)
	})
})
