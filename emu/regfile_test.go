package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vanilla/emu"
)

var _ = Describe("Register", func() {
	It("should store and reset a value", func() {
		var r emu.Register
		r.Set(-42)
		Expect(r.Get()).To(Equal(int32(-42)))

		r.Reset()
		Expect(r.Get()).To(BeZero())
	})
})

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should read back written registers", func() {
		regFile.WriteReg(15, 0x12345678)
		Expect(regFile.ReadReg(15)).To(Equal(int32(0x12345678)))
	})

	It("should only use the low four bits of the index", func() {
		regFile.WriteReg(0x13, 7)
		Expect(regFile.ReadReg(3)).To(Equal(int32(7)))
	})

	It("should clear every register and the PC on reset", func() {
		for i := uint8(0); i < emu.NumRegisters; i++ {
			regFile.WriteReg(i, int32(i)+1)
		}
		regFile.PC = 0x1234

		regFile.Reset()

		for i := uint8(0); i < emu.NumRegisters; i++ {
			Expect(regFile.ReadReg(i)).To(BeZero())
		}
		Expect(regFile.PC).To(BeZero())
	})

	It("should dump registers in hex", func() {
		regFile.WriteReg(1, -1)
		regFile.PC = 0x42

		dump := regFile.String()
		Expect(dump).To(ContainSubstring("pc: 0042"))
		Expect(dump).To(ContainSubstring("r1: FFFFFFFF"))
		Expect(dump).To(ContainSubstring("r15: 00000000"))
	})
})
