package memory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vanilla/memory"
)

var _ = Describe("RAM", func() {
	var ram *memory.RAM

	BeforeEach(func() {
		ram = memory.NewRAM()
	})

	It("should read zero from unwritten words", func() {
		Expect(ram.Read(0)).To(BeZero())
		Expect(ram.Read(0xFFFF)).To(BeZero())
	})

	It("should read back written words", func() {
		ram.Write(0x1234, 0xDEADBEEF)
		Expect(ram.Read(0x1234)).To(Equal(uint32(0xDEADBEEF)))
	})

	It("should load a block of words at a base", func() {
		ram.Load(0x10, []uint32{1, 2, 3})

		Expect(ram.Read(0x0F)).To(BeZero())
		Expect(ram.Read(0x10)).To(Equal(uint32(1)))
		Expect(ram.Read(0x12)).To(Equal(uint32(3)))
	})

	It("should wrap loads past the top of memory", func() {
		ram.Load(0xFFFF, []uint32{7, 8})

		Expect(ram.Read(0xFFFF)).To(Equal(uint32(7)))
		Expect(ram.Read(0)).To(Equal(uint32(8)))
	})

	It("should clear on reset", func() {
		ram.Write(5, 5)
		ram.Reset()
		Expect(ram.Read(5)).To(BeZero())
	})
})
