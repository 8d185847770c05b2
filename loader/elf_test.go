package loader_test

import (
	"bytes"
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vanilla/loader"
)

// elfSegment describes one program header of a test image.
type elfSegment struct {
	typ   uint32
	vaddr uint32
	data  []byte
	memsz uint32
}

// buildELF32 creates a minimal ELF32 executable with the given segments.
func buildELF32(order binary.ByteOrder, entry uint32, segs ...elfSegment) []byte {
	const (
		ehsize    = 52
		phentsize = 32
	)

	header := make([]byte, ehsize)
	copy(header[0:4], []byte{0x7f, 'E', 'L', 'F'})
	header[4] = 1 // 32-bit
	if order == binary.BigEndian {
		header[5] = 2
	} else {
		header[5] = 1
	}
	header[6] = 1                             // version
	order.PutUint16(header[16:18], 2)         // executable
	order.PutUint16(header[18:20], 0)         // no machine
	order.PutUint32(header[20:24], 1)         // version
	order.PutUint32(header[24:28], entry)     // entry
	order.PutUint32(header[28:32], ehsize)    // phoff
	order.PutUint16(header[40:42], ehsize)    // ehsize
	order.PutUint16(header[42:44], phentsize) // phentsize
	order.PutUint16(header[44:46], uint16(len(segs)))

	offset := uint32(ehsize + phentsize*len(segs))

	var progs, body bytes.Buffer
	for _, s := range segs {
		ph := make([]byte, phentsize)
		memsz := s.memsz
		if memsz == 0 {
			memsz = uint32(len(s.data))
		}
		order.PutUint32(ph[0:4], s.typ)
		order.PutUint32(ph[4:8], offset)
		order.PutUint32(ph[8:12], s.vaddr)
		order.PutUint32(ph[12:16], s.vaddr)
		order.PutUint32(ph[16:20], uint32(len(s.data)))
		order.PutUint32(ph[20:24], memsz)
		order.PutUint32(ph[24:28], 0x5) // PF_R | PF_X
		order.PutUint32(ph[28:32], 4)
		progs.Write(ph)
		body.Write(s.data)
		offset += uint32(len(s.data))
	}

	var out bytes.Buffer
	out.Write(header)
	out.Write(progs.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

func words(order binary.ByteOrder, ws ...uint32) []byte {
	b := make([]byte, 4*len(ws))
	for i, w := range ws {
		order.PutUint32(b[i*4:], w)
	}
	return b
}

const ptLoad, ptNote = 1, 4

var _ = Describe("ELF Loader", func() {
	parse := func(image []byte) (*loader.Program, error) {
		return loader.Parse(bytes.NewReader(image))
	}

	Context("with a valid ELF32 executable", func() {
		It("should map byte addresses to word addresses", func() {
			code := words(binary.LittleEndian, 0x14100007, 0x1B100000)
			prog, err := parse(buildELF32(binary.LittleEndian, 0x40,
				elfSegment{typ: ptLoad, vaddr: 0x40, data: code}))
			Expect(err).NotTo(HaveOccurred())

			Expect(prog.Entry).To(Equal(uint16(0x10)))
			Expect(prog.Segments).To(HaveLen(1))
			Expect(prog.Segments[0].Base).To(Equal(uint16(0x10)))
			Expect(prog.Segments[0].Words).To(Equal([]uint32{0x14100007, 0x1B100000}))
		})

		It("should decode big-endian words", func() {
			code := words(binary.BigEndian, 0x01123000)
			prog, err := parse(buildELF32(binary.BigEndian, 0,
				elfSegment{typ: ptLoad, vaddr: 0, data: code}))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments[0].Words).To(Equal([]uint32{0x01123000}))
		})

		It("should load multiple segments", func() {
			code := words(binary.LittleEndian, 1, 2)
			data := words(binary.LittleEndian, 3)
			prog, err := parse(buildELF32(binary.LittleEndian, 0,
				elfSegment{typ: ptLoad, vaddr: 0, data: code},
				elfSegment{typ: ptLoad, vaddr: 0x400, data: data}))
			Expect(err).NotTo(HaveOccurred())

			Expect(prog.Segments).To(HaveLen(2))
			Expect(prog.Segments[1].Base).To(Equal(uint16(0x100)))
			Expect(prog.Size()).To(Equal(3))
		})

		It("should zero fill BSS", func() {
			prog, err := parse(buildELF32(binary.LittleEndian, 0,
				elfSegment{typ: ptLoad, vaddr: 0, data: words(binary.LittleEndian, 9), memsz: 12}))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments[0].Words).To(Equal([]uint32{9, 0, 0}))
		})

		It("should pad a partial trailing word", func() {
			prog, err := parse(buildELF32(binary.LittleEndian, 0,
				elfSegment{typ: ptLoad, vaddr: 0, data: []byte{0x01, 0x02}}))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments[0].Words).To(Equal([]uint32{0x0201}))
		})

		It("should skip segments that are not PT_LOAD", func() {
			prog, err := parse(buildELF32(binary.LittleEndian, 0,
				elfSegment{typ: ptNote, vaddr: 0, data: words(binary.LittleEndian, 1)}))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(BeEmpty())
		})
	})

	Context("with an invalid file", func() {
		It("should reject a truncated ELF file", func() {
			_, err := parse([]byte{0x7f, 'E', 'L', 'F', 1})
			Expect(err).To(MatchError(loader.ErrBadImage))
			Expect(err.Error()).To(ContainSubstring("ELF"))
		})

		It("should reject a 64-bit ELF", func() {
			image := buildELF32(binary.LittleEndian, 0)
			image[4] = 2

			_, err := parse(image)
			Expect(err).To(MatchError(loader.ErrBadImage))
		})

		It("should reject an unaligned segment", func() {
			_, err := parse(buildELF32(binary.LittleEndian, 0,
				elfSegment{typ: ptLoad, vaddr: 2, data: words(binary.LittleEndian, 1)}))
			Expect(err).To(MatchError(loader.ErrBadImage))
			Expect(err.Error()).To(ContainSubstring("word aligned"))
		})

		It("should reject an unaligned entry point", func() {
			_, err := parse(buildELF32(binary.LittleEndian, 6))
			Expect(err).To(MatchError(loader.ErrBadImage))
		})

		It("should reject a segment past the top of memory", func() {
			_, err := parse(buildELF32(binary.LittleEndian, 0,
				elfSegment{typ: ptLoad, vaddr: 0x3FFFC, data: words(binary.LittleEndian, 1, 2)}))
			Expect(err).To(MatchError(loader.ErrBadImage))
			Expect(err.Error()).To(ContainSubstring("does not fit"))
		})
	})
})
