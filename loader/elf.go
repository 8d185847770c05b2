package loader

import (
	"bytes"
	"debug/elf"
	"io"

	"github.com/pkg/errors"

	"github.com/sarchlab/vanilla/memory"
)

// parseELF reads a 32-bit ELF executable. Every PT_LOAD segment becomes a
// Segment at vaddr/4; the memory size past the file size is zero filled.
// Words are decoded in the file's byte order.
func parseELF(data []byte) (*Program, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrBadImage, "failed to parse ELF file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS32 {
		return nil, errors.Wrap(ErrBadImage, "not a 32-bit ELF file")
	}

	if f.Entry%4 != 0 || f.Entry/4 >= memory.NumWords {
		return nil, errors.Wrapf(ErrBadImage, "entry point 0x%x is not a word address", f.Entry)
	}

	prog := &Program{Entry: uint16(f.Entry / 4)}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		seg, err := loadSegment(f, phdr)
		if err != nil {
			return nil, err
		}
		if len(seg.Words) > 0 {
			prog.Segments = append(prog.Segments, seg)
		}
	}

	return prog, nil
}

func loadSegment(f *elf.File, phdr *elf.Prog) (Segment, error) {
	if phdr.Vaddr%4 != 0 {
		return Segment{}, errors.Wrapf(ErrBadImage,
			"segment at 0x%x is not word aligned", phdr.Vaddr)
	}

	size := max(phdr.Memsz, phdr.Filesz)
	nwords := (size + 3) / 4
	if phdr.Vaddr/4+nwords > memory.NumWords {
		return Segment{}, errors.Wrapf(ErrBadImage,
			"segment at 0x%x does not fit in memory", phdr.Vaddr)
	}

	raw := make([]byte, nwords*4)
	if phdr.Filesz > 0 {
		n, err := phdr.ReadAt(raw[:phdr.Filesz], 0)
		if err != nil && err != io.EOF {
			return Segment{}, errors.Wrapf(ErrBadImage,
				"failed to read segment at 0x%x: %v", phdr.Vaddr, err)
		}
		if uint64(n) != phdr.Filesz {
			return Segment{}, errors.Wrapf(ErrBadImage,
				"short read for segment at 0x%x: got %d bytes, expected %d",
				phdr.Vaddr, n, phdr.Filesz)
		}
	}

	seg := Segment{
		Base:  uint16(phdr.Vaddr / 4),
		Words: make([]uint32, nwords),
	}
	for i := range seg.Words {
		seg.Words[i] = f.ByteOrder.Uint32(raw[i*4:])
	}

	return seg, nil
}
