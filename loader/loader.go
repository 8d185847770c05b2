// Package loader reads Vanilla-32 program images.
//
// Two formats are understood: Logisim "v2.0 raw" memory images, where each
// token is one hex word, and 32-bit ELF executables, whose byte addresses
// are divided by four to give word addresses.
package loader

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrBadImage is returned, wrapped with details, for malformed images.
var ErrBadImage = errors.New("bad program image")

// Segment is a run of words to place at consecutive addresses.
type Segment struct {
	// Base is the word address of Words[0].
	Base uint16
	// Words holds the segment contents.
	Words []uint32
}

// End returns the address one past the last word of the segment.
func (s Segment) End() int {
	return int(s.Base) + len(s.Words)
}

// Program is a loaded image ready to be placed in memory.
type Program struct {
	// Entry is the word address where execution should begin. The CPU
	// always starts at 0 after Reset, so a nonzero entry is only honored
	// by callers that set the program counter themselves.
	Entry uint16
	// Segments holds the image contents.
	Segments []Segment
}

// Size returns the number of words in all segments.
func (p *Program) Size() int {
	n := 0
	for _, s := range p.Segments {
		n += len(s.Words)
	}
	return n
}

// Load reads the image at path.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}

	prog, err := parse(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}

	return prog, nil
}

// Parse reads an image from r.
func Parse(r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image")
	}
	return parse(data)
}

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

func parse(data []byte) (*Program, error) {
	if bytes.HasPrefix(data, elfMagic) {
		return parseELF(data)
	}
	return parseRaw(data)
}
