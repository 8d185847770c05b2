// Package memory provides the word-addressed storage behind the testbench
// bus: a flat RAM and an optional set-associative cache built on Akita's
// cache directory.
package memory

// NumWords is the number of addressable words.
const NumWords = 1 << 16

// Store is word-addressed storage.
type Store interface {
	// Read returns the word at addr.
	Read(addr uint16) uint32
	// Write stores v at addr.
	Write(addr uint16, v uint32)
}

// RAM is a flat 64K-word memory. Unwritten words read as zero.
type RAM struct {
	words []uint32
}

// NewRAM creates a zeroed RAM.
func NewRAM() *RAM {
	return &RAM{words: make([]uint32, NumWords)}
}

// Read returns the word at addr.
func (m *RAM) Read(addr uint16) uint32 {
	return m.words[addr]
}

// Write stores v at addr.
func (m *RAM) Write(addr uint16, v uint32) {
	m.words[addr] = v
}

// Load copies words into memory starting at base. Words past the top of
// memory wrap to address 0.
func (m *RAM) Load(base uint16, words []uint32) {
	addr := base
	for _, w := range words {
		m.words[addr] = w
		addr++
	}
}

// Reset zeroes every word.
func (m *RAM) Reset() {
	clear(m.words)
}
