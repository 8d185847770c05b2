package memory

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// wordBytes is the byte size of one word. The Akita directory works on byte
// addresses, so word addresses are scaled by it.
const wordBytes = 4

// CacheConfig holds cache geometry in words.
type CacheConfig struct {
	// SizeWords is the total capacity.
	SizeWords int
	// Associativity is the number of ways per set.
	Associativity int
	// BlockWords is the number of words per block.
	BlockWords int
}

// DefaultCacheConfig returns a 1K-word, 4-way cache with 8-word blocks.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		SizeWords:     1024,
		Associativity: 4,
		BlockWords:    8,
	}
}

// NumSets returns the number of sets the geometry yields.
func (c CacheConfig) NumSets() int {
	return c.SizeWords / (c.Associativity * c.BlockWords)
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// Cache is a write-back, write-allocate cache in front of a backing Store.
// It implements Store.
type Cache struct {
	config CacheConfig

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Block data, indexed by (setID * associativity + wayID)
	dataStore [][]uint32

	backing Store
	stats   Statistics
}

// NewCache creates a cache over backing.
func NewCache(config CacheConfig, backing Store) *Cache {
	totalBlocks := config.NumSets() * config.Associativity

	dataStore := make([][]uint32, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]uint32, config.BlockWords)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			config.NumSets(),
			config.Associativity,
			config.BlockWords*wordBytes,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache geometry.
func (c *Cache) Config() CacheConfig {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// blockBase returns the first word address of the block holding addr.
func (c *Cache) blockBase(addr uint16) uint16 {
	return addr - addr%uint16(c.config.BlockWords)
}

func (c *Cache) offset(addr uint16) int {
	return int(addr) % c.config.BlockWords
}

// lookup returns the data of the block holding addr, filling it on a miss.
func (c *Cache) lookup(addr uint16) (*akitacache.Block, []uint32) {
	base := c.blockBase(addr)
	tag := uint64(base) * wordBytes

	block := c.directory.Lookup(0, tag)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return block, c.dataStore[c.blockIndex(block)]
	}

	c.stats.Misses++

	victim := c.directory.FindVictim(tag)
	data := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		if victim.IsDirty {
			c.writeBack(victim, data)
		}
	}

	for i := range data {
		data[i] = c.backing.Read(base + uint16(i))
	}

	victim.Tag = tag
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return victim, data
}

func (c *Cache) writeBack(block *akitacache.Block, data []uint32) {
	base := uint16(block.Tag / wordBytes)
	for i, w := range data {
		c.backing.Write(base+uint16(i), w)
	}
	c.stats.Writebacks++
}

// Read returns the word at addr.
func (c *Cache) Read(addr uint16) uint32 {
	c.stats.Reads++
	_, data := c.lookup(addr)
	return data[c.offset(addr)]
}

// Write stores v at addr. The block is fetched first on a miss.
func (c *Cache) Write(addr uint16, v uint32) {
	c.stats.Writes++
	block, data := c.lookup(addr)
	data[c.offset(addr)] = v
	block.IsDirty = true
}

// Flush writes back all dirty blocks and invalidates every block.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty {
				c.writeBack(block, c.dataStore[c.blockIndex(block)])
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all blocks without writeback and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
