package store

import (
	"crypto/sha256"
	"encoding/binary"
)

const ChunkSize = 16

type ChunkKey struct {
	CX int
	CY int
	CZ int
}

type Chunk struct {
	Key    ChunkKey
	Blocks []uint16 // len = 16*16*16, palette ids

	dirty bool
	hash  [32]byte
}

func newChunk(k ChunkKey) *Chunk {
	return &Chunk{Key: k, Blocks: make([]uint16, ChunkSize*ChunkSize*ChunkSize), dirty: true}
}

func (c *Chunk) index(x, y, z int) int {
	return x + z*ChunkSize + y*ChunkSize*ChunkSize
}

func (c *Chunk) Get(x, y, z int) uint16 {
	return c.Blocks[c.index(x, y, z)]
}

func (c *Chunk) Set(x, y, z int, b uint16) {
	i := c.index(x, y, z)
	if c.Blocks[i] == b {
		return
	}
	c.Blocks[i] = b
	c.dirty = true
}

func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], v)
			h.Write(tmp[:])
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}

// ChunkStore is a sparse cube-chunked block grid. Chunks exist only once
// something has been written to them; everything else reads as unloaded.
//
// Reads may run concurrently; writes need external synchronisation.
type ChunkStore struct {
	Palette []string
	Index   map[string]uint16
	Chunks  map[ChunkKey]*Chunk
}

// NewChunkStore uses palette for block ids; palette[0] is the empty block.
func NewChunkStore(palette []string) *ChunkStore {
	idx := make(map[string]uint16, len(palette))
	for i, id := range palette {
		idx[id] = uint16(i)
	}
	return &ChunkStore{
		Palette: palette,
		Index:   idx,
		Chunks:  map[ChunkKey]*Chunk{},
	}
}
