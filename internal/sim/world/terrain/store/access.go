package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"multiblock.ai/internal/sim/multiblock"
	"multiblock.ai/internal/sim/world/logic/mathx"
)

const air uint16 = 0

func chunkOf(x, y, z int) (ChunkKey, int, int, int) {
	k := ChunkKey{
		CX: mathx.FloorDiv(x, ChunkSize),
		CY: mathx.FloorDiv(y, ChunkSize),
		CZ: mathx.FloorDiv(z, ChunkSize),
	}
	return k, mathx.Mod(x, ChunkSize), mathx.Mod(y, ChunkSize), mathx.Mod(z, ChunkSize)
}

func (s *ChunkStore) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.Chunks))
	for k := range s.Chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		if keys[i].CY != keys[j].CY {
			return keys[i].CY < keys[j].CY
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

// Digest hashes every loaded chunk in key order. Two stores with the same
// loaded chunks and contents have the same digest.
func (s *ChunkStore) Digest() string {
	h := sha256.New()
	for _, k := range s.LoadedChunkKeys() {
		fmt.Fprintf(h, "%d,%d,%d:", k.CX, k.CY, k.CZ)
		d := s.Chunks[k].Digest()
		h.Write(d[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetBlock returns the palette id at (x,y,z); loaded is false outside loaded
// chunks.
func (s *ChunkStore) GetBlock(x, y, z int) (b uint16, loaded bool) {
	k, lx, ly, lz := chunkOf(x, y, z)
	ch, ok := s.Chunks[k]
	if !ok {
		return air, false
	}
	return ch.Get(lx, ly, lz), true
}

// SetBlock writes a palette id, loading the chunk (filled with air) if needed.
func (s *ChunkStore) SetBlock(x, y, z int, b uint16) {
	k, lx, ly, lz := chunkOf(x, y, z)
	ch, ok := s.Chunks[k]
	if !ok {
		ch = newChunk(k)
		s.Chunks[k] = ch
	}
	ch.Set(lx, ly, lz, b)
}

// LoadChunk makes an all-air chunk available without writing to it.
func (s *ChunkStore) LoadChunk(k ChunkKey) *Chunk {
	if ch, ok := s.Chunks[k]; ok {
		return ch
	}
	ch := newChunk(k)
	s.Chunks[k] = ch
	return ch
}

func (s *ChunkStore) UnloadChunk(k ChunkKey) {
	delete(s.Chunks, k)
}

// Place writes a block by id.
func (s *ChunkStore) Place(p multiblock.Pos, id string) error {
	b, ok := s.Index[id]
	if !ok {
		return fmt.Errorf("place %v: unknown block %s", p, id)
	}
	s.SetBlock(p.X, p.Y, p.Z, b)
	return nil
}

// BlockAt implements multiblock.WorldView.
func (s *ChunkStore) BlockAt(p multiblock.Pos) (string, bool) {
	b, ok := s.GetBlock(p.X, p.Y, p.Z)
	if !ok || int(b) >= len(s.Palette) {
		return "", false
	}
	return s.Palette[b], true
}

// IsEmpty implements multiblock.WorldView; unloaded cells are not empty.
func (s *ChunkStore) IsEmpty(p multiblock.Pos) bool {
	b, ok := s.GetBlock(p.X, p.Y, p.Z)
	return ok && b == air
}

var _ multiblock.WorldView = (*ChunkStore)(nil)
