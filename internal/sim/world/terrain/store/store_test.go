package store

import (
	"os"
	"path/filepath"
	"testing"

	"multiblock.ai/internal/sim/multiblock"
)

func testPalette() []string {
	return []string{"AIR", "STONE", "OAK_LOG"}
}

func TestChunkStore_UnloadedReadsAsAbsent(t *testing.T) {
	s := NewChunkStore(testPalette())
	if _, ok := s.BlockAt(multiblock.Pos{X: 3, Y: 4, Z: 5}); ok {
		t.Fatalf("expected unloaded")
	}
	if s.IsEmpty(multiblock.Pos{X: 3, Y: 4, Z: 5}) {
		t.Fatalf("unloaded cell must not be empty")
	}
	s.LoadChunk(ChunkKey{})
	id, ok := s.BlockAt(multiblock.Pos{X: 3, Y: 4, Z: 5})
	if !ok || id != "AIR" || !s.IsEmpty(multiblock.Pos{X: 3, Y: 4, Z: 5}) {
		t.Fatalf("loaded chunk should read as air, got %q,%v", id, ok)
	}
	s.UnloadChunk(ChunkKey{})
	if _, ok := s.BlockAt(multiblock.Pos{X: 3, Y: 4, Z: 5}); ok {
		t.Fatalf("expected unloaded after UnloadChunk")
	}
}

func TestChunkStore_NegativeCoordinates(t *testing.T) {
	s := NewChunkStore(testPalette())
	p := multiblock.Pos{X: -1, Y: -17, Z: -16}
	if err := s.Place(p, "STONE"); err != nil {
		t.Fatalf("Place: %v", err)
	}
	keys := s.LoadedChunkKeys()
	if len(keys) != 1 || keys[0] != (ChunkKey{CX: -1, CY: -2, CZ: -1}) {
		t.Fatalf("unexpected chunk keys %v", keys)
	}
	if id, ok := s.BlockAt(p); !ok || id != "STONE" {
		t.Fatalf("BlockAt=%q,%v", id, ok)
	}
	if id, _ := s.BlockAt(multiblock.Pos{X: -2, Y: -17, Z: -16}); id != "AIR" {
		t.Fatalf("neighbour should be air, got %q", id)
	}
}

func TestChunkStore_PlaceUnknown(t *testing.T) {
	s := NewChunkStore(testPalette())
	if err := s.Place(multiblock.Pos{}, "GOLD"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestChunk_DigestTracksWrites(t *testing.T) {
	s := NewChunkStore(testPalette())
	ch := s.LoadChunk(ChunkKey{})
	d0 := ch.Digest()
	s.SetBlock(1, 2, 3, 2)
	d1 := ch.Digest()
	if d0 == d1 {
		t.Fatalf("digest must change after a write")
	}
	s.SetBlock(1, 2, 3, 2)
	if ch.Digest() != d1 {
		t.Fatalf("rewriting the same block must keep the digest")
	}
}

func TestLoadPlacementsAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "place.yaml")
	body := "blocks:\n  - {pos: [0, 0, 0], block: STONE}\n  - {pos: [1, 0, 0], block: OAK_LOG}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ps, err := LoadPlacements(path)
	if err != nil {
		t.Fatalf("LoadPlacements: %v", err)
	}
	s := NewChunkStore(testPalette())
	if err := s.Apply(ps); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if id, _ := s.BlockAt(multiblock.Pos{X: 1}); id != "OAK_LOG" {
		t.Fatalf("BlockAt=%q", id)
	}
}

func TestChunkStore_DigestCoversLoadedChunks(t *testing.T) {
	a := NewChunkStore(testPalette())
	b := NewChunkStore(testPalette())
	for _, s := range []*ChunkStore{a, b} {
		if err := s.Place(multiblock.Pos{X: 20, Y: 0, Z: -3}, "STONE"); err != nil {
			t.Fatalf("Place: %v", err)
		}
	}
	if a.Digest() != b.Digest() {
		t.Fatalf("equal stores must share a digest")
	}
	b.LoadChunk(ChunkKey{})
	if a.Digest() == b.Digest() {
		t.Fatalf("loading an extra chunk must change the digest")
	}
	b.UnloadChunk(ChunkKey{})
	if a.Digest() != b.Digest() {
		t.Fatalf("unloading the extra chunk must restore the digest")
	}
}
