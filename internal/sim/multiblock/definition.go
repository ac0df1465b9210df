package multiblock

import "maps"

// Definition is a parsed multiblock structure. Block positions are relative to
// the schematic origin. A Definition never changes after Parse returns.
type Definition struct {
	id     ID
	source Source
	blocks map[Pos]*Rule
	pivot  Pivot
}

func (d *Definition) ID() ID { return d.id }

// Source returns a copy of the document the definition was parsed from.
func (d *Definition) Source() Source { return d.source.clone() }

// Blocks returns a copy of the position to rule map.
func (d *Definition) Blocks() map[Pos]*Rule { return maps.Clone(d.blocks) }

func (d *Definition) Len() int { return len(d.blocks) }

// Bounds is the bounding box of all ruled positions; ok is false when the
// schematic has no rules at all.
func (d *Definition) Bounds() (Bounds, bool) { return BoundsOf(d.blocks) }

// Pivot is the rotation centre used by BlocksWithRotation.
func (d *Definition) Pivot() Pivot { return d.pivot }

// BlocksWithRotation returns a fresh map of the structure turned by the given
// quarter turns (or degrees) about its footprint centre.
func (d *Definition) BlocksWithRotation(turns int) map[Pos]*Rule {
	return Rotate(d.blocks, d.pivot, turns)
}

// MatchesAt reports whether the structure, rotated by turns, is present in w
// with its origin at anchor.
func (d *Definition) MatchesAt(w WorldView, anchor Pos, turns int) bool {
	blocks := d.blocks
	if NormalizeRotation(turns) != 0 {
		blocks = d.BlocksWithRotation(turns)
	}
	return MatchBlocks(w, blocks, anchor)
}

// MatchBlocks reports whether every rule in blocks holds at anchor plus its
// position. An empty map never matches.
func MatchBlocks(w WorldView, blocks map[Pos]*Rule, anchor Pos) bool {
	if len(blocks) == 0 {
		return false
	}
	for p, r := range blocks {
		if !r.IsMatch(w, anchor.Add(p)) {
			return false
		}
	}
	return true
}
