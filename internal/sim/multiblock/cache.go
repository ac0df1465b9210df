package multiblock

import (
	"maps"

	lru "github.com/hashicorp/golang-lru/v2"
)

type rotationKey struct {
	def   *Definition
	turns int
}

// RotationCache memoizes rotated views per definition instance, so a reloaded
// definition that reuses an ID never sees the old one's views. Callers get
// their own copy of each view.
type RotationCache struct {
	c *lru.Cache[rotationKey, map[Pos]*Rule]
}

// NewRotationCache holds up to size rotated views (four per definition at most).
func NewRotationCache(size int) (*RotationCache, error) {
	c, err := lru.New[rotationKey, map[Pos]*Rule](size)
	if err != nil {
		return nil, err
	}
	return &RotationCache{c: c}, nil
}

func (rc *RotationCache) BlocksWithRotation(d *Definition, turns int) map[Pos]*Rule {
	k := rotationKey{def: d, turns: NormalizeRotation(turns)}
	if m, ok := rc.c.Get(k); ok {
		return maps.Clone(m)
	}
	m := d.BlocksWithRotation(k.turns)
	rc.c.Add(k, m)
	return maps.Clone(m)
}

// Purge drops every cached view. Views of replaced definitions otherwise
// linger until evicted.
func (rc *RotationCache) Purge() {
	rc.c.Purge()
}

func (rc *RotationCache) Len() int {
	return rc.c.Len()
}
