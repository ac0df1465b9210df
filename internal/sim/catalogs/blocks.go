package catalogs

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// AirID is the empty block. It always has palette id 0.
const AirID = "AIR"

// BlockCatalog is the block type registry. It is filled during bootstrap and
// read concurrently afterwards; Register must not race with readers.
type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
	DefsDigest    string

	tags map[string]map[string]struct{} // tag -> block ids
}

type BlockDef struct {
	ID        string   `json:"id"`
	Solid     bool     `json:"solid"`
	Breakable bool     `json:"breakable"`
	Tags      []string `json:"tags,omitempty"`
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("blocks.json: duplicate id %s", d.ID)
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Ensure AIR exists and is palette id 0.
	if _, ok := out.Defs[AirID]; !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	ids = append([]string{AirID}, filterOut(ids, AirID)...)

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	out.tags = map[string]map[string]struct{}{}
	for _, d := range out.Defs {
		out.indexTags(d)
	}
	out.updatePaletteDigest()
	return nil
}

// Register adds a block after loading, giving it the next palette id.
func (c *BlockCatalog) Register(d BlockDef) error {
	if d.ID == "" {
		return fmt.Errorf("register block: empty id")
	}
	if _, dup := c.Defs[d.ID]; dup {
		return fmt.Errorf("register block: duplicate id %s", d.ID)
	}
	if len(c.Palette) > 0xFFFF {
		return fmt.Errorf("register block: palette full")
	}
	if c.Defs == nil {
		c.Defs = map[string]BlockDef{}
		c.Index = map[string]uint16{}
		c.tags = map[string]map[string]struct{}{}
	}
	c.Defs[d.ID] = d
	c.Index[d.ID] = uint16(len(c.Palette))
	c.Palette = append(c.Palette, d.ID)
	c.indexTags(d)
	c.updatePaletteDigest()
	return nil
}

func (c *BlockCatalog) indexTags(d BlockDef) {
	for _, t := range d.Tags {
		m := c.tags[t]
		if m == nil {
			m = map[string]struct{}{}
			c.tags[t] = m
		}
		m[d.ID] = struct{}{}
	}
}

func (c *BlockCatalog) updatePaletteDigest() {
	palJSON, _ := json.Marshal(c.Palette)
	c.PaletteDigest = sha256Hex(palJSON)
}

func (c *BlockCatalog) HasType(id string) bool {
	_, ok := c.Index[id]
	return ok
}

func (c *BlockCatalog) IsMember(id, tag string) bool {
	_, ok := c.tags[tag][id]
	return ok
}

// Types returns every block id in palette order.
func (c *BlockCatalog) Types() []string {
	return append([]string(nil), c.Palette...)
}

func (c *BlockCatalog) EmptyType() string { return AirID }

// Tags lists the known tag names, sorted.
func (c *BlockCatalog) Tags() []string {
	out := make([]string, 0, len(c.tags))
	for t := range c.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
