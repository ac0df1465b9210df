package multiblock

import (
	"sort"
	"testing"
)

type testRegistry struct {
	tags map[string][]string // type -> tags
}

func newTestRegistry() *testRegistry {
	return &testRegistry{tags: map[string][]string{
		"AIR":       nil,
		"STONE":     nil,
		"PLANK":     {"planks"},
		"OAK_LOG":   {"logs"},
		"BIRCH_LOG": {"logs"},
	}}
}

func (r *testRegistry) HasType(id string) bool {
	_, ok := r.tags[id]
	return ok
}

func (r *testRegistry) IsMember(id, tag string) bool {
	for _, t := range r.tags[id] {
		if t == tag {
			return true
		}
	}
	return false
}

func (r *testRegistry) Types() []string {
	out := make([]string, 0, len(r.tags))
	for id := range r.tags {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *testRegistry) EmptyType() string { return "AIR" }

// testWorld is a sparse grid; positions not in loaded report unloaded.
type testWorld struct {
	blocks map[Pos]string
	loaded func(Pos) bool
}

func (w *testWorld) BlockAt(p Pos) (string, bool) {
	if w.loaded != nil && !w.loaded(p) {
		return "", false
	}
	if id, ok := w.blocks[p]; ok {
		return id, true
	}
	return "AIR", true
}

func (w *testWorld) IsEmpty(p Pos) bool {
	id, ok := w.BlockAt(p)
	return ok && id == "AIR"
}

func mustParse(t *testing.T, id string, raw string) *Definition {
	t.Helper()
	d, err := Parse(MustID(id), Source{Format: FormatJSON, Raw: []byte(raw)}, newTestRegistry())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func sameBlocks(a, b map[Pos]*Rule) bool {
	if len(a) != len(b) {
		return false
	}
	for p, r := range a {
		if b[p] != r {
			return false
		}
	}
	return true
}
