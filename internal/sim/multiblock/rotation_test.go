package multiblock

import "testing"

func TestNormalizeRotation_AcceptsDegreesAndQuarterTurns(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{in: 0, want: 0},
		{in: 1, want: 1},
		{in: 2, want: 2},
		{in: 3, want: 3},
		{in: 4, want: 0},
		{in: -1, want: 3},
		{in: 90, want: 1},
		{in: 180, want: 2},
		{in: 270, want: 3},
		{in: 360, want: 0},
		{in: -90, want: 3},
	}
	for _, c := range cases {
		if got := NormalizeRotation(c.in); got != c.want {
			t.Fatalf("NormalizeRotation(%d)=%d want %d", c.in, got, c.want)
		}
	}
}

var rotationFixtures = map[string]string{
	"pair": `{"keys": {"A": {"block": "STONE"}, "B": {"tag": "logs"}}, "structure": [["A B"]]}`,
	"square": `{"origin": {"x": 1, "y": 0, "z": 1},
		"keys": {"S": {"block": "STONE"}, "P": {"block": "PLANK"}},
		"structure": [["SSP", "S S", "SSS"], [" P ", "PPP"]]}`,
	"mixed_parity": `{"keys": {"S": {"block": "STONE"}, "P": {"block": "PLANK"}, "L": {"tag": "logs"}},
		"structure": [["SP", "L "], ["S", "P"], ["SL", "  ", "P "]]}`,
	"offset": `{"origin": {"x": -3, "y": 2, "z": 5},
		"keys": {"S": {"block": "STONE"}, "_": {"block": "AIR"}},
		"structure": [["S_S_", "_S_S"]]}`,
}

func TestRotate_ZeroIsIdentity(t *testing.T) {
	for name, raw := range rotationFixtures {
		d := mustParse(t, "test:"+name, raw)
		if !sameBlocks(d.BlocksWithRotation(0), d.Blocks()) {
			t.Fatalf("%s: rotate 0 changed the structure", name)
		}
		if !sameBlocks(d.BlocksWithRotation(360), d.Blocks()) {
			t.Fatalf("%s: rotate 360 changed the structure", name)
		}
	}
}

func TestRotate_GroupClosure(t *testing.T) {
	for name, raw := range rotationFixtures {
		d := mustParse(t, "test:"+name, raw)
		for a := 0; a < 4; a++ {
			first := d.BlocksWithRotation(a)
			for b := 0; b < 4; b++ {
				got := Rotate(first, d.Pivot(), b)
				want := d.BlocksWithRotation((a + b) % 4)
				if !sameBlocks(got, want) {
					t.Fatalf("%s: rotate(rotate(S,%d),%d) != rotate(S,%d)", name, a, b, (a+b)%4)
				}
			}
		}
	}
}

func TestRotate_FootprintCentreIsStable(t *testing.T) {
	// With matching parity the rotated footprint has the same centre, so
	// recomputing the pivot from a rotated view composes the same way.
	for _, name := range []string{"pair", "square", "offset"} {
		d := mustParse(t, "test:"+name, rotationFixtures[name])
		for a := 0; a < 4; a++ {
			first := d.BlocksWithRotation(a)
			if p := FootprintPivot(first); p != d.Pivot() {
				t.Fatalf("%s: pivot moved from %v to %v after %d turns", name, d.Pivot(), p, a)
			}
			for b := 0; b < 4; b++ {
				if !sameBlocks(Rotate(first, FootprintPivot(first), b), d.BlocksWithRotation(a+b)) {
					t.Fatalf("%s: composition with recomputed pivot failed for %d,%d", name, a, b)
				}
			}
		}
	}
}

func TestRotate_Bijective(t *testing.T) {
	for name, raw := range rotationFixtures {
		d := mustParse(t, "test:"+name, raw)
		for q := 0; q < 4; q++ {
			rot := d.BlocksWithRotation(q)
			if len(rot) != d.Len() {
				t.Fatalf("%s: %d turns kept %d of %d cells", name, q, len(rot), d.Len())
			}
			counts := map[*Rule]int{}
			for _, r := range d.Blocks() {
				counts[r]++
			}
			for _, r := range rot {
				counts[r]--
			}
			for r, n := range counts {
				if n != 0 {
					t.Fatalf("%s: rule %v count off by %d after %d turns", name, r, n, q)
				}
			}
		}
	}
}

func TestRotate_QuarterTurnSwapsHorizontalAxes(t *testing.T) {
	d := mustParse(t, "test:pair", rotationFixtures["pair"])
	if p := d.Pivot(); p != (Pivot{X2: 3, Z2: 1}) {
		t.Fatalf("pivot=%v want (1.5,0.5)", p)
	}
	blocks := d.Blocks()
	stone, logs := blocks[Pos{0, 0, 0}], blocks[Pos{2, 0, 0}]

	rot := d.BlocksWithRotation(1)
	if len(rot) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(rot))
	}
	if rot[Pos{1, 0, -1}] != stone || rot[Pos{1, 0, 1}] != logs {
		t.Fatalf("unexpected rotated layout: %v", rot)
	}

	half := d.BlocksWithRotation(2)
	if half[Pos{2, 0, 0}] != stone || half[Pos{0, 0, 0}] != logs {
		t.Fatalf("unexpected half turn layout: %v", half)
	}
}

func TestRotate_KeepsLayers(t *testing.T) {
	d := mustParse(t, "test:square", rotationFixtures["square"])
	for q := 0; q < 4; q++ {
		perY := map[int]int{}
		for p := range d.BlocksWithRotation(q) {
			perY[p.Y]++
		}
		if perY[0] != 8 || perY[1] != 4 {
			t.Fatalf("%d turns: layer counts %v", q, perY)
		}
	}
}

func TestRotate_MixedParityPivotIsOnLattice(t *testing.T) {
	d := mustParse(t, "test:mixed", rotationFixtures["mixed_parity"])
	p := d.Pivot()
	if (p.X2-p.Z2)%2 != 0 {
		t.Fatalf("pivot %v is off lattice", p)
	}
}

func TestRotate_PanicsOnOffLatticePivot(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Rotate(map[Pos]*Rule{{}: NewEmptyRule(newTestRegistry())}, Pivot{X2: 2, Z2: 1}, 1)
}

func TestRotate_ReturnsIndependentMap(t *testing.T) {
	d := mustParse(t, "test:pair", rotationFixtures["pair"])
	rot := d.BlocksWithRotation(1)
	for p := range rot {
		delete(rot, p)
	}
	if len(d.BlocksWithRotation(1)) != 2 || d.Len() != 2 {
		t.Fatalf("mutating a rotated view changed the definition")
	}
	b := d.Blocks()
	b[Pos{9, 9, 9}] = nil
	if d.Len() != 2 {
		t.Fatalf("mutating Blocks() changed the definition")
	}
}
