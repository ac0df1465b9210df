package multiblock

import "fmt"

// NormalizeRotation converts a caller-provided rotation into a quarter-turn
// count in [0,3].
//
// It accepts either quarter-turns (0..3) or degrees (multiples of 90).
func NormalizeRotation(r int) int {
	// Treat large multiples of 90 as degrees.
	if r%90 == 0 && (r > 3 || r < -3) {
		r = r / 90
	}
	r %= 4
	if r < 0 {
		r += 4
	}
	return r
}

// RotateXZ rotates an (x,z) offset around the Y axis by rot*90 degrees
// clockwise seen from above. rot must be a normalized quarter-turn count.
func RotateXZ(x, z, rot int) (rx, rz int) {
	switch rot & 3 {
	case 0:
		return x, z
	case 1:
		return z, -x
	case 2:
		return -x, -z
	default: // 3
		return -z, x
	}
}

// Pivot is a point in the XZ plane in half-cell units: the continuous point
// (X2/2, Z2/2). The cell at lattice x spans [x, x+1), so its centre is 2x+1.
//
// Quarter turns about a pivot map cell centres onto cell centres only when
// X2 and Z2 have the same parity.
type Pivot struct {
	X2, Z2 int
}

func (p Pivot) String() string {
	return fmt.Sprintf("(%g,%g)", float64(p.X2)/2, float64(p.Z2)/2)
}

// FootprintPivot returns the centre of the XZ bounding footprint of blocks.
//
// When the footprint's X and Z extents differ in parity the true centre is not
// a valid pivot; it is moved half a cell towards -Z.
func FootprintPivot(blocks map[Pos]*Rule) Pivot {
	b, ok := BoundsOf(blocks)
	if !ok {
		return Pivot{1, 1}
	}
	p := Pivot{X2: b.Min.X + b.Max.X + 1, Z2: b.Min.Z + b.Max.Z + 1}
	if (p.X2-p.Z2)&1 != 0 {
		p.Z2--
	}
	return p
}

// Rotate returns a new map with every position turned about pivot by the
// inverse of turns quarter turns (so a structure rotated clockwise in the world
// is described by its counter-clockwise positions). Y is unchanged and rules
// are shared, not copied.
//
// Rotate panics if the pivot or a transformed position leaves the lattice, or
// if a position lies beyond MaxCoord. Parse never produces either.
func Rotate(blocks map[Pos]*Rule, pivot Pivot, turns int) map[Pos]*Rule {
	if (pivot.X2-pivot.Z2)&1 != 0 {
		panic(fmt.Sprintf("multiblock: pivot %v is off the cell-centre lattice", pivot))
	}
	if !within(pivot.X2, 2*MaxCoord+1) || !within(pivot.Z2, 2*MaxCoord+1) {
		panic(fmt.Sprintf("multiblock: pivot %v is beyond MaxCoord", pivot))
	}
	inv := (4 - NormalizeRotation(turns)) & 3
	out := make(map[Pos]*Rule, len(blocks))
	for p, r := range blocks {
		if !p.inRange() {
			panic(fmt.Sprintf("multiblock: position %v is beyond MaxCoord", p))
		}
		rx, rz := RotateXZ(2*p.X+1-pivot.X2, 2*p.Z+1-pivot.Z2, inv)
		x2 := pivot.X2 + rx - 1
		z2 := pivot.Z2 + rz - 1
		if x2&1 != 0 || z2&1 != 0 {
			panic(fmt.Sprintf("multiblock: rotating %v about %v left the lattice", p, pivot))
		}
		q := Pos{x2 / 2, p.Y, z2 / 2}
		if _, dup := out[q]; dup {
			panic(fmt.Sprintf("multiblock: rotation mapped two cells onto %v", q))
		}
		out[q] = r
	}
	return out
}
