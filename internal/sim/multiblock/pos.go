package multiblock

import "fmt"

// Pos is an integer lattice position. Y is the vertical axis.
type Pos struct {
	X, Y, Z int
}

func (p Pos) Add(o Pos) Pos { return Pos{p.X + o.X, p.Y + o.Y, p.Z + o.Z} }
func (p Pos) Sub(o Pos) Pos { return Pos{p.X - o.X, p.Y - o.Y, p.Z - o.Z} }

// MaxCoord bounds every schematic coordinate and origin component. Rotation
// works in doubled units, which must not overflow int even on 32-bit targets.
const MaxCoord = 1 << 28

func (p Pos) inRange() bool {
	return within(p.X, MaxCoord) && within(p.Y, MaxCoord) && within(p.Z, MaxCoord)
}

func within(v, limit int) bool { return v >= -limit && v <= limit }

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Bounds is an inclusive axis-aligned box.
type Bounds struct {
	Min, Max Pos
}

// BoundsOf returns the bounding box of the given positions. ok is false for an
// empty map.
func BoundsOf(blocks map[Pos]*Rule) (b Bounds, ok bool) {
	for p := range blocks {
		if !ok {
			b = Bounds{Min: p, Max: p}
			ok = true
			continue
		}
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Min.Z = min(b.Min.Z, p.Z)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
		b.Max.Z = max(b.Max.Z, p.Z)
	}
	return b, ok
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() Pos {
	return Pos{b.Max.X - b.Min.X + 1, b.Max.Y - b.Min.Y + 1, b.Max.Z - b.Min.Z + 1}
}
