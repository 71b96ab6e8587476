package domain

import "fmt"

// Region is a rectangular screen area, in absolute screen coordinates.
// X2/Y2 are exclusive.
type Region struct {
	X1 int `json:"x1" yaml:"x1"`
	Y1 int `json:"y1" yaml:"y1"`
	X2 int `json:"x2" yaml:"x2"`
	Y2 int `json:"y2" yaml:"y2"`
}

// RegionFromSlice builds a region from an [x1, y1, x2, y2] tuple.
func RegionFromSlice(v []int) (Region, error) {
	if len(v) != 4 {
		return Region{}, fmt.Errorf("region needs 4 coordinates, got %d", len(v))
	}
	return Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}.Normalize(), nil
}

// Normalize orders the corners so that X1 <= X2 and Y1 <= Y2
// (the user may drag the selection in any direction).
func (r Region) Normalize() Region {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
	return r
}

// Width of the region.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height of the region.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}
