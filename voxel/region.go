package voxel

import "fmt"

// Point is an integer position in voxel space.
type Point struct {
	X, Y, Z int
}

// Add returns p+o.
func (p Point) Add(o Point) Point {
	return Point{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Sub returns p-o.
func (p Point) Sub(o Point) Point {
	return Point{p.X - o.X, p.Y - o.Y, p.Z - o.Z}
}

// LessEqual reports whether every component of p is <= the matching one in o.
func (p Point) LessEqual(o Point) bool {
	return p.X <= o.X && p.Y <= o.Y && p.Z <= o.Z
}

// Region is an axis-aligned integer bounding box. Both corners are inclusive.
type Region struct {
	Lower, Upper Point
}

// InvalidRegion is returned for queries that have no extent (empty volumes,
// graphs without models). Its lower corner is above its upper corner.
var InvalidRegion = Region{Lower: Point{0, 0, 0}, Upper: Point{-1, -1, -1}}

// NewRegion creates a region from inclusive corner coordinates.
func NewRegion(lx, ly, lz, ux, uy, uz int) Region {
	return Region{Lower: Point{lx, ly, lz}, Upper: Point{ux, uy, uz}}
}

// NewCubeRegion creates a region of size^3 voxels starting at the origin.
func NewCubeRegion(size int) Region {
	return NewRegion(0, 0, 0, size-1, size-1, size-1)
}

// IsValid reports whether the region covers at least one voxel.
func (r Region) IsValid() bool {
	return r.Lower.LessEqual(r.Upper)
}

// Dimensions returns the number of voxels along each axis.
func (r Region) Dimensions() Point {
	return Point{r.Upper.X - r.Lower.X + 1, r.Upper.Y - r.Lower.Y + 1, r.Upper.Z - r.Lower.Z + 1}
}

// Voxels returns the total number of cells inside the region, 0 if invalid.
func (r Region) Voxels() int {
	if !r.IsValid() {
		return 0
	}
	d := r.Dimensions()
	return d.X * d.Y * d.Z
}

// Contains reports whether the position lies inside the region.
func (r Region) Contains(x, y, z int) bool {
	return x >= r.Lower.X && x <= r.Upper.X &&
		y >= r.Lower.Y && y <= r.Upper.Y &&
		z >= r.Lower.Z && z <= r.Upper.Z
}

// Shift returns the region moved by the given offset.
func (r Region) Shift(offset Point) Region {
	return Region{Lower: r.Lower.Add(offset), Upper: r.Upper.Add(offset)}
}

// Union returns the smallest region containing both r and o. Invalid
// regions are ignored.
func (r Region) Union(o Region) Region {
	if !r.IsValid() {
		return o
	}
	if !o.IsValid() {
		return r
	}
	return Region{
		Lower: Point{min(r.Lower.X, o.Lower.X), min(r.Lower.Y, o.Lower.Y), min(r.Lower.Z, o.Lower.Z)},
		Upper: Point{max(r.Upper.X, o.Upper.X), max(r.Upper.Y, o.Upper.Y), max(r.Upper.Z, o.Upper.Z)},
	}
}

// Intersect returns the overlap of r and o, invalid if they do not overlap.
func (r Region) Intersect(o Region) Region {
	return Region{
		Lower: Point{max(r.Lower.X, o.Lower.X), max(r.Lower.Y, o.Lower.Y), max(r.Lower.Z, o.Lower.Z)},
		Upper: Point{min(r.Upper.X, o.Upper.X), min(r.Upper.Y, o.Upper.Y), min(r.Upper.Z, o.Upper.Z)},
	}
}

// Center returns the geometric center of the region in voxel units.
func (r Region) Center() (x, y, z float64) {
	return float64(r.Lower.X+r.Upper.X+1) / 2, float64(r.Lower.Y+r.Upper.Y+1) / 2, float64(r.Lower.Z+r.Upper.Z+1) / 2
}

func (r Region) String() string {
	return fmt.Sprintf("region[%d:%d:%d - %d:%d:%d]",
		r.Lower.X, r.Lower.Y, r.Lower.Z, r.Upper.X, r.Upper.Y, r.Upper.Z)
}
