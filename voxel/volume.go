// Package voxel holds the volume storage the scene graph attaches to model
// nodes: a dense grid of palette-indexed cells over an integer region.
package voxel

// Voxel is a single cell. The zero value is air.
type Voxel struct {
	Color uint8
	solid bool
}

// Solid creates a filled voxel using the given palette index.
func Solid(color uint8) Voxel {
	return Voxel{Color: color, solid: true}
}

// IsAir reports whether the cell is empty.
func (v Voxel) IsAir() bool {
	return !v.solid
}

// RawVolume is a dense voxel grid covering a Region. Reads outside the region
// return air and writes outside it are ignored.
type RawVolume struct {
	region Region
	data   []Voxel
}

// NewRawVolume allocates an empty volume over the region.
// Panics if the region is invalid.
func NewRawVolume(region Region) *RawVolume {
	if !region.IsValid() {
		panic("voxel: cannot create volume over invalid " + region.String())
	}
	return &RawVolume{region: region, data: make([]Voxel, region.Voxels())}
}

// Region returns the volume's extent.
func (v *RawVolume) Region() Region {
	return v.region
}

func (v *RawVolume) index(x, y, z int) int {
	d := v.region.Dimensions()
	lx := x - v.region.Lower.X
	ly := y - v.region.Lower.Y
	lz := z - v.region.Lower.Z
	return lx + ly*d.X + lz*d.X*d.Y
}

// Voxel returns the cell at the given position.
func (v *RawVolume) Voxel(x, y, z int) Voxel {
	if !v.region.Contains(x, y, z) {
		return Voxel{}
	}
	return v.data[v.index(x, y, z)]
}

// SetVoxel writes a cell. Returns false if the position is outside the volume.
func (v *RawVolume) SetVoxel(x, y, z int, vx Voxel) bool {
	if !v.region.Contains(x, y, z) {
		return false
	}
	v.data[v.index(x, y, z)] = vx
	return true
}

// Fill sets every cell to vx.
func (v *RawVolume) Fill(vx Voxel) {
	for i := range v.data {
		v.data[i] = vx
	}
}

// Translate moves the volume's region in place. Cell contents keep their
// relative positions.
func (v *RawVolume) Translate(offset Point) {
	v.region = v.region.Shift(offset)
}

// Clone returns a deep copy of the volume.
func (v *RawVolume) Clone() *RawVolume {
	c := &RawVolume{region: v.region, data: make([]Voxel, len(v.data))}
	copy(c.data, v.data)
	return c
}

// Visit calls fn for every solid cell in x-fastest order.
func (v *RawVolume) Visit(fn func(x, y, z int, vx Voxel)) {
	r := v.region
	i := 0
	for z := r.Lower.Z; z <= r.Upper.Z; z++ {
		for y := r.Lower.Y; y <= r.Upper.Y; y++ {
			for x := r.Lower.X; x <= r.Upper.X; x++ {
				if vx := v.data[i]; vx.solid {
					fn(x, y, z, vx)
				}
				i++
			}
		}
	}
}

// CountSolid returns the number of non-air cells.
func (v *RawVolume) CountSolid() int {
	n := 0
	for _, vx := range v.data {
		if vx.solid {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the volume holds no solid cell.
func (v *RawVolume) IsEmpty() bool {
	for _, vx := range v.data {
		if vx.solid {
			return false
		}
	}
	return true
}

// UsedColors marks every palette index referenced by a solid cell.
func (v *RawVolume) UsedColors() [256]bool {
	var used [256]bool
	for _, vx := range v.data {
		if vx.solid {
			used[vx.Color] = true
		}
	}
	return used
}
