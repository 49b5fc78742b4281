package voxel

// SolidBounds returns the smallest region enclosing every solid cell, or
// InvalidRegion when the volume is empty.
func SolidBounds(v *RawVolume) Region {
	bounds := InvalidRegion
	first := true
	v.Visit(func(x, y, z int, _ Voxel) {
		p := Region{Lower: Point{x, y, z}, Upper: Point{x, y, z}}
		if first {
			bounds = p
			first = false
			return
		}
		bounds = bounds.Union(p)
	})
	return bounds
}

// Crop returns a copy of v trimmed to its solid bounds. Returns nil if v
// contains no solid cell.
func Crop(v *RawVolume) *RawVolume {
	bounds := SolidBounds(v)
	if !bounds.IsValid() {
		return nil
	}
	return CopyRegion(v, bounds)
}

// CopyRegion copies the cells of v inside region into a new volume over that
// region.
func CopyRegion(v *RawVolume, region Region) *RawVolume {
	dst := NewRawVolume(region)
	src := v.Region().Intersect(region)
	if !src.IsValid() {
		return dst
	}
	for z := src.Lower.Z; z <= src.Upper.Z; z++ {
		for y := src.Lower.Y; y <= src.Upper.Y; y++ {
			for x := src.Lower.X; x <= src.Upper.X; x++ {
				dst.SetVoxel(x, y, z, v.Voxel(x, y, z))
			}
		}
	}
	return dst
}

// Split tiles v into sub-volumes of at most maxSize cells per axis. Tiles are
// aligned to the volume's lower corner. Empty tiles are skipped unless
// createEmpty is set. Tile order is x-fastest.
func Split(v *RawVolume, maxSize Point, createEmpty bool) []*RawVolume {
	if maxSize.X <= 0 || maxSize.Y <= 0 || maxSize.Z <= 0 {
		panic("voxel: split size must be positive")
	}
	r := v.Region()
	var out []*RawVolume
	for z := r.Lower.Z; z <= r.Upper.Z; z += maxSize.Z {
		for y := r.Lower.Y; y <= r.Upper.Y; y += maxSize.Y {
			for x := r.Lower.X; x <= r.Upper.X; x += maxSize.X {
				tile := NewRegion(x, y, z,
					min(x+maxSize.X-1, r.Upper.X),
					min(y+maxSize.Y-1, r.Upper.Y),
					min(z+maxSize.Z-1, r.Upper.Z))
				sub := CopyRegion(v, tile)
				if !createEmpty && sub.IsEmpty() {
					continue
				}
				out = append(out, sub)
			}
		}
	}
	return out
}

// Merge copies every solid cell of src into dst, shifted by offset and passed
// through remap. Cells landing outside dst are dropped. Returns the number of
// cells written.
func Merge(dst, src *RawVolume, offset Point, remap func(Voxel) Voxel) int {
	n := 0
	src.Visit(func(x, y, z int, vx Voxel) {
		if remap != nil {
			vx = remap(vx)
		}
		if dst.SetVoxel(x+offset.X, y+offset.Y, z+offset.Z, vx) {
			n++
		}
	})
	return n
}
