package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionDimensions(t *testing.T) {
	r := NewRegion(-2, 0, 1, 2, 3, 1)
	assert.True(t, r.IsValid())
	assert.Equal(t, Point{5, 4, 1}, r.Dimensions())
	assert.Equal(t, 20, r.Voxels())
	assert.False(t, InvalidRegion.IsValid())
	assert.Equal(t, 0, InvalidRegion.Voxels())
}

func TestRegionUnionIgnoresInvalid(t *testing.T) {
	a := NewCubeRegion(4)
	assert.Equal(t, a, a.Union(InvalidRegion))
	assert.Equal(t, a, InvalidRegion.Union(a))

	b := NewRegion(10, -1, 2, 12, 0, 3)
	u := a.Union(b)
	assert.Equal(t, Point{0, -1, 0}, u.Lower)
	assert.Equal(t, Point{12, 3, 3}, u.Upper)
}

func TestRegionIntersect(t *testing.T) {
	a := NewCubeRegion(4)
	b := NewRegion(2, 2, 2, 8, 8, 8)
	assert.Equal(t, NewRegion(2, 2, 2, 3, 3, 3), a.Intersect(b))
	assert.False(t, a.Intersect(NewRegion(5, 5, 5, 6, 6, 6)).IsValid())
}

func TestVolumeOutsideReadsAir(t *testing.T) {
	v := NewRawVolume(NewCubeRegion(2))
	assert.True(t, v.SetVoxel(1, 1, 1, Solid(3)))
	assert.False(t, v.SetVoxel(2, 0, 0, Solid(3)))
	assert.True(t, v.Voxel(5, 5, 5).IsAir())
	assert.Equal(t, uint8(3), v.Voxel(1, 1, 1).Color)
	assert.Equal(t, 1, v.CountSolid())
}

func TestNewRawVolumeInvalidRegionPanics(t *testing.T) {
	assert.Panics(t, func() { NewRawVolume(InvalidRegion) })
}

func TestVolumeTranslateKeepsContent(t *testing.T) {
	v := NewRawVolume(NewCubeRegion(2))
	v.SetVoxel(0, 1, 0, Solid(7))
	v.Translate(Point{10, 0, -5})
	assert.Equal(t, NewRegion(10, 0, -5, 11, 1, -4), v.Region())
	assert.Equal(t, uint8(7), v.Voxel(10, 1, -5).Color)
	assert.False(t, v.Voxel(10, 1, -5).IsAir())
}

func TestCropEmptyReturnsNil(t *testing.T) {
	assert.Nil(t, Crop(NewRawVolume(NewCubeRegion(3))))
}

func TestCropToSolidBounds(t *testing.T) {
	v := NewRawVolume(NewCubeRegion(8))
	v.SetVoxel(2, 3, 4, Solid(1))
	v.SetVoxel(5, 3, 6, Solid(2))
	c := Crop(v)
	require.NotNil(t, c)
	assert.Equal(t, NewRegion(2, 3, 4, 5, 3, 6), c.Region())
	assert.Equal(t, 2, c.CountSolid())
}

func TestSplitDropsEmptyTiles(t *testing.T) {
	v := NewRawVolume(NewCubeRegion(40))
	for i := 0; i < 40; i++ {
		v.SetVoxel(i, i, i, Solid(1))
	}
	tiles := Split(v, Point{16, 16, 16}, false)
	// diagonal touches tiles (0,0,0), (1,1,1) and (2,2,2)
	require.Len(t, tiles, 3)
	total := 0
	for _, tile := range tiles {
		d := tile.Region().Dimensions()
		assert.LessOrEqual(t, d.X, 16)
		total += tile.CountSolid()
	}
	assert.Equal(t, 40, total)

	all := Split(v, Point{16, 16, 16}, true)
	assert.Len(t, all, 27)
}

func TestMergeRemapsColors(t *testing.T) {
	src := NewRawVolume(NewCubeRegion(2))
	src.SetVoxel(0, 0, 0, Solid(1))
	src.SetVoxel(1, 1, 1, Solid(2))
	dst := NewRawVolume(NewCubeRegion(4))
	n := Merge(dst, src, Point{2, 2, 2}, func(v Voxel) Voxel { return Solid(v.Color + 10) })
	assert.Equal(t, 2, n)
	assert.Equal(t, uint8(11), dst.Voxel(2, 2, 2).Color)
	assert.Equal(t, uint8(12), dst.Voxel(3, 3, 3).Color)
}

func TestUsedColors(t *testing.T) {
	v := NewRawVolume(NewCubeRegion(2))
	v.SetVoxel(0, 0, 0, Solid(4))
	used := v.UsedColors()
	assert.True(t, used[4])
	assert.False(t, used[0])
}
