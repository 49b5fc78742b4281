package scenegraph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/scenegraph/voxel"
)

// diagonalVolume fills the main diagonal of a size^3 cube.
func diagonalVolume(size int) *voxel.RawVolume {
	v := voxel.NewRawVolume(voxel.NewCubeRegion(size))
	for i := range size {
		v.SetVoxel(i, i, i, voxel.Solid(1))
	}
	return v
}

func TestSplitVolumesDiagonal(t *testing.T) {
	g := NewGraph()
	n := NewModelNode("big", diagonalVolume(40))
	addNode(t, g, n, 0)

	require.True(t, g.SplitVolumes(SplitConfig{MaxSize: voxel.Point{X: 16, Y: 16, Z: 16}}))
	assert.False(t, g.HasNode(n.ID()))

	models := g.Nodes(NodeTypeModel)
	require.Len(t, models, 3)
	total := 0
	for _, m := range models {
		assert.True(t, m.Region().Dimensions().LessEqual(voxel.Point{X: 16, Y: 16, Z: 16}))
		total += m.Volume().CountSolid()
	}
	assert.Equal(t, 40, total)

	merged := g.Merge(MergeConfig{})
	require.NotNil(t, merged.Volume)
	assert.Equal(t, 40, merged.Volume.CountSolid())
	assert.Equal(t, voxel.NewCubeRegion(40), merged.Volume.Region())
}

func TestSplitVolumesCreateEmpty(t *testing.T) {
	g := NewGraph()
	addNode(t, g, NewModelNode("big", diagonalVolume(40)), 0)

	require.True(t, g.SplitVolumes(SplitConfig{MaxSize: voxel.Point{X: 16, Y: 16, Z: 16}, CreateEmpty: true}))
	assert.Equal(t, 27, g.Size(NodeTypeModel))
}

func TestSplitVolumesCropKeepsPlacement(t *testing.T) {
	g := NewGraph()
	n := NewModelNode("big", diagonalVolume(20))
	n.SetPivot(mgl64.Vec3{0.5, 0.5, 0.5})
	addNode(t, g, n, 0)
	n.Transform(0).SetLocalTranslation(mgl64.Vec3{100, 0, 0})
	g.UpdateTransforms()
	before := g.NodeSceneRegion(n, 0)

	require.True(t, g.SplitVolumes(SplitConfig{MaxSize: voxel.Point{X: 10, Y: 10, Z: 10}, Crop: true}))
	union := voxel.InvalidRegion
	for _, m := range g.Nodes(NodeTypeModel) {
		assert.Equal(t, 10, m.Volume().CountSolid())
		assert.Equal(t, voxel.Point{X: 10, Y: 10, Z: 10}, m.Region().Dimensions())
		union = union.Union(g.NodeSceneRegion(m, 0))
	}
	assert.Equal(t, before, union)
}

func TestSplitVolumesMovesChildrenAndReferences(t *testing.T) {
	g := NewGraph()
	big := NewModelNode("big", diagonalVolume(32))
	addNode(t, g, big, 0)
	child := addGroup(t, g, "child", big.ID())
	ref := NewReferenceNode("ref", big.ID())
	addNode(t, g, ref, 0)

	require.True(t, g.SplitVolumes(SplitConfig{MaxSize: voxel.Point{X: 16, Y: 16, Z: 16}}))

	tiles := g.Nodes(NodeTypeModel)
	require.Len(t, tiles, 2)
	assert.Equal(t, tiles[0].ID(), child.Parent())
	assert.Equal(t, tiles[0].ID(), ref.Reference())

	refs := g.Nodes(NodeTypeModelReference)
	require.Len(t, refs, 2)
	assert.Equal(t, tiles[1].ID(), refs[1].Reference())
	assert.True(t, g.Validate())
}

func TestSplitVolumesSkipsSmallAndHidden(t *testing.T) {
	g := NewGraph()
	addModel(t, g, "small", 4, 0)
	hidden := NewModelNode("hidden", diagonalVolume(40))
	hidden.Visible = false
	addNode(t, g, hidden, 0)

	assert.False(t, g.SplitVolumes(SplitConfig{MaxSize: voxel.Point{X: 8, Y: 8, Z: 8}, SkipHidden: true}))
	assert.Equal(t, 2, g.Size(NodeTypeModel))
}
