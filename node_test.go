package scenegraph

import (
	"fmt"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/scenegraph/palette"
	"github.com/phanxgames/scenegraph/voxel"
)

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode(NodeTypeGroup, "g")
	assert.Equal(t, InvalidNodeID, n.ID())
	assert.Equal(t, InvalidNodeID, n.Parent())
	assert.Equal(t, InvalidNodeID, n.Reference())
	assert.True(t, n.Visible)
	assert.True(t, n.IsLeaf())
	assert.Equal(t, DefaultAnimation, n.Animation())
	require.Len(t, n.KeyFrames(), 1)
	assert.Equal(t, 0, n.KeyFrame(0).Frame())
}

func TestNewNodeRejectsFilterTypes(t *testing.T) {
	assert.Panics(t, func() { NewNode(NodeTypeAll, "x") })
	assert.Panics(t, func() { NewNode(NodeTypeAllModels, "x") })
	assert.Panics(t, func() { NewNode(NodeTypeUnknown, "x") })
}

func TestNodeTypeMatches(t *testing.T) {
	assert.True(t, NodeTypeModel.Matches(NodeTypeAllModels))
	assert.True(t, NodeTypeModelReference.Matches(NodeTypeAllModels))
	assert.False(t, NodeTypeGroup.Matches(NodeTypeAllModels))
	assert.True(t, NodeTypeCamera.Matches(NodeTypeAll))
	assert.False(t, NodeTypePoint.Matches(NodeTypeCamera))
}

func TestSetVolumeOnlyOnModels(t *testing.T) {
	n := NewNode(NodeTypeGroup, "g")
	assert.Panics(t, func() { n.SetVolume(solidCube(1), true) })

	m := NewModelNode("m", solidCube(2))
	assert.True(t, m.OwnsVolume())
	assert.Equal(t, voxel.NewCubeRegion(2), m.Region())
	m.ReleaseOwnership()
	assert.False(t, m.OwnsVolume())
	assert.NotNil(t, m.Volume())
}

func TestProperties(t *testing.T) {
	n := NewNode(NodeTypeGroup, "g")
	assert.True(t, n.SetProperty("weight", "1.5"))
	assert.False(t, n.SetProperty("weight", "1.5"))
	assert.True(t, n.HasProperty("weight"))
	assert.Equal(t, 1.5, n.PropertyFloat("weight"))
	assert.Equal(t, "", n.Property("missing"))

	for i := n.NumProperties(); i < MaxProperties; i++ {
		require.True(t, n.SetProperty(fmt.Sprintf("k%d", i), "v"))
	}
	assert.False(t, n.SetProperty("overflow", "v"))
	assert.True(t, n.SetProperty("weight", "2"), "existing keys can still change")

	other := NewNode(NodeTypeGroup, "other")
	other.AddProperties(n)
	assert.Equal(t, MaxProperties, other.NumProperties())
}

func TestPivot(t *testing.T) {
	n := NewModelNode("m", solidCube(10))
	assert.False(t, n.SetPivot(mgl64.Vec3{math.Inf(1), 0, 0}))
	require.True(t, n.SetPivot(mgl64.Vec3{0.5, 0, 1}))
	assert.Equal(t, mgl64.Vec3{5, 0, 10}, n.WorldPivot())
}

func TestSetReference(t *testing.T) {
	n := NewModelNode("m", solidCube(1))
	assert.False(t, n.SetReference(3, false))
	require.True(t, n.SetReference(3, true))
	assert.Equal(t, NodeTypeModelReference, n.Type())
	assert.Nil(t, n.Volume())
	assert.Equal(t, 3, n.Reference())
}

func TestUnreference(t *testing.T) {
	g := NewGraph()
	model := addModel(t, g, "model", 3, 0)
	pal := palette.New("p", color.RGBA{255, 0, 0, 255})
	model.SetPalette(pal)
	ref := NewReferenceNode("ref", model.ID())
	addNode(t, g, ref, 0)

	other := addModel(t, g, "other", 1, 0)
	assert.False(t, ref.Unreference(other))
	require.True(t, ref.Unreference(model))
	assert.Equal(t, NodeTypeModel, ref.Type())
	require.NotNil(t, ref.Volume())
	assert.NotSame(t, model.Volume(), ref.Volume())
	assert.Equal(t, model.Volume().CountSolid(), ref.Volume().CountSolid())
	assert.True(t, ref.HasPalette())
	assert.False(t, ref.Unreference(model), "already a model")
}

func TestRemoveUnusedColors(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	v := voxel.NewRawVolume(voxel.NewCubeRegion(2))
	v.SetVoxel(0, 0, 0, voxel.Solid(2))
	v.SetVoxel(1, 1, 1, voxel.Solid(0))

	n := NewModelNode("m", v)
	n.SetPalette(palette.New("p", red, green, blue))
	require.True(t, n.RemoveUnusedColors(true))
	assert.Equal(t, 2, n.Palette().Size())
	assert.Equal(t, blue, n.Palette().Color(1))
	assert.Equal(t, uint8(1), v.Voxel(0, 0, 0).Color)
	assert.Equal(t, uint8(0), v.Voxel(1, 1, 1).Color)

	empty := NewModelNode("empty", voxel.NewRawVolume(voxel.NewCubeRegion(1)))
	empty.SetPalette(palette.New("p", red))
	assert.False(t, empty.RemoveUnusedColors(true))
}

func TestPoseHelpersTouchEveryKeyFrame(t *testing.T) {
	g := NewGraph()
	n := addGroup(t, g, "n", 0)
	g.AddKeyFrame(n.ID(), 10)
	require.True(t, g.AddAnimation("Walk"))

	n.setAnimation("Walk")
	n.setAnimation(DefaultAnimation)
	n.LocalTranslate(mgl64.Vec3{1, 0, 0})
	g.UpdateTransforms()

	for ti := range n.AllKeyFrames().Values {
		for _, kf := range n.AllKeyFrames().Values[ti] {
			assert.Equal(t, mgl64.Vec3{1, 0, 0}, kf.Transform().LocalTranslation())
		}
	}
}

func TestNodeValidateAndFix(t *testing.T) {
	n := NewNode(NodeTypeModel, "m")
	assert.False(t, n.Validate())
	n.FixErrors()
	assert.True(t, n.Validate())

	grp := NewNode(NodeTypeGroup, "g")
	grp.Transform(0).SetLocalTranslation(mgl64.Vec3{math.NaN(), 0, 0})
	assert.False(t, grp.Validate())
	grp.FixErrors()
	assert.True(t, grp.Validate())
	assert.Equal(t, Clean, grp.Transform(0).Dirty())
}
