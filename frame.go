package scenegraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/scenegraph/voxel"
)

type samplePass uint8

const (
	passSource samplePass = iota // keyframes at or before the frame
	passTarget                   // keyframes after the frame
)

// TransformForFrame samples n at frame with world values composed through
// every ancestor. Two world poses are built: one from each ancestor's
// keyframe at or before frame and one from each ancestor's next keyframe.
// The result blends them by n's own interpolation, so a child easing in
// under a linearly moving parent follows its own curve in world space.
func (g *Graph) TransformForFrame(n *Node, frame FrameIndex) Transform {
	kfs := n.KeyFrames()
	if len(kfs) == 0 {
		return NewTransform()
	}
	source, target := n.bracket(frame)
	if source == InvalidKeyFrame {
		source, target = 0, InvalidKeyFrame
	}
	src := &kfs[source]
	a := poseFrom(g.passWorld(n, frame, passSource), &src.transform)
	if target == InvalidKeyFrame {
		return a
	}
	dst := &kfs[target]
	b := poseFrom(g.passWorld(n, frame, passTarget), &dst.transform)
	factor := Interpolate(src.Interpolation, float64(frame), float64(src.frame), float64(dst.frame))
	a.lerp(&b, factor, src.LongRotation)
	return a
}

// passWorld composes the local matrices of n and its ancestors, picking one
// keyframe per node according to pass.
func (g *Graph) passWorld(n *Node, frame FrameIndex, pass samplePass) mgl64.Mat4 {
	world := mgl64.Ident4()
	for c := n; c != nil; c = g.nodes[c.parent] {
		kfs := c.KeyFrames()
		if len(kfs) == 0 {
			continue
		}
		source, target := c.bracket(frame)
		if source == InvalidKeyFrame {
			source = 0
		}
		idx := source
		if pass == passTarget && target != InvalidKeyFrame {
			idx = target
		}
		world = kfs[idx].transform.CalculateLocalMatrix().Mul4(world)
	}
	return world
}

// poseFrom builds a clean transform from a world matrix and the local
// values of local.
func poseFrom(world mgl64.Mat4, local *Transform) Transform {
	var t Transform
	wt, wo, ws := decomposeMatrix(world)
	t.SetTransforms(wt, wo, ws, local.localTranslation, local.localOrientation, local.localScale)
	return t
}

// NodeSceneRegion returns the voxel-aligned bounds of n's volume after
// applying its world transform at frame. InvalidRegion for nodes without a
// resolvable volume.
func (g *Graph) NodeSceneRegion(n *Node, frame FrameIndex) voxel.Region {
	region := g.ResolveRegion(n)
	if !region.IsValid() {
		return voxel.InvalidRegion
	}
	t := g.TransformForFrame(n, frame)
	pivot := pivotOffset(region, n.pivot)

	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	xs := [2]int{region.Lower.X, region.Upper.X + 1}
	ys := [2]int{region.Lower.Y, region.Upper.Y + 1}
	zs := [2]int{region.Lower.Z, region.Upper.Z + 1}
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				p := t.Apply(mgl64.Vec3{float64(x), float64(y), float64(z)}, pivot)
				for i := range 3 {
					lo[i] = math.Min(lo[i], p[i])
					hi[i] = math.Max(hi[i], p[i])
				}
			}
		}
	}
	const eps = 1e-6
	return voxel.NewRegion(
		int(math.Floor(lo[0]+eps)), int(math.Floor(lo[1]+eps)), int(math.Floor(lo[2]+eps)),
		int(math.Ceil(hi[0]-eps))-1, int(math.Ceil(hi[1]-eps))-1, int(math.Ceil(hi[2]-eps))-1,
	)
}

// SceneRegion returns the union of the scene regions of all model nodes at
// frame, only visible ones if onlyVisible is set.
func (g *Graph) SceneRegion(frame FrameIndex, onlyVisible bool) voxel.Region {
	region := voxel.InvalidRegion
	for _, n := range g.Nodes(NodeTypeAllModels) {
		if onlyVisible && !n.Visible {
			continue
		}
		region = region.Union(g.NodeSceneRegion(n, frame))
	}
	return region
}
