package scenegraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DirtyState tells which side of a Transform is stale. The states are
// mutually exclusive: local and world values can never both be pending.
type DirtyState uint8

const (
	Clean       DirtyState = iota
	WorldDirty             // world values were set, local values are stale
	LocalDirty             // local values were set, world values are stale
	ParentDirty            // the parent moved, world values are stale
)

func (d DirtyState) String() string {
	switch d {
	case Clean:
		return "Clean"
	case WorldDirty:
		return "WorldDirty"
	case LocalDirty:
		return "LocalDirty"
	case ParentDirty:
		return "ParentDirty"
	default:
		return "Invalid"
	}
}

// Transform holds a node pose in both local (relative to the parent) and
// world space, together with the cached matrices of both.
//
// Local setters panic while world values are pending and world setters panic
// while local values are pending; call Update in between.
type Transform struct {
	worldTranslation mgl64.Vec3
	worldOrientation mgl64.Quat
	worldScale       mgl64.Vec3

	localTranslation mgl64.Vec3
	localOrientation mgl64.Quat
	localScale       mgl64.Vec3

	worldMat mgl64.Mat4
	localMat mgl64.Mat4

	dirty DirtyState
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		worldOrientation: mgl64.QuatIdent(),
		worldScale:       mgl64.Vec3{1, 1, 1},
		localOrientation: mgl64.QuatIdent(),
		localScale:       mgl64.Vec3{1, 1, 1},
		worldMat:         mgl64.Ident4(),
		localMat:         mgl64.Ident4(),
	}
}

// Dirty returns the pending state.
func (t *Transform) Dirty() DirtyState {
	return t.dirty
}

// SetTransforms sets both spaces at once and leaves the transform clean. The
// caller guarantees that both describe the same pose.
func (t *Transform) SetTransforms(worldTranslation mgl64.Vec3, worldOrientation mgl64.Quat, worldScale mgl64.Vec3,
	localTranslation mgl64.Vec3, localOrientation mgl64.Quat, localScale mgl64.Vec3) {
	t.worldTranslation = worldTranslation
	t.worldOrientation = worldOrientation.Normalize()
	t.worldScale = worldScale
	t.localTranslation = localTranslation
	t.localOrientation = localOrientation.Normalize()
	t.localScale = localScale
	t.worldMat = composeMatrix(t.worldTranslation, t.worldOrientation, t.worldScale)
	t.localMat = composeMatrix(t.localTranslation, t.localOrientation, t.localScale)
	t.dirty = Clean
}

// --- World setters ---

func (t *Transform) markWorld() {
	if t.dirty == LocalDirty {
		panic("scenegraph: world transform modified while local values are pending")
	}
	t.dirty = WorldDirty
}

// SetWorldTranslation sets the world position.
func (t *Transform) SetWorldTranslation(v mgl64.Vec3) {
	if t.worldTranslation == v {
		return
	}
	t.markWorld()
	t.worldTranslation = v
}

// SetWorldOrientation sets the world rotation. The quaternion is normalized.
func (t *Transform) SetWorldOrientation(q mgl64.Quat) {
	if t.worldOrientation == q {
		return
	}
	t.markWorld()
	t.worldOrientation = q.Normalize()
}

// SetWorldScale sets the world scale.
func (t *Transform) SetWorldScale(v mgl64.Vec3) {
	if t.worldScale == v {
		return
	}
	t.markWorld()
	t.worldScale = v
}

// SetWorldMatrix decomposes m into world translation, orientation and scale.
func (t *Transform) SetWorldMatrix(m mgl64.Mat4) {
	t.markWorld()
	t.worldTranslation, t.worldOrientation, t.worldScale = decomposeMatrix(m)
}

// --- Local setters ---

func (t *Transform) markLocal() {
	if t.dirty == WorldDirty {
		panic("scenegraph: local transform modified while world values are pending")
	}
	t.dirty = LocalDirty
}

// SetLocalTranslation sets the position relative to the parent.
func (t *Transform) SetLocalTranslation(v mgl64.Vec3) {
	if t.localTranslation == v {
		return
	}
	t.markLocal()
	t.localTranslation = v
}

// SetLocalOrientation sets the rotation relative to the parent.
func (t *Transform) SetLocalOrientation(q mgl64.Quat) {
	if t.localOrientation == q {
		return
	}
	t.markLocal()
	t.localOrientation = q.Normalize()
}

// SetLocalScale sets the scale relative to the parent.
func (t *Transform) SetLocalScale(v mgl64.Vec3) {
	if t.localScale == v {
		return
	}
	t.markLocal()
	t.localScale = v
}

// SetLocalMatrix decomposes m into local translation, orientation and scale.
func (t *Transform) SetLocalMatrix(m mgl64.Mat4) {
	t.markLocal()
	t.localTranslation, t.localOrientation, t.localScale = decomposeMatrix(m)
}

// MarkDirtyParent flags the world values as stale because an ancestor moved.
// Pending local or world edits take precedence and are kept.
func (t *Transform) MarkDirtyParent() {
	if t.dirty == Clean {
		t.dirty = ParentDirty
	}
}

// MirrorX mirrors the pending side on the x axis: world values if they are
// pending, local values otherwise.
func (t *Transform) MirrorX() {
	if t.dirty == WorldDirty {
		t.worldTranslation[0] = -t.worldTranslation[0]
		t.worldScale[0] = -t.worldScale[0]
		t.worldOrientation.V = t.worldOrientation.V.Mul(-1)
		return
	}
	t.markLocal()
	t.localTranslation[0] = -t.localTranslation[0]
	t.localScale[0] = -t.localScale[0]
	t.localOrientation.V = t.localOrientation.V.Mul(-1)
}

// --- Getters ---

func (t Transform) WorldTranslation() mgl64.Vec3 { return t.worldTranslation }
func (t Transform) WorldOrientation() mgl64.Quat { return t.worldOrientation }
func (t Transform) WorldScale() mgl64.Vec3       { return t.worldScale }
func (t Transform) LocalTranslation() mgl64.Vec3 { return t.localTranslation }
func (t Transform) LocalOrientation() mgl64.Quat { return t.localOrientation }
func (t Transform) LocalScale() mgl64.Vec3       { return t.localScale }

// WorldMatrix returns the cached world matrix. Panics while world values are
// stale.
func (t *Transform) WorldMatrix() mgl64.Mat4 {
	if t.dirty != Clean && t.dirty != WorldDirty {
		panic("scenegraph: world matrix read while transform is " + t.dirty.String())
	}
	if t.dirty == WorldDirty {
		return composeMatrix(t.worldTranslation, t.worldOrientation, t.worldScale)
	}
	return t.worldMat
}

// LocalMatrix returns the cached local matrix. Panics while local values are
// pending.
func (t *Transform) LocalMatrix() mgl64.Mat4 {
	if t.dirty == LocalDirty || t.dirty == WorldDirty {
		panic("scenegraph: local matrix read while transform is " + t.dirty.String())
	}
	return t.localMat
}

// CalculateLocalMatrix composes the current local values without touching
// the cache.
func (t *Transform) CalculateLocalMatrix() mgl64.Mat4 {
	return composeMatrix(t.localTranslation, t.localOrientation, t.localScale)
}

// Apply transforms a volume position into world space. pivot is the pivot in
// volume coordinates.
func (t *Transform) Apply(pos, pivot mgl64.Vec3) mgl64.Vec3 {
	return t.worldMat.Mul4x1(pos.Sub(pivot).Vec4(1)).Vec3()
}

// Validate reports whether every component is finite.
func (t *Transform) Validate() bool {
	for name, v := range map[string]mgl64.Vec3{
		"world translation": t.worldTranslation,
		"world scale":       t.worldScale,
		"local translation": t.localTranslation,
		"local scale":       t.localScale,
	} {
		if !finite(v[0], v[1], v[2]) {
			logger.Error("transform component is not finite", "component", name, "value", v)
			return false
		}
	}
	for name, q := range map[string]mgl64.Quat{
		"world orientation": t.worldOrientation,
		"local orientation": t.localOrientation,
	} {
		if !finite(q.W, q.V[0], q.V[1], q.V[2]) {
			logger.Error("transform component is not finite", "component", name, "value", q)
			return false
		}
	}
	return true
}

// Lerp blends both spaces of t towards dest: translation and scale linearly,
// orientation spherically. factor is clamped to [0,1]. Both transforms must
// be clean; t is clean afterwards.
func (t *Transform) Lerp(dest *Transform, factor float64) {
	t.lerp(dest, factor, false)
}

func (t *Transform) lerp(dest *Transform, factor float64, longRotation bool) {
	if t.dirty != Clean || dest.dirty != Clean {
		panic("scenegraph: lerp between transforms with pending values")
	}
	f := mgl64.Clamp(factor, 0, 1)
	t.worldTranslation = mix(t.worldTranslation, dest.worldTranslation, f)
	t.worldOrientation = slerp(t.worldOrientation, dest.worldOrientation, f, longRotation)
	t.worldScale = mix(t.worldScale, dest.worldScale, f)
	t.localTranslation = mix(t.localTranslation, dest.localTranslation, f)
	t.localOrientation = slerp(t.localOrientation, dest.localOrientation, f, longRotation)
	t.localScale = mix(t.localScale, dest.localScale, f)
	t.worldMat = composeMatrix(t.worldTranslation, t.worldOrientation, t.worldScale)
	t.localMat = composeMatrix(t.localTranslation, t.localOrientation, t.localScale)
}

// --- Dirty resolution ---

// Update resolves pending values of the transform belonging to the keyframe
// of n that is active at frame. With updateChildren set, every descendant's
// transform active at frame is recomputed against the new world matrix.
func (t *Transform) Update(g *Graph, n *Node, frame FrameIndex, updateChildren bool) {
	if t.dirty == Clean {
		return
	}
	if n.id == InvalidNodeID {
		logger.Warn("node not yet part of the scene graph, skipping transform update", "node", n.Name)
		return
	}
	t.resolve(g, n, n.animation, frame)
	if updateChildren {
		g.propagateParentDirty(n, n.animation, frame)
	}
}

// resolve brings the transform into the clean state. World edits are
// converted into local values first, then the world matrix is rebuilt from
// the parent.
func (t *Transform) resolve(g *Graph, n *Node, animation string, frame FrameIndex) {
	parentWorld := g.parentWorldMatrix(n, animation, frame)
	if t.dirty == WorldDirty {
		if n.typ == NodeTypeRoot {
			t.localTranslation = t.worldTranslation
			t.localOrientation = t.worldOrientation
			t.localScale = t.worldScale
		} else {
			world := composeMatrix(t.worldTranslation, t.worldOrientation, t.worldScale)
			t.localTranslation, t.localOrientation, t.localScale = decomposeMatrix(parentWorld.Inv().Mul4(world))
		}
		t.dirty = LocalDirty
		if globalDebug {
			logger.Debug("world transform resolved", "node", n.id, "local", t.localTranslation)
		}
	}
	if t.dirty == LocalDirty {
		t.localMat = composeMatrix(t.localTranslation, t.localOrientation, t.localScale)
	}
	t.worldMat = parentWorld.Mul4(t.localMat)
	t.worldTranslation, t.worldOrientation, t.worldScale = decomposeMatrix(t.worldMat)
	t.dirty = Clean
}

// --- Math helpers ---

// composeMatrix builds translate * rotate * scale.
func composeMatrix(translation mgl64.Vec3, orientation mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(translation[0], translation[1], translation[2]).
		Mul4(orientation.Mat4()).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// decomposeMatrix splits an affine matrix without shear into translation,
// orientation and scale. A negative determinant is folded into the x scale.
func decomposeMatrix(m mgl64.Mat4) (mgl64.Vec3, mgl64.Quat, mgl64.Vec3) {
	translation := m.Col(3).Vec3()
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	scale := mgl64.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return translation, mgl64.QuatIdent(), scale
	}
	c0 = c0.Mul(1 / scale[0])
	c1 = c1.Mul(1 / scale[1])
	c2 = c2.Mul(1 / scale[2])
	rot := mgl64.Mat4{
		c0[0], c0[1], c0[2], 0,
		c1[0], c1[1], c1[2], 0,
		c2[0], c2[1], c2[2], 0,
		0, 0, 0, 1,
	}
	return translation, mgl64.Mat4ToQuat(rot).Normalize(), scale
}

func mix(a, b mgl64.Vec3, f float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(f))
}

// slerp interpolates along the shorter arc unless long is set.
func slerp(a, b mgl64.Quat, f float64, long bool) mgl64.Quat {
	dot := a.Dot(b)
	if !long && dot < 0 {
		b = b.Scale(-1)
		dot = -dot
	} else if long && dot > 0 {
		b = b.Scale(-1)
		dot = -dot
	}
	if math.Abs(dot) > 0.9995 {
		return a.Add(b.Sub(a).Scale(f)).Normalize()
	}
	theta := math.Acos(mgl64.Clamp(dot, -1, 1))
	sin := math.Sin(theta)
	wa := math.Sin((1-f)*theta) / sin
	wb := math.Sin(f*theta) / sin
	return a.Scale(wa).Add(b.Scale(wb)).Normalize()
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
