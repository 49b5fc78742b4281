package scenegraph

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ikChain builds anchor -> joint -> end with the effector at end + (0,1,0).
// The effector lies on the circle the end describes around the joint, so a
// single rotation of the joint reaches it.
func ikChain(t *testing.T) (g *Graph, joint, end, effector *Node) {
	t.Helper()
	g = NewGraph()
	anchor := addGroup(t, g, "anchor", 0)
	anchorIK := NewIKConstraint(InvalidNodeID)
	anchorIK.Anchor = true
	anchor.SetIKConstraint(anchorIK)

	joint = addGroup(t, g, "joint", anchor.ID())
	joint.Transform(0).SetLocalTranslation(mgl64.Vec3{1, 0, 0})
	end = addGroup(t, g, "end", joint.ID())
	end.Transform(0).SetLocalTranslation(mgl64.Vec3{1, -0.5, 0})

	effector = addPoint(t, g, "effector", mgl64.Vec3{2, 0.5, 0})
	end.SetIKConstraint(NewIKConstraint(effector.ID()))
	g.UpdateTransforms()
	return g, joint, end, effector
}

func addPoint(t *testing.T, g *Graph, name string, pos mgl64.Vec3) *Node {
	t.Helper()
	n := NewNode(NodeTypePoint, name)
	n.Transform(0).SetLocalTranslation(pos)
	addNode(t, g, n, 0)
	return n
}

func TestSolveIKSingleIteration(t *testing.T) {
	g, joint, end, _ := ikChain(t)
	cfg := DefaultIKConfig()
	cfg.MaxIterations = 1

	require.True(t, g.SolveIK(end.ID(), 0, cfg))
	assertVecNear(t, mgl64.Vec3{2, 0.5, 0}, end.Transform(0).WorldTranslation())
	// joint turned around z by atan2(0.8, 0.6)
	rotated := joint.Transform(0).LocalOrientation().Rotate(mgl64.Vec3{1, 0, 0})
	assertVecNear(t, mgl64.Vec3{0.6, 0.8, 0}, rotated)
	assertVecNear(t, mgl64.Vec3{1, 0, 0}, joint.Transform(0).LocalTranslation())
}

func TestSolveIKUnreachable(t *testing.T) {
	g, _, end, effector := ikChain(t)
	effector.Transform(0).SetLocalTranslation(mgl64.Vec3{10, 0, 0})
	g.UpdateTransforms()

	assert.False(t, g.SolveIK(end.ID(), 0, DefaultIKConfig()))
	// the chain still points at the target
	pos := end.Transform(0).WorldTranslation()
	assert.Greater(t, pos[0], 2.0)
}

func TestSolveIKRejects(t *testing.T) {
	g, joint, end, _ := ikChain(t)
	assert.False(t, g.SolveIK(joint.ID(), 0, DefaultIKConfig()), "no constraint")

	cfg := DefaultIKConfig()
	cfg.MaxChainLength = 1
	assert.False(t, g.SolveIK(end.ID(), 0, cfg), "chain too long")

	end.SetIKConstraint(NewIKConstraint(99))
	assert.False(t, g.SolveIK(end.ID(), 0, DefaultIKConfig()), "missing effector")
}

func TestClampSwingTwistRoll(t *testing.T) {
	c := NewIKConstraint(InvalidNodeID)
	c.RollMin, c.RollMax = -0.5, 0.5
	q := mgl64.QuatRotate(1, mgl64.Vec3{0, 1, 0})

	got := clampSwingTwist(q, &c).Rotate(mgl64.Vec3{1, 0, 0})
	assertVecNear(t, mgl64.Vec3{math.Cos(0.5), 0, -math.Sin(0.5)}, got)
}

func TestClampSwingTwistSwing(t *testing.T) {
	c := NewIKConstraint(InvalidNodeID)
	c.SwingLimits = []SwingLimit{{Radius: 1}, {Radius: 0.25}}
	q := mgl64.QuatRotate(1, mgl64.Vec3{1, 0, 0})

	got := clampSwingTwist(q, &c).Rotate(mgl64.Vec3{0, 1, 0})
	assertVecNear(t, mgl64.Vec3{0, math.Cos(0.25), math.Sin(0.25)}, got)

	inside := mgl64.QuatRotate(0.1, mgl64.Vec3{1, 0, 0})
	assert.InDelta(t, 1, math.Abs(clampSwingTwist(inside, &c).Dot(inside)), 1e-9)
}

func TestSolveJointDegenerate(t *testing.T) {
	_, ok := solveJoint(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.Ident4(), mgl64.Ident4())
	assert.False(t, ok)
	_, ok = solveJoint(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Ident4(), mgl64.Ident4())
	assert.False(t, ok, "already aligned")
}
