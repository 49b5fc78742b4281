package scenegraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SwingLimit is a cone the swing part of a joint rotation must stay in.
type SwingLimit struct {
	Center mgl64.Vec2
	Radius float64
}

// IKConstraint marks a node as the end of an inverse kinematics chain or as
// a limited joint inside one.
type IKConstraint struct {
	// EffectorNodeID is the node whose world position the chain reaches
	// for.
	EffectorNodeID int
	// Anchor stops the chain at this node. An anchor is never rotated.
	Anchor  bool
	Visible bool
	// RollMin and RollMax bound the twist around the joint's y axis in
	// radians.
	RollMin, RollMax float64
	SwingLimits      []SwingLimit
}

// NewIKConstraint returns a constraint towards effector with an unlimited
// roll range.
func NewIKConstraint(effector int) IKConstraint {
	return IKConstraint{
		EffectorNodeID: effector,
		Visible:        true,
		RollMin:        -math.Pi,
		RollMax:        math.Pi,
	}
}

// IKConstraint returns the node's constraint, nil if it has none.
func (n *Node) IKConstraint() *IKConstraint {
	return n.ik
}

// SetIKConstraint attaches a copy of c.
func (n *Node) SetIKConstraint(c IKConstraint) {
	n.ik = &c
}

// RemoveIKConstraint detaches the constraint.
func (n *Node) RemoveIKConstraint() {
	n.ik = nil
}

// IKConfig controls SolveIK.
type IKConfig struct {
	MaxIterations     int
	DistanceThreshold float64
	MaxChainLength    int
}

// DefaultIKConfig returns the solver defaults.
func DefaultIKConfig() IKConfig {
	return IKConfig{
		MaxIterations:     10,
		DistanceThreshold: 0.01,
		MaxChainLength:    64,
	}
}

// SolveIK rotates the ancestors of nodeID, up to an anchor or the root, so
// that nodeID reaches the effector of its constraint at frame. Each joint
// is rotated in turn starting next to the end node (cyclic coordinate
// descent) and the result is clamped by the joint's own constraint. The
// keyframes active at frame are modified. Returns whether the end node got
// within cfg.DistanceThreshold of the effector.
func (g *Graph) SolveIK(nodeID int, frame FrameIndex, cfg IKConfig) bool {
	end, ok := g.nodes[nodeID]
	if !ok || end.ik == nil {
		return false
	}
	effector, ok := g.nodes[end.ik.EffectorNodeID]
	if !ok {
		logger.Debug("ik effector not found", "node", nodeID, "effector", end.ik.EffectorNodeID)
		return false
	}

	chain := []*Node{end}
	for p := g.nodes[end.parent]; p != nil && p.typ != NodeTypeRoot; p = g.nodes[p.parent] {
		chain = append(chain, p)
		if len(chain) > cfg.MaxChainLength {
			logger.Debug("ik chain too long", "node", nodeID, "max", cfg.MaxChainLength)
			return false
		}
		if p.ik != nil && p.ik.Anchor {
			break
		}
	}

	g.UpdateTransforms()
	worldPos := func(n *Node) mgl64.Vec3 {
		return n.keyFrameIn(n.animation, frame).transform.WorldTranslation()
	}
	target := worldPos(effector)

	for range cfg.MaxIterations {
		if worldPos(end).Sub(target).Len() < cfg.DistanceThreshold {
			return true
		}
		for _, joint := range chain[1:] {
			if joint.ik != nil && joint.ik.Anchor {
				continue
			}
			t := &joint.keyFrameIn(joint.animation, frame).transform
			parentWorld := g.parentWorldMatrix(joint, joint.animation, frame)
			local, ok := solveJoint(t.WorldTranslation(), worldPos(end), target, t.WorldMatrix(), parentWorld)
			if !ok {
				continue
			}
			if joint.ik != nil {
				local = clampSwingTwist(local, joint.ik)
			}
			t.SetLocalOrientation(local)
			t.Update(g, joint, frame, true)
		}
	}
	dist := worldPos(end).Sub(target).Len()
	if dist >= cfg.DistanceThreshold {
		logger.Debug("ik target not reached", "node", nodeID, "distance", dist)
		return false
	}
	return true
}

// solveJoint returns the local orientation that turns the joint so the
// end position points at the target. Fails if the rotation is degenerate.
func solveJoint(jointPos, endPos, targetPos mgl64.Vec3, jointWorld, parentWorld mgl64.Mat4) (mgl64.Quat, bool) {
	toEnd := endPos.Sub(jointPos)
	toTarget := targetPos.Sub(jointPos)
	if toEnd.Len() < 1e-6 || toTarget.Len() < 1e-6 {
		return mgl64.Quat{}, false
	}
	toEnd = toEnd.Normalize()
	toTarget = toTarget.Normalize()
	dot := toEnd.Dot(toTarget)
	if dot > 0.9999 {
		return mgl64.Quat{}, false
	}
	axis := toEnd.Cross(toTarget)
	if axis.Len() < 1e-6 {
		return mgl64.Quat{}, false
	}
	rot := mgl64.QuatRotate(math.Acos(mgl64.Clamp(dot, -1, 1)), axis.Normalize())

	newWorld := mgl64.Translate3D(jointPos[0], jointPos[1], jointPos[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl64.Translate3D(-jointPos[0], -jointPos[1], -jointPos[2])).
		Mul4(jointWorld)
	_, local, _ := decomposeMatrix(parentWorld.Inv().Mul4(newWorld))
	return local, true
}

// clampSwingTwist splits q into a twist around the y axis and a swing,
// clamps the twist to the roll range and the swing to the smallest cone.
func clampSwingTwist(q mgl64.Quat, c *IKConstraint) mgl64.Quat {
	axis := mgl64.Vec3{0, 1, 0}
	twist := mgl64.Quat{W: q.W, V: axis.Mul(q.V.Dot(axis))}
	if twist.Len() < 1e-9 {
		twist = mgl64.QuatIdent()
	} else {
		twist = twist.Normalize()
	}
	swing := q.Mul(twist.Inverse())

	roll := 2 * math.Atan2(twist.V.Dot(axis), twist.W)
	if roll > math.Pi {
		roll -= 2 * math.Pi
	} else if roll < -math.Pi {
		roll += 2 * math.Pi
	}
	twist = mgl64.QuatRotate(mgl64.Clamp(roll, c.RollMin, c.RollMax), axis)

	if len(c.SwingLimits) > 0 {
		radius := c.SwingLimits[0].Radius
		for _, l := range c.SwingLimits[1:] {
			radius = min(radius, l.Radius)
		}
		if swing.W < 0 {
			swing = swing.Scale(-1)
		}
		angle := 2 * math.Acos(mgl64.Clamp(swing.W, -1, 1))
		if angle > radius && swing.V.Len() > 1e-9 {
			swing = mgl64.QuatRotate(radius, swing.V.Normalize())
		}
	}
	return swing.Mul(twist).Normalize()
}
