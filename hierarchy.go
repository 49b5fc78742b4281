package scenegraph

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// parentWorldMatrix returns the world matrix of the parent keyframe of n
// that is active at frame in animation. Identity for the root and detached
// nodes. A parent without that track falls back to its active one.
func (g *Graph) parentWorldMatrix(n *Node, animation string, frame FrameIndex) mgl64.Mat4 {
	if n.typ == NodeTypeRoot || n.parent == InvalidNodeID {
		return mgl64.Ident4()
	}
	p, ok := g.nodes[n.parent]
	if !ok {
		return mgl64.Ident4()
	}
	kf := p.keyFrameIn(animation, frame)
	if kf == nil {
		kf = p.keyFrameIn(p.animation, frame)
	}
	if kf == nil {
		return mgl64.Ident4()
	}
	t := &kf.transform
	if t.dirty != Clean && t.dirty != WorldDirty {
		// resolve the parent lazily so a child can be updated on its own
		t.resolve(g, p, animation, kf.frame)
	}
	return t.WorldMatrix()
}

// propagateParentDirty recomputes the keyframes active at frame for every
// descendant of n, top-down.
func (g *Graph) propagateParentDirty(n *Node, animation string, frame FrameIndex) {
	stack := slices.Clone(n.children)
	for len(stack) > 0 {
		c := g.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if kf := c.keyFrameIn(animation, frame); kf != nil {
			kf.transform.MarkDirtyParent()
			kf.transform.resolve(g, c, animation, frame)
		}
		stack = append(stack, c.children...)
	}
}

// UpdateTransforms resolves every pending transform of every keyframe in
// every animation. Parents are processed before children and a child whose
// parent changed in this pass is recomputed even if it was clean. Calling
// it twice in a row does no work the second time.
func (g *Graph) UpdateTransforms() {
	for _, animation := range g.animations.Keys {
		g.updateAnimation(animation)
	}
}

func (g *Graph) updateAnimation(animation string) {
	changed := make(map[int]bool)
	stack := []int{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := g.nodes[id]

		if kfs, ok := n.tracks.AtTry(animation); ok {
			parentChanged := changed[n.parent]
			for i := range kfs {
				t := &kfs[i].transform
				if parentChanged {
					t.MarkDirtyParent()
				}
				if t.dirty != Clean {
					t.resolve(g, n, animation, kfs[i].frame)
					changed[id] = true
				}
			}
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}
