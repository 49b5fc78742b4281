package scenegraph

import (
	"slices"
)

// Animations returns the declared animation names in declaration order.
func (g *Graph) Animations() []string {
	return slices.Clone(g.animations.Keys)
}

// ActiveAnimation returns the name of the animation every node exposes.
func (g *Graph) ActiveAnimation() string {
	return g.activeAnimation
}

// HasAnimation reports whether name is declared.
func (g *Graph) HasAnimation(name string) bool {
	return g.animations.IndexByKey(name) >= 0
}

// AddAnimation declares a new animation. Fails for an empty or existing
// name.
func (g *Graph) AddAnimation(name string) bool {
	if name == "" || g.HasAnimation(name) {
		return false
	}
	g.animations.Set(name, struct{}{})
	g.notify(func(l Listener) { l.OnAnimationAdded(name) })
	return true
}

// SetAnimation activates name on every node, creating single-keyframe
// tracks where a node has none. Fails for empty or undeclared names.
func (g *Graph) SetAnimation(name string) bool {
	if name == "" || !g.HasAnimation(name) {
		logger.Debug("could not set animation", "animation", name)
		return false
	}
	g.activeAnimation = name
	for _, n := range g.nodes {
		n.setAnimation(name)
	}
	g.markMaxFramesDirty()
	g.UpdateTransforms()
	return true
}

// RemoveAnimation drops name from the graph and from every node. Removing
// the last animation recreates DefaultAnimation; removing the active one
// activates the first remaining.
func (g *Graph) RemoveAnimation(name string) bool {
	if !g.animations.DeleteByKey(name) {
		return false
	}
	for _, n := range g.nodes {
		n.removeAnimation(name)
	}
	g.notify(func(l Listener) { l.OnAnimationRemoved(name) })
	switch {
	case g.animations.Len() == 0:
		g.AddAnimation(DefaultAnimation)
		g.SetAnimation(DefaultAnimation)
	case g.activeAnimation == name:
		g.SetAnimation(g.animations.Keys[0])
	default:
		g.markMaxFramesDirty()
	}
	return true
}

// DuplicateAnimation declares to as a copy of from on every node.
func (g *Graph) DuplicateAnimation(from, to string) bool {
	if !g.HasAnimation(from) || to == "" || g.HasAnimation(to) {
		return false
	}
	for _, n := range g.nodes {
		if !n.DuplicateKeyFrames(from, to) {
			// node without a track for from gets a fresh one
			n.tracks.Set(to, defaultTrack())
		}
	}
	g.AddAnimation(to)
	g.UpdateTransforms()
	return true
}

// SetAnimations replaces the list of declared names. Nodes keep their
// tracks; an empty list resets to DefaultAnimation.
func (g *Graph) SetAnimations(names []string) bool {
	g.animations.Reset()
	for _, name := range names {
		if name != "" {
			g.animations.Set(name, struct{}{})
		}
	}
	if g.animations.Len() == 0 {
		g.animations.Set(DefaultAnimation, struct{}{})
	}
	if !g.HasAnimation(g.activeAnimation) {
		return g.SetAnimation(g.animations.Keys[0])
	}
	return true
}

// HasAnimations reports whether any node has more than one keyframe in any
// track.
func (g *Graph) HasAnimations() bool {
	for _, n := range g.nodes {
		for _, kfs := range n.tracks.Values {
			if len(kfs) > 1 {
				return true
			}
		}
	}
	return false
}

// MaxFrames returns the highest keyframe frame of the active animation over
// all nodes. The value is cached until a structural or keyframe change
// through the graph; edits made directly on a Node need MarkMaxFramesDirty.
func (g *Graph) MaxFrames() FrameIndex {
	if g.cachedMaxFrame < 0 {
		maxFrame := 0
		for _, n := range g.nodes {
			maxFrame = max(maxFrame, n.MaxFrame())
		}
		g.cachedMaxFrame = maxFrame
	}
	return g.cachedMaxFrame
}

// MarkMaxFramesDirty drops the cached MaxFrames value.
func (g *Graph) MarkMaxFramesDirty() {
	g.markMaxFramesDirty()
}

func (g *Graph) markMaxFramesDirty() {
	g.cachedMaxFrame = -1
}
