package scenegraph

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/scenegraph/palette"
	"github.com/phanxgames/scenegraph/voxel"
)

// maxReferenceDepth bounds reference chains so a cycle cannot hang a lookup.
const maxReferenceDepth = 64

// resolveModel follows references from n to the model node providing its
// content. Returns nil for nodes without content, dangling references and
// chains longer than maxReferenceDepth.
func (g *Graph) resolveModel(n *Node) *Node {
	start := n
	for depth := 0; n != nil && n.typ == NodeTypeModelReference; depth++ {
		if depth >= maxReferenceDepth {
			logger.Error("reference chain too long or cyclic", "id", start.id)
			return nil
		}
		n = g.nodes[n.reference]
	}
	if n == nil || n.typ != NodeTypeModel {
		return nil
	}
	return n
}

// ResolveVolume returns the volume n renders, following references.
func (g *Graph) ResolveVolume(n *Node) *voxel.RawVolume {
	if m := g.resolveModel(n); m != nil {
		return m.volume
	}
	return nil
}

// ResolveRegion returns the region of the volume n renders.
func (g *Graph) ResolveRegion(n *Node) voxel.Region {
	if m := g.resolveModel(n); m != nil {
		return m.Region()
	}
	return voxel.InvalidRegion
}

// ResolvePivot returns the pivot of the model n renders, n's own pivot if
// there is none.
func (g *Graph) ResolvePivot(n *Node) mgl64.Vec3 {
	if m := g.resolveModel(n); m != nil {
		return m.pivot
	}
	return n.pivot
}

// ResolvePalette returns the palette of the model n renders. Models without
// a palette of their own use the built-in one.
func (g *Graph) ResolvePalette(n *Node) palette.Palette {
	if m := g.resolveModel(n); m != nil && m.palette != nil {
		return *m.palette
	}
	return palette.Builtin()
}

// CreateReferenceNode adds a reference to the model nodeID below parent,
// or below the model's own parent if parent is invalid. The reference
// copies name, colour, pivot, palette and every keyframe. Referenceable
// children are mirrored as nested references; other children are skipped
// with a warning. Returns the id of the new top-level reference.
func (g *Graph) CreateReferenceNode(nodeID, parent int) int {
	src, ok := g.nodes[nodeID]
	if !ok || !src.IsReferenceable() {
		logger.Debug("node can't get referenced", "id", nodeID)
		return InvalidNodeID
	}
	if !g.HasNode(parent) {
		parent = src.parent
	}

	type job struct{ source, parent int }
	result := InvalidNodeID
	stack := []job{{nodeID, parent}}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := g.nodes[j.source]

		ref := NewReferenceNode(s.Name+" reference", s.id)
		ref.Color = s.Color
		ref.pivot = s.pivot
		if s.palette != nil {
			ref.SetPalette(*s.palette)
		}
		ref.SetAllKeyFrames(&s.tracks, s.animation)
		id, err := g.Emplace(ref, j.parent)
		if err != nil {
			logger.Error("failed to add reference node", "source", s.id, "error", err)
			continue
		}
		if result == InvalidNodeID {
			result = id
		}
		children := slices.Clone(s.children)
		for i := len(children) - 1; i >= 0; i-- {
			c := g.nodes[children[i]]
			if !c.IsReferenceable() {
				logger.Warn("skipping child that can't be referenced", "id", c.id, "type", c.typ)
				continue
			}
			stack = append(stack, job{c.id, id})
		}
	}
	g.UpdateTransforms()
	return result
}
