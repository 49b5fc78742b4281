package scenegraph

import (
	"slices"
)

// copyNodeMeta copies everything except hierarchy, id, type and content.
func copyNodeMeta(src, dst *Node, copyKeyFrames bool) {
	dst.Name = src.Name
	dst.Visible = src.Visible
	dst.Locked = src.Locked
	dst.Color = src.Color
	dst.pivot = src.pivot
	dst.properties.Reset()
	dst.AddProperties(src)
	if src.palette != nil {
		dst.SetPalette(*src.palette)
	}
	if src.ik != nil {
		ik := *src.ik
		ik.SwingLimits = slices.Clone(src.ik.SwingLimits)
		dst.ik = &ik
	}
	if copyKeyFrames {
		dst.SetAllKeyFrames(&src.tracks, src.animation)
	}
}

// CopyNode returns a detached copy of src. With copyVolume the copy owns a
// clone of the volume, otherwise it shares src's volume without owning it.
// The root is copied as a group node.
func CopyNode(src *Node, copyVolume, copyKeyFrames bool) *Node {
	typ := src.typ
	if typ == NodeTypeRoot {
		typ = NodeTypeGroup
	}
	dst := NewNode(typ, src.Name)
	copyNodeMeta(src, dst, copyKeyFrames)
	dst.reference = src.reference
	if typ == NodeTypeModel && src.volume != nil {
		if copyVolume {
			dst.SetVolume(src.volume.Clone(), true)
		} else {
			dst.SetVolume(src.volume, false)
		}
	}
	return dst
}

// CopyNodeToGraph copies node id of src below parent in dst. With
// recursive the whole subtree is copied. Returns the new id.
func CopyNodeToGraph(dst, src *Graph, id, parent int, recursive bool) int {
	idMap := transferNodes(dst, src, []int{id}, parent, recursive, false)
	if newID, ok := idMap[id]; ok {
		return newID
	}
	return InvalidNodeID
}

// MoveNodeToGraph adds a copy of n below parent in dst and hands it the
// ownership of n's volume.
func MoveNodeToGraph(dst *Graph, n *Node, parent int) int {
	c := CopyNode(n, false, true)
	if n.typ == NodeTypeModel && n.ownsVolume {
		c.SetVolume(n.volume, true)
		n.ReleaseOwnership()
	}
	if !dst.HasNode(parent) {
		parent = 0
	}
	id, err := dst.Emplace(c, parent)
	if err != nil {
		logger.Error("failed to move node", "node", n.Name, "error", err)
		return InvalidNodeID
	}
	return id
}

// AddGraphNodes moves every node of src below parent in dst. Volume
// ownership passes to dst. Returns the number of model nodes added.
func AddGraphNodes(dst, src *Graph, parent int) int {
	dst.addAnimationsOf(src)
	idMap := transferNodes(dst, src, src.Root().children, parent, true, true)
	models := 0
	for _, id := range idMap {
		if dst.nodes[id].IsAnyModel() {
			models++
		}
	}
	return models
}

// CopyGraph deep copies every node of src below parent in dst. References
// between copied nodes are redirected to the copies. Returns the new ids of
// the nodes that were direct children of src's root.
func CopyGraph(dst, src *Graph, parent int) []int {
	dst.addAnimationsOf(src)
	top := src.Root().children
	idMap := transferNodes(dst, src, top, parent, true, false)
	out := make([]int, 0, len(top))
	for _, id := range top {
		if newID, ok := idMap[id]; ok {
			out = append(out, newID)
		}
	}
	return out
}

func (g *Graph) addAnimationsOf(src *Graph) {
	for _, name := range src.animations.Keys {
		g.AddAnimation(name)
	}
}

// transferNodes copies or moves the given nodes of src below parent in dst
// and returns the mapping of source to destination ids. References pointing
// outside the copied set stay as they are within one graph; across graphs
// they are turned into models holding a copy of the referenced volume.
func transferNodes(dst, src *Graph, ids []int, parent int, recursive, move bool) map[int]int {
	if !dst.HasNode(parent) {
		parent = 0
	}
	type job struct{ source, parent int }
	stack := make([]job, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		stack = append(stack, job{ids[i], parent})
	}
	idMap := make(map[int]int)
	var added []int
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s, ok := src.nodes[j.source]
		if !ok {
			continue
		}
		// snapshot before dst grows, src and dst may be the same graph
		children := slices.Clone(s.children)

		n := CopyNode(s, !move, true)
		if move && s.typ == NodeTypeModel && s.ownsVolume {
			n.SetVolume(s.volume, true)
			s.ReleaseOwnership()
		}
		id, err := dst.emplace(n, j.parent, false)
		if err != nil {
			logger.Error("failed to copy node", "node", s.Name, "id", s.id, "error", err)
			continue
		}
		idMap[s.id] = id
		added = append(added, id)
		if recursive {
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, job{children[i], id})
			}
		}
	}

	for _, id := range added {
		n := dst.nodes[id]
		if n.ik != nil {
			if eff, ok := idMap[n.ik.EffectorNodeID]; ok {
				n.ik.EffectorNodeID = eff
			} else if dst != src {
				n.ik.EffectorNodeID = InvalidNodeID
			}
		}
		if n.typ != NodeTypeModelReference {
			continue
		}
		if ref, ok := idMap[n.reference]; ok {
			n.reference = ref
			continue
		}
		if dst == src {
			continue
		}
		model, ok := src.nodes[n.reference]
		if !ok || !n.Unreference(model) {
			logger.Warn("dropping reference to node outside the copied graph", "id", id, "reference", n.reference)
			n.typ = NodeTypeGroup
			n.reference = InvalidNodeID
		}
	}
	dst.regionDirty = true
	dst.UpdateTransforms()
	return idMap
}
