package scenegraph

import (
	"fmt"
	"maps"
	"slices"

	"cogentcore.org/core/base/keylist"

	"github.com/phanxgames/scenegraph/palette"
	"github.com/phanxgames/scenegraph/voxel"
)

// Graph owns every node of a scene, indexed by id. Node 0 is the root and
// always exists. A Graph is not safe for concurrent mutation.
type Graph struct {
	nodes        map[int]*Node
	nextID       int
	activeNodeID int

	animations      keylist.List[string, struct{}]
	activeAnimation string
	cachedMaxFrame  FrameIndex

	region      voxel.Region
	regionDirty bool

	listeners []Listener
	debug     bool
}

// NewGraph creates a graph holding only the root node.
func NewGraph() *Graph {
	g := &Graph{}
	g.Clear()
	return g
}

// Clear drops every node and animation and recreates the root.
func (g *Graph) Clear() {
	for _, n := range g.nodes {
		n.release()
	}
	g.nodes = make(map[int]*Node)
	g.activeNodeID = InvalidNodeID
	g.animations.Reset()
	g.animations.Set(DefaultAnimation, struct{}{})
	g.activeAnimation = DefaultAnimation
	g.cachedMaxFrame = -1
	g.region = voxel.InvalidRegion
	g.regionDirty = false

	root := NewNode(NodeTypeRoot, "root")
	root.id = 0
	g.nodes[0] = root
	g.nextID = 1
}

// SetDebugMode enables extra consistency checks: tree depth and child count
// warnings, and a panic when a track loses its last keyframe.
func (g *Graph) SetDebugMode(enabled bool) {
	g.debug = enabled
	globalDebug = enabled
}

// --- Node access ---

// Root returns the root node.
func (g *Graph) Root() *Node {
	return g.nodes[0]
}

// HasNode reports whether id is part of the graph.
func (g *Graph) HasNode(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given id. Panics if it does not exist.
func (g *Graph) Node(id int) *Node {
	n, ok := g.nodes[id]
	if !ok {
		panic(fmt.Sprintf("scenegraph: node %d does not exist", id))
	}
	return n
}

// Lookup returns the node with the given id, false if missing.
func (g *Graph) Lookup(id int) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns the nodes passing filter in ascending id order.
func (g *Graph) Nodes(filter NodeType) []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		if n := g.nodes[id]; n.typ.Matches(filter) {
			out = append(out, n)
		}
	}
	return out
}

// Size returns the number of nodes passing filter.
func (g *Graph) Size(filter NodeType) int {
	count := 0
	for _, n := range g.nodes {
		if n.typ.Matches(filter) {
			count++
		}
	}
	return count
}

// Empty reports whether no node passes filter.
func (g *Graph) Empty(filter NodeType) bool {
	for _, n := range g.nodes {
		if n.typ.Matches(filter) {
			return false
		}
	}
	return true
}

// VisitChildren calls fn for the children of id, depth first when recursive.
func (g *Graph) VisitChildren(id int, recursive bool, fn func(n *Node)) {
	stack := slices.Clone(g.Node(id).children)
	slices.Reverse(stack)
	for len(stack) > 0 {
		child := g.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		fn(child)
		if recursive {
			for i := len(child.children) - 1; i >= 0; i-- {
				stack = append(stack, child.children[i])
			}
		}
	}
}

// FindNodeByName returns the node with the lowest id named name.
func (g *Graph) FindNodeByName(name string) *Node {
	for _, n := range g.Nodes(NodeTypeAll) {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// FindNodeByProperty returns the node with the lowest id whose property key
// equals value.
func (g *Graph) FindNodeByProperty(key, value string) *Node {
	for _, n := range g.Nodes(NodeTypeAll) {
		if n.HasProperty(key) && n.Property(key) == value {
			return n
		}
	}
	return nil
}

// FirstModelNode returns the model node with the lowest id, nil if none.
func (g *Graph) FirstModelNode() *Node {
	if models := g.Nodes(NodeTypeModel); len(models) > 0 {
		return models[0]
	}
	return nil
}

// FirstPalette returns the palette of the first model node, the built-in
// palette if there is none.
func (g *Graph) FirstPalette() palette.Palette {
	if n := g.FirstModelNode(); n != nil {
		return g.ResolvePalette(n)
	}
	return palette.Builtin()
}

// ActiveNode returns the id of the node the user is working on.
func (g *Graph) ActiveNode() int {
	return g.activeNodeID
}

// SetActiveNode fails if id does not exist.
func (g *Graph) SetActiveNode(id int) bool {
	if !g.HasNode(id) {
		return false
	}
	g.activeNodeID = id
	return true
}

// PrevModelNode returns the closest model sibling before id, or the parent
// if it is a model.
func (g *Graph) PrevModelNode(id int) int {
	n, ok := g.nodes[id]
	if !ok || n.parent == InvalidNodeID {
		return InvalidNodeID
	}
	parent := g.nodes[n.parent]
	last := InvalidNodeID
	for _, c := range parent.children {
		if c == id {
			if last != InvalidNodeID {
				return last
			}
			break
		}
		if g.nodes[c].IsAnyModel() {
			last = c
		}
	}
	if parent.IsAnyModel() {
		return parent.id
	}
	return InvalidNodeID
}

// NextModelNode returns the closest model sibling after id, falling back to
// the next model node by id.
func (g *Graph) NextModelNode(id int) int {
	n, ok := g.nodes[id]
	if !ok || n.parent == InvalidNodeID {
		return InvalidNodeID
	}
	found := false
	for _, c := range g.nodes[n.parent].children {
		if c == id {
			found = true
			continue
		}
		if found && g.nodes[c].IsAnyModel() {
			return c
		}
	}
	for _, m := range g.Nodes(NodeTypeAllModels) {
		if m.id > id {
			return m.id
		}
	}
	return InvalidNodeID
}

// --- Structural edits ---

// Emplace adds a detached node under parent and returns its new id. The
// node's active track follows the graph's active animation and an empty
// name becomes "node <id>".
func (g *Graph) Emplace(n *Node, parent int) (int, error) {
	return g.emplace(n, parent, true)
}

// emplace skips the reference check unless checkReference is set, for
// copies whose references are remapped afterwards.
func (g *Graph) emplace(n *Node, parent int, checkReference bool) (int, error) {
	switch {
	case n.typ == NodeTypeRoot:
		return InvalidNodeID, ErrSecondRoot
	case n.typ == NodeTypeModel && n.volume == nil:
		return InvalidNodeID, ErrMissingVolume
	case checkReference && n.typ == NodeTypeModelReference && !g.referenceable(n.reference):
		return InvalidNodeID, fmt.Errorf("%w: %d", ErrMissingReference, n.reference)
	}
	if n.id != InvalidNodeID {
		panic("scenegraph: node is already part of a graph")
	}
	p, ok := g.nodes[parent]
	if !ok {
		return InvalidNodeID, fmt.Errorf("%w: %d", ErrParentNotFound, parent)
	}

	id := g.nextID
	g.nextID++
	n.id = id
	n.parent = parent
	if n.Name == "" {
		n.Name = fmt.Sprintf("node %d", id)
	}
	n.setAnimation(g.activeAnimation)
	g.nodes[id] = n
	p.addChild(id)
	g.resolveNode(n)
	if g.activeNodeID == InvalidNodeID && n.IsAnyModel() {
		g.activeNodeID = id
	}
	if n.typ == NodeTypeModel {
		g.regionDirty = true
	}
	g.markMaxFramesDirty()
	if g.debug {
		g.debugCheckTreeDepth(n)
	}
	logger.Debug("added node", "id", id, "type", n.typ, "parent", parent)
	g.notify(func(l Listener) { l.OnNodeAdded(id) })
	return id, nil
}

// referenceable reports whether id names a node a reference can point at.
func (g *Graph) referenceable(id int) bool {
	target, ok := g.nodes[id]
	return ok && target.IsAnyModel()
}

// RemoveNode deletes id. With recursive the whole subtree goes, otherwise
// the children move up to the removed node's parent. Removing the root
// clears the graph.
func (g *Graph) RemoveNode(id int, recursive bool) bool {
	n, ok := g.nodes[id]
	if !ok {
		logger.Debug("could not remove node: not found", "id", id)
		return false
	}
	if n.typ == NodeTypeRoot {
		g.Clear()
		return true
	}
	parent := g.nodes[n.parent]
	parent.removeChild(id)

	if recursive {
		removed := []int{id}
		g.VisitChildren(id, true, func(c *Node) { removed = append(removed, c.id) })
		for _, rid := range removed {
			g.deleteNode(rid)
		}
	} else {
		for _, c := range n.children {
			g.nodes[c].parent = parent.id
			parent.addChild(c)
			g.markSubtreeParentDirty(c)
		}
		n.children = nil
		g.deleteNode(id)
	}

	if !g.HasNode(g.activeNodeID) {
		if first := g.FirstModelNode(); first != nil {
			g.activeNodeID = first.id
		} else {
			g.activeNodeID = 0
		}
	}
	g.markMaxFramesDirty()
	return true
}

func (g *Graph) deleteNode(id int) {
	n := g.nodes[id]
	g.notify(func(l Listener) { l.OnNodeRemoved(id) })
	if n.typ == NodeTypeModel {
		g.regionDirty = true
	}
	n.release()
	n.id = InvalidNodeID
	n.parent = InvalidNodeID
	delete(g.nodes, id)
}

// isDescendant reports whether id lies in the subtree below ancestor.
func (g *Graph) isDescendant(ancestor, id int) bool {
	for n := g.nodes[id]; n != nil && n.parent != InvalidNodeID; n = g.nodes[n.parent] {
		if n.parent == ancestor {
			return true
		}
	}
	return false
}

// CanChangeParent reports whether id may be moved below newParent.
func (g *Graph) CanChangeParent(id, newParent int) bool {
	if id == 0 || id == newParent || !g.HasNode(id) || !g.HasNode(newParent) {
		return false
	}
	return !g.isDescendant(id, newParent)
}

// ChangeParent moves id below newParent. With preserveWorld every keyframe
// of every animation gets new local values so the world pose is unchanged;
// otherwise local values are kept and the world pose follows the new
// parent. Fails for the root, unknown ids and moves that would create a
// cycle.
func (g *Graph) ChangeParent(id, newParent int, preserveWorld bool) bool {
	if !g.CanChangeParent(id, newParent) {
		logger.Debug("refusing to change parent", "id", id, "parent", newParent)
		return false
	}
	n := g.nodes[id]
	if n.parent == newParent {
		return true
	}
	if preserveWorld {
		g.UpdateTransforms()
	}
	g.nodes[n.parent].removeChild(id)
	g.nodes[newParent].addChild(id)
	n.parent = newParent

	if preserveWorld {
		n.eachTransform(func(t *Transform) {
			t.dirty = WorldDirty
		})
	} else {
		n.eachTransform(func(t *Transform) {
			t.MarkDirtyParent()
		})
	}
	g.UpdateTransforms()
	if g.debug {
		g.debugCheckTreeDepth(n)
	}
	g.notify(func(l Listener) { l.OnNodeChangedParent(id) })
	return true
}

// resolveNode brings every keyframe of n up to date with its parent.
func (g *Graph) resolveNode(n *Node) {
	for ti, animation := range n.tracks.Keys {
		kfs := n.tracks.Values[ti]
		for i := range kfs {
			t := &kfs[i].transform
			t.MarkDirtyParent()
			t.resolve(g, n, animation, kfs[i].frame)
		}
	}
}

// markSubtreeParentDirty flags every keyframe below and including id.
func (g *Graph) markSubtreeParentDirty(id int) {
	mark := func(n *Node) {
		n.eachTransform(func(t *Transform) { t.MarkDirtyParent() })
	}
	mark(g.nodes[id])
	g.VisitChildren(id, true, mark)
}

// SetAllKeyFramesForNode replaces every track of n and flags all
// descendants for recomputation.
func (g *Graph) SetAllKeyFramesForNode(n *Node, tracks *Tracks) {
	n.SetAllKeyFrames(tracks, g.activeAnimation)
	g.VisitChildren(n.id, true, func(c *Node) {
		c.eachTransform(func(t *Transform) { t.MarkDirtyParent() })
	})
	g.markMaxFramesDirty()
}

// AddKeyFrame adds a keyframe to node id in the active animation.
func (g *Graph) AddKeyFrame(id int, frame FrameIndex) KeyFrameIndex {
	idx := g.Node(id).AddKeyFrame(frame)
	if idx != InvalidKeyFrame {
		g.markMaxFramesDirty()
	}
	return idx
}

// RemoveKeyFrame removes the keyframe of node id active at frame.
func (g *Graph) RemoveKeyFrame(id int, frame FrameIndex) bool {
	if !g.Node(id).RemoveKeyFrame(frame) {
		return false
	}
	g.markMaxFramesDirty()
	g.markSubtreeParentDirty(id)
	return true
}

// --- Regions ---

// Region returns the union of all model volumes in volume space.
func (g *Graph) Region() voxel.Region {
	if g.regionDirty {
		g.region = voxel.InvalidRegion
		for _, n := range g.Nodes(NodeTypeModel) {
			g.region = g.region.Union(n.Region())
		}
		g.regionDirty = false
	}
	return g.region
}

// MarkRegionDirty must be called after resizing a volume in place.
func (g *Graph) MarkRegionDirty() {
	g.regionDirty = true
}

// MaxRegion returns the region of the model with the most voxels.
func (g *Graph) MaxRegion() voxel.Region {
	best := voxel.InvalidRegion
	for _, n := range g.Nodes(NodeTypeModel) {
		if r := n.Region(); r.Voxels() > best.Voxels() {
			best = r
		}
	}
	return best
}
