package scenegraph

import (
	"image/color"
	"slices"
	"strconv"

	"cogentcore.org/core/base/keylist"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/scenegraph/palette"
	"github.com/phanxgames/scenegraph/voxel"
)

// MaxProperties bounds the number of properties per node.
const MaxProperties = 64

// Node is the scene graph element. A single flat struct is used for all node
// types; behavior is keyed on Type. Parent and children are stored as ids
// and resolved through the owning Graph.
type Node struct {
	// Identity
	Name string
	id   int
	typ  NodeType

	// Hierarchy
	parent   int
	children []int

	// Content
	volume     *voxel.RawVolume
	ownsVolume bool
	reference  int
	palette    *palette.Palette

	// Display
	Visible bool
	Locked  bool
	Color   color.RGBA
	pivot   mgl64.Vec3

	// Metadata
	properties keylist.List[string, string]

	// Animation
	animation string
	tracks    Tracks

	ik *IKConstraint
}

// NewNode creates a detached node of the given type with a single default
// keyframe in the default animation. Panics on filter types.
func NewNode(typ NodeType, name string) *Node {
	if typ >= NodeTypeUnknown {
		panic("scenegraph: cannot create node of type " + typ.String())
	}
	n := &Node{
		Name:      name,
		id:        InvalidNodeID,
		typ:       typ,
		parent:    InvalidNodeID,
		reference: InvalidNodeID,
		Visible:   true,
		Color:     color.RGBA{255, 255, 255, 255},
	}
	n.setAnimation(DefaultAnimation)
	return n
}

// NewModelNode creates a model node that takes ownership of volume.
func NewModelNode(name string, volume *voxel.RawVolume) *Node {
	n := NewNode(NodeTypeModel, name)
	n.SetVolume(volume, true)
	return n
}

// NewReferenceNode creates a node aliasing the model with id reference.
func NewReferenceNode(name string, reference int) *Node {
	n := NewNode(NodeTypeModelReference, name)
	n.reference = reference
	return n
}

// ID returns the graph-assigned id, InvalidNodeID while detached.
func (n *Node) ID() int {
	return n.id
}

// Type returns the node type.
func (n *Node) Type() NodeType {
	return n.typ
}

// Parent returns the parent id, InvalidNodeID for the root.
func (n *Node) Parent() int {
	return n.parent
}

// Children returns the child ids. The returned slice MUST NOT be mutated by
// the caller.
func (n *Node) Children() []int {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

func (n *Node) IsModel() bool     { return n.typ == NodeTypeModel }
func (n *Node) IsReference() bool { return n.typ == NodeTypeModelReference }
func (n *Node) IsAnyModel() bool  { return n.typ.Matches(NodeTypeAllModels) }

// IsReferenceable reports whether reference nodes may point at n.
func (n *Node) IsReferenceable() bool {
	return n.typ == NodeTypeModel
}

func (n *Node) addChild(id int) bool {
	if slices.Contains(n.children, id) {
		return false
	}
	n.children = append(n.children, id)
	if globalDebug {
		debugCheckChildCount(n)
	}
	return true
}

func (n *Node) removeChild(id int) bool {
	i := slices.Index(n.children, id)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	return true
}

// --- Volume ---

// Volume returns the node's own volume, nil for non-model nodes. Use
// Graph.ResolveVolume to follow references.
func (n *Node) Volume() *voxel.RawVolume {
	return n.volume
}

// OwnsVolume reports whether the node is responsible for its volume.
func (n *Node) OwnsVolume() bool {
	return n.ownsVolume
}

// SetVolume attaches v. With transferOwnership the node becomes the owner;
// otherwise it only holds a view. Panics on non-model nodes.
func (n *Node) SetVolume(v *voxel.RawVolume, transferOwnership bool) {
	if n.typ != NodeTypeModel {
		panic("scenegraph: volume set on node of type " + n.typ.String())
	}
	n.release()
	n.volume = v
	n.ownsVolume = transferOwnership && v != nil
}

// ReleaseOwnership keeps the volume attached but hands ownership to the
// caller.
func (n *Node) ReleaseOwnership() {
	n.ownsVolume = false
}

// release detaches the volume.
func (n *Node) release() {
	n.volume = nil
	n.ownsVolume = false
}

// Region returns the extent of the node's own volume, InvalidRegion if it
// has none.
func (n *Node) Region() voxel.Region {
	if n.volume == nil {
		return voxel.InvalidRegion
	}
	return n.volume.Region()
}

// --- Reference ---

// Reference returns the id of the aliased node, InvalidNodeID if none.
func (n *Node) Reference() int {
	return n.reference
}

// SetReference points the node at id. A non-reference node is converted
// only if force is set, dropping its volume.
func (n *Node) SetReference(id int, force bool) bool {
	if n.typ != NodeTypeModelReference {
		if !force {
			return false
		}
		if n.typ == NodeTypeModel {
			n.release()
		}
		n.typ = NodeTypeModelReference
	}
	n.reference = id
	return true
}

// Unreference turns a reference node into a model node holding a copy of
// model's volume and palette. model must be the referenced node.
func (n *Node) Unreference(model *Node) bool {
	if n.typ != NodeTypeModelReference {
		logger.Error("failed to unreference: not a reference node", "id", n.id)
		return false
	}
	if model.typ != NodeTypeModel || model.volume == nil {
		logger.Error("failed to unreference: target is no model node", "id", model.id)
		return false
	}
	if model.id != n.reference {
		logger.Error("failed to unreference: node was not referenced", "id", model.id, "expected", n.reference)
		return false
	}
	n.typ = NodeTypeModel
	n.reference = InvalidNodeID
	n.SetVolume(model.volume.Clone(), true)
	if model.palette != nil {
		n.SetPalette(*model.palette)
	}
	return true
}

// --- Palette ---

// HasPalette reports whether the node carries its own palette.
func (n *Node) HasPalette() bool {
	return n.palette != nil
}

// Palette returns the node's own palette, nil if none. Use
// Graph.ResolvePalette for the effective one.
func (n *Node) Palette() *palette.Palette {
	return n.palette
}

// SetPalette stores a copy of p.
func (n *Node) SetPalette(p palette.Palette) {
	n.palette = &p
}

// RemoveUnusedColors drops palette entries no voxel refers to. With reindex
// the palette is compacted and the volume remapped; otherwise unused
// entries are greyed out in place.
func (n *Node) RemoveUnusedColors(reindex bool) bool {
	if n.volume == nil || n.palette == nil {
		return false
	}
	used := n.volume.UsedColors()
	count := 0
	for _, u := range used {
		if u {
			count++
		}
	}
	if count == 0 {
		logger.Warn("removing all colors from the palette is not allowed", "id", n.id)
		return false
	}
	if !reindex {
		for i := 0; i < n.palette.Size(); i++ {
			if !used[i] {
				n.palette.SetColor(i, color.RGBA{127, 127, 127, 255})
			}
		}
		return true
	}
	mapping := n.palette.RemoveUnused(used)
	v := n.volume
	v.Visit(func(x, y, z int, vx voxel.Voxel) {
		v.SetVoxel(x, y, z, voxel.Solid(mapping[vx.Color]))
	})
	return true
}

// --- Pivot ---

// Pivot returns the normalized pivot.
func (n *Node) Pivot() mgl64.Vec3 {
	return n.pivot
}

// SetPivot sets the normalized pivot. Fails for non-finite values.
func (n *Node) SetPivot(p mgl64.Vec3) bool {
	if !finite(p[0], p[1], p[2]) {
		return false
	}
	n.pivot = p
	return true
}

// WorldPivot returns the pivot scaled by the dimensions of the node's own
// region. This is the volume position that lands on the node's world
// translation.
func (n *Node) WorldPivot() mgl64.Vec3 {
	return pivotOffset(n.Region(), n.pivot)
}

func pivotOffset(r voxel.Region, pivot mgl64.Vec3) mgl64.Vec3 {
	if !r.IsValid() {
		return mgl64.Vec3{}
	}
	d := r.Dimensions()
	return mgl64.Vec3{
		pivot[0] * float64(d.X),
		pivot[1] * float64(d.Y),
		pivot[2] * float64(d.Z),
	}
}

// --- Properties ---

// Property returns the value for key, "" if missing.
func (n *Node) Property(key string) string {
	return n.properties.At(key)
}

// PropertyFloat parses the value for key, 0 if missing or malformed.
func (n *Node) PropertyFloat(key string) float64 {
	f, _ := strconv.ParseFloat(n.Property(key), 64)
	return f
}

// HasProperty reports whether key is set.
func (n *Node) HasProperty(key string) bool {
	return n.properties.IndexByKey(key) >= 0
}

// SetProperty stores key=value. Returns false if nothing changed: the value
// was already set or the node holds MaxProperties entries.
func (n *Node) SetProperty(key, value string) bool {
	if old, ok := n.properties.AtTry(key); ok {
		if old == value {
			return false
		}
	} else if n.properties.Len() >= MaxProperties {
		return false
	}
	n.properties.Set(key, value)
	return true
}

// NumProperties returns the number of stored properties.
func (n *Node) NumProperties() int {
	return n.properties.Len()
}

// VisitProperties calls fn for every property in insertion order.
func (n *Node) VisitProperties(fn func(key, value string)) {
	for i, k := range n.properties.Keys {
		fn(k, n.properties.Values[i])
	}
}

// AddProperties copies every property of other.
func (n *Node) AddProperties(other *Node) {
	other.VisitProperties(func(k, v string) {
		n.SetProperty(k, v)
	})
}

// --- Pose helpers across all keyframes ---

// LocalTranslate moves every keyframe of every animation by delta in local
// space.
func (n *Node) LocalTranslate(delta mgl64.Vec3) {
	n.eachTransform(func(t *Transform) {
		t.SetLocalTranslation(t.LocalTranslation().Add(delta))
	})
}

// SetTranslation sets the translation of every keyframe of every animation.
func (n *Node) SetTranslation(v mgl64.Vec3, world bool) {
	n.eachTransform(func(t *Transform) {
		if world {
			t.SetWorldTranslation(v)
		} else {
			t.SetLocalTranslation(v)
		}
	})
}

// SetRotation sets the orientation of every keyframe of every animation.
func (n *Node) SetRotation(q mgl64.Quat, world bool) {
	n.eachTransform(func(t *Transform) {
		if world {
			t.SetWorldOrientation(q)
		} else {
			t.SetLocalOrientation(q)
		}
	})
}

func (n *Node) eachTransform(fn func(t *Transform)) {
	for ti := range n.tracks.Values {
		kfs := n.tracks.Values[ti]
		for i := range kfs {
			fn(&kfs[i].transform)
		}
	}
}

// --- Validation ---

// Validate reports whether the node is consistent and logs the first problem.
func (n *Node) Validate() bool {
	switch {
	case n.typ == NodeTypeModel && n.volume == nil:
		logger.Error("model node has no volume", "node", n.Name, "id", n.id)
		return false
	case n.typ == NodeTypeModelReference && n.reference == InvalidNodeID:
		logger.Error("model reference node has no reference", "node", n.Name, "id", n.id)
		return false
	case len(n.KeyFrames()) == 0:
		logger.Error("node has no keyframes", "node", n.Name, "id", n.id, "animation", n.animation)
		return false
	}
	for ti, kfs := range n.tracks.Values {
		for _, kf := range kfs {
			if !kf.transform.Validate() {
				logger.Error("invalid keyframe", "frame", kf.frame, "animation", n.tracks.Keys[ti], "node", n.Name, "id", n.id)
				return false
			}
		}
	}
	return true
}

// FixErrors gives model nodes without volume an empty one, restores an empty
// active track and resets non-finite keyframe transforms.
func (n *Node) FixErrors() {
	if n.typ == NodeTypeModel && n.volume == nil {
		n.SetVolume(voxel.NewRawVolume(voxel.NewCubeRegion(1)), true)
	}
	if track := n.track(); track != nil && len(*track) == 0 {
		*track = defaultTrack()
	}
	n.eachTransform(func(t *Transform) {
		if !t.Validate() {
			*t = NewTransform()
		}
	})
}
