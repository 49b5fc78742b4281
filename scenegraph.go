package scenegraph

import "errors"

// InvalidNodeID is the sentinel for "no node". The root always has id 0.
const InvalidNodeID = -1

// InvalidKeyFrame is returned by keyframe operations that did not produce an
// index.
const InvalidKeyFrame = -1

// DefaultAnimation is the animation every graph starts with.
const DefaultAnimation = "Default"

// FrameIndex is a position on the animation timeline.
type FrameIndex = int

// KeyFrameIndex is a position inside a node's keyframe track.
type KeyFrameIndex = int

// NodeType selects how a Node behaves. The last two values are filters for
// iteration and never appear on a node.
type NodeType uint8

const (
	NodeTypeRoot           NodeType = iota // single top-level node, id 0
	NodeTypeModel                          // owns a voxel volume
	NodeTypeModelReference                 // aliases the volume of a model node
	NodeTypeGroup                          // structural node without content
	NodeTypeCamera                         // viewpoint
	NodeTypePoint                          // named position, e.g. an attachment slot
	NodeTypeUnknown

	NodeTypeAllModels // filter: Model and ModelReference
	NodeTypeAll       // filter: every node
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeRoot:
		return "Root"
	case NodeTypeModel:
		return "Model"
	case NodeTypeModelReference:
		return "ModelReference"
	case NodeTypeGroup:
		return "Group"
	case NodeTypeCamera:
		return "Camera"
	case NodeTypePoint:
		return "Point"
	case NodeTypeAllModels:
		return "AllModels"
	case NodeTypeAll:
		return "All"
	default:
		return "Unknown"
	}
}

// Matches reports whether a node of type t passes the filter.
func (t NodeType) Matches(filter NodeType) bool {
	switch filter {
	case NodeTypeAll:
		return true
	case NodeTypeAllModels:
		return t == NodeTypeModel || t == NodeTypeModelReference
	default:
		return t == filter
	}
}

// Errors returned by Graph.Emplace.
var (
	ErrSecondRoot       = errors.New("scenegraph: graph already has a root node")
	ErrParentNotFound   = errors.New("scenegraph: parent node not found")
	ErrMissingVolume    = errors.New("scenegraph: model node without volume")
	ErrMissingReference = errors.New("scenegraph: reference node points to no model node")
)
