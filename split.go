package scenegraph

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/scenegraph/voxel"
)

// SplitConfig controls SplitVolumes.
type SplitConfig struct {
	// MaxSize is the largest tile extent per axis. Every component must be
	// positive.
	MaxSize voxel.Point
	// Crop trims every tile to its solid cells.
	Crop bool
	// CreateEmpty keeps tiles without solid cells.
	CreateEmpty bool
	// SkipHidden leaves invisible model nodes untouched.
	SkipHidden bool
}

// SplitVolumes replaces every model node whose volume exceeds cfg.MaxSize
// with one model node per tile. Tiles keep the keyframes of the original
// node and a pivot that maps to the same volume position. Children move
// below the first non-empty tile and each reference to a split node turns
// into one reference per tile. Returns whether any node was split.
func (g *Graph) SplitVolumes(cfg SplitConfig) bool {
	split := false
	for _, n := range g.Nodes(NodeTypeModel) {
		if cfg.SkipHidden && !n.Visible {
			continue
		}
		region := n.Region()
		if !region.IsValid() {
			logger.Warn("skipping node with invalid region", "node", n.Name, "id", n.id)
			continue
		}
		if region.Dimensions().LessEqual(cfg.MaxSize) {
			continue
		}
		if g.splitNode(n, cfg) {
			split = true
		}
	}
	if split {
		g.UpdateTransforms()
	}
	return split
}

func (g *Graph) splitNode(n *Node, cfg SplitConfig) bool {
	tiles := voxel.Split(n.volume, cfg.MaxSize, cfg.CreateEmpty)
	if len(tiles) == 0 {
		logger.Debug("nothing to split", "node", n.Name, "id", n.id)
		return false
	}
	pivot := pivotOffset(n.Region(), n.pivot)

	ids := make([]int, 0, len(tiles))
	anchor := InvalidNodeID
	for i, tile := range tiles {
		if cfg.Crop {
			if cropped := voxel.Crop(tile); cropped != nil {
				tile = cropped
			}
		}
		tn := NewNode(NodeTypeModel, "")
		copyNodeMeta(n, tn, true)
		tn.Name = fmt.Sprintf("%s %d", n.Name, i)
		tn.SetVolume(tile, true)
		tn.pivot = tilePivot(pivot, tile.Region())
		id, err := g.Emplace(tn, n.parent)
		if err != nil {
			logger.Error("failed to add split node", "node", n.Name, "error", err)
			continue
		}
		ids = append(ids, id)
		if anchor == InvalidNodeID && !tile.IsEmpty() {
			anchor = id
		}
	}
	if len(ids) == 0 {
		return false
	}
	if anchor == InvalidNodeID {
		anchor = ids[0]
	}

	for _, c := range slices.Clone(n.children) {
		g.ChangeParent(c, anchor, false)
	}
	for _, r := range g.Nodes(NodeTypeModelReference) {
		if r.reference != n.id {
			continue
		}
		r.reference = ids[0]
		for _, id := range ids[1:] {
			ref := NewReferenceNode("", id)
			copyNodeMeta(r, ref, true)
			ref.Name = fmt.Sprintf("%s %s", r.Name, g.nodes[id].Name)
			if _, err := g.Emplace(ref, r.parent); err != nil {
				logger.Error("failed to add reference for split node", "reference", r.id, "error", err)
			}
		}
	}
	if g.activeNodeID == n.id {
		g.activeNodeID = anchor
	}
	g.RemoveNode(n.id, false)
	return true
}

// tilePivot returns the normalized pivot for a tile so that the same volume
// position maps to the node's translation.
func tilePivot(offset mgl64.Vec3, tile voxel.Region) mgl64.Vec3 {
	d := tile.Dimensions()
	return mgl64.Vec3{
		offset[0] / float64(d.X),
		offset[1] / float64(d.Y),
		offset[2] / float64(d.Z),
	}
}
