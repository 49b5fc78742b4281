package scenegraph

import (
	"github.com/phanxgames/scenegraph/palette"
	"github.com/phanxgames/scenegraph/voxel"
)

// MergePaletteConfig controls MergePalettes.
type MergePaletteConfig struct {
	// RemoveUnused ignores colours no voxel uses when the palettes only fit
	// after collapsing similar colours.
	RemoveUnused bool
	// EmptyIndex is kept free for air. Negative for none.
	EmptyIndex int
}

// DefaultMergePaletteConfig reserves no slot and keeps unused colours.
func DefaultMergePaletteConfig() MergePaletteConfig {
	return MergePaletteConfig{EmptyIndex: palette.ColorNotFound}
}

// HasMoreThanOnePalette reports whether the model nodes resolve to
// different palettes.
func (g *Graph) HasMoreThanOnePalette() bool {
	return g.differentPalettes(g.Nodes(NodeTypeAllModels))
}

func (g *Graph) differentPalettes(models []*Node) bool {
	if len(models) == 0 {
		return false
	}
	first := g.ResolvePalette(models[0])
	for _, n := range models[1:] {
		p := g.ResolvePalette(n)
		if !first.Equal(&p) {
			return true
		}
	}
	return false
}

// MergePalettes combines the palettes of all model nodes, visited by
// ascending id. Identical palettes are returned as is. If the union does
// not fit, the merge restarts and collapses similar colours.
func (g *Graph) MergePalettes(cfg MergePaletteConfig) palette.Palette {
	return g.mergePalettes(g.Nodes(NodeTypeAllModels), cfg)
}

// mergePalettes merges the palettes of models in the given order.
func (g *Graph) mergePalettes(models []*Node, cfg MergePaletteConfig) palette.Palette {
	if len(models) == 0 {
		return palette.Builtin()
	}
	if !g.differentPalettes(models) {
		return g.ResolvePalette(models[0])
	}

	merged := palette.New("merged")
	tooMany := false
outer:
	for _, n := range models {
		p := g.ResolvePalette(n)
		for i := 0; i < p.Size(); i++ {
			c := p.Color(i)
			if merged.HasColor(c) {
				continue
			}
			skip := cfg.EmptyIndex
			if c.A == 0 {
				skip = palette.ColorNotFound
			}
			idx, added := merged.TryAdd(c, false, false, skip)
			if !added {
				tooMany = true
				break outer
			}
			if p.Glow(i) {
				merged.SetGlow(idx, true)
			}
		}
	}
	if !tooMany {
		return merged
	}

	logger.Debug("too many colors, merging similar colors", "models", len(models))
	merged = palette.New("merged")
	for _, n := range models {
		p := g.ResolvePalette(n)
		used := allColorsUsed
		if cfg.RemoveUnused {
			if v := g.ResolveVolume(n); v != nil {
				used = v.UsedColors()
			}
		}
		for i := 0; i < p.Size(); i++ {
			if !used[i] {
				continue
			}
			c := p.Color(i)
			skip := cfg.EmptyIndex
			if c.A == 0 {
				skip = palette.ColorNotFound
			}
			if idx, added := merged.TryAdd(c, true, true, skip); added && p.Glow(i) {
				merged.SetGlow(idx, true)
			}
		}
	}
	return merged
}

var allColorsUsed = func() (used [palette.MaxColors]bool) {
	for i := range used {
		used[i] = true
	}
	return used
}()

// MergeConfig controls Merge.
type MergeConfig struct {
	// SkipHidden leaves out invisible model nodes.
	SkipHidden bool
	// ApplyTransform places every volume at its scene region at Frame
	// instead of its volume region. Only the translation is honoured.
	ApplyTransform bool
	Frame          FrameIndex
}

// MergeResult is a single volume with the palette its colours index.
type MergeResult struct {
	Volume  *voxel.RawVolume
	Palette palette.Palette
}

// Merge combines the volumes of all model nodes into one. Colours are
// remapped to the merged palette. The result is empty if there is no model
// node to merge; a single model node is copied directly.
func (g *Graph) Merge(cfg MergeConfig) MergeResult {
	var models []*Node
	for _, n := range g.Nodes(NodeTypeAllModels) {
		if cfg.SkipHidden && !n.Visible {
			continue
		}
		if g.ResolveVolume(n) == nil {
			continue
		}
		models = append(models, n)
	}
	switch len(models) {
	case 0:
		return MergeResult{}
	case 1:
		return MergeResult{
			Volume:  g.ResolveVolume(models[0]).Clone(),
			Palette: g.ResolvePalette(models[0]),
		}
	}

	dest := func(n *Node) voxel.Region {
		if cfg.ApplyTransform {
			return g.NodeSceneRegion(n, cfg.Frame)
		}
		return g.ResolveRegion(n)
	}
	region := voxel.InvalidRegion
	for _, n := range models {
		region = region.Union(dest(n))
	}
	pal := g.mergePalettes(models, MergePaletteConfig{RemoveUnused: true, EmptyIndex: palette.ColorNotFound})
	merged := voxel.NewRawVolume(region)
	for _, n := range models {
		src := g.ResolveVolume(n)
		offset := dest(n).Lower.Sub(src.Region().Lower)
		np := g.ResolvePalette(n)
		var remap [palette.MaxColors]uint8
		for i := 0; i < np.Size(); i++ {
			if idx := pal.ClosestMatch(np.Color(i), palette.ColorNotFound); idx >= 0 {
				remap[i] = uint8(idx)
			}
		}
		voxel.Merge(merged, src, offset, func(v voxel.Voxel) voxel.Voxel {
			return voxel.Solid(remap[v.Color])
		})
	}
	return MergeResult{Volume: merged, Palette: pal}
}
