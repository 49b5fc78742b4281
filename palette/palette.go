// Package palette implements the fixed-size colour table attached to scene
// graph nodes.
package palette

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxColors is the capacity of a palette.
const MaxColors = 256

// ColorNotFound is returned by lookups that find no usable entry.
const ColorNotFound = -1

// similarThreshold is the weighted hue/saturation/brightness distance below
// which two colours are treated as the same entry.
const similarThreshold = 0.00014

// Palette is a value type: copying it copies every entry.
type Palette struct {
	Name   string
	colors [MaxColors]color.RGBA
	glow   [MaxColors]bool
	count  int
}

// New creates a palette from the given colours. Extra colours past
// MaxColors are dropped.
func New(name string, colors ...color.RGBA) Palette {
	p := Palette{Name: name}
	p.count = copy(p.colors[:], colors)
	return p
}

// Builtin returns the palette used for models that carry none: a 6x6x6 colour
// cube followed by a grey ramp.
func Builtin() Palette {
	p := Palette{Name: "built-in"}
	steps := [6]uint8{0, 51, 102, 153, 204, 255}
	for b := 0; b < 6; b++ {
		for g := 0; g < 6; g++ {
			for r := 0; r < 6; r++ {
				p.colors[p.count] = color.RGBA{steps[r], steps[g], steps[b], 255}
				p.count++
			}
		}
	}
	for p.count < MaxColors {
		grey := uint8((p.count - 216) * 255 / (MaxColors - 217))
		p.colors[p.count] = color.RGBA{grey, grey, grey, 255}
		p.count++
	}
	return p
}

// Size returns the number of used entries.
func (p Palette) Size() int {
	return p.count
}

// Color returns entry i.
func (p Palette) Color(i int) color.RGBA {
	return p.colors[i]
}

// SetColor overwrites entry i, growing the palette if needed.
func (p *Palette) SetColor(i int, c color.RGBA) {
	p.colors[i] = c
	if i >= p.count {
		p.count = i + 1
	}
}

// Glow reports whether entry i emits light.
func (p Palette) Glow(i int) bool {
	return p.glow[i]
}

// SetGlow toggles the emissive flag of entry i.
func (p *Palette) SetGlow(i int, glow bool) {
	p.glow[i] = glow
}

// HasColor reports whether c is stored verbatim.
func (p *Palette) HasColor(c color.RGBA) bool {
	for i := 0; i < p.count; i++ {
		if p.colors[i] == c {
			return true
		}
	}
	return false
}

// Equal reports whether both palettes hold the same colours and glow flags.
func (p *Palette) Equal(o *Palette) bool {
	if p.count != o.count {
		return false
	}
	for i := 0; i < p.count; i++ {
		if p.colors[i] != o.colors[i] || p.glow[i] != o.glow[i] {
			return false
		}
	}
	return true
}

// TryAdd inserts c and returns the entry it ended up in and whether the
// palette changed. Exact duplicates are never added. With skipSimilar a colour
// close to an existing entry is matched to it instead. A full palette reuses
// a fully transparent slot; with replaceSimilar it overwrites the entry that
// is closest to another entry. skipIndex reserves one slot (pass
// ColorNotFound for none).
func (p *Palette) TryAdd(c color.RGBA, skipSimilar, replaceSimilar bool, skipIndex int) (int, bool) {
	for i := 0; i < p.count; i++ {
		if p.colors[i] == c {
			return i, false
		}
	}
	if skipSimilar {
		for i := 0; i < p.count; i++ {
			if absDiff(p.colors[i].A, c.A) > 10 {
				continue
			}
			if hsbDistance(p.colors[i], c) < similarThreshold {
				return i, false
			}
		}
	}

	if p.count == skipIndex && p.count < MaxColors && c.A != 0 {
		p.count++
	}
	if p.count < MaxColors {
		i := p.count
		p.colors[i] = c
		p.count++
		return i, true
	}

	for i := 0; i < p.count; i++ {
		if p.colors[i].A == 0 {
			p.colors[i] = c
			return i, true
		}
	}

	if replaceSimilar {
		if i := p.findInsignificant(skipIndex); i != ColorNotFound {
			if hsbDistance(p.colors[i], c) > similarThreshold {
				p.colors[i] = c
				p.glow[i] = false
				return i, true
			}
		}
		return 0, false
	}
	return ColorNotFound, false
}

// ClosestMatch returns the entry closest to c in CIE L*a*b* space, skipping
// skipIndex. Exact matches win. A fully transparent c only matches a
// transparent entry.
func (p *Palette) ClosestMatch(c color.RGBA, skipIndex int) int {
	if p.count == 0 {
		return ColorNotFound
	}
	for i := 0; i < p.count; i++ {
		if i != skipIndex && p.colors[i] == c {
			return i
		}
	}
	if c.A == 0 {
		for i := 0; i < p.count; i++ {
			if p.colors[i].A == 0 {
				return i
			}
		}
		return ColorNotFound
	}
	target := toColorful(c)
	best := ColorNotFound
	bestDist := math.MaxFloat64
	for i := 0; i < p.count; i++ {
		if i == skipIndex || p.colors[i].A == 0 {
			continue
		}
		if d := toColorful(p.colors[i]).DistanceLab(target); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// RemoveUnused compacts the palette down to the entries flagged in used and
// returns the old-to-new index mapping.
func (p *Palette) RemoveUnused(used [MaxColors]bool) [MaxColors]uint8 {
	var mapping [MaxColors]uint8
	var colors [MaxColors]color.RGBA
	var glow [MaxColors]bool
	n := 0
	for i := 0; i < p.count; i++ {
		if !used[i] {
			continue
		}
		colors[n] = p.colors[i]
		glow[n] = p.glow[i]
		mapping[i] = uint8(n)
		n++
	}
	p.colors = colors
	p.glow = glow
	p.count = n
	return mapping
}

// findInsignificant returns the entry with the smallest distance to any
// other entry.
func (p *Palette) findInsignificant(skipIndex int) int {
	best := ColorNotFound
	bestDist := math.MaxFloat64
	for i := 0; i < p.count; i++ {
		if i == skipIndex {
			continue
		}
		minDist := math.MaxFloat64
		for k := 0; k < p.count; k++ {
			if k == i || p.colors[k].A == 0 {
				continue
			}
			if d := approxDistance(p.colors[k], p.colors[i]); d < minDist {
				minDist = d
			}
		}
		if minDist < bestDist {
			bestDist = minDist
			best = i
			if bestDist <= 0.00001 {
				break
			}
		}
	}
	return best
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// hsbDistance weights hue over saturation and brightness, hue normalized to [0,1].
func hsbDistance(a, b color.RGBA) float64 {
	h1, s1, v1 := toColorful(a).Hsv()
	h2, s2, v2 := toColorful(b).Hsv()
	dh := (h1 - h2) / 360
	ds := s1 - s2
	dv := v1 - v2
	return 0.8*dh*dh + 0.1*ds*ds + 0.1*dv*dv
}

// approxDistance is the low-cost weighted RGB metric from compuphase.com/cmetric.htm.
func approxDistance(a, b color.RGBA) float64 {
	rmean := (int(a.R) + int(b.R)) / 2
	r := int(b.R) - int(a.R)
	g := int(b.G) - int(a.G)
	bl := int(b.B) - int(a.B)
	return float64(((512+rmean)*r*r)>>8) + 4*float64(g*g) + float64(((767-rmean)*bl*bl)>>8)
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
