package palette

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func TestTryAddSkipsDuplicates(t *testing.T) {
	p := New("test", red)
	idx, added := p.TryAdd(red, false, false, ColorNotFound)
	assert.False(t, added)
	assert.Equal(t, 0, idx)

	idx, added = p.TryAdd(green, false, false, ColorNotFound)
	assert.True(t, added)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, p.Size())
}

func TestTryAddSkipSimilar(t *testing.T) {
	p := New("test", red)
	almostRed := color.RGBA{254, 0, 0, 255}
	idx, added := p.TryAdd(almostRed, true, false, ColorNotFound)
	assert.False(t, added)
	assert.Equal(t, 0, idx)

	_, added = p.TryAdd(almostRed, false, false, ColorNotFound)
	assert.True(t, added)
}

func TestTryAddFullPalette(t *testing.T) {
	p := Builtin()
	require.Equal(t, MaxColors, p.Size())
	odd := color.RGBA{12, 200, 99, 255}

	idx, added := p.TryAdd(odd, false, false, ColorNotFound)
	assert.False(t, added)
	assert.Equal(t, ColorNotFound, idx)

	idx, added = p.TryAdd(odd, false, true, ColorNotFound)
	assert.True(t, added)
	assert.Equal(t, odd, p.Color(idx))
}

func TestTryAddReusesTransparentSlot(t *testing.T) {
	p := Builtin()
	p.SetColor(17, color.RGBA{})
	idx, added := p.TryAdd(blue, false, false, ColorNotFound)
	// blue is already part of the colour cube
	assert.False(t, added)
	assert.NotEqual(t, 17, idx)

	odd := color.RGBA{12, 200, 99, 255}
	idx, added = p.TryAdd(odd, false, false, ColorNotFound)
	assert.True(t, added)
	assert.Equal(t, 17, idx)
}

func TestClosestMatch(t *testing.T) {
	darkRed := color.RGBA{200, 0, 0, 255}
	p := New("test", red, green, blue, darkRed)
	assert.Equal(t, 0, p.ClosestMatch(color.RGBA{250, 5, 5, 255}, ColorNotFound))
	assert.Equal(t, 2, p.ClosestMatch(color.RGBA{10, 10, 200, 255}, ColorNotFound))
	assert.Equal(t, 3, p.ClosestMatch(red, 0))
	assert.Equal(t, ColorNotFound, p.ClosestMatch(color.RGBA{}, ColorNotFound))

	var empty Palette
	assert.Equal(t, ColorNotFound, empty.ClosestMatch(red, ColorNotFound))
}

func TestRemoveUnused(t *testing.T) {
	p := New("test", red, green, blue)
	p.SetGlow(2, true)
	var used [MaxColors]bool
	used[0] = true
	used[2] = true
	mapping := p.RemoveUnused(used)
	assert.Equal(t, 2, p.Size())
	assert.Equal(t, uint8(0), mapping[0])
	assert.Equal(t, uint8(1), mapping[2])
	assert.Equal(t, blue, p.Color(1))
	assert.True(t, p.Glow(1))
}

func TestEqualIsValueComparison(t *testing.T) {
	a := New("a", red, green)
	b := a
	b.Name = "b"
	assert.True(t, a.Equal(&b))
	b.SetGlow(1, true)
	assert.False(t, a.Equal(&b))
}
