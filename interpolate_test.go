package scenegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	tests := []struct {
		kind    InterpolationType
		current float64
		want    float64
	}{
		{InterpolationLinear, 5, 0.5},
		{InterpolationLinear, 15, 1},
		{InterpolationLinear, -3, 0},
		{InterpolationInstant, 5, 0},
		{InterpolationInstant, 9.99, 0},
		{InterpolationInstant, 10, 1},
		{InterpolationQuadEaseIn, 5, 0.25},
		{InterpolationQuadEaseOut, 5, 0.75},
		{InterpolationCubicEaseIn, 5, 0.125},
		{InterpolationCubicEaseOut, 5, 0.875},
		{InterpolationCubicBezier, 5, 0.5},
		{InterpolationCubicBezier, 2.5, 0.15625},
		{InterpolationCatmullRom, 5, 0.5},
		{InterpolationCatmullRom, 2.5, 0.203125},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, Interpolate(tt.kind, tt.current, 0, 10), 1e-6)
		})
	}
}

func TestInterpolateBoundaries(t *testing.T) {
	for kind := range interpolationMax {
		assert.InDelta(t, 0, Interpolate(kind, 10, 10, 20), 1e-6, kind.String())
		assert.InDelta(t, 1, Interpolate(kind, 20, 10, 20), 1e-6, kind.String())
	}
}

func TestInterpolateEqualBoundsReturnsStart(t *testing.T) {
	assert.Equal(t, 7.0, Interpolate(InterpolationLinear, 3, 7, 7))
	assert.Equal(t, 7.0, Interpolate(InterpolationCatmullRom, 100, 7, 7))
}

func TestInterpolationTypeNames(t *testing.T) {
	for kind := range interpolationMax {
		parsed, ok := ParseInterpolationType(kind.String())
		assert.True(t, ok)
		assert.Equal(t, kind, parsed)
	}
	_, ok := ParseInterpolationType("Bouncy")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", interpolationMax.String())
}

func TestEaseFuncMatchesInterpolate(t *testing.T) {
	for _, kind := range []InterpolationType{InterpolationQuadEaseIn, InterpolationCubicBezier, InterpolationInstant} {
		fn := kind.EaseFunc()
		got := fn(2, 0, 1, 4)
		assert.InDelta(t, Interpolate(kind, 2, 0, 4), float64(got), 1e-6, kind.String())
	}
}
