package scenegraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

// InterpolationType selects the curve used between two keyframes.
type InterpolationType uint8

const (
	InterpolationInstant InterpolationType = iota // jump to the next keyframe when it is reached
	InterpolationLinear
	InterpolationQuadEaseIn
	InterpolationQuadEaseOut
	InterpolationQuadEaseInOut
	InterpolationCubicEaseIn
	InterpolationCubicEaseOut
	InterpolationCubicEaseInOut
	InterpolationCubicBezier // control points 0,0,1,1
	InterpolationCatmullRom  // start and end double as outer control points
	interpolationMax
)

var interpolationNames = [interpolationMax]string{
	"Instant", "Linear",
	"QuadEaseIn", "QuadEaseOut", "QuadEaseInOut",
	"CubicEaseIn", "CubicEaseOut", "CubicEaseInOut",
	"CubicBezier", "CatmullRom",
}

func (i InterpolationType) String() string {
	if i >= interpolationMax {
		return "Unknown"
	}
	return interpolationNames[i]
}

// ParseInterpolationType is the inverse of String. Unknown names yield
// InterpolationLinear and false.
func ParseInterpolationType(name string) (InterpolationType, bool) {
	for i, n := range interpolationNames {
		if n == name {
			return InterpolationType(i), true
		}
	}
	return InterpolationLinear, false
}

// easeFuncs maps the curves gween already provides.
var easeFuncs = map[InterpolationType]ease.TweenFunc{
	InterpolationLinear:         ease.Linear,
	InterpolationQuadEaseIn:     ease.InQuad,
	InterpolationQuadEaseOut:    ease.OutQuad,
	InterpolationQuadEaseInOut:  ease.InOutQuad,
	InterpolationCubicEaseIn:    ease.InCubic,
	InterpolationCubicEaseOut:   ease.OutCubic,
	InterpolationCubicEaseInOut: ease.InOutCubic,
}

// EaseFunc returns a gween easing function for the curve, for driving
// playback tweens with the same shape as the keyframe blend.
func (i InterpolationType) EaseFunc() ease.TweenFunc {
	if fn, ok := easeFuncs[i]; ok {
		return fn
	}
	return func(t, b, c, d float32) float32 {
		return b + c*float32(Interpolate(i, float64(t), 0, float64(d)))
	}
}

// Interpolate maps current on [start,end] to a blend factor in [0,1] shaped
// by kind. When start and end coincide it returns start unchanged.
// CatmullRom may leave [0,1] for other control points; with the degenerate
// points used here it stays inside.
func Interpolate(kind InterpolationType, current, start, end float64) float64 {
	if math.Abs(start-end) < 1e-9 {
		return start
	}
	t := mgl64.Clamp((current-start)/(end-start), 0, 1)
	switch kind {
	case InterpolationInstant:
		if t < 1 {
			return 0
		}
		return 1
	case InterpolationCubicBezier:
		return 3*(1-t)*t*t + t*t*t
	case InterpolationCatmullRom:
		return catmullRom(0, 0, 1, 1, t)
	}
	fn, ok := easeFuncs[kind]
	if !ok {
		fn = ease.Linear
	}
	return float64(fn(float32(t), 0, 1, 1))
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 + (-p0+p2)*t + (2*p0-5*p1+4*p2-p3)*t2 + (-p0+3*p1-3*p2+p3)*t3)
}
