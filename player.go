package scenegraph

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PlayerConfig controls playback of the active animation.
type PlayerConfig struct {
	FramesPerSecond float32
	Loop            bool
	// Ease shapes the timeline. Nil plays at constant speed.
	Ease ease.TweenFunc
}

// Player advances a frame cursor over the active animation of a graph.
// Create one via NewPlayer and call Update(dt) each tick.
//
// There is no global animation clock; users call Update themselves.
type Player struct {
	graph *Graph
	cfg   PlayerConfig
	tween *gween.Tween
	frame FrameIndex
	Done  bool
}

// NewPlayer creates a player for the animation active on g. The duration is
// taken from g.MaxFrames at creation time; call Reset after editing
// keyframes.
func NewPlayer(g *Graph, cfg PlayerConfig) *Player {
	if cfg.FramesPerSecond <= 0 {
		cfg.FramesPerSecond = 24
	}
	if cfg.Ease == nil {
		cfg.Ease = ease.Linear
	}
	p := &Player{graph: g, cfg: cfg}
	p.Reset()
	return p
}

// Reset rewinds to frame 0 and picks up the current frame count.
func (p *Player) Reset() {
	maxFrames := float32(p.graph.MaxFrames())
	p.tween = gween.New(0, maxFrames, maxFrames/p.cfg.FramesPerSecond, p.cfg.Ease)
	p.frame = 0
	// nothing to play without a second keyframe
	p.Done = maxFrames == 0
}

// Update advances playback by dt seconds and returns the current frame.
// Looping players wrap around at the end.
func (p *Player) Update(dt float32) FrameIndex {
	if p.Done {
		return p.frame
	}
	val, finished := p.tween.Update(dt)
	p.frame = FrameIndex(val)
	if finished {
		if p.cfg.Loop {
			p.tween.Reset()
		} else {
			p.Done = true
		}
	}
	return p.frame
}

// Frame returns the current frame.
func (p *Player) Frame() FrameIndex {
	return p.frame
}

// Pose samples node id at the current frame.
func (p *Player) Pose(id int) Transform {
	return p.graph.TransformForFrame(p.graph.Node(id), p.frame)
}
