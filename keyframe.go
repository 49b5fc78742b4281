package scenegraph

import (
	"fmt"
	"slices"

	"cogentcore.org/core/base/keylist"
)

// KeyFrame is a timestamped pose inside one animation track.
type KeyFrame struct {
	frame FrameIndex

	// Interpolation shapes the blend from this keyframe to the next one.
	Interpolation InterpolationType
	// LongRotation blends orientation along the longer arc.
	LongRotation bool

	transform Transform
}

// NewKeyFrame creates a keyframe at frame with the identity transform.
func NewKeyFrame(frame FrameIndex) KeyFrame {
	return KeyFrame{frame: frame, Interpolation: InterpolationLinear, transform: NewTransform()}
}

// Frame returns the timeline position of the keyframe.
func (k *KeyFrame) Frame() FrameIndex {
	return k.frame
}

// Transform returns the pose stored in the keyframe.
func (k *KeyFrame) Transform() *Transform {
	return &k.transform
}

// KeyFrames is a track sorted by ascending frame without duplicates.
type KeyFrames []KeyFrame

// Tracks maps animation names to keyframe tracks in declaration order.
type Tracks = keylist.List[string, KeyFrames]

func defaultTrack() KeyFrames {
	return KeyFrames{NewKeyFrame(0)}
}

func sortKeyFrames(kfs KeyFrames) {
	slices.SortStableFunc(kfs, func(a, b KeyFrame) int {
		return a.frame - b.frame
	})
}

// --- Track access ---

// Animation returns the name of the track the node currently exposes.
func (n *Node) Animation() string {
	return n.animation
}

// track returns the active track, nil if the node has none.
func (n *Node) track() *KeyFrames {
	idx := n.tracks.IndexByKey(n.animation)
	if idx < 0 {
		return nil
	}
	return &n.tracks.Values[idx]
}

// KeyFrames returns the active track. The returned slice MUST NOT be resized
// by the caller.
func (n *Node) KeyFrames() KeyFrames {
	if kfs := n.track(); kfs != nil {
		return *kfs
	}
	return nil
}

// KeyFramesFor returns the track of the given animation.
func (n *Node) KeyFramesFor(animation string) (KeyFrames, bool) {
	return n.tracks.AtTry(animation)
}

// AllKeyFrames returns every track of the node. The list MUST NOT be
// modified by the caller.
func (n *Node) AllKeyFrames() *Tracks {
	return &n.tracks
}

// SetAllKeyFrames replaces every track with a deep copy of tracks and
// activates animation.
func (n *Node) SetAllKeyFrames(tracks *Tracks, animation string) {
	n.tracks.Reset()
	for i, key := range tracks.Keys {
		n.tracks.Set(key, slices.Clone(tracks.Values[i]))
	}
	n.setAnimation(animation)
}

// KeyFrame returns the keyframe at index idx of the active track, nil if out
// of range.
func (n *Node) KeyFrame(idx KeyFrameIndex) *KeyFrame {
	kfs := n.track()
	if kfs == nil || idx < 0 || idx >= len(*kfs) {
		return nil
	}
	return &(*kfs)[idx]
}

// Transform returns the pose of keyframe idx in the active track.
// Panics if the index is out of range.
func (n *Node) Transform(idx KeyFrameIndex) *Transform {
	kf := n.KeyFrame(idx)
	if kf == nil {
		panic(fmt.Sprintf("scenegraph: keyframe index %d out of range for node %d", idx, n.id))
	}
	return &kf.transform
}

// SetTransform overwrites the pose of keyframe idx.
func (n *Node) SetTransform(idx KeyFrameIndex, t Transform) {
	*n.Transform(idx) = t
}

// --- Animations ---

// setAnimation activates the track for animation, creating it with a single
// default keyframe if missing.
func (n *Node) setAnimation(animation string) bool {
	if animation == "" {
		return false
	}
	if n.tracks.IndexByKey(animation) < 0 {
		n.tracks.Set(animation, defaultTrack())
	}
	n.animation = animation
	return true
}

// removeAnimation drops the track of animation. If it was active, the first
// remaining track becomes active, or a fresh default track is created.
func (n *Node) removeAnimation(animation string) bool {
	if !n.tracks.DeleteByKey(animation) {
		return false
	}
	if n.animation == animation {
		if n.tracks.Len() > 0 {
			n.animation = n.tracks.Keys[0]
		} else {
			n.setAnimation(DefaultAnimation)
		}
	}
	return true
}

// DuplicateKeyFrames copies the track of from into to, replacing any
// existing track of that name.
func (n *Node) DuplicateKeyFrames(from, to string) bool {
	kfs, ok := n.tracks.AtTry(from)
	if !ok || to == "" {
		return false
	}
	n.tracks.Set(to, slices.Clone(kfs))
	return true
}

// --- Keyframe lookup ---

// HasKeyFrame reports whether the active track has a keyframe at frame.
func (n *Node) HasKeyFrame(frame FrameIndex) bool {
	_, ok := n.HasKeyFrameForFrame(frame)
	return ok
}

// HasKeyFrameForFrame returns the index of the keyframe exactly at frame.
func (n *Node) HasKeyFrameForFrame(frame FrameIndex) (KeyFrameIndex, bool) {
	for i, kf := range n.KeyFrames() {
		if kf.frame == frame {
			return i, true
		}
	}
	return InvalidKeyFrame, false
}

// KeyFrameForFrame returns the index of the last keyframe at or before
// frame, 0 if frame lies before the first keyframe.
func (n *Node) KeyFrameForFrame(frame FrameIndex) KeyFrameIndex {
	idx := 0
	for i, kf := range n.KeyFrames() {
		if kf.frame > frame {
			break
		}
		idx = i
	}
	return idx
}

// keyFrameIn returns the keyframe of animation that is active at frame, nil
// if the node has no such track.
func (n *Node) keyFrameIn(animation string, frame FrameIndex) *KeyFrame {
	idx := n.tracks.IndexByKey(animation)
	if idx < 0 || len(n.tracks.Values[idx]) == 0 {
		return nil
	}
	kfs := n.tracks.Values[idx]
	best := 0
	for i, kf := range kfs {
		if kf.frame > frame {
			break
		}
		best = i
	}
	return &kfs[best]
}

// PreviousKeyFrameForFrame returns the index of the last keyframe strictly
// before frame, 0 if there is none.
func (n *Node) PreviousKeyFrameForFrame(frame FrameIndex) KeyFrameIndex {
	idx := 0
	for i, kf := range n.KeyFrames() {
		if kf.frame >= frame {
			break
		}
		idx = i
	}
	return idx
}

// NextKeyFrameForFrame returns the index of the first keyframe strictly after
// frame, the last keyframe if there is none.
func (n *Node) NextKeyFrameForFrame(frame FrameIndex) KeyFrameIndex {
	kfs := n.KeyFrames()
	for i, kf := range kfs {
		if kf.frame > frame {
			return i
		}
	}
	return max(len(kfs)-1, 0)
}

// MaxFrame returns the highest keyframe frame of the active track.
func (n *Node) MaxFrame() FrameIndex {
	kfs := n.KeyFrames()
	if len(kfs) == 0 {
		return 0
	}
	return kfs[len(kfs)-1].frame
}

// bracket returns the keyframes enclosing frame: the last one at or before
// it and the first one after it, either InvalidKeyFrame if missing.
func (n *Node) bracket(frame FrameIndex) (source, target KeyFrameIndex) {
	source, target = InvalidKeyFrame, InvalidKeyFrame
	for i, kf := range n.KeyFrames() {
		if kf.frame <= frame {
			source = i
			continue
		}
		target = i
		break
	}
	return source, target
}

// TransformForFrame samples the active track in local space. Frames before
// the first keyframe return it verbatim, frames after the last one return
// the last verbatim. The bracketing keyframes must be clean.
func (n *Node) TransformForFrame(frame FrameIndex) Transform {
	kfs := n.KeyFrames()
	source, target := n.bracket(frame)
	if source == InvalidKeyFrame {
		return kfs[0].transform
	}
	if target == InvalidKeyFrame {
		return kfs[source].transform
	}
	src := &kfs[source]
	factor := Interpolate(src.Interpolation, float64(frame), float64(src.frame), float64(kfs[target].frame))
	out := src.transform
	out.lerp(&kfs[target].transform, factor, src.LongRotation)
	return out
}

// --- Keyframe mutation ---

// AddKeyFrame inserts a keyframe at frame carrying the pose that is active
// there. Returns InvalidKeyFrame if a keyframe already exists at frame.
func (n *Node) AddKeyFrame(frame FrameIndex) KeyFrameIndex {
	kfs := n.track()
	if kfs == nil || frame < 0 {
		return InvalidKeyFrame
	}
	if i, ok := n.HasKeyFrameForFrame(frame); ok {
		logger.Debug("keyframe already exists", "node", n.id, "frame", frame, "index", i)
		return InvalidKeyFrame
	}
	kf := NewKeyFrame(frame)
	if len(*kfs) > 0 {
		started := (*kfs)[n.KeyFrameForFrame(frame)]
		kf.transform = started.transform
		kf.Interpolation = started.Interpolation
	}
	idx, _ := slices.BinarySearchFunc(*kfs, frame, func(k KeyFrame, f FrameIndex) int {
		return k.frame - f
	})
	*kfs = slices.Insert(*kfs, idx, kf)
	return idx
}

// RemoveKeyFrame removes the keyframe that is active at frame. Fails if it
// is the last keyframe of the track.
func (n *Node) RemoveKeyFrame(frame FrameIndex) bool {
	return n.RemoveKeyFrameByIndex(n.KeyFrameForFrame(frame))
}

// RemoveKeyFrameByIndex removes keyframe idx. Fails if idx is out of range
// or it is the last keyframe of the track.
func (n *Node) RemoveKeyFrameByIndex(idx KeyFrameIndex) bool {
	kfs := n.track()
	if kfs == nil || len(*kfs) <= 1 || idx < 0 || idx >= len(*kfs) {
		return false
	}
	*kfs = slices.Delete(*kfs, idx, idx+1)
	if globalDebug {
		debugCheckTrack(n, "RemoveKeyFrameByIndex")
	}
	return true
}

// SetKeyFrames replaces the active track with a sorted copy of kfs. Fails
// for an empty track, negative or duplicate frames.
func (n *Node) SetKeyFrames(kfs KeyFrames) bool {
	if len(kfs) == 0 {
		return false
	}
	track := n.track()
	if track == nil {
		return false
	}
	sorted := slices.Clone(kfs)
	sortKeyFrames(sorted)
	if sorted[0].frame < 0 {
		return false
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].frame == sorted[i-1].frame {
			return false
		}
	}
	*track = sorted
	return true
}
