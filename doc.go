// Package scenegraph is a scene graph and keyframe animation core for voxel
// scenes.
//
// A [Graph] owns a tree of [Node] values indexed by integer id. Node 0 is
// the root. Model nodes own a voxel volume (see package voxel) and a
// palette (see package palette); reference nodes render the volume of
// another model node; group, camera and point nodes carry only a pose.
//
// # Quick start
//
//	g := scenegraph.NewGraph()
//	body := scenegraph.NewModelNode("body", voxel.NewRawVolume(voxel.NewCubeRegion(8)))
//	id, err := g.Emplace(body, 0)
//	if err != nil {
//		return err
//	}
//	body.Transform(0).SetLocalTranslation(mgl64.Vec3{4, 0, 0})
//	g.UpdateTransforms()
//	fmt.Println(g.Node(id).Transform(0).WorldTranslation())
//
// # Transforms
//
// Every keyframe stores a [Transform] in both local and world space.
// Setting one side marks the other stale; [Graph.UpdateTransforms]
// resolves all pending values top-down. Reading a stale matrix panics.
//
// # Animation
//
// A node holds one keyframe track per animation name. The graph decides
// which animation is active. [Graph.TransformForFrame] samples a node in
// world space between keyframes using the [InterpolationType] of the
// earlier keyframe. A [Player] drives a frame cursor with [gween] tweens.
//
// # Volumes
//
// [Graph.Merge] flattens all model nodes into a single volume with a merged
// palette, [Graph.SplitVolumes] tiles oversized models. [Graph.SolveIK]
// bends joint chains towards an effector node.
//
// Diagnostics go through log/slog; see [SetLogger].
//
// [gween]: https://github.com/tanema/gween
package scenegraph
