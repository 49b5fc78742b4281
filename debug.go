package scenegraph

import (
	"fmt"
	"log/slog"
)

// logger receives every diagnostic the package emits. Best-effort
// degradations log at warn level, rejected operations at debug level.
var logger = slog.Default()

// SetLogger replaces the package logger. A nil logger restores slog.Default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

// globalDebug mirrors the most recently set Graph debug flag so that node
// operations without a graph pointer can check it cheaply.
var globalDebug bool

// debugCheckTreeDepth warns if the node sits deeper than the threshold.
const debugMaxTreeDepth = 32

func (g *Graph) debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = g.nodes[p.parent] {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name, "id", n.id)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logger.Warn("node has too many children",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}

// debugCheckTrack panics when a node lost its last keyframe.
func debugCheckTrack(n *Node, op string) {
	if len(n.KeyFrames()) == 0 {
		panic(fmt.Sprintf("scenegraph debug: %s left node %q (%d) without keyframes", op, n.Name, n.id))
	}
}

// Validate checks every node and logs each problem found. Returns false if
// any node is invalid or a parent link is broken.
func (g *Graph) Validate() bool {
	valid := true
	for _, n := range g.Nodes(NodeTypeAll) {
		if !n.Validate() {
			valid = false
		}
		if n.typ == NodeTypeRoot {
			continue
		}
		if !g.HasNode(n.parent) {
			logger.Error("node has no valid parent", "node", n.Name, "id", n.id, "parent", n.parent)
			valid = false
		} else if g.isDescendant(n.id, n.parent) {
			logger.Error("node is its own ancestor", "node", n.Name, "id", n.id)
			valid = false
		}
		if n.typ == NodeTypeModelReference && !g.HasNode(n.reference) {
			logger.Error("reference node points to unknown node", "id", n.id, "reference", n.reference)
			valid = false
		}
	}
	return valid
}

// FixErrors repairs nodes reported by Validate where possible and recomputes
// all transforms.
func (g *Graph) FixErrors() {
	logger.Warn("attempt to fix errors in the scene graph")
	for _, n := range g.Nodes(NodeTypeAll) {
		n.FixErrors()
	}
	g.UpdateTransforms()
}
