// Package ecs provides ECS adapters for scenegraph.
package ecs

import (
	"github.com/phanxgames/scenegraph"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GraphEventKind identifies what changed in the graph.
type GraphEventKind uint8

const (
	NodeAdded GraphEventKind = iota
	NodeRemoved
	NodeChangedParent
	AnimationAdded
	AnimationRemoved
)

func (k GraphEventKind) String() string {
	switch k {
	case NodeAdded:
		return "NodeAdded"
	case NodeRemoved:
		return "NodeRemoved"
	case NodeChangedParent:
		return "NodeChangedParent"
	case AnimationAdded:
		return "AnimationAdded"
	case AnimationRemoved:
		return "AnimationRemoved"
	default:
		return "Unknown"
	}
}

// GraphEvent is one structural change. NodeID is set for node events,
// Animation for animation events.
type GraphEvent struct {
	Kind      GraphEventKind
	NodeID    int
	Animation string
}

// GraphEventType is the Donburi event type for scenegraph changes.
// Subscribe to this in your ECS systems to keep entities in sync with nodes.
var GraphEventType = events.NewEventType[GraphEvent]()

type donburiListener struct {
	world donburi.World
}

// NewDonburiListener creates a Listener backed by a Donburi world.
// Graph changes are published to GraphEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiListener(world donburi.World) scenegraph.Listener {
	return &donburiListener{world: world}
}

func (l *donburiListener) publish(e GraphEvent) {
	GraphEventType.Publish(l.world, e)
}

func (l *donburiListener) OnNodeAdded(id int) {
	l.publish(GraphEvent{Kind: NodeAdded, NodeID: id})
}

func (l *donburiListener) OnNodeRemoved(id int) {
	l.publish(GraphEvent{Kind: NodeRemoved, NodeID: id})
}

func (l *donburiListener) OnNodeChangedParent(id int) {
	l.publish(GraphEvent{Kind: NodeChangedParent, NodeID: id})
}

func (l *donburiListener) OnAnimationAdded(name string) {
	l.publish(GraphEvent{Kind: AnimationAdded, NodeID: scenegraph.InvalidNodeID, Animation: name})
}

func (l *donburiListener) OnAnimationRemoved(name string) {
	l.publish(GraphEvent{Kind: AnimationRemoved, NodeID: scenegraph.InvalidNodeID, Animation: name})
}
