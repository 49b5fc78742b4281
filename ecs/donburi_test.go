package ecs

import (
	"testing"

	"github.com/phanxgames/scenegraph"

	"github.com/yohamta/donburi"
)

func TestNewDonburiListener(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiListener(world) == nil {
		t.Fatal("NewDonburiListener returned nil")
	}
}

func TestDonburiListener_PublishesGraphEvents(t *testing.T) {
	world := donburi.NewWorld()
	g := scenegraph.NewGraph()
	g.RegisterListener(NewDonburiListener(world))

	var received []GraphEvent
	GraphEventType.Subscribe(world, func(w donburi.World, e GraphEvent) {
		received = append(received, e)
	})

	a, err := g.Emplace(scenegraph.NewNode(scenegraph.NodeTypeGroup, "a"), 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.Emplace(scenegraph.NewNode(scenegraph.NodeTypeGroup, "b"), 0)
	if err != nil {
		t.Fatal(err)
	}
	g.ChangeParent(b, a, true)
	g.AddAnimation("Walk")
	g.RemoveNode(b, false)

	// Events are queued, process them.
	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	GraphEventType.ProcessEvents(world)

	want := []GraphEvent{
		{Kind: NodeAdded, NodeID: a},
		{Kind: NodeAdded, NodeID: b},
		{Kind: NodeChangedParent, NodeID: b},
		{Kind: AnimationAdded, NodeID: scenegraph.InvalidNodeID, Animation: "Walk"},
		{Kind: NodeRemoved, NodeID: b},
	}
	if len(received) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(received), received)
	}
	for i := range want {
		if received[i] != want[i] {
			t.Errorf("event %d: got %+v, want %+v", i, received[i], want[i])
		}
	}
}

func TestDonburiListener_Unregister(t *testing.T) {
	world := donburi.NewWorld()
	g := scenegraph.NewGraph()
	l := NewDonburiListener(world)
	g.RegisterListener(l)
	if !g.UnregisterListener(l) {
		t.Fatal("listener was not registered")
	}

	count := 0
	GraphEventType.Subscribe(world, func(w donburi.World, e GraphEvent) {
		count++
	})
	g.AddAnimation("Run")
	GraphEventType.ProcessEvents(world)
	if count != 0 {
		t.Errorf("expected no events, got %d", count)
	}
}

func TestGraphEventKindString(t *testing.T) {
	tests := map[GraphEventKind]string{
		NodeAdded:           "NodeAdded",
		NodeRemoved:         "NodeRemoved",
		NodeChangedParent:   "NodeChangedParent",
		AnimationAdded:      "AnimationAdded",
		AnimationRemoved:    "AnimationRemoved",
		GraphEventKind(200): "Unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d: got %q, want %q", k, got, want)
		}
	}
}
