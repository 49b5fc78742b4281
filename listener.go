package scenegraph

import "slices"

// Listener receives structural notifications from a Graph. Callbacks run
// synchronously inside the mutating call and must not mutate the graph.
type Listener interface {
	OnNodeAdded(id int)
	OnNodeRemoved(id int)
	OnNodeChangedParent(id int)
	OnAnimationAdded(name string)
	OnAnimationRemoved(name string)
}

// ListenerFuncs adapts optional callbacks to Listener. Nil fields are
// skipped. Register a pointer so that UnregisterListener can find it.
type ListenerFuncs struct {
	NodeAdded         func(id int)
	NodeRemoved       func(id int)
	NodeChangedParent func(id int)
	AnimationAdded    func(name string)
	AnimationRemoved  func(name string)
}

func (l *ListenerFuncs) OnNodeAdded(id int) {
	if l.NodeAdded != nil {
		l.NodeAdded(id)
	}
}

func (l *ListenerFuncs) OnNodeRemoved(id int) {
	if l.NodeRemoved != nil {
		l.NodeRemoved(id)
	}
}

func (l *ListenerFuncs) OnNodeChangedParent(id int) {
	if l.NodeChangedParent != nil {
		l.NodeChangedParent(id)
	}
}

func (l *ListenerFuncs) OnAnimationAdded(name string) {
	if l.AnimationAdded != nil {
		l.AnimationAdded(name)
	}
}

func (l *ListenerFuncs) OnAnimationRemoved(name string) {
	if l.AnimationRemoved != nil {
		l.AnimationRemoved(name)
	}
}

// RegisterListener adds l. Registering twice is a no-op.
func (g *Graph) RegisterListener(l Listener) {
	if !g.IsRegistered(l) {
		g.listeners = append(g.listeners, l)
	}
}

// UnregisterListener removes l and reports whether it was registered.
func (g *Graph) UnregisterListener(l Listener) bool {
	i := slices.Index(g.listeners, l)
	if i < 0 {
		return false
	}
	g.listeners = slices.Delete(g.listeners, i, i+1)
	return true
}

// IsRegistered reports whether l receives notifications.
func (g *Graph) IsRegistered(l Listener) bool {
	return slices.Contains(g.listeners, l)
}

func (g *Graph) notify(fn func(l Listener)) {
	for _, l := range slices.Clone(g.listeners) {
		fn(l)
	}
}
