// Package ecs provides ECS adapters for scenegraph's change notifications.
//
// The primary adapter is [NewDonburiListener], which bridges graph events
// (node added, removed or reparented, animation added or removed) into a
// [Donburi] world as typed events. Subscribe to [GraphEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	l := ecs.NewDonburiListener(world)
//	graph.RegisterListener(l)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
