// Package ecs bridges gscene interaction events into a [Donburi] world.
//
// Layers with a non-zero EntityID report their down, up, move and follow
// events to the scene's entity store. [NewDonburiStore] publishes them as
// [InteractionEventType] events, which ECS systems consume with Subscribe and
// ProcessEvents:
//
//	world := donburi.NewWorld()
//	scene.SetEntityStore(ecs.NewDonburiStore(world))
//	ecs.InteractionEventType.Subscribe(world, onInteraction)
//
// A store can be limited to some event types, and [SubscribeEntity] narrows a
// subscription to one entity:
//
//	store := ecs.NewDonburiStore(world, gscene.EventDown, gscene.EventUp)
//	ecs.SubscribeEntity(world, playerID, onPlayerClicked)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
