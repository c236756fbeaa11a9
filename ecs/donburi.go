package ecs

import (
	"github.com/phanxgames/gscene"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType carries gscene interaction events through a world's
// event queue. They are delivered when the world's events are processed.
var InteractionEventType = events.NewEventType[gscene.InteractionEvent]()

// DonburiStore publishes scene interaction events into a Donburi world.
type DonburiStore struct {
	world donburi.World
	types map[gscene.EventType]bool // nil means every type
}

// NewDonburiStore returns a store publishing to world. When types are given,
// only events of those types are published; follow sessions, for example,
// produce a stream of EventFollow updates a system may not care about.
func NewDonburiStore(world donburi.World, types ...gscene.EventType) *DonburiStore {
	s := &DonburiStore{world: world}
	if len(types) > 0 {
		s.types = make(map[gscene.EventType]bool, len(types))
		for _, t := range types {
			s.types[t] = true
		}
	}
	return s
}

// Accepts reports whether events of typ are published.
func (s *DonburiStore) Accepts(typ gscene.EventType) bool {
	return s.types == nil || s.types[typ]
}

// EmitEvent implements gscene.EntityStore.
func (s *DonburiStore) EmitEvent(event gscene.InteractionEvent) {
	if !s.Accepts(event.Type) {
		return
	}
	InteractionEventType.Publish(s.world, event)
}

// SubscribeEntity calls fn for every processed interaction event of the
// entity with the given ID.
func SubscribeEntity(world donburi.World, entityID uint32, fn func(donburi.World, gscene.InteractionEvent)) {
	InteractionEventType.Subscribe(world, func(w donburi.World, e gscene.InteractionEvent) {
		if e.EntityID == entityID {
			fn(w, e)
		}
	})
}
