// Package effects tracks short-lived emitters, such as click bursts, as
// entities in an ark world so they can be retired once their time is up.
package effects

import (
	"slices"

	"github.com/mlange-42/ark/ecs"
)

// Burst is a temporary emitter owned by the tracker.
type Burst struct {
	Emitter   int     // emitter handle in the particle system
	Remaining float32 // seconds until the emitter is removed
}

// Tracker retires burst emitters after a fixed duration. Handles follow the
// particle system's index semantics: removing an emitter shifts every later
// handle down by one, and the tracker mirrors that for the bursts it holds.
type Tracker struct {
	world  *ecs.World
	bursts *ecs.Map1[Burst]
	filter *ecs.Filter1[Burst]

	// Scratch reused across updates
	expired []expiredBurst
	handles []int
}

type expiredBurst struct {
	entity  ecs.Entity
	emitter int
}

// NewTracker creates an empty tracker with its own world.
func NewTracker() *Tracker {
	world := ecs.NewWorld()
	return &Tracker{
		world:  world,
		bursts: ecs.NewMap1[Burst](world),
		filter: ecs.NewFilter1[Burst](world),
	}
}

// Add starts tracking emitter handle for ttl seconds.
func (t *Tracker) Add(handle int, ttl float32) ecs.Entity {
	b := Burst{Emitter: handle, Remaining: ttl}
	return t.bursts.NewEntity(&b)
}

// Get returns the burst stored for e.
func (t *Tracker) Get(e ecs.Entity) (Burst, bool) {
	if !t.world.Alive(e) {
		return Burst{}, false
	}
	return *t.bursts.Get(e), true
}

// Update ages every burst by dt and returns the emitter handles whose time
// ran out, highest first, so the caller can remove them in order without
// invalidating the rest. Handles of surviving bursts are already adjusted for
// those removals. The returned slice is reused by the next call.
func (t *Tracker) Update(dt float32) []int {
	t.expired = t.expired[:0]

	query := t.filter.Query()
	for query.Next() {
		b := query.Get()
		b.Remaining -= dt
		if b.Remaining <= 0 {
			t.expired = append(t.expired, expiredBurst{entity: query.Entity(), emitter: b.Emitter})
		}
	}

	if len(t.expired) == 0 {
		return nil
	}

	// Remove entities only after the query has finished
	t.handles = t.handles[:0]
	for _, e := range t.expired {
		t.world.RemoveEntity(e.entity)
		t.handles = append(t.handles, e.emitter)
	}

	slices.Sort(t.handles)
	slices.Reverse(t.handles)
	for _, h := range t.handles {
		t.Shift(h)
	}

	return t.handles
}

// Shift records that emitter handle removed was deleted elsewhere, moving
// every later handle down by one. A burst that pointed at removed itself is
// dropped.
func (t *Tracker) Shift(removed int) {
	t.expired = t.expired[:0]

	query := t.filter.Query()
	for query.Next() {
		b := query.Get()
		switch {
		case b.Emitter == removed:
			t.expired = append(t.expired, expiredBurst{entity: query.Entity(), emitter: b.Emitter})
		case b.Emitter > removed:
			b.Emitter--
		}
	}

	for _, e := range t.expired {
		t.world.RemoveEntity(e.entity)
	}
}

// Len returns the number of live bursts.
func (t *Tracker) Len() int {
	n := 0
	query := t.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Clear drops every burst without reporting them.
func (t *Tracker) Clear() {
	t.expired = t.expired[:0]

	query := t.filter.Query()
	for query.Next() {
		t.expired = append(t.expired, expiredBurst{entity: query.Entity()})
	}
	for _, e := range t.expired {
		t.world.RemoveEntity(e.entity)
	}
}
