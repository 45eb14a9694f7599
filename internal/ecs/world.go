package ecs

import "sort"

// World is the central entity registry and component store.
//
// Destruction is deferred: DestroyEntity only queues the handle, and the
// storage is reclaimed by Maintain. Systems iterating a Query result can
// therefore destroy freely without invalidating the rest of the pass.
type World struct {
	pool       *EntityPool
	components map[ComponentType]map[Entity]Component

	destroyQueue []Entity
	queued       map[Entity]bool
	lazy         []func(*World)
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{
		pool:       NewEntityPool(),
		components: make(map[ComponentType]map[Entity]Component),
		queued:     make(map[Entity]bool),
	}
}

// CreateEntity mints a new entity with no components.
func (w *World) CreateEntity() Entity {
	return w.pool.Create()
}

// Alive reports whether the entity is alive. Entities queued for destruction
// stay alive until the next Maintain.
func (w *World) Alive(id Entity) bool {
	return w.pool.Alive(id)
}

// DestroyEntity queues id for removal at the next Maintain. Stale handles and
// repeated calls are no-ops.
func (w *World) DestroyEntity(id Entity) {
	if !w.pool.Alive(id) || w.queued[id] {
		return
	}
	w.queued[id] = true
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestroy reports whether id is queued for removal.
func (w *World) PendingDestroy(id Entity) bool {
	return w.queued[id]
}

// Lazy queues a mutation to run at the start of the next Maintain, before
// queued destructions are applied.
func (w *World) Lazy(fn func(*World)) {
	w.lazy = append(w.lazy, fn)
}

// Maintain applies deferred mutations, then reclaims every queued entity.
// It returns the number of entities destroyed.
func (w *World) Maintain() int {
	// Lazy closures may queue more work; drain until stable.
	for len(w.lazy) > 0 {
		pending := w.lazy
		w.lazy = nil
		for _, fn := range pending {
			fn(w)
		}
	}

	n := len(w.destroyQueue)
	for _, id := range w.destroyQueue {
		for _, store := range w.components {
			delete(store, id)
		}
		w.pool.Release(id)
		delete(w.queued, id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

// Clear drops every entity and component immediately. Used when a saved
// world replaces the live one.
func (w *World) Clear() {
	w.pool = NewEntityPool()
	w.components = make(map[ComponentType]map[Entity]Component)
	w.destroyQueue = w.destroyQueue[:0]
	w.queued = make(map[Entity]bool)
	w.lazy = nil
}

// Add attaches a component to an entity, replacing any previous value of the
// same type. Adding to a dead entity is ignored.
func (w *World) Add(id Entity, c Component) {
	if !w.pool.Alive(id) {
		return
	}
	t := c.Type()
	if w.components[t] == nil {
		w.components[t] = make(map[Entity]Component)
	}
	w.components[t][id] = c
}

// Get returns the component of the given type for entity id, or nil.
func (w *World) Get(id Entity, t ComponentType) Component {
	store := w.components[t]
	if store == nil {
		return nil
	}
	return store[id]
}

// Remove detaches a component from an entity. Missing components are a no-op.
func (w *World) Remove(id Entity, t ComponentType) {
	if store := w.components[t]; store != nil {
		delete(store, id)
	}
}

// RemoveAll clears every component of type t from every entity.
func (w *World) RemoveAll(t ComponentType) {
	delete(w.components, t)
}

// Has reports whether entity id has a component of the given type.
func (w *World) Has(id Entity, t ComponentType) bool {
	return w.Get(id, t) != nil
}

// Count returns how many entities carry a component of type t.
func (w *World) Count(t ComponentType) int {
	return len(w.components[t])
}

// Live returns the number of live entities.
func (w *World) Live() int {
	return w.pool.Live()
}

// Query returns all alive entities that have every listed component type,
// ordered by slot index so repeated queries within a turn agree.
func (w *World) Query(types ...ComponentType) []Entity {
	if len(types) == 0 {
		return nil
	}
	// Use the smallest store as the candidate set.
	smallest := types[0]
	for _, t := range types[1:] {
		if len(w.components[t]) < len(w.components[smallest]) {
			smallest = t
		}
	}
	store := w.components[smallest]
	if len(store) == 0 {
		return nil
	}
	result := make([]Entity, 0, len(store))
	for id := range store {
		if !w.pool.Alive(id) {
			continue
		}
		match := true
		for _, t := range types {
			if t == smallest {
				continue
			}
			if !w.Has(id, t) {
				match = false
				break
			}
		}
		if match {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Index() < result[j].Index()
	})
	return result
}

// Fetch returns entity id's component of type T. The type key comes from
// T's own Type method, so callers never repeat it.
func Fetch[T Component](w *World, id Entity) (T, bool) {
	var zero T
	c, ok := w.Get(id, zero.Type()).(T)
	return c, ok
}
