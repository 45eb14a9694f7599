package ecs

import "fmt"

// Entity is a generational handle: slot index in the low 32 bits, slot
// generation in the high 32. A destroyed slot bumps its generation so any
// handle still pointing at it stops resolving.
type Entity uint64

// NilEntity is the zero value. No valid entity has this handle.
const NilEntity Entity = 0

// NewEntity packs an index and generation into a handle.
func NewEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

func (e Entity) Index() uint32      { return uint32(e) }
func (e Entity) Generation() uint32 { return uint32(e >> 32) }

func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.Index(), e.Generation())
}

// ComponentType is a small integer key used to store/retrieve components.
type ComponentType uint8

// Component is implemented by every data struct stored in the world.
type Component interface {
	Type() ComponentType
}

// EntityPool hands out generational handles and recycles freed slots.
// Generations start at 1 so that NilEntity never names a live slot.
type EntityPool struct {
	generations []uint32
	live        []bool
	freeList    []uint32
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 256),
		live:        make([]bool, 0, 256),
		freeList:    make([]uint32, 0, 64),
	}
}

// Create returns a fresh handle, reusing a freed slot when one exists.
func (p *EntityPool) Create() Entity {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.live[idx] = true
		return NewEntity(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 1)
	p.live = append(p.live, true)
	return NewEntity(idx, 1)
}

// Alive reports whether id still names a live slot.
func (p *EntityPool) Alive(id Entity) bool {
	idx := id.Index()
	if int(idx) >= len(p.generations) {
		return false
	}
	return p.live[idx] && p.generations[idx] == id.Generation()
}

// Release frees the slot behind id. Releasing a handle that is not alive is
// a double free and corrupts the free list, so it panics.
func (p *EntityPool) Release(id Entity) {
	if !p.Alive(id) {
		panic(fmt.Sprintf("ecs: release of dead entity %s", id))
	}
	idx := id.Index()
	p.live[idx] = false
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}

// Live returns the number of live slots.
func (p *EntityPool) Live() int {
	return len(p.generations) - len(p.freeList)
}
