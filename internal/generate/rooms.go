// Package generate builds dungeon levels. Only the index contract of the
// produced map matters to the simulation; layout is cosmetic.
package generate

import (
	"math/rand"

	"dungeoncrawl/internal/gamemap"
)

// Config drives procedural generation for one level.
type Config struct {
	Width, Height int
	MaxRooms      int
	MinRoomSize   int
	MaxRoomSize   int
	Rand          *rand.Rand
}

// RoomsAndCorridors places up to MaxRooms non-overlapping rooms at random and
// joins each new room to the previous one with an L-shaped corridor. The
// returned map has its blocked bitmap populated and at least one room.
func RoomsAndCorridors(cfg Config) *gamemap.Map {
	m := gamemap.New(cfg.Width, cfg.Height)
	minSize := max(cfg.MinRoomSize, 1)
	maxSize := max(cfg.MaxRoomSize, minSize)

	for range cfg.MaxRooms {
		w := minSize + cfg.Rand.Intn(maxSize-minSize+1)
		h := minSize + cfg.Rand.Intn(maxSize-minSize+1)
		if w >= cfg.Width-2 || h >= cfg.Height-2 {
			continue
		}
		x := 1 + cfg.Rand.Intn(cfg.Width-w-2)
		y := 1 + cfg.Rand.Intn(cfg.Height-h-2)
		room := gamemap.NewRect(x, y, w, h)

		ok := true
		for _, other := range m.Rooms {
			if room.Intersects(other) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		carveRoom(m, room)
		if n := len(m.Rooms); n > 0 {
			nx, ny := room.Center()
			px, py := m.Rooms[n-1].Center()
			carveCorridor(m, px, py, nx, ny, cfg.Rand)
		}
		m.Rooms = append(m.Rooms, room)
	}

	// A level without rooms has nowhere to place the player.
	if len(m.Rooms) == 0 {
		room := gamemap.NewRect(1, 1, min(maxSize, cfg.Width-3), min(maxSize, cfg.Height-3))
		carveRoom(m, room)
		m.Rooms = append(m.Rooms, room)
	}
	m.PopulateBlocked()
	return m
}
