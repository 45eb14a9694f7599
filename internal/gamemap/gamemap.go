package gamemap

import (
	"fmt"

	"dungeoncrawl/internal/ecs"
)

// Map is the tile grid for one dungeon level plus the spatial index rebuilt
// every turn. All per-cell slices are row-major with index y*Width+x.
type Map struct {
	Width, Height int
	Tiles         []TileKind
	Rooms         []Rect
	Revealed      []bool
	Visible       []bool
	Blocked       []bool

	// TileContent lists the entities standing on each cell. It is derived
	// state and never persisted.
	TileContent [][]ecs.Entity `json:"-"`
}

// New creates a Map filled with walls.
func New(width, height int) *Map {
	n := width * height
	m := &Map{
		Width:    width,
		Height:   height,
		Tiles:    make([]TileKind, n),
		Revealed: make([]bool, n),
		Visible:  make([]bool, n),
		Blocked:  make([]bool, n),
	}
	m.ResetIndex()
	return m
}

// XYIdx maps a coordinate to its linear index. It does not bounds-check.
func (m *Map) XYIdx(x, y int) int {
	return y*m.Width + x
}

// IdxXY is the inverse of XYIdx.
func (m *Map) IdxXY(idx int) (int, int) {
	return idx % m.Width, idx / m.Width
}

// InBounds reports whether (x, y) is within the map boundaries.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// MustIdx is XYIdx with a bounds assertion. An out-of-bounds coordinate is a
// caller bug and panics.
func (m *Map) MustIdx(x, y int) int {
	if !m.InBounds(x, y) {
		panic(fmt.Sprintf("gamemap: (%d,%d) outside %dx%d map", x, y, m.Width, m.Height))
	}
	return m.XYIdx(x, y)
}

// At returns the tile kind at (x, y). Panics if out of bounds.
func (m *Map) At(x, y int) TileKind {
	return m.Tiles[m.MustIdx(x, y)]
}

// Set replaces the tile at (x, y).
func (m *Map) Set(x, y int, k TileKind) {
	m.Tiles[m.MustIdx(x, y)] = k
}

// IsOpaque returns true when (x, y) blocks sight. Out-of-bounds cells are opaque.
func (m *Map) IsOpaque(x, y int) bool {
	if !m.InBounds(x, y) {
		return true
	}
	return m.Tiles[m.XYIdx(x, y)].Opaque()
}

// IsBlocked returns true when (x, y) cannot be entered this turn, either
// because of terrain or because a blocking entity stands there.
func (m *Map) IsBlocked(x, y int) bool {
	if !m.InBounds(x, y) {
		return true
	}
	return m.Blocked[m.XYIdx(x, y)]
}

// PopulateBlocked resets the blocked bitmap to static terrain.
func (m *Map) PopulateBlocked() {
	for i, t := range m.Tiles {
		m.Blocked[i] = !t.Walkable()
	}
}

// ClearContentIndex empties every cell's occupant list, keeping capacity.
func (m *Map) ClearContentIndex() {
	for i := range m.TileContent {
		m.TileContent[i] = m.TileContent[i][:0]
	}
}

// AddContent records e as standing on cell idx.
func (m *Map) AddContent(idx int, e ecs.Entity) {
	m.TileContent[idx] = append(m.TileContent[idx], e)
}

// ContentAt returns the occupants of (x, y), or nil out of bounds.
func (m *Map) ContentAt(x, y int) []ecs.Entity {
	if !m.InBounds(x, y) {
		return nil
	}
	return m.TileContent[m.XYIdx(x, y)]
}

// ClearVisible marks every cell as not currently visible.
func (m *Map) ClearVisible() {
	for i := range m.Visible {
		m.Visible[i] = false
	}
}

// ResetIndex reallocates the derived spatial index. Needed after a map is
// decoded, since TileContent is not persisted.
func (m *Map) ResetIndex() {
	n := m.Width * m.Height
	m.TileContent = make([][]ecs.Entity, n)
	if len(m.Blocked) != n {
		m.Blocked = make([]bool, n)
	}
	if len(m.Visible) != n {
		m.Visible = make([]bool, n)
	}
	if len(m.Revealed) != n {
		m.Revealed = make([]bool, n)
	}
	m.PopulateBlocked()
}

// Clone returns a deep copy of the map. Occupant lists are not copied.
func (m *Map) Clone() *Map {
	c := &Map{
		Width:    m.Width,
		Height:   m.Height,
		Tiles:    append([]TileKind(nil), m.Tiles...),
		Rooms:    append([]Rect(nil), m.Rooms...),
		Revealed: append([]bool(nil), m.Revealed...),
		Visible:  append([]bool(nil), m.Visible...),
		Blocked:  append([]bool(nil), m.Blocked...),
	}
	c.TileContent = make([][]ecs.Entity, len(c.Tiles))
	return c
}
