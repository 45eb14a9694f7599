package fov

import (
	"testing"

	"dungeoncrawl/internal/gamemap"
)

// openMap creates a fully-open (all floor) map.
func openMap(width, height int) *gamemap.Map {
	m := gamemap.New(width, height)
	for y := range height {
		for x := range width {
			m.Set(x, y, gamemap.TileFloor)
		}
	}
	return m
}

func TestOriginAlwaysVisible(t *testing.T) {
	m := openMap(20, 20)
	vis := Compute(gamemap.Point{X: 5, Y: 5}, 5, m)
	if !vis.Has(gamemap.Point{X: 5, Y: 5}) {
		t.Error("origin must always be visible")
	}
}

func TestOpenMapRadius(t *testing.T) {
	m := openMap(30, 30)
	origin := gamemap.Point{X: 15, Y: 15}
	vis := Compute(origin, 5, m)

	for _, d := range []gamemap.Point{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 3, Y: 3}, {X: -4, Y: 0}} {
		p := origin.Add(d.X, d.Y)
		if !vis.Has(p) {
			t.Errorf("expected %v visible", p)
		}
	}
	if vis.Has(origin.Add(10, 0)) {
		t.Error("cell beyond radius must not be visible")
	}
}

func TestWallBlocksSight(t *testing.T) {
	m := openMap(20, 20)
	// vertical wall at x=7 spanning the whole map
	for y := range 20 {
		m.Set(7, y, gamemap.TileWall)
	}
	vis := Compute(gamemap.Point{X: 5, Y: 10}, 8, m)

	if !vis.Has(gamemap.Point{X: 7, Y: 10}) {
		t.Error("the wall itself should be visible")
	}
	if vis.Has(gamemap.Point{X: 9, Y: 10}) {
		t.Error("cell behind the wall must not be visible")
	}
}

func TestOutOfBoundsNeverReturned(t *testing.T) {
	m := openMap(6, 6)
	vis := Compute(gamemap.Point{X: 0, Y: 0}, 8, m)
	vis.Each(func(p gamemap.Point) {
		if !m.InBounds(p.X, p.Y) {
			t.Errorf("out-of-bounds cell %v in result", p)
		}
	})
}

func TestOriginOutOfBounds(t *testing.T) {
	m := openMap(4, 4)
	if vis := Compute(gamemap.Point{X: -1, Y: 0}, 3, m); vis.Size() != 0 {
		t.Fatalf("expected empty set, got %d cells", vis.Size())
	}
}
