// Package fov computes field of view with recursive shadowcasting.
package fov

import (
	"dungeoncrawl/internal/gamemap"

	"github.com/zyedidia/generic/mapset"
)

// Grid is the terrain view shadowcasting needs.
type Grid interface {
	InBounds(x, y int) bool
	IsOpaque(x, y int) bool
}

// octant transform matrices.
// For each octant, a (dx, dy) sweep pair maps to a world offset via:
//
//	worldX = cx + dx*xx + dy*xy
//	worldY = cy + dx*yx + dy*yy
var octants = [8][4]int{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// Compute returns every in-bounds cell visible from origin within radius.
// The origin itself is always included when it is in bounds.
func Compute(origin gamemap.Point, radius int, grid Grid) mapset.Set[gamemap.Point] {
	visible := mapset.New[gamemap.Point]()
	if !grid.InBounds(origin.X, origin.Y) {
		return visible
	}
	visible.Put(origin)
	for _, m := range octants {
		castLight(grid, visible, origin.X, origin.Y, 1, 1.0, 0.0, radius, m[0], m[1], m[2], m[3])
	}
	return visible
}

// castLight casts light for one octant.
//   - j is the current row (distance from origin along the main axis)
//   - dy = -j is fixed for the entire inner sweep
//   - dx sweeps from -j to 0
//   - lSlope = (dx - 0.5) / (dy + 0.5), rSlope = (dx + 0.5) / (dy - 0.5)
func castLight(grid Grid, visible mapset.Set[gamemap.Point], cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int) {
	if start < end {
		return
	}
	radiusSq := float64(radius * radius)
	newStart := start

	for j := row; j <= radius; j++ {
		dy := -j
		blocked := false

		for dx := -j; dx <= 0; dx++ {
			wx := cx + dx*xx + dy*xy
			wy := cy + dx*yx + dy*yy

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			if float64(dx*dx+dy*dy) < radiusSq && grid.InBounds(wx, wy) {
				visible.Put(gamemap.Point{X: wx, Y: wy})
			}

			opaque := !grid.InBounds(wx, wy) || grid.IsOpaque(wx, wy)

			if blocked {
				if opaque {
					newStart = rSlope
				} else {
					blocked = false
					start = newStart
				}
			} else if opaque && j < radius {
				blocked = true
				castLight(grid, visible, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
