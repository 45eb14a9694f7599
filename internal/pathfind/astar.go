// Package pathfind finds shortest grid paths with A*.
package pathfind

import (
	"dungeoncrawl/internal/gamemap"

	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

// Grid is the walkability view A* needs.
type Grid interface {
	InBounds(x, y int) bool
	IsBlocked(x, y int) bool
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath returns the shortest 8-connected path from start to goal, start
// included, or nil when none exists within maxSteps node expansions. Every
// step costs 1. The goal cell may itself be blocked (it is usually occupied
// by the target), every other cell on the path may not.
func FindPath(grid Grid, start, goal gamemap.Point, maxSteps int) []gamemap.Point {
	if !grid.InBounds(start.X, start.Y) || !grid.InBounds(goal.X, goal.Y) {
		return nil
	}
	if start == goal {
		return []gamemap.Point{start}
	}

	var seq int
	open := heap.New[node](lessNode)
	open.Push(node{p: start, g: 0, f: heuristic(start, goal), seq: seq})

	came := make(map[gamemap.Point]gamemap.Point)
	gScore := map[gamemap.Point]int{start: 0}
	closed := mapset.New[gamemap.Point]()

	for steps := 0; open.Size() > 0 && steps < maxSteps; steps++ {
		cur, _ := open.Pop()
		if cur.p == goal {
			return reconstructPath(came, goal)
		}
		if closed.Has(cur.p) {
			continue
		}
		closed.Put(cur.p)

		for _, d := range dirs {
			np := cur.p.Add(d[0], d[1])
			if !grid.InBounds(np.X, np.Y) || closed.Has(np) {
				continue
			}
			if np != goal && grid.IsBlocked(np.X, np.Y) {
				continue
			}
			tentG := cur.g + 1
			if old, ok := gScore[np]; ok && tentG >= old {
				continue
			}
			gScore[np] = tentG
			came[np] = cur.p
			seq++
			open.Push(node{p: np, g: tentG, f: tentG + heuristic(np, goal), seq: seq})
		}
	}
	return nil
}

// heuristic is the Chebyshev distance, exact for unit-cost diagonal moves.
func heuristic(a, b gamemap.Point) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func reconstructPath(came map[gamemap.Point]gamemap.Point, goal gamemap.Point) []gamemap.Point {
	path := []gamemap.Point{goal}
	cur := goal
	for {
		prev, ok := came[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type node struct {
	p    gamemap.Point
	g, f int
	seq  int
}

// lessNode breaks f ties by insertion order so paths are deterministic.
func lessNode(a, b node) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	return a.seq < b.seq
}
