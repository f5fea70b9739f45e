package world

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/graveyard/internal/core"
)

// ErrBadLayout is returned by ParseLevel for empty or ragged layouts.
var ErrBadLayout = errors.New("world: bad level layout")

// Level is a square-ish grid of wall and ground cells.
type Level struct {
	width     int
	height    int
	walls     [][]bool
	ground    []core.Point
	destroyed bool
}

func newLevel(width, height int) *Level {
	walls := make([][]bool, height)
	for y := range walls {
		walls[y] = make([]bool, width)
		for x := range walls[y] {
			walls[y][x] = true
		}
	}
	return &Level{width: width, height: height, walls: walls}
}

// ParseLevel builds a level from rows of text: '#' is wall, anything else is ground.
func ParseLevel(layout []string) (*Level, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, ErrBadLayout
	}
	l := newLevel(len(layout[0]), len(layout))
	for y, row := range layout {
		if len(row) != l.width {
			return nil, fmt.Errorf("%w: row %d has width %d, expected %d", ErrBadLayout, y, len(row), l.width)
		}
		for x, ch := range row {
			if ch != '#' {
				l.walls[y][x] = false
			}
		}
	}
	l.index()
	return l, nil
}

// index rebuilds the ground cell list in row-major order.
func (l *Level) index() {
	l.ground = l.ground[:0]
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			if !l.walls[y][x] {
				l.ground = append(l.ground, core.Point{X: x, Y: y})
			}
		}
	}
}

func (l *Level) carve(p core.Point) {
	if l.inBounds(p) {
		l.walls[p.Y][p.X] = false
	}
}

func (l *Level) inBounds(p core.Point) bool {
	return p.X >= 0 && p.X < l.width && p.Y >= 0 && p.Y < l.height
}

// Width returns the grid width in cells.
func (l *Level) Width() int { return l.width }

// Height returns the grid height in cells.
func (l *Level) Height() int { return l.height }

// IsGround reports whether p is a walkable cell.
func (l *Level) IsGround(p core.Point) bool {
	return l.inBounds(p) && !l.walls[p.Y][p.X]
}

// GroundCells returns a copy of the walkable cells in row-major order.
func (l *Level) GroundCells() []core.Point {
	out := make([]core.Point, len(l.ground))
	copy(out, l.ground)
	return out
}

// Destroy releases the level. The grid stays readable so late renders do not
// panic, but Destroyed reports true.
func (l *Level) Destroy() {
	l.destroyed = true
}

// Destroyed reports whether the owning root has been cleared.
func (l *Level) Destroyed() bool {
	return l.destroyed
}

// Path returns the shortest walkable route from 'from' to 'to', excluding
// 'from' and including 'to'. It returns nil when 'to' is unreachable or equal
// to 'from'.
func (l *Level) Path(from, to core.Point) []core.Point {
	if from == to || !l.IsGround(to) {
		return nil
	}

	prev := map[core.Point]core.Point{from: from}
	queue := []core.Point{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			break
		}
		for _, d := range core.Directions {
			next := cur.Add(d.Delta())
			if _, seen := prev[next]; seen || !l.IsGround(next) {
				continue
			}
			prev[next] = cur
			queue = append(queue, next)
		}
	}

	if _, ok := prev[to]; !ok {
		return nil
	}

	var path []core.Point
	for cur := to; cur != from; cur = prev[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Farthest returns the ground cell with the largest walking distance from
// 'from'. It returns 'from' when nothing else is reachable.
func (l *Level) Farthest(from core.Point) core.Point {
	dist := map[core.Point]int{from: 0}
	queue := []core.Point{from}
	best := from
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] > dist[best] {
			best = cur
		}
		for _, d := range core.Directions {
			next := cur.Add(d.Delta())
			if _, seen := dist[next]; seen || !l.IsGround(next) {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return best
}
