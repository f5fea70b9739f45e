package world

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/graveyard/internal/core"
)

// Generation limits
const (
	MinLevelSize = 8
	roomAttempts = 40
	minRoomSize  = 3
	maxRoomSize  = 8
)

// Generator carves rooms joined by L-shaped corridors into a solid grid.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with a deterministic seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// CreateLevel builds a size x size level and attaches it to root.
func (g *Generator) CreateLevel(root *Root, size int) (*Level, error) {
	if size < MinLevelSize {
		return nil, fmt.Errorf("world: level size %d below minimum %d", size, MinLevelSize)
	}

	l := newLevel(size, size)
	maxRoom := min(maxRoomSize, size-2)

	var rooms []core.Rect
	for range roomAttempts {
		w := g.between(minRoomSize, maxRoom)
		h := g.between(minRoomSize, maxRoom)
		x := g.between(1, size-w-1)
		y := g.between(1, size-h-1)
		room := core.NewRect(x, y, w, h)

		overlaps := false
		for _, other := range rooms {
			if room.Grow(1).Intersects(other) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		g.carveRoom(l, room)
		if len(rooms) > 0 {
			g.connect(l, rooms[len(rooms)-1].Center(), room.Center())
		}
		rooms = append(rooms, room)
	}

	if len(rooms) == 0 {
		g.carveRoom(l, core.NewRect(1, 1, size-2, size-2))
	}

	l.index()
	root.Attach(l)
	return l, nil
}

func (g *Generator) carveRoom(l *Level, r core.Rect) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			l.carve(core.Point{X: x, Y: y})
		}
	}
}

// connect digs an L-shaped corridor, randomly horizontal-first or vertical-first.
func (g *Generator) connect(l *Level, a, b core.Point) {
	corner := core.Point{X: b.X, Y: a.Y}
	if g.rng.Intn(2) == 0 {
		corner = core.Point{X: a.X, Y: b.Y}
	}
	g.line(l, a, corner)
	g.line(l, corner, b)
}

func (g *Generator) line(l *Level, a, b core.Point) {
	step := core.Point{X: sign(b.X - a.X), Y: sign(b.Y - a.Y)}
	for p := a; ; p = p.Add(step) {
		l.carve(p)
		if p == b {
			return
		}
	}
}

// between returns a random int in [lo, hi]; hi below lo yields lo.
func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo+1)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
