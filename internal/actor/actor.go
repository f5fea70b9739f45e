// Package actor implements the grid-walking entities of a session: the
// player and the threats that hunt them.
package actor

import (
	"time"

	"github.com/vovakirdan/graveyard/internal/core"
	"github.com/vovakirdan/graveyard/internal/world"
)

// Target is anything a threat can pursue.
type Target interface {
	Cell() core.Point
}

// mover accumulates fractional movement: speed is in cells per second and a
// step is taken each time a whole cell of progress is banked.
type mover struct {
	progress float64
}

// steps banks dt worth of movement and returns how many whole cells to move.
func (m *mover) steps(speed float64, dt time.Duration) int {
	if speed <= 0 || dt <= 0 {
		return 0
	}
	m.progress += speed * dt.Seconds()
	n := int(m.progress)
	m.progress -= float64(n)
	return n
}

// Player is the controllable actor. It keeps walking along its heading until
// a wall stops it.
type Player struct {
	mover
	cell      core.Point
	level     *world.Level
	speed     float64
	heading   core.Direction
	destroyed bool
}

// Cell returns the player's current cell.
func (p *Player) Cell() core.Point {
	return p.cell
}

// Heading returns the current walking direction.
func (p *Player) Heading() core.Direction {
	return p.heading
}

// Speed returns the walking speed in cells per second.
func (p *Player) Speed() float64 {
	return p.speed
}

// Steer changes the walking direction. DirNone stops the player.
func (p *Player) Steer(d core.Direction) {
	if p.heading != d {
		p.progress = 0
	}
	p.heading = d
}

// Update moves the player along its heading.
func (p *Player) Update(dt time.Duration) {
	if p.destroyed || p.heading == core.DirNone {
		return
	}
	for range p.steps(p.speed, dt) {
		next := p.cell.Add(p.heading.Delta())
		if !p.level.IsGround(next) {
			p.heading = core.DirNone
			p.progress = 0
			return
		}
		p.cell = next
	}
}

// Destroy removes the player from play.
func (p *Player) Destroy() {
	p.destroyed = true
}

// Destroyed reports whether the player has been released.
func (p *Player) Destroyed() bool {
	return p.destroyed
}
