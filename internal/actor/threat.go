package actor

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/graveyard/internal/core"
	"github.com/vovakirdan/graveyard/internal/world"
)

// Kind distinguishes threats by what their touch does to the session.
type Kind int

const (
	KindZombie Kind = iota // Basic threat
	KindMummy              // Variant threat; its touch also wipes the score
)

func (k Kind) String() string {
	switch k {
	case KindZombie:
		return "zombie"
	case KindMummy:
		return "mummy"
	default:
		return "unknown"
	}
}

// Mode is the current behaviour of a threat.
type Mode int

const (
	ModeIdle    Mode = iota // Spawned, not moving
	ModePatrol              // Wandering between random ground cells
	ModePursue              // Chasing a target
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePatrol:
		return "patrol"
	case ModePursue:
		return "pursue"
	default:
		return "unknown"
	}
}

// Threat is an enemy actor.
type Threat struct {
	mover
	kind      Kind
	cell      core.Point
	speed     float64
	mode      Mode
	level     *world.Level
	target    Target
	route     []core.Point
	rng       *rand.Rand
	destroyed bool
}

// Kind returns the threat kind.
func (t *Threat) Kind() Kind { return t.kind }

// Mode returns the current behaviour.
func (t *Threat) Mode() Mode { return t.mode }

// Cell returns the threat's current cell.
func (t *Threat) Cell() core.Point { return t.cell }

// Speed returns the movement speed in cells per second.
func (t *Threat) Speed() float64 { return t.speed }

// SetSpeed changes the movement speed.
func (t *Threat) SetSpeed(v float64) {
	t.speed = v
}

// Destroyed reports whether the threat has been released.
func (t *Threat) Destroyed() bool { return t.destroyed }

// StartPatrol makes the threat wander the level.
func (t *Threat) StartPatrol(level *world.Level) {
	t.level = level
	t.mode = ModePatrol
	t.route = nil
}

// StopPatrol halts wandering. It has no effect in other modes.
func (t *Threat) StopPatrol() {
	if t.mode != ModePatrol {
		return
	}
	t.mode = ModeIdle
	t.route = nil
}

// StartPursue makes the threat chase target.
func (t *Threat) StartPursue(target Target) {
	t.mode = ModePursue
	t.target = target
	t.route = nil
}

// Touches reports whether the threat occupies p.
func (t *Threat) Touches(p core.Point) bool {
	return !t.destroyed && t.cell == p
}

// Update moves the threat according to its mode.
func (t *Threat) Update(dt time.Duration) {
	if t.destroyed || t.mode == ModeIdle || t.level == nil {
		return
	}
	for range t.steps(t.speed, dt) {
		if !t.step() {
			return
		}
	}
}

func (t *Threat) step() bool {
	switch t.mode {
	case ModePatrol:
		if len(t.route) == 0 {
			t.route = t.level.Path(t.cell, t.pickDestination())
		}
	case ModePursue:
		if t.target == nil {
			return false
		}
		t.route = t.level.Path(t.cell, t.target.Cell())
	}
	if len(t.route) == 0 {
		return false
	}
	t.cell = t.route[0]
	t.route = t.route[1:]
	return true
}

func (t *Threat) pickDestination() core.Point {
	ground := t.level.GroundCells()
	if len(ground) == 0 {
		return t.cell
	}
	return ground[t.rng.Intn(len(ground))]
}

// Destroy removes the threat from play.
func (t *Threat) Destroy() {
	t.destroyed = true
	t.route = nil
	t.target = nil
}
