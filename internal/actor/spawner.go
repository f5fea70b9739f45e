package actor

import (
	"errors"
	"math/rand"

	"github.com/vovakirdan/graveyard/internal/core"
	"github.com/vovakirdan/graveyard/internal/world"
)

// ErrNoSpawnPoint is returned when a level has no ground cell for the player.
var ErrNoSpawnPoint = errors.New("actor: level has no spawn point")

// Speeds holds base movement speeds in cells per second.
type Speeds struct {
	Player float64
	Zombie float64
	Mummy  float64
}

// Spawner creates actors and attaches them to the session root.
type Spawner struct {
	speeds Speeds
	rng    *rand.Rand
	root   *world.Root
	level  *world.Level
	player *Player
}

// NewSpawner creates a spawner with deterministic placement.
func NewSpawner(speeds Speeds, seed int64) *Spawner {
	return &Spawner{
		speeds: speeds,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// CreatePlayer places a player on a random ground cell of level. Threats
// created afterwards live on the same root and level.
func (s *Spawner) CreatePlayer(root *world.Root, level *world.Level) (*Player, error) {
	ground := level.GroundCells()
	if len(ground) == 0 {
		return nil, ErrNoSpawnPoint
	}

	p := &Player{
		cell:  ground[s.rng.Intn(len(ground))],
		level: level,
		speed: s.speeds.Player,
	}
	root.Attach(p)

	s.root = root
	s.level = level
	s.player = p
	return p, nil
}

// CreateZombie spawns a basic threat.
func (s *Spawner) CreateZombie() *Threat {
	return s.createThreat(KindZombie, s.speeds.Zombie)
}

// CreateMummy spawns the variant threat.
func (s *Spawner) CreateMummy() *Threat {
	return s.createThreat(KindMummy, s.speeds.Mummy)
}

// createThreat places the threat as far from the player as the level allows.
func (s *Spawner) createThreat(kind Kind, speed float64) *Threat {
	t := &Threat{
		kind:  kind,
		speed: speed,
		rng:   rand.New(rand.NewSource(s.rng.Int63())),
	}
	switch {
	case s.level != nil && s.player != nil:
		t.cell = s.level.Farthest(s.player.Cell())
	case s.level != nil:
		if ground := s.level.GroundCells(); len(ground) > 0 {
			t.cell = ground[0]
		}
	default:
		t.cell = core.Point{}
	}
	if s.root != nil {
		s.root.Attach(t)
	}
	return t
}
