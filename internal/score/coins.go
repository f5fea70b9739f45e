package score

import (
	"math/rand"
	"sort"
	"time"

	"github.com/vovakirdan/graveyard/internal/core"
	"github.com/vovakirdan/graveyard/internal/world"
)

// CoinConfig controls coin generation.
type CoinConfig struct {
	Interval time.Duration // Time between spawns
	Max      int           // Upper bound on coins lying on the level
}

// CoinField scatters coins on free ground cells and credits a Counter when
// one is collected.
type CoinField struct {
	cfg       CoinConfig
	level     *world.Level
	counter   *Counter
	rng       *rand.Rand
	coins     map[core.Point]bool
	since     time.Duration
	destroyed bool
}

// NewCoinField creates a coin field for level and attaches it to root.
func NewCoinField(root *world.Root, level *world.Level, counter *Counter, cfg CoinConfig, seed int64) *CoinField {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	f := &CoinField{
		cfg:     cfg,
		level:   level,
		counter: counter,
		rng:     rand.New(rand.NewSource(seed)),
		coins:   make(map[core.Point]bool),
	}
	root.Attach(f)
	return f
}

// Update advances the spawn timer and drops a coin each time it elapses.
// occupied reports cells a coin must not appear on (e.g. the player's).
func (f *CoinField) Update(dt time.Duration, occupied func(core.Point) bool) {
	if f.destroyed {
		return
	}
	f.since += dt
	for f.since >= f.cfg.Interval {
		f.since -= f.cfg.Interval
		f.spawn(occupied)
	}
}

func (f *CoinField) spawn(occupied func(core.Point) bool) {
	if f.cfg.Max > 0 && len(f.coins) >= f.cfg.Max {
		return
	}
	var free []core.Point
	for _, p := range f.level.GroundCells() {
		if f.coins[p] || (occupied != nil && occupied(p)) {
			continue
		}
		free = append(free, p)
	}
	if len(free) == 0 {
		return
	}
	f.coins[free[f.rng.Intn(len(free))]] = true
}

// Place puts a coin at p if it is free ground. Used to seed the field.
func (f *CoinField) Place(p core.Point) bool {
	if f.destroyed || f.coins[p] || !f.level.IsGround(p) {
		return false
	}
	f.coins[p] = true
	return true
}

// Collect picks up the coin at p, if any, and credits the counter.
func (f *CoinField) Collect(p core.Point) bool {
	if f.destroyed || !f.coins[p] {
		return false
	}
	delete(f.coins, p)
	f.counter.Add(1)
	return true
}

// Has reports whether a coin lies at p.
func (f *CoinField) Has(p core.Point) bool {
	return f.coins[p]
}

// Coins returns the coin cells in row-major order.
func (f *CoinField) Coins() []core.Point {
	out := make([]core.Point, 0, len(f.coins))
	for p := range f.coins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Destroy removes every coin and stops generation.
func (f *CoinField) Destroy() {
	f.destroyed = true
	f.coins = make(map[core.Point]bool)
}
