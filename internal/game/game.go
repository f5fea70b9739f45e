// Package game implements Graveyard: a maze survival game where the player
// collects coins while zombies and a mummy close in.
//
// Game contains pure simulation logic with no Bubble Tea dependency. The
// platform layer calls Step at a fixed tick rate and Render each frame.
package game

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/graveyard/internal/actor"
	"github.com/vovakirdan/graveyard/internal/config"
	"github.com/vovakirdan/graveyard/internal/core"
	"github.com/vovakirdan/graveyard/internal/score"
	"github.com/vovakirdan/graveyard/internal/session"
	"github.com/vovakirdan/graveyard/internal/world"
)

// Options configures a Game.
type Options struct {
	Config  config.GraveyardConfig
	Records session.RecordStore  // nil loses results
	Levels  session.LevelFactory // nil uses the room generator
	Logger  *log.Logger

	// OnSummary is called once per session, after the result is stored.
	OnSummary func()
}

// quitLatch is the session's input boundary: Esc latches a quit request
// that the orchestrator polls on its fixed tick.
type quitLatch struct {
	requested bool
}

func (q *quitLatch) Request()            { q.requested = true }
func (q *quitLatch) QuitRequested() bool { return q.requested }

// Game runs one session at a time. Reset discards the running session and
// starts a new one with a fresh orchestrator.
type Game struct {
	opts    Options
	logger  *log.Logger
	runtime core.RuntimeConfig
	rng     *rand.Rand
	tick    uint64

	root    *world.Root
	counter *score.Counter
	camera  *Camera
	quit    *quitLatch
	orch    *session.Orchestrator
	coins   *score.CoinField

	paused     bool
	setupErr   error
	persistErr error
}

// New creates a game. Call Reset before the first Step.
func New(opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Game{
		opts:   opts,
		logger: opts.Logger,
		camera: &Camera{},
	}
}

// ID returns the game identifier used for logs and records.
func (g *Game) ID() string {
	return "graveyard"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Graveyard"
}

// Reset tears down the current session, if any, and starts a new one.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	g.runtime = cfg
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.paused = false
	g.setupErr = nil
	g.persistErr = nil

	// A session replaced while running counts as quit
	g.Close()
	g.root = world.NewRoot()
	g.counter = score.NewCounter()
	g.quit = &quitLatch{}
	g.coins = nil

	levels := g.opts.Levels
	if levels == nil {
		levels = world.NewGenerator(g.rng.Int63())
	}
	spawner := actor.NewSpawner(g.opts.Config.Speeds(), g.rng.Int63())

	g.orch = session.New(session.Deps{
		Root:      g.root,
		Levels:    levels,
		Players:   spawner,
		Threats:   spawner,
		Score:     g.counter,
		Input:     g.quit,
		Viewpoint: g.camera,
		Records:   g.opts.Records,
		Summary:   g,
		Logger:    g.logger,
	})

	if err := g.orch.Setup(); err != nil {
		g.setupErr = err
		g.logger.Error("cannot start session", "error", err)
		return
	}

	g.coins = score.NewCoinField(g.root, g.orch.Level(), g.counter, g.opts.Config.CoinConfig(), g.rng.Int63())
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if g.orch == nil {
		return core.StepResult{State: g.State()}
	}

	// Handle restart once the session is over
	if g.over() {
		if input.Has(core.ActionRestart) {
			cfg := g.runtime
			cfg.Seed = g.rng.Int63()
			g.Reset(cfg)
		}
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionBack) {
		g.quit.Request()
	}
	if input.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	// A quit request is honoured even while paused
	if g.paused {
		g.orch.OnFixedTick()
		return core.StepResult{State: g.State()}
	}

	dt := g.runtime.TickDuration()
	player := g.orch.Player()

	if d := input.Heading(); d != core.DirNone {
		player.Steer(d)
	}

	// Movement runs in slices of at most one cell each, with a contact check
	// after every slice, so nobody walks through a threat at low tick rates.
	n := g.substeps(dt)
	slice := dt / time.Duration(n)
	for range n {
		player.Update(slice)
		if g.checkContact() {
			return core.StepResult{State: g.State()}
		}
		g.coins.Collect(player.Cell())

		for _, t := range g.orch.Threats() {
			t.Update(slice)
		}
		if g.checkContact() {
			return core.StepResult{State: g.State()}
		}
	}

	g.coins.Update(dt, g.occupied)
	g.orch.OnTick(dt)
	g.orch.OnFixedTick()

	return core.StepResult{State: g.State()}
}

// substeps returns how many slices dt must be cut into so the fastest actor
// moves at most one cell per slice.
func (g *Game) substeps(dt time.Duration) int {
	fastest := g.orch.Player().Speed()
	for _, t := range g.orch.Threats() {
		fastest = max(fastest, t.Speed())
	}
	return max(int(math.Ceil(fastest*dt.Seconds())), 1)
}

// checkContact ends the session if a threat shares the player's cell.
func (g *Game) checkContact() bool {
	player := g.orch.Player()
	for _, t := range g.orch.Threats() {
		if !t.Touches(player.Cell()) {
			continue
		}
		if _, err := g.orch.PlayerCaught(t.Kind()); err != nil {
			g.persistErr = err
		}
		return true
	}
	return false
}

// occupied reports cells a new coin must not land on.
func (g *Game) occupied(p core.Point) bool {
	if player := g.orch.Player(); player != nil && player.Cell() == p {
		return true
	}
	for _, t := range g.orch.Threats() {
		if t.Cell() == p {
			return true
		}
	}
	return false
}

// Close ends a running session as a quit. It does nothing once the session
// is over.
func (g *Game) Close() {
	if g.orch != nil && g.orch.Active() {
		//nolint:errcheck // Persistence failures are logged by the orchestrator
		g.orch.Terminate(session.CauseQuit)
	}
}

func (g *Game) over() bool {
	return g.setupErr != nil || g.orch.Stage() == session.StageTerminated
}

// ShowRecords is called by the orchestrator once the result is stored.
func (g *Game) ShowRecords() {
	if g.opts.OnSummary != nil {
		g.opts.OnSummary()
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.orch == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.counter.Current(),
		GameOver: g.over(),
		Paused:   g.paused,
	}
}

// Session exposes the running orchestrator.
func (g *Game) Session() *session.Orchestrator {
	return g.orch
}

// Result returns the record of the finished session.
func (g *Game) Result() (session.Record, bool) {
	if g.orch == nil {
		return session.Record{}, false
	}
	return g.orch.Result()
}

// Err returns the setup or persistence error of the current session, if any.
func (g *Game) Err() error {
	if g.setupErr != nil {
		return g.setupErr
	}
	return g.persistErr
}
