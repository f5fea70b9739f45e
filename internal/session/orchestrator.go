package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/graveyard/internal/actor"
	"github.com/vovakirdan/graveyard/internal/world"
)

const persistTimeout = 5 * time.Second

// Deps are the collaborators an Orchestrator drives. Root, Levels, Players,
// Threats and Score are required. Records and Summary may be nil; a nil
// Records means results are lost (and logged).
type Deps struct {
	Root      *world.Root
	Levels    LevelFactory
	Players   PlayerFactory
	Threats   ThreatFactory
	Score     ScoreSource
	Input     InputBoundary
	Viewpoint Viewpoint
	Records   RecordStore
	Summary   SummaryView
	Logger    *log.Logger
	Now       func() time.Time
}

// step is one entry of the escalation script: once ready reports true, run
// performs the step's mutations. A loop step stays current after running.
type step struct {
	name  string
	ready func() bool
	run   func()
	loop  bool
}

// Orchestrator owns a single session from setup to termination. It is not
// reusable: once terminated, a new Orchestrator is needed.
type Orchestrator struct {
	deps   Deps
	logger *log.Logger
	script []step

	id        string
	stage     Stage
	cursor    int  // index into script
	active    bool // false once teardown begins; gates every mutating step
	clock     time.Duration
	startedAt time.Duration
	baseline  int

	level   *world.Level
	player  *actor.Player
	threats []*actor.Threat
	record  *Record
}

// New creates an idle orchestrator.
func New(deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	o := &Orchestrator{
		deps:   deps,
		logger: deps.Logger,
		stage:  StageIdle,
	}
	o.script = o.escalation()
	return o
}

// escalation builds the threat script.
func (o *Orchestrator) escalation() []step {
	return []step{
		{
			name:  "first zombie",
			ready: func() bool { return o.Elapsed() >= InitialDelay },
			run:   func() { o.spawn(o.deps.Threats.CreateZombie()) },
		},
		{
			name:  "second zombie",
			ready: func() bool { return o.deps.Score.Current() >= SecondZombieAt },
			run:   func() { o.spawn(o.deps.Threats.CreateZombie()) },
		},
		{
			name:  "mummy",
			ready: func() bool { return o.deps.Score.Current() >= MummyAt },
			run:   func() { o.spawn(o.deps.Threats.CreateMummy()) },
		},
		{
			name:  "pursuit",
			ready: func() bool { return o.deps.Score.Current() >= PursuitAt },
			run:   o.startPursuit,
		},
		{
			name:  "accelerate",
			ready: func() bool { return o.deps.Score.Current() != o.baseline },
			run:   o.accelerate,
			loop:  true,
		},
	}
}

// Setup clears whatever the root still holds, builds a fresh level with the
// player in it, points the viewpoint at the player and arms the escalation
// script. Calling it again restarts the session from scratch.
func (o *Orchestrator) Setup() error {
	if o.stage == StageTerminated {
		return fmt.Errorf("%w: orchestrator already terminated", ErrSetupFailure)
	}

	o.stage = StageSettingUp
	o.active = false
	o.clearLevel()

	level, err := o.deps.Levels.CreateLevel(o.deps.Root, LevelSize)
	if err != nil {
		o.stage = StageIdle
		return fmt.Errorf("%w: %w", ErrSetupFailure, err)
	}

	player, err := o.deps.Players.CreatePlayer(o.deps.Root, level)
	if err != nil {
		o.clearLevel()
		o.stage = StageIdle
		return fmt.Errorf("%w: %w", ErrSetupFailure, err)
	}

	if o.deps.Viewpoint != nil {
		o.deps.Viewpoint.Follow(player)
	}

	o.id = uuid.NewString()
	o.level = level
	o.player = player
	o.startedAt = o.clock
	o.cursor = 0
	o.baseline = 0
	o.stage = StageEscalating
	o.active = true

	o.logger.Debug("session started", "session", o.id, "ground", len(level.GroundCells()))
	return nil
}

// OnTick advances session time by dt and resumes the escalation script. Every
// step whose condition already holds runs in this tick, in order; the
// repeating acceleration step runs at most once per tick.
func (o *Orchestrator) OnTick(dt time.Duration) {
	if dt > 0 {
		o.clock += dt
	}

	for o.active && o.cursor < len(o.script) {
		s := o.script[o.cursor]
		if !s.ready() {
			return
		}
		s.run()
		if s.loop {
			return
		}
		o.cursor++
		o.logger.Debug("escalation step done", "session", o.id, "step", s.name, "score", o.deps.Score.Current())
	}
}

// OnFixedTick polls the input boundary and ends the session on a quit request.
func (o *Orchestrator) OnFixedTick() {
	if !o.active || o.deps.Input == nil {
		return
	}
	if o.deps.Input.QuitRequested() {
		//nolint:errcheck // Persistence failures are logged in Terminate
		o.Terminate(CauseQuit)
	}
}

// PlayerCaught ends the session because a threat of the given kind reached
// the player.
func (o *Orchestrator) PlayerCaught(kind actor.Kind) (Record, error) {
	return o.Terminate(CauseFor(kind))
}

// Terminate ends the session: it stops the escalation script, records the
// result, shows the summary and destroys everything the session owns. Only
// the first call on a running session has any effect.
//
// A mummy death wipes the score before it is recorded.
func (o *Orchestrator) Terminate(cause Cause) (Record, error) {
	if !o.active {
		return Record{}, ErrNotRunning
	}
	o.active = false
	o.stage = StageTerminated

	if cause == CauseMummyDeath {
		o.deps.Score.Reset()
	}

	rec := Record{
		SessionID:  o.id,
		Coins:      o.deps.Score.Current(),
		Duration:   o.Elapsed(),
		LaunchedAt: o.deps.Now(),
		Cause:      cause,
	}
	err := o.persist(&rec)
	o.record = &rec

	o.logger.Info("session ended",
		"session", o.id,
		"cause", cause,
		"coins", rec.Coins,
		"duration", rec.Duration.Round(time.Millisecond),
	)

	if o.deps.Summary != nil {
		o.deps.Summary.ShowRecords()
	}

	o.clearLevel()
	return rec, err
}

// persist appends rec inside a scoped repository. The player name comes from
// the stored profile.
func (o *Orchestrator) persist(rec *Record) error {
	if o.deps.Records == nil {
		o.logger.Warn("result not saved", "session", o.id, "error", "no record store")
		return fmt.Errorf("%w: no record store", ErrPersistenceFailure)
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := o.deps.Records.WithRepository(ctx, func(repo Repository) error {
		rec.Name = repo.UserName()
		return repo.AppendRecord(*rec)
	})
	if err != nil {
		o.logger.Warn("result not saved", "session", o.id, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	return nil
}

func (o *Orchestrator) spawn(t *actor.Threat) {
	t.StartPatrol(o.level)
	o.threats = append(o.threats, t)
	o.logger.Debug("threat spawned", "session", o.id, "kind", t.Kind(), "cell", t.Cell())
}

func (o *Orchestrator) startPursuit() {
	for _, t := range o.threats {
		t.StopPatrol()
		t.StartPursue(o.player)
	}
	o.baseline = o.deps.Score.Current()
	o.stage = StagePursuing
}

// accelerate speeds every threat up once per observed score change.
func (o *Orchestrator) accelerate() {
	for _, t := range o.threats {
		t.SetSpeed(t.Speed() * SpeedFactor)
	}
	o.baseline = o.deps.Score.Current()
}

// clearLevel releases the viewpoint and destroys all session objects.
func (o *Orchestrator) clearLevel() {
	if o.deps.Viewpoint != nil {
		o.deps.Viewpoint.Detach()
	}
	o.deps.Root.Clear()
	o.level = nil
	o.player = nil
	o.threats = nil
}

// Stage returns the lifecycle state.
func (o *Orchestrator) Stage() Stage {
	return o.stage
}

// EscalationStep returns how many escalation steps have completed (0..4).
func (o *Orchestrator) EscalationStep() int {
	return o.cursor
}

// Active reports whether the session is running.
func (o *Orchestrator) Active() bool {
	return o.active
}

// SessionID returns the ID assigned at setup.
func (o *Orchestrator) SessionID() string {
	return o.id
}

// Elapsed returns the session time since setup.
func (o *Orchestrator) Elapsed() time.Duration {
	return o.clock - o.startedAt
}

// Level returns the running level, or nil outside a session.
func (o *Orchestrator) Level() *world.Level {
	return o.level
}

// Player returns the player, or nil outside a session.
func (o *Orchestrator) Player() *actor.Player {
	return o.player
}

// Threats returns the spawned threats in spawn order.
func (o *Orchestrator) Threats() []*actor.Threat {
	out := make([]*actor.Threat, len(o.threats))
	copy(out, o.threats)
	return out
}

// Result returns the record built at termination.
func (o *Orchestrator) Result() (Record, bool) {
	if o.record == nil {
		return Record{}, false
	}
	return *o.record, true
}
