// Package session runs one play session: it builds the level, spawns the
// player, escalates threats as the score grows, and records the result when
// the session ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/graveyard/internal/actor"
	"github.com/vovakirdan/graveyard/internal/world"
)

// Fixed session parameters. None of these are configurable.
const (
	LevelSize      = 30
	InitialDelay   = time.Second
	SecondZombieAt = 5
	MummyAt        = 10
	PursuitAt      = 20
	SpeedFactor    = 1.05
)

var (
	// ErrSetupFailure is returned by Setup when the level or player cannot be created.
	ErrSetupFailure = errors.New("session: setup failed")

	// ErrPersistenceFailure is returned by Terminate when the result could not be stored.
	// The session is torn down regardless.
	ErrPersistenceFailure = errors.New("session: result not persisted")

	// ErrNotRunning is returned when terminating a session that is not running.
	ErrNotRunning = errors.New("session: not running")
)

// Stage is the orchestrator's lifecycle state.
type Stage int

const (
	StageIdle Stage = iota
	StageSettingUp
	StageEscalating
	StagePursuing
	StageTerminated
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageSettingUp:
		return "setting up"
	case StageEscalating:
		return "escalating"
	case StagePursuing:
		return "pursuing"
	case StageTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Cause is why a session ended.
type Cause int

const (
	CauseZombieDeath Cause = iota
	CauseMummyDeath
	CauseQuit
)

func (c Cause) String() string {
	switch c {
	case CauseZombieDeath:
		return "zombie death"
	case CauseMummyDeath:
		return "mummy death"
	case CauseQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ParseCause is the inverse of Cause.String.
func ParseCause(s string) (Cause, error) {
	for _, c := range []Cause{CauseZombieDeath, CauseMummyDeath, CauseQuit} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("session: unknown cause %q", s)
}

// CauseFor maps the kind of threat that caught the player to an end cause.
func CauseFor(kind actor.Kind) Cause {
	if kind == actor.KindMummy {
		return CauseMummyDeath
	}
	return CauseZombieDeath
}

// Record is the persisted summary of one finished session.
type Record struct {
	SessionID  string
	Name       string
	Coins      int
	Duration   time.Duration
	LaunchedAt time.Time
	Cause      Cause
}

// LevelFactory builds the level for a session.
type LevelFactory interface {
	CreateLevel(root *world.Root, size int) (*world.Level, error)
}

// PlayerFactory places the player inside a level.
type PlayerFactory interface {
	CreatePlayer(root *world.Root, level *world.Level) (*actor.Player, error)
}

// ThreatFactory spawns threats on the current level.
type ThreatFactory interface {
	CreateZombie() *actor.Threat
	CreateMummy() *actor.Threat
}

// ScoreSource exposes the coin count that drives escalation.
type ScoreSource interface {
	Current() int
	Reset()
}

// InputBoundary reports whether the player asked to leave the session.
type InputBoundary interface {
	QuitRequested() bool
}

// Viewpoint is whatever frames the player on screen.
type Viewpoint interface {
	Follow(target actor.Target)
	Detach()
}

// Repository is a scoped view of the persisted profile and result history.
type Repository interface {
	UserName() string
	AppendRecord(r Record) error
}

// RecordStore hands out a Repository for the duration of fn and releases it
// afterwards, whether fn succeeds, fails or panics.
type RecordStore interface {
	WithRepository(ctx context.Context, fn func(Repository) error) error
}

// SummaryView shows the result history once a session is over.
type SummaryView interface {
	ShowRecords()
}
