package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/graveyard/internal/config"
	"github.com/vovakirdan/graveyard/internal/core"
	"github.com/vovakirdan/graveyard/internal/game"
	"github.com/vovakirdan/graveyard/internal/session"
	"github.com/vovakirdan/graveyard/internal/storage"
)

// Env holds what every screen needs.
type Env struct {
	Store   *storage.Store         // History and profile; nil runs without persistence
	Records session.RecordStore    // Where results go; defaults to Store
	Config  config.GraveyardConfig // Game tuning
	Logger  *log.Logger
	Player  string // Name shown in the menu
}

func (e Env) recordStore() session.RecordStore {
	if e.Records != nil {
		return e.Records
	}
	if e.Store != nil {
		return e.Store
	}
	return nil
}

func (e Env) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.New(io.Discard)
}

// summaryFlag is shared between a GameModel and its game, which outlives
// the model copies Bubble Tea makes.
type summaryFlag struct {
	shown bool
}

// GameModel runs one game on the Bubble Tea tick loop.
type GameModel struct {
	game       *game.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	summary    *summaryFlag
	loop       uint64
	quitting   bool
}

// NewGameModel creates a game model. The game starts on Init.
func NewGameModel(env Env, cfg core.RuntimeConfig) GameModel {
	summary := &summaryFlag{}
	g := game.New(game.Options{
		Config:    env.Config,
		Records:   env.recordStore(),
		Logger:    env.logger(),
		OnSummary: func() { summary.shown = true },
	})

	return GameModel{
		game:       g,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		summary:    summary,
		loop:       loopIDs.Add(1),
	}
}

// Init starts the session and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.loop, m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
			m.game.Close()
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		// The session keeps running; only the viewport changes
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	// The records view takes over once the session has been recorded
	if m.summary.shown {
		return m, nil
	}
	return m, tickCmd(m.loop, m.config.TickRate)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// SummaryShown reports whether the session ended and its result was recorded.
func (m GameModel) SummaryShown() bool {
	return m.summary.shown
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Game exposes the running game.
func (m GameModel) Game() *game.Game {
	return m.game
}
