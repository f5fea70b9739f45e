package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/graveyard/internal/config"
	"github.com/vovakirdan/graveyard/internal/core"
	"github.com/vovakirdan/graveyard/internal/game"
	"github.com/vovakirdan/graveyard/internal/session"
)

// Screen identifies the active screen of an App.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenGame
	ScreenRecords
)

func (s Screen) String() string {
	switch s {
	case ScreenMenu:
		return "menu"
	case ScreenGame:
		return "game"
	case ScreenRecords:
		return "records"
	default:
		return "unknown"
	}
}

// Start selects the first screen of an App.
type Start int

const (
	StartMenu Start = iota
	StartGame
	StartRecords
)

// App manages the full flow: menu -> game -> records -> game or menu.
// This is the top-level model for local and SSH sessions.
type App struct {
	env      Env
	config   core.RuntimeConfig
	screen   Screen
	menu     MenuModel
	game     *GameModel
	records  RecordsModel
	live     *liveGame
	quitting bool
}

// liveGame tracks the game on screen across the copies Bubble Tea makes of
// an App, so Close can reach it after the program exits.
type liveGame struct {
	game *game.Game
}

// NewApp creates the top-level model.
func NewApp(env Env, cfg core.RuntimeConfig, start Start) App {
	if env.Config.Difficulty == "" {
		env.Config.Difficulty = config.DifficultyNormal
	}

	m := App{
		env:    env,
		config: cfg,
		menu:   NewMenuModel(cfg, env.Player, env.Config.Difficulty),
		live:   &liveGame{},
	}

	switch start {
	case StartGame:
		m.screen = ScreenGame
		m.game = m.newGame(env.Config.Difficulty)
	case StartRecords:
		m.screen = ScreenRecords
		m.records = NewRecordsModel(env.Store, "", cfg.ScreenW, cfg.ScreenH)
	}
	return m
}

// newGame builds a game screen with the preset applied to the base config.
func (m App) newGame(preset config.DifficultyPreset) *GameModel {
	env := m.env
	config.ApplyPreset(&env.Config, preset)
	gm := NewGameModel(env, m.config)
	m.live.game = gm.Game()
	return &gm
}

// Init initializes the first screen.
func (m App) Init() tea.Cmd {
	switch m.screen {
	case ScreenGame:
		return m.game.Init()
	case ScreenRecords:
		return m.records.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the active screen.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Every screen learns the new size; the next one starts with it
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case ScreenGame:
		return m.updateGame(msg)
	case ScreenRecords:
		return m.updateRecords(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.menu.Selected() {
	case ChoicePlay:
		return m.startGame()
	case ChoiceRecords:
		return m.showRecords("")
	}
	return m, cmd
}

// updateGame handles updates when a session is on screen.
func (m App) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Esc leaves a session that never started
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" && errors.Is(m.game.Game().Err(), session.ErrSetupFailure) {
		return m.showMenu()
	}

	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.SummaryShown() {
		current := ""
		if orch := m.game.Game().Session(); orch != nil {
			current = orch.SessionID()
		}
		return m.showRecords(current)
	}
	return m, cmd
}

// updateRecords handles updates when the records screen is shown.
func (m App) updateRecords(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.records.Update(msg)
	if recordsModel, ok := newModel.(RecordsModel); ok {
		m.records = recordsModel
	}

	switch {
	case m.records.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.records.PlayAgain():
		return m.startGame()
	case m.records.IsGoingBack():
		return m.showMenu()
	}
	return m, cmd
}

// startGame replaces any previous game with a brand-new session.
func (m App) startGame() (tea.Model, tea.Cmd) {
	m.game = m.newGame(m.menu.Difficulty())
	m.screen = ScreenGame
	return m, m.game.Init()
}

// showRecords switches to the records screen, highlighting current.
func (m App) showRecords(current string) (tea.Model, tea.Cmd) {
	m.game = nil
	m.records = NewRecordsModel(m.env.Store, current, m.config.ScreenW, m.config.ScreenH)
	m.screen = ScreenRecords
	return m, m.records.Init()
}

// showMenu switches back to the menu, keeping the chosen difficulty.
func (m App) showMenu() (tea.Model, tea.Cmd) {
	m.game = nil
	m.menu = NewMenuModel(m.config, m.env.Player, m.menu.Difficulty())
	m.screen = ScreenMenu
	return m, m.menu.Init()
}

// View renders the active screen.
func (m App) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case ScreenGame:
		return m.game.View()
	case ScreenRecords:
		return m.records.View()
	}
	return m.menu.View()
}

// Screen returns the active screen.
func (m App) Screen() Screen {
	return m.screen
}

// IsQuitting returns true if user requested to quit entirely.
func (m App) IsQuitting() bool {
	return m.quitting
}

// Close records a session that is still running, as a quit.
func (m App) Close() {
	if m.live.game != nil {
		m.live.game.Close()
	}
}

// RunApp runs the Graveyard front end until the user quits.
func RunApp(env Env, cfg core.RuntimeConfig, start Start) error {
	p := tea.NewProgram(
		NewApp(env, cfg, start),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if app, ok := finalModel.(App); ok {
		app.Close()
	}
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
