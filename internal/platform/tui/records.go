package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/graveyard/internal/storage"
)

// Records layout constants
const (
	maxRecentRecords = 100 // Max rows loaded for the history view
	maxBestRecords   = 10  // Rows shown in the best runs view
)

// RecordsView selects which list the records screen shows.
type RecordsView int

const (
	ViewRecent RecordsView = iota
	ViewBest
)

func (v RecordsView) String() string {
	if v == ViewBest {
		return "BEST RUNS"
	}
	return "HISTORY"
}

// RecordsKeyMap defines the key bindings for the records screen.
type RecordsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Play   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RecordsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Play, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RecordsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Play, k.Back, k.Quit},
	}
}

// DefaultRecordsKeyMap returns default key bindings.
func DefaultRecordsKeyMap() RecordsKeyMap {
	return RecordsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "history/best"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("enter/r", "play again"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RecordsModel is the Bubble Tea model for the session history.
type RecordsModel struct {
	store     *storage.Store // nil shows an empty history
	view      RecordsView
	current   string // Session ID to highlight
	records   []storage.RecordEntry
	stats     *storage.Stats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      RecordsKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
	playAgain bool
}

// NewRecordsModel creates a records model. current is the ID of the session
// that just ended, or empty.
func NewRecordsModel(store *storage.Store, current string, width, height int) RecordsModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := RecordsModel{
		store:   store,
		current: current,
		keys:    DefaultRecordsKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized to the window.
func (m *RecordsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: 12},
		{Title: "Coins", Width: 6},
		{Title: "Time", Width: 6},
		{Title: "Cause", Width: 13},
		{Title: "Date", Width: 12},
	}

	// Give spare width to the name column
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if spare := m.width - 8 - used; spare > 0 {
		columns[1].Width += min(spare, 12)
	}

	height := m.height - 10 // Title, stats, help and borders
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("52")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads the current view and the stats from the store.
func (m *RecordsModel) load() {
	m.records = nil
	m.stats = nil
	m.loadErr = nil

	if m.store != nil {
		if m.view == ViewBest {
			m.records, m.loadErr = m.store.BestRecords(maxBestRecords)
		} else {
			m.records, m.loadErr = m.store.RecentRecords(maxRecentRecords)
		}
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.GetStats()
		}
	}

	m.table.SetRows(recordRows(m.records, m.current))
	m.table.GotoTop()
}

// recordRows formats entries as table rows. The row of the current session
// is marked with an asterisk.
func recordRows(entries []storage.RecordEntry, current string) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rank := fmt.Sprintf("%d", i+1)
		if current != "" && e.SessionID == current {
			rank = "*" + rank
		}
		rows[i] = table.Row{
			rank,
			e.Name,
			fmt.Sprintf("%d", e.Coins),
			formatDuration(e.Duration),
			e.Cause.String(),
			e.LaunchedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// formatDuration renders a survival time as m:ss.
func formatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Init initializes the records model.
func (m RecordsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records screen.
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.Play):
			m.playAgain = true
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			if m.view == ViewRecent {
				m.view = ViewBest
			} else {
				m.view = ViewRecent
			}
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(recordRows(m.records, m.current))
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the records screen.
func (m RecordsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("GRAVEYARD - "+m.view.String()), m.width))
	b.WriteString("\n\n")

	if line := m.statsLine(); line != "" {
		b.WriteString(centerText(dimStyle.Render(line), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the whole history.
func (m RecordsModel) statsLine() string {
	if m.stats == nil || m.stats.Sessions == 0 {
		return ""
	}
	return fmt.Sprintf("Sessions: %d  |  Best: %d coins  |  Avg: %.1f  |  Longest: %s",
		m.stats.Sessions, m.stats.BestCoins, m.stats.AvgCoins, formatDuration(m.stats.LongestRun))
}

// renderTableContent renders the table or an empty message.
func (m RecordsModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Records are not being saved.\nCheck the --db path to keep a history.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load records:\n" + m.loadErr.Error())
	case len(m.records) == 0:
		return emptyStyle.Render("No sessions recorded yet.\nEnter the graveyard to set the first record!")
	}
	return m.table.View()
}

// Rows returns the rows currently shown.
func (m RecordsModel) Rows() []table.Row {
	return m.table.Rows()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RecordsModel) IsGoingBack() bool {
	return m.goingBack
}

// PlayAgain returns true if user wants a new session.
func (m RecordsModel) PlayAgain() bool {
	return m.playAgain
}

// IsQuitting returns true if user wants to quit entirely.
func (m RecordsModel) IsQuitting() bool {
	return m.quitting
}

// RunRecords runs the records screen on its own.
func RunRecords(store *storage.Store, width, height int) error {
	model := standaloneRecords{NewRecordsModel(store, "", width, height)}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// standaloneRecords exits the program on any way out of the records screen.
type standaloneRecords struct {
	RecordsModel
}

func (s standaloneRecords) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := s.RecordsModel.Update(msg)
	if rm, ok := next.(RecordsModel); ok {
		s.RecordsModel = rm
	}
	if s.quitting || s.goingBack || s.playAgain {
		return s, tea.Quit
	}
	return s, cmd
}
