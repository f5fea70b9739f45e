// Package tui provides the Bubble Tea front end for Graveyard: the menu, the
// game screen, the records view and the SSH server that serves them.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// loopIDs hands every game screen its own tick loop ID.
var loopIDs atomic.Uint64

// TickMsg drives one simulation step of the game screen that owns Loop.
// Ticks from a screen that has since been replaced carry a stale Loop and
// are dropped, so a new game never runs on two loops.
type TickMsg struct {
	Loop uint64
	At   time.Time
}

// tickCmd schedules the next tick of loop at tickRate per second.
func tickCmd(loop uint64, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(at time.Time) tea.Msg {
		return TickMsg{Loop: loop, At: at}
	})
}
