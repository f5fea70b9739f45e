package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/graveyard/internal/core"
)

// gameBinding ties a key binding to the session action it triggers.
type gameBinding struct {
	binding key.Binding
	action  core.Action
}

// gameBindings are checked in order; the first match wins.
var gameBindings = []gameBinding{
	{key.NewBinding(key.WithKeys("ctrl+c", "q")), core.ActionQuit},
	{key.NewBinding(key.WithKeys("w", "k", "up")), core.ActionUp},
	{key.NewBinding(key.WithKeys("s", "j", "down")), core.ActionDown},
	{key.NewBinding(key.WithKeys("a", "h", "left")), core.ActionLeft},
	{key.NewBinding(key.WithKeys("d", "l", "right")), core.ActionRight},
	{key.NewBinding(key.WithKeys("enter")), core.ActionConfirm},
	{key.NewBinding(key.WithKeys("esc")), core.ActionBack},
	{key.NewBinding(key.WithKeys("p")), core.ActionPause},
	{key.NewBinding(key.WithKeys("r")), core.ActionRestart},
}

// menuBindings are checked in order; the first match wins.
var menuBindings = []struct {
	binding key.Binding
	action  MenuAction
}{
	{key.NewBinding(key.WithKeys("ctrl+c", "q")), MenuActionQuit},
	{key.NewBinding(key.WithKeys("w", "k", "up")), MenuActionUp},
	{key.NewBinding(key.WithKeys("s", "j", "down")), MenuActionDown},
	{key.NewBinding(key.WithKeys("a", "h", "left")), MenuActionLeft},
	{key.NewBinding(key.WithKeys("d", "l", "right")), MenuActionRight},
	{key.NewBinding(key.WithKeys("enter", " ")), MenuActionSelect},
	{key.NewBinding(key.WithKeys("b", "esc")), MenuActionBack},
}

// KeyMapper turns key presses into session actions on the game screen and
// into cursor moves on the menu.
type KeyMapper struct{}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey returns the session action bound to msg, or ActionNone. isQuit is
// set for the keys that leave the program.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	for _, b := range gameBindings {
		if key.Matches(msg, b.binding) {
			return b.action, b.action == core.ActionQuit
		}
	}
	return core.ActionNone, false
}

// MapKeyToFrame records the action bound to msg in frame and reports whether
// msg asked to leave the program. Quit is never recorded in the frame.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && !isQuit {
		frame.Set(action)
	}
	return isQuit
}

// MenuAction is a cursor-level action on the menu and selection screens.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction returns the menu action bound to msg, or MenuActionNone.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	for _, b := range menuBindings {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return MenuActionNone
}
