package tui

import (
	"testing"

	"github.com/vovakirdan/graveyard/internal/config"
)

func TestGameModelDropsForeignTicks(t *testing.T) {
	env := Env{Config: config.DefaultConfig()}
	old := NewGameModel(env, testRuntime())
	cur := NewGameModel(env, testRuntime())
	if old.loop == cur.loop {
		t.Fatal("Every game screen needs its own tick loop")
	}
	cur.Init()
	defer cur.Game().Close()

	next, cmd := cur.Update(tickOf(&old))
	if cmd != nil {
		t.Error("A foreign tick must not schedule another tick")
	}
	cur = next.(GameModel)
	if cur.Game().Session().Elapsed() != 0 {
		t.Error("A foreign tick must not step the game")
	}

	next, cmd = cur.Update(tickOf(&cur))
	if cmd == nil {
		t.Error("An own tick should schedule the next one")
	}
	cur = next.(GameModel)
	if cur.Game().Session().Elapsed() == 0 {
		t.Error("An own tick should step the game")
	}
}
