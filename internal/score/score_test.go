package score

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/graveyard/internal/core"
	"github.com/vovakirdan/graveyard/internal/world"
)

func TestCounter(t *testing.T) {
	c := NewCounter()
	c.Add(3)
	c.Add(0)
	c.Add(-5)

	if c.Current() != 3 {
		t.Errorf("Current() = %d, expected 3", c.Current())
	}

	c.Reset()
	if c.Current() != 0 {
		t.Errorf("Current() after Reset = %d, expected 0", c.Current())
	}
}

func TestCounterConcurrentAdds(t *testing.T) {
	c := NewCounter()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(2)
			_ = c.Current()
		}()
	}
	wg.Wait()

	if c.Current() != 100 {
		t.Errorf("Current() = %d, expected 100", c.Current())
	}
}

func testLevel(t *testing.T) *world.Level {
	t.Helper()
	l, err := world.ParseLevel([]string{
		"#####",
		"#...#",
		"#####",
	})
	if err != nil {
		t.Fatalf("ParseLevel() failed: %v", err)
	}
	return l
}

func TestCoinFieldSpawnsOnInterval(t *testing.T) {
	root := world.NewRoot()
	counter := NewCounter()
	f := NewCoinField(root, testLevel(t), counter, CoinConfig{Interval: time.Second, Max: 10}, 1)

	f.Update(900*time.Millisecond, nil)
	if len(f.Coins()) != 0 {
		t.Fatal("no coin expected before the interval elapses")
	}

	f.Update(200*time.Millisecond, nil)
	if len(f.Coins()) != 1 {
		t.Fatalf("expected 1 coin, got %d", len(f.Coins()))
	}

	// Long frame catches up on every missed interval
	f.Update(5*time.Second, nil)
	if len(f.Coins()) != 3 {
		t.Errorf("expected coins on all 3 cells, got %d", len(f.Coins()))
	}
}

func TestCoinFieldRespectsMaxAndOccupied(t *testing.T) {
	root := world.NewRoot()
	f := NewCoinField(root, testLevel(t), NewCounter(), CoinConfig{Interval: time.Second, Max: 1}, 1)
	player := core.Point{X: 1, Y: 1}

	f.Update(10*time.Second, func(p core.Point) bool { return p == player })

	coins := f.Coins()
	if len(coins) != 1 {
		t.Fatalf("expected exactly 1 coin with Max=1, got %d", len(coins))
	}
	if coins[0] == player {
		t.Error("coin spawned on an occupied cell")
	}
}

func TestCoinFieldCollect(t *testing.T) {
	root := world.NewRoot()
	counter := NewCounter()
	f := NewCoinField(root, testLevel(t), counter, CoinConfig{}, 1)
	p := core.Point{X: 2, Y: 1}

	if !f.Place(p) {
		t.Fatal("Place() on free ground should succeed")
	}
	if f.Place(core.Point{X: 0, Y: 0}) {
		t.Error("Place() on a wall should fail")
	}

	if !f.Collect(p) {
		t.Fatal("Collect() should pick up the coin")
	}
	if f.Collect(p) {
		t.Error("Collect() twice should fail")
	}
	if counter.Current() != 1 {
		t.Errorf("counter = %d, expected 1", counter.Current())
	}
}

func TestCoinFieldDestroyedByRoot(t *testing.T) {
	root := world.NewRoot()
	f := NewCoinField(root, testLevel(t), NewCounter(), CoinConfig{Interval: time.Second}, 1)
	f.Place(core.Point{X: 1, Y: 1})

	root.Clear()

	if len(f.Coins()) != 0 {
		t.Error("coins should be gone after root clear")
	}
	f.Update(10*time.Second, nil)
	if len(f.Coins()) != 0 {
		t.Error("destroyed field should not spawn")
	}
}
