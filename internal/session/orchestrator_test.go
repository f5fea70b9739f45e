package session

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/graveyard/internal/actor"
	"github.com/vovakirdan/graveyard/internal/score"
	"github.com/vovakirdan/graveyard/internal/world"
)

// layoutLevels builds every level from the same fixed layout.
type layoutLevels struct {
	layout []string
	sizes  []int
}

func (f *layoutLevels) CreateLevel(root *world.Root, size int) (*world.Level, error) {
	f.sizes = append(f.sizes, size)
	l, err := world.ParseLevel(f.layout)
	if err != nil {
		return nil, err
	}
	root.Attach(l)
	return l, nil
}

var openRoom = []string{
	"############",
	"#..........#",
	"#..........#",
	"#..........#",
	"############",
}

type fakeInput struct{ quit bool }

func (f *fakeInput) QuitRequested() bool { return f.quit }

type fakeView struct {
	target   actor.Target
	follows  int
	detaches int
}

func (v *fakeView) Follow(target actor.Target) {
	v.target = target
	v.follows++
}

func (v *fakeView) Detach() {
	v.target = nil
	v.detaches++
}

type memRepo struct {
	name    string
	pending []Record
}

func (r *memRepo) UserName() string { return r.name }

func (r *memRepo) AppendRecord(rec Record) error {
	r.pending = append(r.pending, rec)
	return nil
}

// memStore commits appended records only when fn succeeds.
type memStore struct {
	name     string
	records  []Record
	fail     error
	opened   int
	released int
}

func (m *memStore) WithRepository(_ context.Context, fn func(Repository) error) error {
	m.opened++
	defer func() { m.released++ }()
	if m.fail != nil {
		return m.fail
	}
	repo := &memRepo{name: m.name}
	if err := fn(repo); err != nil {
		return err
	}
	m.records = append(m.records, repo.pending...)
	return nil
}

// fakeSummary captures what the world looked like when records were shown.
type fakeSummary struct {
	root          *world.Root
	store         *memStore
	shown         int
	rootLenAtShow int
	recordsAtShow int
}

func (s *fakeSummary) ShowRecords() {
	s.shown++
	s.rootLenAtShow = s.root.Len()
	s.recordsAtShow = len(s.store.records)
}

type harness struct {
	o       *Orchestrator
	root    *world.Root
	levels  *layoutLevels
	score   *score.Counter
	input   *fakeInput
	view    *fakeView
	store   *memStore
	summary *fakeSummary
	now     time.Time
}

func newHarness(t *testing.T, layout []string) *harness {
	t.Helper()
	h := &harness{
		root:   world.NewRoot(),
		levels: &layoutLevels{layout: layout},
		score:  score.NewCounter(),
		input:  &fakeInput{},
		view:   &fakeView{},
		store:  &memStore{name: "ada"},
		now:    time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
	h.summary = &fakeSummary{root: h.root, store: h.store}
	spawner := actor.NewSpawner(actor.Speeds{Player: 4, Zombie: 2, Mummy: 3}, 1)
	h.o = New(Deps{
		Root:      h.root,
		Levels:    h.levels,
		Players:   spawner,
		Threats:   spawner,
		Score:     h.score,
		Input:     h.input,
		Viewpoint: h.view,
		Records:   h.store,
		Summary:   h.summary,
		Now:       func() time.Time { return h.now },
	})
	return h
}

func mustSetup(t *testing.T, h *harness) {
	t.Helper()
	if err := h.o.Setup(); err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}
}

// toPursuit runs a fresh session straight into the pursuit loop.
func toPursuit(t *testing.T, h *harness) []*actor.Threat {
	t.Helper()
	mustSetup(t, h)
	h.score.Add(PursuitAt)
	h.o.OnTick(InitialDelay)
	if h.o.Stage() != StagePursuing {
		t.Fatalf("Stage() = %s, expected pursuing", h.o.Stage())
	}
	return h.o.Threats()
}

func TestSetupBuildsSession(t *testing.T) {
	h := newHarness(t, openRoom)
	mustSetup(t, h)

	if h.o.Stage() != StageEscalating {
		t.Errorf("Stage() = %s, expected escalating", h.o.Stage())
	}
	if len(h.levels.sizes) != 1 || h.levels.sizes[0] != LevelSize {
		t.Errorf("level requested with sizes %v, expected [%d]", h.levels.sizes, LevelSize)
	}
	if h.o.Player() == nil || h.o.Level() == nil {
		t.Fatal("player and level should exist after setup")
	}
	if h.view.target != actor.Target(h.o.Player()) {
		t.Error("viewpoint should follow the player")
	}
	if h.root.Len() != 2 {
		t.Errorf("root should hold level and player, has %d", h.root.Len())
	}
	if len(h.o.Threats()) != 0 {
		t.Error("no threats before the initial delay")
	}
	if h.o.SessionID() == "" {
		t.Error("setup should assign a session ID")
	}
}

func TestFirstZombieAfterInitialDelay(t *testing.T) {
	h := newHarness(t, openRoom)
	mustSetup(t, h)

	h.o.OnTick(900 * time.Millisecond)
	if len(h.o.Threats()) != 0 {
		t.Fatal("threat spawned before the initial delay")
	}

	h.o.OnTick(100 * time.Millisecond)
	threats := h.o.Threats()
	if len(threats) != 1 {
		t.Fatalf("expected 1 threat after delay, got %d", len(threats))
	}
	if threats[0].Kind() != actor.KindZombie || threats[0].Mode() != actor.ModePatrol {
		t.Errorf("first threat = %s/%s, expected zombie/patrol", threats[0].Kind(), threats[0].Mode())
	}
	if h.o.EscalationStep() != 1 {
		t.Errorf("EscalationStep() = %d, expected 1", h.o.EscalationStep())
	}
}

func TestSecondZombieWaitsForDelayAndScore(t *testing.T) {
	t.Run("score first", func(t *testing.T) {
		h := newHarness(t, openRoom)
		mustSetup(t, h)
		h.score.Add(SecondZombieAt)

		h.o.OnTick(500 * time.Millisecond)
		if len(h.o.Threats()) != 0 {
			t.Fatal("score alone must not skip the initial delay")
		}

		h.o.OnTick(500 * time.Millisecond)
		threats := h.o.Threats()
		if len(threats) != 2 {
			t.Fatalf("expected both zombies once the delay elapsed, got %d", len(threats))
		}
		for i, z := range threats {
			if z.Kind() != actor.KindZombie || z.Mode() != actor.ModePatrol {
				t.Errorf("threat %d = %s/%s, expected zombie/patrol", i, z.Kind(), z.Mode())
			}
		}
	})

	t.Run("delay first", func(t *testing.T) {
		h := newHarness(t, openRoom)
		mustSetup(t, h)

		h.o.OnTick(2 * time.Second)
		h.score.Add(SecondZombieAt - 1)
		h.o.OnTick(time.Second)
		if len(h.o.Threats()) != 1 {
			t.Fatalf("expected only zombie A below threshold, got %d", len(h.o.Threats()))
		}

		h.score.Add(1)
		h.o.OnTick(time.Millisecond)
		if len(h.o.Threats()) != 2 {
			t.Fatalf("expected zombie B at score %d, got %d threats", SecondZombieAt, len(h.o.Threats()))
		}
	})
}

func TestMummySpawnsAtThreshold(t *testing.T) {
	h := newHarness(t, openRoom)
	mustSetup(t, h)
	h.score.Add(MummyAt - 1)
	h.o.OnTick(InitialDelay)

	if len(h.o.Threats()) != 2 {
		t.Fatalf("expected 2 zombies below the mummy threshold, got %d", len(h.o.Threats()))
	}

	h.score.Add(1)
	h.o.OnTick(time.Millisecond)
	threats := h.o.Threats()
	if len(threats) != 3 || threats[2].Kind() != actor.KindMummy {
		t.Fatalf("expected mummy as third threat, got %d threats", len(threats))
	}
	if threats[2].Mode() != actor.ModePatrol {
		t.Errorf("mummy mode = %s, expected patrol", threats[2].Mode())
	}
	if h.o.Stage() != StageEscalating {
		t.Errorf("Stage() = %s, expected escalating before %d coins", h.o.Stage(), PursuitAt)
	}
}

func TestScoreJumpRunsEveryStep(t *testing.T) {
	h := newHarness(t, openRoom)
	mustSetup(t, h)
	h.o.OnTick(InitialDelay)

	h.score.Add(25)
	h.o.OnTick(time.Millisecond)

	threats := h.o.Threats()
	if len(threats) != 3 {
		t.Fatalf("expected 3 threats after jumping to 25, got %d", len(threats))
	}
	kinds := []actor.Kind{actor.KindZombie, actor.KindZombie, actor.KindMummy}
	for i, th := range threats {
		if th.Kind() != kinds[i] {
			t.Errorf("threat %d kind = %s, expected %s", i, th.Kind(), kinds[i])
		}
		if th.Mode() != actor.ModePursue {
			t.Errorf("threat %d mode = %s, expected pursue", i, th.Mode())
		}
	}
	if h.o.Stage() != StagePursuing {
		t.Errorf("Stage() = %s, expected pursuing", h.o.Stage())
	}
	// The jump itself is the pursuit baseline, not a speed-up
	if threats[0].Speed() != 2 {
		t.Errorf("speed changed on entering pursuit: %v", threats[0].Speed())
	}
}

func TestSpeedOnlyIncreasesDuringPursuit(t *testing.T) {
	h := newHarness(t, openRoom)
	threats := toPursuit(t, h)

	prev := make([]float64, len(threats))
	for i, th := range threats {
		prev[i] = th.Speed()
	}

	for tick := range 30 {
		if tick%3 == 0 {
			h.score.Add(1 + tick%2)
		}
		h.o.OnTick(16 * time.Millisecond)
		for i, th := range threats {
			if th.Speed() < prev[i] {
				t.Fatalf("tick %d: threat %d slowed from %v to %v", tick, i, prev[i], th.Speed())
			}
			prev[i] = th.Speed()
		}
	}
}

// approx compares speeds built by repeated float multiplication.
func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestAccelerationOncePerScoreChange(t *testing.T) {
	h := newHarness(t, openRoom)
	threats := toPursuit(t, h)
	zombie := threats[0]

	h.o.OnTick(time.Second)
	if zombie.Speed() != 2 {
		t.Fatalf("speed changed without a score change: %v", zombie.Speed())
	}

	h.score.Add(3)
	h.o.OnTick(time.Millisecond)
	want := 2 * SpeedFactor
	if !approx(zombie.Speed(), want) {
		t.Fatalf("Speed() = %v, expected %v", zombie.Speed(), want)
	}

	h.o.OnTick(time.Millisecond)
	if !approx(zombie.Speed(), want) {
		t.Error("a single score change must accelerate exactly once")
	}

	h.score.Add(1)
	h.o.OnTick(time.Millisecond)
	if !approx(zombie.Speed(), want*SpeedFactor) {
		t.Errorf("Speed() = %v, expected %v", zombie.Speed(), want*SpeedFactor)
	}
	// Two runtime multiplications, as the orchestrator does them
	mummyWant := 3.0
	mummyWant *= SpeedFactor
	mummyWant *= SpeedFactor
	if mummy := threats[2]; !approx(mummy.Speed(), mummyWant) {
		t.Errorf("mummy Speed() = %v, expected %v", mummy.Speed(), mummyWant)
	}
}

func TestZombieDeathKeepsScore(t *testing.T) {
	h := newHarness(t, openRoom)
	mustSetup(t, h)
	h.score.Add(12)
	h.o.OnTick(InitialDelay)

	rec, err := h.o.PlayerCaught(actor.KindZombie)
	if err != nil {
		t.Fatalf("PlayerCaught() failed: %v", err)
	}
	if rec.Cause != CauseZombieDeath || rec.Coins != 12 {
		t.Errorf("record = %s/%d, expected zombie death/12", rec.Cause, rec.Coins)
	}
	if rec.Name != "ada" {
		t.Errorf("Name = %q, expected profile name", rec.Name)
	}
	if h.score.Current() != 12 {
		t.Errorf("zombie death must not touch the score, got %d", h.score.Current())
	}
	if len(h.store.records) != 1 || h.store.records[0] != rec {
		t.Errorf("store holds %v, expected the returned record", h.store.records)
	}
}

// A mummy death wipes the score before recording; zombie deaths and quits
// do not. The asymmetry is deliberate and kept as is.
func TestMummyDeathRecordsZeroScore(t *testing.T) {
	h := newHarness(t, openRoom)
	toPursuit(t, h)
	h.score.Add(10)
	h.o.OnTick(time.Millisecond)
	if h.score.Current() != 30 {
		t.Fatalf("score = %d, expected 30", h.score.Current())
	}

	rec, err := h.o.PlayerCaught(actor.KindMummy)
	if err != nil {
		t.Fatalf("PlayerCaught() failed: %v", err)
	}
	if rec.Cause != CauseMummyDeath {
		t.Errorf("Cause = %s, expected mummy death", rec.Cause)
	}
	if rec.Coins != 0 || h.score.Current() != 0 {
		t.Errorf("mummy death should record 0 coins, got record %d, counter %d", rec.Coins, h.score.Current())
	}
}

func TestQuitMidEscalation(t *testing.T) {
	h := newHarness(t, openRoom)
	mustSetup(t, h)
	h.o.OnTick(InitialDelay)
	threats := h.o.Threats()
	if len(threats) != 1 {
		t.Fatalf("expected zombie A, got %d threats", len(threats))
	}
	zombie := threats[0]

	h.o.OnFixedTick()
	if h.o.Stage() == StageTerminated {
		t.Fatal("session ended without a quit request")
	}

	h.input.quit = true
	h.o.OnFixedTick()

	rec, ok := h.o.Result()
	if !ok || rec.Cause != CauseQuit {
		t.Fatalf("Result() = %+v/%v, expected quit", rec, ok)
	}
	if h.o.Stage() != StageTerminated {
		t.Errorf("Stage() = %s, expected terminated", h.o.Stage())
	}
	if !zombie.Destroyed() {
		t.Error("threats should be destroyed on teardown")
	}

	// Nothing may touch the destroyed threat afterwards
	h.score.Add(50)
	h.o.OnTick(10 * time.Second)
	if zombie.Speed() != 2 || zombie.Mode() != actor.ModePatrol {
		t.Errorf("destroyed threat mutated: speed %v mode %s", zombie.Speed(), zombie.Mode())
	}
	if len(h.o.Threats()) != 0 || h.root.Len() != 0 {
		t.Error("teardown should leave no session objects")
	}
	if h.o.EscalationStep() != 1 {
		t.Errorf("escalation advanced after teardown to %d", h.o.EscalationStep())
	}
}

func TestExactlyOneRecordPerSession(t *testing.T) {
	h := newHarness(t, openRoom)
	toPursuit(t, h)

	if _, err := h.o.PlayerCaught(actor.KindZombie); err != nil {
		t.Fatalf("PlayerCaught() failed: %v", err)
	}
	if _, err := h.o.PlayerCaught(actor.KindMummy); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second trigger: expected ErrNotRunning, got %v", err)
	}
	h.input.quit = true
	h.o.OnFixedTick()

	if len(h.store.records) != 1 {
		t.Errorf("expected exactly 1 record, got %d", len(h.store.records))
	}
	if h.summary.shown != 1 {
		t.Errorf("summary shown %d times, expected 1", h.summary.shown)
	}
	if h.store.opened != 1 || h.store.released != 1 {
		t.Errorf("repository opened %d, released %d", h.store.opened, h.store.released)
	}
}

func TestRecordStoredBeforeTeardown(t *testing.T) {
	h := newHarness(t, openRoom)
	mustSetup(t, h)
	h.o.OnTick(InitialDelay)

	if _, err := h.o.Terminate(CauseQuit); err != nil {
		t.Fatalf("Terminate() failed: %v", err)
	}

	if h.summary.recordsAtShow != 1 {
		t.Error("record should be stored before the summary is shown")
	}
	if h.summary.rootLenAtShow == 0 {
		t.Error("session objects should still exist when the summary is shown")
	}
	if h.root.Len() != 0 {
		t.Errorf("root holds %d objects after teardown", h.root.Len())
	}
	if h.view.target != nil {
		t.Error("viewpoint should be detached on teardown")
	}
}

func TestRecordTiming(t *testing.T) {
	h := newHarness(t, openRoom)
	h.o.OnTick(5 * time.Second) // time before setup does not count
	mustSetup(t, h)
	for range 7 {
		h.o.OnTick(500 * time.Millisecond)
	}

	rec, err := h.o.Terminate(CauseQuit)
	if err != nil {
		t.Fatalf("Terminate() failed: %v", err)
	}
	if rec.Duration != 3500*time.Millisecond {
		t.Errorf("Duration = %v, expected 3.5s", rec.Duration)
	}
	if !rec.LaunchedAt.Equal(h.now) {
		t.Errorf("LaunchedAt = %v, expected %v", rec.LaunchedAt, h.now)
	}
	if rec.SessionID != h.o.SessionID() {
		t.Errorf("SessionID = %q, expected %q", rec.SessionID, h.o.SessionID())
	}
}

func TestSetupTwiceLeavesNoOrphans(t *testing.T) {
	h := newHarness(t, openRoom)
	old := toPursuit(t, h)
	oldLevel := h.o.Level()

	mustSetup(t, h)

	for i, th := range old {
		if !th.Destroyed() {
			t.Errorf("threat %d from the previous session survived", i)
		}
	}
	if !oldLevel.Destroyed() {
		t.Error("previous level survived")
	}
	if h.root.Len() != 2 {
		t.Errorf("root should hold only the new level and player, has %d", h.root.Len())
	}
	if len(h.o.Threats()) != 0 || h.o.Stage() != StageEscalating || h.o.EscalationStep() != 0 {
		t.Error("restart should rearm escalation from the first step")
	}
	if h.view.follows != 2 {
		t.Errorf("viewpoint bound %d times, expected 2", h.view.follows)
	}
	if h.o.Elapsed() != 0 {
		t.Errorf("Elapsed() = %v after restart, expected 0", h.o.Elapsed())
	}
}

func TestSetupFailureWithoutSpawnPoint(t *testing.T) {
	h := newHarness(t, []string{"#####", "#####"})

	err := h.o.Setup()
	if !errors.Is(err, ErrSetupFailure) {
		t.Fatalf("expected ErrSetupFailure, got %v", err)
	}
	if !errors.Is(err, actor.ErrNoSpawnPoint) {
		t.Errorf("expected cause ErrNoSpawnPoint, got %v", err)
	}
	if h.o.Stage() != StageIdle {
		t.Errorf("Stage() = %s, expected idle", h.o.Stage())
	}

	h.score.Add(30)
	h.o.OnTick(5 * time.Second)
	if len(h.o.Threats()) != 0 {
		t.Error("escalation must not start after a failed setup")
	}
	if h.root.Len() != 0 {
		t.Error("failed setup should not leave a level behind")
	}
}

func TestSetupFailureFromLevelFactory(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.o.Setup(); !errors.Is(err, ErrSetupFailure) {
		t.Errorf("expected ErrSetupFailure, got %v", err)
	}
}

func TestPersistenceFailureStillTearsDown(t *testing.T) {
	h := newHarness(t, openRoom)
	mustSetup(t, h)
	h.score.Add(7)
	h.store.fail = errors.New("disk full")

	rec, err := h.o.PlayerCaught(actor.KindZombie)
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
	if rec.Coins != 7 || rec.Cause != CauseZombieDeath {
		t.Errorf("record = %+v", rec)
	}
	if h.o.Stage() != StageTerminated || h.root.Len() != 0 {
		t.Error("teardown must complete despite the store failing")
	}
	if h.summary.shown != 1 {
		t.Error("summary should still be shown")
	}
	if h.store.released != 1 {
		t.Error("repository should be released after a failure")
	}
}

func TestMissingRecordStore(t *testing.T) {
	root := world.NewRoot()
	spawner := actor.NewSpawner(actor.Speeds{Zombie: 1, Mummy: 1}, 1)
	o := New(Deps{
		Root:    root,
		Levels:  &layoutLevels{layout: openRoom},
		Players: spawner,
		Threats: spawner,
		Score:   score.NewCounter(),
	})
	if err := o.Setup(); err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}

	_, err := o.Terminate(CauseQuit)
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Errorf("expected ErrPersistenceFailure, got %v", err)
	}
	if root.Len() != 0 {
		t.Error("teardown should still clear the root")
	}
}

func TestTerminatedOrchestratorIsNotReused(t *testing.T) {
	h := newHarness(t, openRoom)

	if _, err := h.o.Terminate(CauseQuit); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Terminate() before Setup: expected ErrNotRunning, got %v", err)
	}

	mustSetup(t, h)
	if _, err := h.o.Terminate(CauseQuit); err != nil {
		t.Fatalf("Terminate() failed: %v", err)
	}
	if err := h.o.Setup(); !errors.Is(err, ErrSetupFailure) {
		t.Errorf("Setup() after termination: expected ErrSetupFailure, got %v", err)
	}
}

func TestCauseStrings(t *testing.T) {
	for _, c := range []Cause{CauseZombieDeath, CauseMummyDeath, CauseQuit} {
		got, err := ParseCause(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCause(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCause("eaten by grue"); err == nil {
		t.Error("expected error for unknown cause")
	}
	if CauseFor(actor.KindMummy) != CauseMummyDeath || CauseFor(actor.KindZombie) != CauseZombieDeath {
		t.Error("CauseFor() mapping is wrong")
	}
}
