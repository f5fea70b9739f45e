package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg GraveyardConfig
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded defaults %+v differ from hardcoded %+v", cfg, DefaultConfig())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("difficulty: hard\nthreats:\n  zombie_speed: 4\ncoins:\n  interval: 2s\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Difficulty != DifficultyHard {
		t.Errorf("Difficulty = %q, expected hard", cfg.Difficulty)
	}
	if cfg.Threats.ZombieSpeed != 4 {
		t.Errorf("ZombieSpeed = %v, expected 4", cfg.Threats.ZombieSpeed)
	}
	if cfg.Coins.Interval != 2*time.Second {
		t.Errorf("Interval = %v, expected 2s", cfg.Coins.Interval)
	}
	// Keys not in the file keep defaults
	if cfg.Threats.MummySpeed != DefaultConfig().Threats.MummySpeed {
		t.Errorf("MummySpeed = %v, expected default", cfg.Threats.MummySpeed)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestLoadInvalidCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("player: [unclosed"), 0o644)

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	cfg := GraveyardConfig{
		Difficulty: "nightmare",
		Player:     PlayerConfig{Speed: -1},
		Threats:    ThreatConfig{ZombieSpeed: 500, MummySpeed: 0},
		Coins:      CoinsConfig{Interval: -time.Second},
	}
	cfg.normalize()

	def := DefaultConfig()
	if cfg.Difficulty != DifficultyNormal {
		t.Errorf("Difficulty = %q, expected normal", cfg.Difficulty)
	}
	if cfg.Player.Speed != def.Player.Speed || cfg.Threats.MummySpeed != def.Threats.MummySpeed {
		t.Error("non-positive speeds should fall back to defaults")
	}
	if cfg.Threats.ZombieSpeed != maxSpeed {
		t.Errorf("ZombieSpeed = %v, expected clamp to %v", cfg.Threats.ZombieSpeed, maxSpeed)
	}
	if cfg.Coins.Interval != def.Coins.Interval || cfg.Coins.Max != def.Coins.Max {
		t.Error("coin settings should fall back to defaults")
	}
}

func TestSpeedsApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	normal := cfg.Speeds()

	ApplyPreset(&cfg, DifficultyHard)
	hard := cfg.Speeds()
	if hard.Zombie <= normal.Zombie || hard.Mummy <= normal.Mummy {
		t.Errorf("hard threats should be faster: %+v vs %+v", hard, normal)
	}
	if hard.Player != normal.Player {
		t.Error("presets should not change player speed")
	}
	if cfg.Coins.Max >= DefaultConfig().Coins.Max {
		t.Error("hard preset should cap fewer coins")
	}

	cfg = DefaultConfig()
	ApplyPreset(&cfg, DifficultyEasy)
	if easy := cfg.Speeds(); easy.Zombie >= normal.Zombie {
		t.Errorf("easy zombies should be slower: %v vs %v", easy.Zombie, normal.Zombie)
	}
}

func TestParsePreset(t *testing.T) {
	for _, p := range Presets {
		got, err := ParsePreset(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePreset(%q) = %q, %v", p, got, err)
		}
	}
	if _, err := ParsePreset("fixed"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestCoinConfig(t *testing.T) {
	cfg := DefaultConfig()
	cc := cfg.CoinConfig()
	if cc.Interval != cfg.Coins.Interval || cc.Max != cfg.Coins.Max {
		t.Errorf("CoinConfig() = %+v", cc)
	}
}
