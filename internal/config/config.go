// Package config provides YAML-based configuration loading and difficulty
// presets for Graveyard.
package config

import (
	"time"

	"github.com/vovakirdan/graveyard/internal/actor"
	"github.com/vovakirdan/graveyard/internal/score"
)

// GraveyardConfig contains all tunable game parameters. Escalation
// thresholds live in the session package and are not configurable.
type GraveyardConfig struct {
	Difficulty DifficultyPreset `yaml:"difficulty"`
	Player     PlayerConfig     `yaml:"player"`
	Threats    ThreatConfig     `yaml:"threats"`
	Coins      CoinsConfig      `yaml:"coins"`
}

// PlayerConfig defines player parameters.
type PlayerConfig struct {
	Name  string  `yaml:"name"`  // Overrides the stored profile name when set
	Speed float64 `yaml:"speed"` // Cells per second
}

// ThreatConfig defines base threat speeds before any acceleration.
type ThreatConfig struct {
	ZombieSpeed float64 `yaml:"zombie_speed"`
	MummySpeed  float64 `yaml:"mummy_speed"`
}

// CoinsConfig defines coin spawning.
type CoinsConfig struct {
	Interval time.Duration `yaml:"interval"`
	Max      int           `yaml:"max"`
}

// Speeds returns the actor speeds with the difficulty preset applied.
func (c GraveyardConfig) Speeds() actor.Speeds {
	scale := SpeedScale(c.Difficulty)
	return actor.Speeds{
		Player: c.Player.Speed,
		Zombie: c.Threats.ZombieSpeed * scale,
		Mummy:  c.Threats.MummySpeed * scale,
	}
}

// CoinConfig returns the coin field settings.
func (c GraveyardConfig) CoinConfig() score.CoinConfig {
	return score.CoinConfig{
		Interval: c.Coins.Interval,
		Max:      c.Coins.Max,
	}
}

// normalize replaces missing or out-of-range values with defaults.
func (c *GraveyardConfig) normalize() {
	def := DefaultConfig()
	if _, err := ParsePreset(string(c.Difficulty)); err != nil {
		c.Difficulty = def.Difficulty
	}
	c.Player.Speed = speedOr(c.Player.Speed, def.Player.Speed)
	c.Threats.ZombieSpeed = speedOr(c.Threats.ZombieSpeed, def.Threats.ZombieSpeed)
	c.Threats.MummySpeed = speedOr(c.Threats.MummySpeed, def.Threats.MummySpeed)
	if c.Coins.Interval <= 0 {
		c.Coins.Interval = def.Coins.Interval
	}
	if c.Coins.Max <= 0 {
		c.Coins.Max = def.Coins.Max
	}
}

func speedOr(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return clampF(v, minSpeed, maxSpeed)
}
