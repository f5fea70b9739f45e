package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/graveyard.yaml
var defaultGraveyardYAML []byte

// DefaultConfig returns the hardcoded default configuration.
func DefaultConfig() GraveyardConfig {
	return GraveyardConfig{
		Difficulty: DifficultyNormal,
		Player: PlayerConfig{
			Speed: 6.0,
		},
		Threats: ThreatConfig{
			ZombieSpeed: 2.5,
			MummySpeed:  3.5,
		},
		Coins: CoinsConfig{
			Interval: 1500 * time.Millisecond,
			Max:      12,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultGraveyardYAML
}
