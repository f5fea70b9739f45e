package config

import (
	"fmt"
	"math"
)

// Speed limits in cells per second.
const (
	minSpeed = 0.5
	maxSpeed = 30.0
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the known presets from easiest to hardest.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}

// ParsePreset validates a preset name.
func ParsePreset(s string) (DifficultyPreset, error) {
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
}

// SpeedScale returns the multiplier applied to base threat speeds.
func SpeedScale(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.75
	case DifficultyHard:
		return 1.4
	default:
		return 1.0
	}
}

// ApplyPreset sets the preset and adjusts coin pacing for it. Threat speeds
// are scaled later, in Speeds.
func ApplyPreset(cfg *GraveyardConfig, preset DifficultyPreset) {
	cfg.Difficulty = preset

	// Fewer coins on the board make it harder to outrun the escalation
	switch preset {
	case DifficultyEasy:
		cfg.Coins.Max += cfg.Coins.Max / 2
	case DifficultyHard:
		cfg.Coins.Max = max(cfg.Coins.Max*2/3, 1)
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
