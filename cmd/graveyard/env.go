package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/vovakirdan/graveyard/internal/config"
	"github.com/vovakirdan/graveyard/internal/core"
	"github.com/vovakirdan/graveyard/internal/logging"
	"github.com/vovakirdan/graveyard/internal/platform/tui"
	"github.com/vovakirdan/graveyard/internal/storage"
)

// logPath is where full-screen commands write their logs.
const logPath = "~/.graveyard/graveyard.log"

// loadConfig loads the game config and applies a --difficulty override.
func loadConfig(difficulty string) (config.GraveyardConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if difficulty != "" {
		preset, err := config.ParsePreset(difficulty)
		if err != nil {
			return cfg, err
		}
		cfg.Difficulty = preset
	}
	return cfg, nil
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// runTUI opens the log file and the store, then runs the front end from the
// given screen.
func runTUI(difficulty string, start tui.Start) error {
	level, err := logging.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(difficulty)
	if err != nil {
		return err
	}

	// Logs go to a file; the game owns the terminal
	var out io.Writer = io.Discard
	if f, fileErr := logging.OpenFile(logPath); fileErr == nil {
		defer f.Close()
		out = f
	}
	logger := logging.New(out, "graveyard", level)

	env := tui.Env{
		Config: cfg,
		Logger: logger,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open records database: %v\n", err)
		logger.Warn("running without records", "error", err)
		// Continue without storage - sessions still run
	} else {
		defer store.Close()
		env.Store = store
		if name, nameErr := store.UserName(); nameErr == nil {
			env.Player = name
		}
	}

	if cfg.Player.Name != "" {
		env.Player = cfg.Player.Name
		if store != nil {
			env.Records = store.As(cfg.Player.Name)
		}
	}

	logger.Debug("starting", "difficulty", cfg.Difficulty, "db", flagDBPath, "log_level", level)
	return tui.RunApp(env, runtimeConfig(), start)
}
