package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/graveyard/internal/platform/tui"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a session right away",
	Long: `Enter the graveyard immediately.

Controls:
  Arrows/WASD/HJKL - Move
  P                - Pause
  Esc              - End the session
  R                - Try again (if the level failed to build)
  Q/Ctrl+C         - Quit

When a session ends its result is saved and the records screen opens.

Difficulty options:
  easy   - Slower threats, more coins on the board
  normal - Configured speeds
  hard   - Faster threats, fewer coins

Examples:
  graveyard play
  graveyard play --difficulty hard
  graveyard play --seed 42
  graveyard play --config ./my-graveyard.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runPlay(_ *cobra.Command, _ []string) {
	if err := runTUI(flagDifficulty, tui.StartGame); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
