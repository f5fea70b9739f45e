package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/graveyard/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the main menu",
	Long: `Start Graveyard in interactive menu mode.

Use arrow keys or j/k to navigate, left/right to pick a difficulty and
Enter to select. After a session ends the records screen opens; press
Enter to play again or Esc to return to the menu.

Controls:
  Up/Down/j/k     - Navigate menu
  Left/Right/h/l  - Difficulty
  Enter/Space     - Select
  Q               - Quit

Examples:
  graveyard menu
  graveyard menu --fps 30
  graveyard menu --db ./graveyard.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	if err := runTUI("", tui.StartMenu); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
