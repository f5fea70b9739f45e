// graveyard is a terminal maze survival game: collect coins while zombies
// and a mummy close in.
//
// Usage:
//
//	graveyard play              - Start a session right away
//	graveyard menu              - Start with the main menu
//	graveyard records           - Show the session history
//	graveyard profile [name]    - Show or set the player name
//	graveyard serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible sessions
//	--db <path>          - Set database path (default: ~/.graveyard/graveyard.db)
//	--config <path>      - Use a custom config YAML
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "graveyard",
	Short: "Graveyard - survive the maze in your terminal",
	Long: `Graveyard is a terminal maze survival game. Collect coins while
zombies patrol the corridors. Past 10 coins a mummy wakes up, and past
20 every threat hunts you down, faster with each coin.

Available commands:
  play     - Start a session right away
  menu     - Main menu with difficulty selection
  records  - Show the session history
  profile  - Show or set the player name
  serve    - Start SSH server for remote play

Examples:
  graveyard play
  graveyard play --difficulty hard
  graveyard records --best
  graveyard profile alice
  graveyard serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.graveyard/graveyard.db", "Path to records database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(serveCmd)
}
