package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/graveyard/internal/storage"
)

var profileCmd = &cobra.Command{
	Use:   "profile [name]",
	Short: "Show or set the player name",
	Long: `Without arguments, print the name that new records are saved under.
With a name, store it in the local profile.

Examples:
  graveyard profile
  graveyard profile alice`,
	Args: cobra.MaximumNArgs(1),
	Run:  runProfile,
}

func runProfile(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening records database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 1 {
		if err := store.SetUserName(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Player name set to %q\n", args[0])
		return
	}

	profile, err := store.Profile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Player: %s\n", profile.Name)
	if !profile.UpdatedAt.IsZero() {
		fmt.Printf("Updated: %s\n", profile.UpdatedAt.Format("2006-01-02 15:04"))
	}
}
