package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/graveyard/internal/platform/tui"
	"github.com/vovakirdan/graveyard/internal/storage"
)

var (
	flagBest        bool
	flagLimit       int
	flagInteractive bool
	flagClear       bool
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show the session history",
	Long: `Display finished sessions, newest first.

Examples:
  graveyard records
  graveyard records --best
  graveyard records --limit 50
  graveyard records -i
  graveyard records --clear`,
	Args: cobra.NoArgs,
	Run:  runRecords,
}

func init() {
	recordsCmd.Flags().BoolVar(&flagBest, "best", false, "Order by coins instead of date")
	recordsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of records to show")
	recordsCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse records in a table")
	recordsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the whole history")
}

func runRecords(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening records database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRecords(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}

	if flagInteractive {
		cfg := runtimeConfig()
		if err := tui.RunRecords(store, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var records []storage.RecordEntry
	if flagBest {
		records, err = store.BestRecords(flagLimit)
	} else {
		records, err = store.RecentRecords(flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving records: %v\n", err)
		os.Exit(1)
	}

	title := "Recent Sessions"
	if flagBest {
		title = "Best Sessions"
	}
	fmt.Printf("Graveyard - %s\n", title)
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'graveyard play' to set the first record!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-6s  %-6s  %-13s  %s\n", "#", "Name", "Coins", "Time", "Cause", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %-6s  %-13s  %s\n", "-", "----", "-----", "----", "-----", "----")

	for i, entry := range records {
		fmt.Printf("  %-4d  %-16s  %-6d  %-6s  %-13s  %s\n",
			i+1,
			entry.Name,
			entry.Coins,
			formatDuration(entry.Duration),
			entry.Cause,
			entry.LaunchedAt.Format("2006-01-02 15:04"),
		)
	}

	// Show totals
	stats, err := store.GetStats()
	if err == nil && stats.Sessions > 0 {
		fmt.Println()
		fmt.Printf("Sessions: %d  Best: %d coins  Average: %.1f  Longest run: %s  Total: %s\n",
			stats.Sessions,
			stats.BestCoins,
			stats.AvgCoins,
			formatDuration(stats.LongestRun),
			formatDuration(stats.TotalPlayTime),
		)
	}
}

// formatDuration renders a duration as m:ss.
func formatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
