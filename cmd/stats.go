package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/romshelf/romshelf/pkg/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the library catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalogPath()
		if path == "" {
			return fmt.Errorf("no catalog configured (--dbpath or catalog.dbpath in config)")
		}

		db, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("ROMs: %d\n", stats.TotalRoms)
		for _, system := range sortedKeys(stats.RomsBySystem) {
			fmt.Printf("  %-14s %d\n", system, stats.RomsBySystem[system])
		}
		fmt.Printf("Thumbnail matches: %d\n", stats.TotalMatches)
		for _, tier := range sortedKeys(stats.MatchesByTier) {
			fmt.Printf("  %-14s %d\n", tier, stats.MatchesByTier[tier])
		}

		runs, err := db.ListRuns(context.Background(), 5)
		if err != nil {
			return err
		}
		if len(runs) > 0 {
			fmt.Println("Recent runs:")
			for _, r := range runs {
				finished := r.FinishedAt
				if finished == "" {
					finished = "unfinished"
				}
				fmt.Printf("  #%-4d %-12s accepted %d, skipped %d, errors %d (%s)\n",
					r.ID, r.Kind, r.Accepted, r.Skipped, r.Errors, finished)
			}
		}
		return nil
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
