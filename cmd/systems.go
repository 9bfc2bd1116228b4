package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/romshelf/romshelf/pkg/systems"
)

var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "List recognized system shorthands",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range systems.All() {
			marker := " "
			if s.Libretro != "" {
				marker = "*"
			}
			fmt.Printf("%s %-14s %s\n", marker, s.Key, s.FullName)
		}
		fmt.Println("\n* has a thumbnail collection")
	},
}

func init() {
	rootCmd.AddCommand(systemsCmd)
}
