package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/romshelf/romshelf/internal/utils"
	"github.com/romshelf/romshelf/pkg/consolidate"
	"github.com/romshelf/romshelf/pkg/storage"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate [sources...]",
	Short: "Merge ROM source trees into one deduplicated library",
	Long: `Scans each source tree (layout: <source>/<system>/<roms...>), strips
numeric list prefixes, and copies the first occurrence of every release into
the output library. Files that differ only by prefix or extension are
duplicates; files that differ by any tag (region, revision, languages) are
kept as distinct releases. Earlier sources win against later ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sources := args
		if len(sources) == 0 {
			sources = viper.GetStringSlice("library.sources")
		}
		if len(sources) == 0 {
			return fmt.Errorf("no source directories given (arguments or library.sources in config)")
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = viper.GetString("library.output")
		}
		if output == "" {
			return fmt.Errorf("no output directory given (--output or library.output in config)")
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		systemsFilter, _ := cmd.Flags().GetStringSlice("systems")

		c := consolidate.New(output, consolidate.Options{
			DryRun:    dryRun,
			Overwrite: overwrite,
			Systems:   utils.UniqueLower(systemsFilter),
		})

		ctx := context.Background()
		var (
			db   *storage.DB
			sink *catalogSink
		)
		if !dryRun {
			var err error
			db, sink, err = openCatalog(ctx, "consolidate", "")
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}
		}
		if sink != nil {
			c.Sink = sink
		}

		res, err := c.Run(ctx, sources)
		if err != nil {
			return err
		}
		if sink != nil {
			sink.finishRun(ctx, res.Copied, res.SkippedDuplicates+res.SkippedUnknown, len(res.Errors))
		}

		for _, e := range res.Errors {
			utils.Log.Warn(e)
		}
		verb := "Copied"
		if dryRun {
			verb = "Would copy"
		}
		fmt.Printf("%s %d files (%d duplicates skipped, %d unknown systems)\n",
			verb, res.Copied, res.SkippedDuplicates, res.SkippedUnknown)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consolidateCmd)
	consolidateCmd.Flags().StringP("output", "o", "", "Output library directory")
	consolidateCmd.Flags().Bool("dry-run", false, "Report what would be copied without writing")
	consolidateCmd.Flags().Bool("overwrite", false, "Overwrite files already present in the library")
	consolidateCmd.Flags().StringSlice("systems", nil, "Only process these system shorthands")
}
