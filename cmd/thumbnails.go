package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/romshelf/romshelf/internal/utils"
	"github.com/romshelf/romshelf/pkg/storage"
	"github.com/romshelf/romshelf/pkg/thumbs"
)

var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails [library]",
	Short: "Download matching thumbnails for a consolidated library",
	Long: `Fetches the available thumbnail listing for each system in the library
from the libretro thumbnail servers, matches every ROM against it by filename
(exact, base name, normalized and partial tiers, in that order), and downloads
the matched PNGs next to the ROMs under images/<type>/. ROMs with no match
are skipped; that is expected for obscure titles.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		libDir := ""
		if len(args) > 0 {
			libDir = args[0]
		} else {
			libDir = viper.GetString("library.output")
		}
		if libDir == "" {
			return fmt.Errorf("no library directory given (argument or library.output in config)")
		}

		typeString, _ := cmd.Flags().GetString("type")
		if typeString == "" {
			typeString = viper.GetString("thumbnails.type")
		}
		art, err := thumbs.ParseArtType(typeString)
		if err != nil {
			return err
		}

		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency <= 0 {
			concurrency = viper.GetInt("thumbnails.concurrency")
		}

		source, _ := cmd.Flags().GetString("source")
		if source == "" {
			source = viper.GetString("thumbnails.source")
		}

		client := thumbs.NewHTTPClient()
		var fetcher thumbs.ListingFetcher
		switch source {
		case "github", "":
			fetcher = thumbs.NewGitHubFetcher(client)
		case "html":
			fetcher = thumbs.NewHTMLIndexFetcher(client)
		default:
			return fmt.Errorf("invalid listing source %q (want github or html)", source)
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		systemsFilter, _ := cmd.Flags().GetStringSlice("systems")

		ctx := context.Background()
		var (
			db   *storage.DB
			sink *catalogSink
		)
		if !dryRun {
			var err error
			db, sink, err = openCatalog(ctx, "thumbnails", art)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}
		}

		pipeline := &thumbs.Pipeline{
			Listings:   thumbs.NewListingCache(fetcher),
			Downloader: thumbs.NewDownloader(client, concurrency),
		}
		if sink != nil {
			pipeline.Sink = sink
		}

		res, err := pipeline.Run(ctx, libDir, thumbs.Options{
			Art:         art,
			DryRun:      dryRun,
			Overwrite:   overwrite,
			Concurrency: concurrency,
			Systems:     utils.UniqueLower(systemsFilter),
		})
		if err != nil {
			return err
		}
		if sink != nil {
			sink.finishRun(ctx, res.Downloaded, res.SkippedExisting+res.SkippedNoMatch+res.SkippedNoMapping, len(res.Errors))
		}

		for _, e := range res.Errors {
			utils.Log.Warn(e)
		}
		verb := "Downloaded"
		if dryRun {
			verb = "Would download"
		}
		fmt.Printf("%s %d thumbnails (%d existing, %d unmatched, %d without a collection)\n",
			verb, res.Downloaded, res.SkippedExisting, res.SkippedNoMatch, res.SkippedNoMapping)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(thumbnailsCmd)
	thumbnailsCmd.Flags().StringP("type", "t", "", "Thumbnail type: boxart, snap or title")
	thumbnailsCmd.Flags().IntP("concurrency", "c", 0, "Concurrent downloads")
	thumbnailsCmd.Flags().String("source", "", "Listing source: github (API) or html (directory index)")
	thumbnailsCmd.Flags().Bool("dry-run", false, "Match without downloading")
	thumbnailsCmd.Flags().Bool("overwrite", false, "Replace thumbnails that already exist")
	thumbnailsCmd.Flags().StringSlice("systems", nil, "Only process these system shorthands")
}
