package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/romshelf/romshelf/internal/server"
	"github.com/romshelf/romshelf/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the library catalog over HTTP",
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

		addr, _ := cmd.Flags().GetString("addr")
		return server.New(db).Start(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "127.0.0.1:8085", "Listen address")
}
