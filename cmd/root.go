package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/romshelf/romshelf/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "romshelf",
	Short: "Consolidate retro-game ROM sets and fetch matching artwork.",
	Long: `romshelf merges ROM files from multiple source trees into one canonical
library, deduplicating region and revision variants by filename identity, and
downloads best-effort thumbnails for the result from the libretro servers.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.romshelf.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("dbpath", "", "Path to the library catalog database (empty disables recording)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".romshelf")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.romshelf.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	viper.SetDefault("library.output", "")
	viper.SetDefault("library.sources", []string{})
	viper.SetDefault("thumbnails.type", "boxart")
	viper.SetDefault("thumbnails.concurrency", 5)
	viper.SetDefault("thumbnails.source", "github")
	viper.SetDefault("catalog.dbpath", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// catalogPath resolves the catalog location: flag first, then config.
func catalogPath() string {
	if path, _ := rootCmd.PersistentFlags().GetString("dbpath"); path != "" {
		return path
	}
	return viper.GetString("catalog.dbpath")
}
