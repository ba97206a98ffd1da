// Package cmd implements the command-line interface for ichcrawl. It
// provides the root command and subcommands for crawling, feed discovery,
// conversion and database loading.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/heritagelab/ichcrawl/cmd/convert"
	"github.com/heritagelab/ichcrawl/cmd/crawl"
	"github.com/heritagelab/ichcrawl/cmd/feed"
	"github.com/heritagelab/ichcrawl/cmd/ingest"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the ichcrawl CLI.
	rootCmd = &cobra.Command{
		Use:   "ichcrawl",
		Short: "A structured extraction and chunking pipeline for heritage pages",
		Long: `ichcrawl fetches intangible cultural heritage pages, extracts their
metadata tables and body text, deduplicates the results, and loads
chunked documents into a database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment overrides are visible to config loading
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ichcrawl version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(crawl.Command(&cfgFile, &debug))
	rootCmd.AddCommand(feed.Command(&cfgFile, &debug))
	rootCmd.AddCommand(convert.Command(&cfgFile, &debug))
	rootCmd.AddCommand(ingest.Command(&cfgFile, &debug))
}
