// Package ingest implements the ingest command: it loads converted document
// and chunk JSONL files into the configured database.
package ingest

import (
	"errors"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/heritagelab/ichcrawl/cmd/common"
	"github.com/heritagelab/ichcrawl/internal/ingest"
)

// Command returns the ingest command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var docsPath, chunksPath string
	var autoChunk bool
	var strategy string
	var maxChars, minChars, windowSize, windowOverlap int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load converted documents and chunks into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if docsPath == "" {
				return errors.New("--documents is required")
			}

			cfg, err := cmdcommon.LoadConfig(*cfgFile, *debug)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("strategy") {
				cfg.Chunk.Strategy = strategy
			}
			if cmd.Flags().Changed("max-chars") {
				cfg.Chunk.MaxChars = maxChars
				if !cmd.Flags().Changed("min-chars") {
					cfg.Chunk.MinChars = maxChars / 2
				}
			}
			if cmd.Flags().Changed("min-chars") {
				cfg.Chunk.MinChars = minChars
			}
			if cmd.Flags().Changed("window-size") {
				cfg.Chunk.WindowSize = windowSize
			}
			if cmd.Flags().Changed("window-overlap") {
				cfg.Chunk.WindowOverlap = windowOverlap
			}

			log, err := cmdcommon.NewLogger(cfg)
			if err != nil {
				return err
			}

			db, err := cmdcommon.OpenDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			loader := ingest.NewLoader(db, log)

			result, err := loader.Run(cmd.Context(), ingest.Options{
				DocumentsPath: docsPath,
				ChunksPath:    chunksPath,
				AutoChunk:     autoChunk,
				Chunking:      cmdcommon.ChunkOptions(cfg),
			})
			if err != nil {
				return err
			}

			renderSummary(result)

			return nil
		},
	}

	cmd.Flags().StringVar(&docsPath, "documents", "", "documents JSONL file to load")
	cmd.Flags().StringVar(&chunksPath, "chunks", "", "chunks JSONL file to load")
	cmd.Flags().BoolVar(&autoChunk, "auto-chunk", false, "re-chunk stored documents when no chunks file is given")
	cmd.Flags().StringVar(&strategy, "strategy", "", "chunking strategy for --auto-chunk (sentence or window)")
	cmd.Flags().IntVar(&maxChars, "max-chars", 0, "max chunk length for the sentence strategy")
	cmd.Flags().IntVar(&minChars, "min-chars", 0, "min chunk length for the sentence strategy (default max/2)")
	cmd.Flags().IntVar(&windowSize, "window-size", 0, "window length for the window strategy")
	cmd.Flags().IntVar(&windowOverlap, "window-overlap", 0, "trailing overlap for the window strategy")

	return cmd
}

func renderSummary(result *ingest.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Documents", "Chunks", "Skipped Docs", "Skipped Chunks", "Auto-Chunked"})
	t.AppendRow(table.Row{
		result.Documents, result.Chunks,
		result.SkippedDocs, result.SkippedChunks, result.AutoChunked,
	})
	t.Render()
}
