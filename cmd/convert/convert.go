// Package convert implements the convert command: it turns archived JSONL
// page records into database-shaped document and chunk files.
package convert

import (
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/heritagelab/ichcrawl/cmd/common"
	"github.com/heritagelab/ichcrawl/internal/convert"
)

// Command returns the convert command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var inDir, outDir string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert archived page records into document and chunk files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdcommon.LoadConfig(*cfgFile, *debug)
			if err != nil {
				return err
			}

			log, err := cmdcommon.NewLogger(cfg)
			if err != nil {
				return err
			}

			if inDir == "" {
				inDir = filepath.Join(cfg.Storage.DataDir, "text")
			}
			if outDir == "" {
				outDir = cfg.Storage.OutDir
			}

			converter := convert.NewConverter(cmdcommon.ChunkOptions(cfg), log)

			result, err := converter.ConvertAll(inDir, outDir)
			if err != nil {
				return err
			}

			renderSummary(inDir, outDir, result)

			return nil
		},
	}

	cmd.Flags().StringVar(&inDir, "in", "", "directory of page record JSONL files (default <data_dir>/text)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")

	return cmd
}

func renderSummary(inDir, outDir string, result *convert.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Input", "Output", "Documents", "Chunks", "Skipped"})
	t.AppendRow(table.Row{inDir, outDir, result.Documents, result.Chunks, result.Skipped})
	t.Render()
}
