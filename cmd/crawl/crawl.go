// Package crawl implements the crawl command: it walks a numeric range of
// project detail pages and runs every response through the extraction gate.
package crawl

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	cmdcommon "github.com/heritagelab/ichcrawl/cmd/common"
	"github.com/heritagelab/ichcrawl/internal/config"
	"github.com/heritagelab/ichcrawl/internal/database"
	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/fetcher"
)

// Command returns the crawl command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var startID, endID int

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a range of project detail pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdcommon.LoadConfig(*cfgFile, *debug)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("start") {
				cfg.Crawl.StartID = startID
			}
			if cmd.Flags().Changed("end") {
				cfg.Crawl.EndID = endID
			}
			if cfg.Crawl.StartID > cfg.Crawl.EndID {
				return fmt.Errorf("invalid id range: %d > %d", cfg.Crawl.StartID, cfg.Crawl.EndID)
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVar(&startID, "start", 0, "first project id to fetch")
	cmd.Flags().IntVar(&endID, "end", 0, "last project id to fetch")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := cmdcommon.NewLogger(cfg)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	log.Info("Starting crawl",
		"run_id", runID,
		"start", cfg.Crawl.StartID,
		"end", cfg.Crawl.EndID,
		"enrich_mode", cfg.Enrich.Mode)

	db, err := cmdcommon.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	processor := cmdcommon.NewProcessor(cfg, db, log)

	fetchCfg := fetcher.DefaultConfig()
	fetchCfg.Delay = cfg.Crawl.Delay
	fetchCfg.RandomDelay = cfg.Crawl.RandomDelay
	fetchCfg.Parallelism = cfg.Crawl.Parallelism

	fetch, err := fetcher.New(fetchCfg, func(page *domain.RawPage) error {
		return processor.Handle(ctx, page)
	}, log)
	if err != nil {
		return err
	}

	if err = fetch.FetchRange(cfg.Crawl.StartID, cfg.Crawl.EndID); err != nil {
		return err
	}

	cmdcommon.RenderOutcomes("Crawl "+runID, processor.Stats())

	return nil
}
