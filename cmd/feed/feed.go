// Package feed implements the feed command: it discovers page URLs from
// configured RSS/Atom feeds and crawls them through the extraction gate.
package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	cmdcommon "github.com/heritagelab/ichcrawl/cmd/common"
	"github.com/heritagelab/ichcrawl/internal/config"
	"github.com/heritagelab/ichcrawl/internal/database"
	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/fetcher"
)

// Command returns the feed command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var feedURLs []string
	var seedsPath string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Discover and crawl page URLs from RSS/Atom feeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdcommon.LoadConfig(*cfgFile, *debug)
			if err != nil {
				return err
			}

			if len(feedURLs) > 0 {
				cfg.Crawl.FeedURLs = feedURLs
			}
			if len(cfg.Crawl.FeedURLs) == 0 {
				urls, err := readSeedsFile(seedsPath, cmd.Flags().Changed("seeds"))
				if err != nil {
					return err
				}
				cfg.Crawl.FeedURLs = urls
			}
			if len(cfg.Crawl.FeedURLs) == 0 {
				return errors.New("no feed URLs configured")
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringSliceVar(&feedURLs, "url", nil, "feed URL to poll (repeatable)")
	cmd.Flags().StringVar(&seedsPath, "seeds", "seeds/rss.txt", "file with one feed URL per line")

	return cmd
}

// readSeedsFile loads feed URLs from a seeds file, one per line, skipping
// blank lines and # comments. A missing file is only an error when the path
// was given explicitly.
func readSeedsFile(path string, explicit bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open seeds file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seeds file: %w", err)
	}

	return urls, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := cmdcommon.NewLogger(cfg)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	log.Info("Starting feed crawl", "run_id", runID, "feeds", len(cfg.Crawl.FeedURLs))

	seeds, failures := fetcher.LoadSeeds(ctx, cfg.Crawl.FeedURLs)
	for feedURL, loadErr := range failures {
		log.Warn("Failed to load feed", "feed", feedURL, "error", loadErr)
	}

	if len(seeds) == 0 {
		log.Info("No URLs discovered from feeds")
		return nil
	}

	log.Info("Discovered seed URLs", "count", len(seeds))

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
	fetchCfg.AllowedDomains = nil // feeds may point anywhere
	fetchCfg.Delay = cfg.Crawl.Delay
	fetchCfg.RandomDelay = cfg.Crawl.RandomDelay
	fetchCfg.Parallelism = cfg.Crawl.Parallelism

	fetch, err := fetcher.New(fetchCfg, func(page *domain.RawPage) error {
		return processor.Handle(ctx, page)
	}, log)
	if err != nil {
		return err
	}

	urls := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		urls = append(urls, seed.URL)
	}

	if err = fetch.FetchURLs(urls); err != nil {
		return err
	}

	cmdcommon.RenderOutcomes("Feed "+runID, processor.Stats())

	return nil
}
