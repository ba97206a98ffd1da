// Package common provides shared construction helpers for the CLI commands.
package common

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/heritagelab/ichcrawl/internal/archive"
	"github.com/heritagelab/ichcrawl/internal/config"
	"github.com/heritagelab/ichcrawl/internal/convert"
	"github.com/heritagelab/ichcrawl/internal/database"
	"github.com/heritagelab/ichcrawl/internal/logger"
	"github.com/heritagelab/ichcrawl/internal/pipeline"
	"github.com/heritagelab/ichcrawl/internal/synth"
)

// LoadConfig loads the configuration file and applies the debug override.
func LoadConfig(cfgFile string, debug bool) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}

	return cfg, nil
}

// NewLogger builds the application logger from configuration.
func NewLogger(cfg *config.Config) (logger.Interface, error) {
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// OpenDatabase opens the configured database.
func OpenDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// NewProcessor wires the archive, dedup index, document sink and synthesis
// options into a page processor backed by db.
func NewProcessor(cfg *config.Config, db *sqlx.DB, log logger.Interface) *pipeline.Processor {
	archiver := archive.NewArchiver(cfg.Storage.DataDir, log)
	index := database.NewDedupRepository(db)
	sink := pipeline.NewStoreSink(database.NewStore(db), ChunkOptions(cfg))

	gate := pipeline.NewGate(index, archiver, sink, log)

	opts := synth.Options{
		Mode:        synth.ParseMode(cfg.Enrich.Mode),
		Format:      synth.ParseFormat(cfg.Enrich.Format),
		JSONSummary: cfg.Enrich.JSONSummary,
	}

	return pipeline.NewProcessor(gate, opts, log)
}

// ChunkOptions maps the chunking configuration onto converter options.
func ChunkOptions(cfg *config.Config) convert.Options {
	return convert.Options{
		Strategy:      cfg.Chunk.Strategy,
		MaxChars:      cfg.Chunk.MaxChars,
		MinChars:      cfg.Chunk.MinChars,
		WindowSize:    cfg.Chunk.WindowSize,
		WindowOverlap: cfg.Chunk.WindowOverlap,
	}
}
