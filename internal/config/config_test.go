package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagelab/ichcrawl/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/ichcrawl.db", cfg.Database.Path)
	assert.Equal(t, "none", cfg.Enrich.Mode)
	assert.Equal(t, "readable", cfg.Enrich.Format)
	assert.Equal(t, 1000, cfg.Chunk.MaxChars)
	assert.Equal(t, 600, cfg.Chunk.MinChars)
	assert.Equal(t, 500*time.Millisecond, cfg.Crawl.Delay)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
crawl:
  start_id: 100
  end_id: 200
  parallelism: 4
enrich:
  mode: append
  format: json
  json_summary: true
chunk:
  strategy: window
  window_size: 800
  window_overlap: 80
database:
  driver: postgres
  host: db.internal
  dbname: heritage
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Crawl.StartID)
	assert.Equal(t, 200, cfg.Crawl.EndID)
	assert.Equal(t, 4, cfg.Crawl.Parallelism)
	assert.Equal(t, "append", cfg.Enrich.Mode)
	assert.Equal(t, "json", cfg.Enrich.Format)
	assert.True(t, cfg.Enrich.JSONSummary)
	assert.Equal(t, "window", cfg.Chunk.Strategy)
	assert.Equal(t, 800, cfg.Chunk.WindowSize)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "heritage", cfg.Database.DBName)
	// Unset fields keep their defaults.
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: sqlite\n"), 0o644))

	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("ENRICH_MODE", "replace")
	t.Setenv("CRAWL_START_ID", "7")
	t.Setenv("CRAWL_END_ID", "9")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "replace", cfg.Enrich.Mode)
	assert.Equal(t, 7, cfg.Crawl.StartID)
	assert.Equal(t, 9, cfg.Crawl.EndID)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CRAWL_START_ID", "10")
	t.Setenv("CRAWL_END_ID", "5")

	_, err := config.Load("")
	assert.Error(t, err)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := config.Load("")
	assert.Error(t, err)
}
