// Package config provides configuration management for the application. It
// loads values from a YAML file and environment variables; environment
// variables take precedence over file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/heritagelab/ichcrawl/internal/chunker"
	"github.com/heritagelab/ichcrawl/internal/database"
	"github.com/heritagelab/ichcrawl/internal/logger"
)

// Database defaults
const (
	defaultDBDriver  = database.DriverSQLite
	defaultDBHost    = "localhost"
	defaultDBPort    = "5432"
	defaultDBUser    = "postgres"
	defaultDBName    = "ichcrawl"
	defaultDBSSLMode = "disable"
	defaultDBPath    = "data/ichcrawl.db"
)

// Crawl defaults
const (
	defaultCrawlStartID     = 13774
	defaultCrawlEndID       = 13774
	defaultCrawlDelay       = 500 * time.Millisecond
	defaultCrawlRandomDelay = 500 * time.Millisecond
	defaultCrawlParallelism = 2
)

// CrawlConfig controls the fetch layer.
type CrawlConfig struct {
	StartID     int           `yaml:"start_id"`
	EndID       int           `yaml:"end_id"`
	Delay       time.Duration `yaml:"delay"`
	RandomDelay time.Duration `yaml:"random_delay"`
	Parallelism int           `yaml:"parallelism"`
	FeedURLs    []string      `yaml:"feed_urls"`
}

// EnrichConfig controls text synthesis for stored documents.
type EnrichConfig struct {
	Mode        string `yaml:"mode"`
	Format      string `yaml:"format"`
	JSONSummary bool   `yaml:"json_summary"`
}

// StorageConfig controls the on-disk archive layout.
type StorageConfig struct {
	// DataDir is the archive root; raw HTML and JSONL records live under it.
	DataDir string `yaml:"data_dir"`
	// OutDir receives converted document and chunk files.
	OutDir string `yaml:"out_dir"`
}

// ChunkConfig controls document chunking.
type ChunkConfig struct {
	Strategy      string `yaml:"strategy"`
	MaxChars      int    `yaml:"max_chars"`
	MinChars      int    `yaml:"min_chars"`
	WindowSize    int    `yaml:"window_size"`
	WindowOverlap int    `yaml:"window_overlap"`
}

// Config represents the application configuration.
type Config struct {
	Crawl    CrawlConfig     `yaml:"crawl"`
	Enrich   EnrichConfig    `yaml:"enrich"`
	Storage  StorageConfig   `yaml:"storage"`
	Chunk    ChunkConfig     `yaml:"chunk"`
	Database database.Config `yaml:"database"`
	Logging  logger.Config   `yaml:"logging"`
}

// Load reads configuration from path (optional) plus environment overrides.
// A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		Crawl: CrawlConfig{
			StartID:     intValue("CRAWL_START_ID", "crawl.start_id", defaultCrawlStartID, v),
			EndID:       intValue("CRAWL_END_ID", "crawl.end_id", defaultCrawlEndID, v),
			Delay:       durationValue("CRAWL_DELAY", "crawl.delay", defaultCrawlDelay, v),
			RandomDelay: durationValue("CRAWL_RANDOM_DELAY", "crawl.random_delay", defaultCrawlRandomDelay, v),
			Parallelism: intValue("CRAWL_PARALLELISM", "crawl.parallelism", defaultCrawlParallelism, v),
			FeedURLs:    v.GetStringSlice("crawl.feed_urls"),
		},
		Enrich: EnrichConfig{
			Mode:        stringValue("ENRICH_MODE", "enrich.mode", "none", v),
			Format:      stringValue("ENRICH_FORMAT", "enrich.format", "readable", v),
			JSONSummary: boolValue("ENRICH_JSON_SUMMARY", "enrich.json_summary", false, v),
		},
		Storage: StorageConfig{
			DataDir: stringValue("STORAGE_DATA_DIR", "storage.data_dir", "data", v),
			OutDir:  stringValue("STORAGE_OUT_DIR", "storage.out_dir", "data/out", v),
		},
		Chunk: ChunkConfig{
			Strategy:      stringValue("CHUNK_STRATEGY", "chunk.strategy", "sentence", v),
			MaxChars:      intValue("CHUNK_MAX_CHARS", "chunk.max_chars", chunker.DefaultMaxChars, v),
			MinChars:      intValue("CHUNK_MIN_CHARS", "chunk.min_chars", chunker.DefaultMinChars, v),
			WindowSize:    intValue("CHUNK_WINDOW_SIZE", "chunk.window_size", chunker.DefaultWindowSize, v),
			WindowOverlap: intValue("CHUNK_WINDOW_OVERLAP", "chunk.window_overlap", chunker.DefaultWindowOverlap, v),
		},
		Database: database.Config{
			Driver:   stringValue("DB_DRIVER", "database.driver", defaultDBDriver, v),
			Host:     stringValue("DB_HOST", "database.host", defaultDBHost, v),
			Port:     stringValue("DB_PORT", "database.port", defaultDBPort, v),
			User:     stringValue("DB_USER", "database.user", defaultDBUser, v),
			Password: stringValue("DB_PASSWORD", "database.password", "", v),
			DBName:   stringValue("DB_NAME", "database.dbname", defaultDBName, v),
			SSLMode:  stringValue("DB_SSLMODE", "database.sslmode", defaultDBSSLMode, v),
			Path:     stringValue("DB_PATH", "database.path", defaultDBPath, v),
		},
		Logging: logger.Config{
			Level:       stringValue("LOG_LEVEL", "logging.level", "info", v),
			Development: boolValue("LOG_DEVELOPMENT", "logging.development", false, v),
			Encoding:    stringValue("LOG_ENCODING", "logging.encoding", "console", v),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.Crawl.StartID > c.Crawl.EndID {
		return fmt.Errorf("crawl: start_id %d greater than end_id %d", c.Crawl.StartID, c.Crawl.EndID)
	}
	if c.Chunk.MaxChars <= 0 {
		return fmt.Errorf("chunk: max_chars must be positive, got %d", c.Chunk.MaxChars)
	}
	if c.Chunk.WindowOverlap >= c.Chunk.WindowSize {
		return fmt.Errorf("chunk: window_overlap %d must be smaller than window_size %d",
			c.Chunk.WindowOverlap, c.Chunk.WindowSize)
	}
	if c.Database.Driver != database.DriverSQLite && c.Database.Driver != database.DriverPostgres {
		return fmt.Errorf("database: unsupported driver %q", c.Database.Driver)
	}
	return nil
}

// stringValue retrieves a value from environment or Viper, with a default
// fallback. Environment takes precedence.
func stringValue(envKey, viperKey, defaultValue string, v *viper.Viper) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if val := v.GetString(viperKey); val != "" {
		return val
	}
	return defaultValue
}

func intValue(envKey, viperKey string, defaultValue int, v *viper.Viper) int {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	if v.IsSet(viperKey) {
		return v.GetInt(viperKey)
	}
	return defaultValue
}

func boolValue(envKey, viperKey string, defaultValue bool, v *viper.Viper) bool {
	if val := os.Getenv(envKey); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	if v.IsSet(viperKey) {
		return v.GetBool(viperKey)
	}
	return defaultValue
}

func durationValue(envKey, viperKey string, defaultValue time.Duration, v *viper.Viper) time.Duration {
	if val := os.Getenv(envKey); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	if v.IsSet(viperKey) {
		return v.GetDuration(viperKey)
	}
	return defaultValue
}
