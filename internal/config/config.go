package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/codyseavey/cardwatch/internal/models"
)

// Config is the complete application configuration. All state the services
// need is carried here explicitly; there is no ambient global configuration.
type Config struct {
	TCGPlayer TCGPlayerConfig      `mapstructure:"tcgplayer"`
	Storage   StorageConfig        `mapstructure:"storage"`
	Sets      SetsConfig           `mapstructure:"sets"`
	Ingest    IngestConfig         `mapstructure:"ingest"`
	Watch     []models.WatchedCard `mapstructure:"watch"`
	Server    ServerConfig         `mapstructure:"server"`
}

// TCGPlayerConfig holds upstream pricing API configuration.
type TCGPlayerConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	AccessToken    string        `mapstructure:"access_token"`
	RequestDelay   time.Duration `mapstructure:"request_delay"`
	SearchPageSize int           `mapstructure:"search_page_size"`
	ChunkSize      int           `mapstructure:"chunk_size"`
	Timeout        time.Duration `mapstructure:"timeout"`
	SearchCacheLen int           `mapstructure:"search_cache_len"`
}

// StorageConfig selects and locates the history store backend.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"` // "file" or "sqlite"
	HistoryPath string `mapstructure:"history_path"`
	DBPath      string `mapstructure:"db_path"`
}

// SetsConfig locates the set catalog and bounds the watched-set window.
type SetsConfig struct {
	CatalogPath    string `mapstructure:"catalog_path"`
	MaxWatchMonths int    `mapstructure:"max_watch_months"`
}

// IngestConfig controls the daily ingestion worker.
type IngestConfig struct {
	CardType      models.CardType `mapstructure:"card_type"`
	Hour          int             `mapstructure:"hour"` // earliest hour of day to ingest (0-23)
	CheckInterval time.Duration   `mapstructure:"check_interval"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Load reads configuration from the given file with environment overrides
// (prefix CARDWATCH_).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)
	v.SetEnvPrefix("CARDWATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tcgplayer.base_url", "https://api.tcgplayer.com")
	v.SetDefault("tcgplayer.request_delay", "200ms")
	v.SetDefault("tcgplayer.search_page_size", 200)
	v.SetDefault("tcgplayer.chunk_size", 100)
	v.SetDefault("tcgplayer.timeout", "10s")
	v.SetDefault("tcgplayer.search_cache_len", 512)

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.history_path", "./data/history.json")
	v.SetDefault("storage.db_path", "./data/cardwatch.db")

	v.SetDefault("sets.catalog_path", "./data/sets.json")
	v.SetDefault("sets.max_watch_months", 24)

	v.SetDefault("ingest.card_type", string(models.CardTypeHolofoil))
	v.SetDefault("ingest.hour", 23)
	v.SetDefault("ingest.check_interval", "15m")

	v.SetDefault("server.port", "8080")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.TCGPlayer.BaseURL == "" {
		return fmt.Errorf("tcgplayer.base_url is required")
	}
	if c.TCGPlayer.AccessToken == "" {
		return fmt.Errorf("tcgplayer.access_token is required")
	}
	if c.TCGPlayer.RequestDelay < 0 {
		return fmt.Errorf("tcgplayer.request_delay must not be negative")
	}
	if c.TCGPlayer.SearchPageSize < 1 {
		return fmt.Errorf("tcgplayer.search_page_size must be at least 1")
	}
	if c.TCGPlayer.ChunkSize < 1 {
		return fmt.Errorf("tcgplayer.chunk_size must be at least 1")
	}
	if c.TCGPlayer.SearchCacheLen < 1 {
		return fmt.Errorf("tcgplayer.search_cache_len must be at least 1")
	}

	switch c.Storage.Backend {
	case "file":
		if c.Storage.HistoryPath == "" {
			return fmt.Errorf("storage.history_path is required for the file backend")
		}
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("storage.backend must be one of: file, sqlite")
	}

	if c.Sets.CatalogPath == "" {
		return fmt.Errorf("sets.catalog_path is required")
	}
	if c.Sets.MaxWatchMonths < 1 {
		return fmt.Errorf("sets.max_watch_months must be at least 1")
	}

	if c.Ingest.Hour < 0 || c.Ingest.Hour > 23 {
		return fmt.Errorf("ingest.hour must be between 0 and 23")
	}
	if c.Ingest.CheckInterval < time.Minute {
		return fmt.Errorf("ingest.check_interval must be at least 1 minute")
	}
	switch c.Ingest.CardType {
	case models.CardTypeHolofoil, models.CardTypeReverseHolo, models.CardTypeNormal:
	default:
		return fmt.Errorf("ingest.card_type must be one of: Holofoil, Reverse Holofoil, Normal")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	return nil
}
