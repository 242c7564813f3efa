// Package config provides layered configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jonathan/squad-builder/internal/llm"
	"github.com/jonathan/squad-builder/internal/types"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: SQUAD_SERVER__PORT sets server.port.
const EnvPrefix = "SQUAD_"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	LLM       LLMConfig       `koanf:"llm"`
	Search    SearchConfig    `koanf:"search"`
	Cache     CacheConfig     `koanf:"cache"`
	Engine    EngineConfig    `koanf:"engine"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	CORSOrigin   string        `koanf:"cors_origin"`
}

// DatabaseConfig holds the PostgreSQL connection. URL usually comes from DATABASE_URL.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// CatalogConfig selects where players are loaded from: "csv" or "postgres".
type CatalogConfig struct {
	Source  string `koanf:"source"`
	CSVPath string `koanf:"csv_path"`
	Version int    `koanf:"version"`
}

// LLMConfig selects models. APIKey usually comes from GEMINI_API_KEY.
type LLMConfig struct {
	Provider       string  `koanf:"provider"`
	APIKey         string  `koanf:"api_key"`
	AdvancedModel  string  `koanf:"advanced_model"`
	StandardModel  string  `koanf:"standard_model"`
	LiteModel      string  `koanf:"lite_model"`
	EmbeddingModel string  `koanf:"embedding_model"`
	Temperature    float32 `koanf:"temperature"`
}

// SearchConfig controls the embedding index.
type SearchConfig struct {
	IndexPath   string `koanf:"index_path"`
	BatchSize   int    `koanf:"batch_size"`
	Concurrency int    `koanf:"concurrency"`
}

// CacheConfig sizes the response cache.
type CacheConfig struct {
	Capacity int `koanf:"capacity"`
}

// EngineConfig holds squad defaults and oracle behaviour.
type EngineConfig struct {
	MaxPlayers     int           `koanf:"max_players"`
	MaxAttempts    int           `koanf:"max_attempts"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	MinGK          int           `koanf:"min_gk"`
	MaxGK          int           `koanf:"max_gk"`
	MinDEF         int           `koanf:"min_def"`
	MinMID         int           `koanf:"min_mid"`
	MinFWD         int           `koanf:"min_fwd"`
}

// RateLimitConfig controls per-client token buckets.
type RateLimitConfig struct {
	Enabled       bool          `koanf:"enabled"`
	DefaultLimit  int           `koanf:"default_limit"`
	DefaultWindow time.Duration `koanf:"default_window"`
	OracleLimit   int           `koanf:"oracle_limit"`
	OracleWindow  time.Duration `koanf:"oracle_window"`
	OracleBurst   int           `koanf:"oracle_burst"`
}

// LogConfig selects verbosity and encoding ("json" or "console").
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	limits := types.DefaultCountLimits()
	models := llm.DefaultGeminiConfig()
	return &Config{
		Server: ServerConfig{
			Port:         8000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 150 * time.Second,
			CORSOrigin:   "*",
		},
		Catalog: CatalogConfig{
			Source:  "csv",
			CSVPath: "data/raw/male_players.csv",
			Version: 24,
		},
		LLM: LLMConfig{
			Provider:       string(models.Provider),
			AdvancedModel:  models.Models[llm.TierAdvanced],
			StandardModel:  models.Models[llm.TierStandard],
			LiteModel:      models.Models[llm.TierLite],
			EmbeddingModel: models.EmbeddingModel,
			Temperature:    models.Temperature,
		},
		Search: SearchConfig{
			IndexPath:   "data/index/players.db",
			BatchSize:   100,
			Concurrency: 4,
		},
		Cache: CacheConfig{Capacity: 100},
		Engine: EngineConfig{
			MaxPlayers:     types.DefaultMaxPlayers,
			MaxAttempts:    2,
			RequestTimeout: 120 * time.Second,
			MinGK:          limits.MinGK,
			MaxGK:          limits.MaxGK,
			MinDEF:         limits.MinDEF,
			MinMID:         limits.MinMID,
			MinFWD:         limits.MinFWD,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			DefaultLimit:  120,
			DefaultWindow: time.Minute,
			OracleLimit:   10,
			OracleWindow:  time.Minute,
			OracleBurst:   3,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load layers defaults, an optional YAML file and SQUAD_ environment variables.
// The file is path when non-empty, else SQUAD_CONFIG. GEMINI_API_KEY and
// DATABASE_URL fill secrets the other layers left empty.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Secrets are not required here; commands that need them check on use.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	switch c.Catalog.Source {
	case "csv":
		if c.Catalog.CSVPath == "" {
			return fmt.Errorf("config error: 'catalog.csv_path' is required for the csv source")
		}
	case "postgres":
	default:
		return fmt.Errorf("config error: 'catalog.source' must be csv or postgres, got %q", c.Catalog.Source)
	}
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("config error: 'cache.capacity' must be positive")
	}
	if c.Search.BatchSize <= 0 || c.Search.Concurrency <= 0 {
		return fmt.Errorf("config error: 'search.batch_size' and 'search.concurrency' must be positive")
	}
	if c.Engine.MaxAttempts < 1 {
		return fmt.Errorf("config error: 'engine.max_attempts' must be at least 1")
	}
	if c.Engine.RequestTimeout <= 0 {
		return fmt.Errorf("config error: 'engine.request_timeout' must be positive")
	}
	if _, err := types.NewConstraints(c.Engine.Limits(), c.Engine.MaxPlayers, 0, false); err != nil {
		return fmt.Errorf("config error: engine defaults: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config error: 'log.format' must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// Limits returns the default count limits.
func (e EngineConfig) Limits() types.CountLimits {
	return types.CountLimits{
		MinGK:  e.MinGK,
		MaxGK:  e.MaxGK,
		MinDEF: e.MinDEF,
		MinMID: e.MinMID,
		MinFWD: e.MinFWD,
	}
}

// ModelConfig converts the LLM section into a client configuration.
func (l LLMConfig) ModelConfig() *llm.Config {
	cfg := llm.DefaultGeminiConfig()
	cfg.Provider = llm.Provider(l.Provider)
	cfg.Temperature = l.Temperature
	if l.EmbeddingModel != "" {
		cfg.EmbeddingModel = l.EmbeddingModel
	}
	for tier, model := range map[llm.ModelTier]string{
		llm.TierAdvanced: l.AdvancedModel,
		llm.TierStandard: l.StandardModel,
		llm.TierLite:     l.LiteModel,
	} {
		if model != "" {
			cfg.Models[tier] = model
		}
	}
	return cfg
}
