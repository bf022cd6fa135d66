// Package config loads and validates the service configuration from a
// YAML file layered over built-in defaults. Credentials come from the
// environment, never from the file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/refinehq/refine/pkg/domain"
)

// Provider backends.
const (
	BackendGemini    = "gemini"
	BackendAnthropic = "anthropic"
	BackendScripted  = "scripted"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Provider ProviderConfig `koanf:"provider"`
	Redis    RedisConfig    `koanf:"redis"`
	Engine   EngineConfig   `koanf:"engine"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ProviderConfig selects and tunes the analysis backend. APIKey is
// resolved from the environment at load time.
type ProviderConfig struct {
	Backend      string `koanf:"backend"`
	Model        string `koanf:"model"`
	ScenarioPath string `koanf:"scenario_path"`
	APIKey       string `koanf:"-"`
}

// RedisConfig configures the optional Redis persistence backend. When
// disabled, conversations live in process memory.
type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

// EngineConfig bounds refinement runs.
type EngineConfig struct {
	MaxSteps            int           `koanf:"max_steps"`
	RunBudget           time.Duration `koanf:"run_budget"`
	FinalizeGrace       time.Duration `koanf:"finalize_grace"`
	HistoryLimit        int           `koanf:"history_limit"`
	ParallelSpecialists bool          `koanf:"parallel_specialists"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8000",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Provider: ProviderConfig{
			Backend: BackendGemini,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			Prefix:  "refine:",
		},
		Engine: EngineConfig{
			MaxSteps:      domain.DefaultMaxSteps,
			RunBudget:     120 * time.Second,
			FinalizeGrace: 10 * time.Second,
			HistoryLimit:  5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration. An empty path yields the defaults. The
// provider API key is taken from GEMINI_API_KEY or ANTHROPIC_API_KEY
// depending on the backend.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
		if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
		}
	}

	switch cfg.Provider.Backend {
	case BackendGemini:
		cfg.Provider.APIKey = os.Getenv("GEMINI_API_KEY")
	case BackendAnthropic:
		cfg.Provider.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot honor.
func (c Config) Validate() error {
	switch c.Provider.Backend {
	case BackendGemini, BackendAnthropic, BackendScripted:
	default:
		return fmt.Errorf("config: unknown provider backend %q", c.Provider.Backend)
	}
	if c.Provider.Backend == BackendScripted && c.Provider.ScenarioPath != "" {
		if _, err := os.Stat(c.Provider.ScenarioPath); err != nil {
			return fmt.Errorf("config: scenario file: %w", err)
		}
	}
	if c.Engine.MaxSteps < 1 {
		return fmt.Errorf("config: engine.max_steps must be at least 1, got %d", c.Engine.MaxSteps)
	}
	if c.Engine.RunBudget < 0 {
		return fmt.Errorf("config: engine.run_budget must not be negative")
	}
	if c.Engine.HistoryLimit < 1 {
		return fmt.Errorf("config: engine.history_limit must be at least 1, got %d", c.Engine.HistoryLimit)
	}
	// Specialists share one mutable state record per run; concurrent
	// execution would race on it.
	if c.Engine.ParallelSpecialists {
		return fmt.Errorf("config: engine.parallel_specialists is not supported")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	return nil
}
