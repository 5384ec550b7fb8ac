// Package config loads enigma's configuration from a YAML file, a .env file
// and ENIGMA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/enigma/internal/llm"
	"github.com/abhisek/enigma/internal/logging"
	"github.com/abhisek/enigma/internal/store"
)

// Config holds all enigma configuration.
type Config struct {
	Database store.Config   `yaml:"database"`
	LLM      llm.Config     `yaml:"llm"`
	Game     GameConfig     `yaml:"game"`
	Logging  logging.Config `yaml:"logging"`
}

// GameConfig tunes gameplay and generation.
type GameConfig struct {
	// HintThreshold is the attempt count at which a failed answer earns a hint.
	HintThreshold int `yaml:"hint_threshold" validate:"gte=1"`

	// BatchConcurrency bounds parallel LLM calls in batch generation.
	BatchConcurrency int `yaml:"batch_concurrency" validate:"gte=1,lte=16"`

	// MaxPriorDescriptions caps the "do not repeat" list sent to the model.
	MaxPriorDescriptions int `yaml:"max_prior_descriptions" validate:"gte=0"`

	// GenerationAttempts is how many times a rejected puzzle is regenerated.
	GenerationAttempts int `yaml:"generation_attempts" validate:"gte=1,lte=10"`
}

// DefaultConfig returns a working local configuration: SQLite and OpenAI
// gpt-4o-mini for generation. An empty DSN means store.DefaultDBPath.
func DefaultConfig() *Config {
	return &Config{
		Database: store.Config{
			Driver: store.DriverSQLite,
		},
		LLM: llm.DefaultConfig(),
		Game: GameConfig{
			HintThreshold:        3,
			BatchConcurrency:     4,
			MaxPriorDescriptions: 8,
			GenerationAttempts:   3,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns ENIGMA_CONFIG, or $XDG_CONFIG_HOME/enigma/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("ENIGMA_CONFIG"); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "enigma", "config.yaml")
}

// Load reads configuration from path. A missing file yields the defaults
// with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.applyEnvOverrides()
	llm.DiscoverKeys(&cfg.LLM)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ENIGMA_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("ENIGMA_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("ENIGMA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ENIGMA_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("ENIGMA_HINT_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Game.HintThreshold = n
		}
	}
	if v := os.Getenv("ENIGMA_BATCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Game.BatchConcurrency = n
		}
	}
	llm.ApplyEnv(&c.LLM)
}

var validate = validator.New()

// Validate checks struct constraints. Provider API keys are checked later,
// only by commands that talk to the model.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes cfg to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
