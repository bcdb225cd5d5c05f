// Package config loads game settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Backends understood by the gateway factory.
const (
	BackendOllama     = "ollama"
	BackendOpenRouter = "openrouter"
	BackendGemini     = "gemini"
)

// ErrMissingAPIKey is returned when a hosted backend is selected without a key.
var ErrMissingAPIKey = errors.New("config: API key is required")

// Config holds everything the CLI needs to set up a game.
type Config struct {
	Backend           string
	APIKey            string
	BaseURL           string
	Model             string
	RosterPath        string
	SystemPromptPath  string
	PlayerCount       int
	Workers           int
	MemoryThresholdGB float64
	Output            string
	RevealPrivate     bool
	MaxDays           int
	Temperature       float64
	RateLimit         float64
	Archive           string
	Trace             string
	LogLevel          string
	LogFormat         string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Backend:          BackendOllama,
		SystemPromptPath: "system_prompt.md",
		PlayerCount:      10,
		Workers:          1,
		Output:           "game_log.json",
		MaxDays:          10,
		Temperature:      0.7,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load reads MAFIA_* variables on top of Default. It does not validate, so
// flags can still override before Validate is called.
func Load() (*Config, error) {
	cfg := Default()

	envString(&cfg.Backend, "MAFIA_BACKEND")
	envString(&cfg.BaseURL, "MAFIA_BASE_URL")
	envString(&cfg.Model, "MAFIA_MODEL")
	envString(&cfg.RosterPath, "MAFIA_ROSTER")
	envString(&cfg.SystemPromptPath, "MAFIA_SYSTEM_PROMPT")
	envString(&cfg.Output, "MAFIA_OUTPUT")
	envString(&cfg.Archive, "MAFIA_ARCHIVE")
	envString(&cfg.Trace, "MAFIA_TRACE")
	envString(&cfg.LogLevel, "MAFIA_LOG_LEVEL")
	envString(&cfg.LogFormat, "MAFIA_LOG_FORMAT")
	cfg.Backend = strings.ToLower(cfg.Backend)

	var err error
	if cfg.PlayerCount, err = envInt("MAFIA_PLAYERS", cfg.PlayerCount); err != nil {
		return nil, err
	}
	if cfg.Workers, err = envInt("MAFIA_WORKERS", cfg.Workers); err != nil {
		return nil, err
	}
	if cfg.MaxDays, err = envInt("MAFIA_MAX_DAYS", cfg.MaxDays); err != nil {
		return nil, err
	}
	if cfg.MemoryThresholdGB, err = envFloat("MAFIA_MEMORY_THRESHOLD", cfg.MemoryThresholdGB); err != nil {
		return nil, err
	}
	if cfg.Temperature, err = envFloat("MAFIA_TEMPERATURE", cfg.Temperature); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = envFloat("MAFIA_RATE_LIMIT", cfg.RateLimit); err != nil {
		return nil, err
	}
	if cfg.RevealPrivate, err = envBool("MAFIA_REVEAL", cfg.RevealPrivate); err != nil {
		return nil, err
	}

	cfg.APIKey = APIKeyFromEnv(cfg.Backend)
	return cfg, nil
}

// APIKeyFromEnv returns the key variable of a hosted backend, or "" for
// backends that need none.
func APIKeyFromEnv(backend string) string {
	switch backend {
	case BackendOpenRouter:
		return os.Getenv("OPENROUTER_API_KEY")
	case BackendGemini:
		return os.Getenv("GEMINI_API_KEY")
	default:
		return ""
	}
}

// Validate reports settings that must stop the game before it starts.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOllama:
	case BackendOpenRouter, BackendGemini:
		if c.APIKey == "" {
			return fmt.Errorf("%w for backend %q", ErrMissingAPIKey, c.Backend)
		}
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: Workers must be >= 1, got %d", c.Workers)
	}
	if c.MaxDays < 1 {
		return fmt.Errorf("config: MaxDays must be >= 1, got %d", c.MaxDays)
	}
	if c.MemoryThresholdGB < 0 {
		return fmt.Errorf("config: MemoryThresholdGB must be >= 0, got %g", c.MemoryThresholdGB)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: RateLimit must be >= 0, got %g", c.RateLimit)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from path. Variables already present in
// the environment win, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, defaultVal int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}
