package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/llm-mafia/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mafia",
		Short: "Language-model players play Mafia against each other",
		Long: "Moderates a game of Mafia between language-model players. Each player gets a " +
			"personality and a secret role; the moderator runs the day discussion, the vote " +
			"and the night actions until the town or the mafia wins.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("backend", "", "Backend: ollama, openrouter or gemini (overrides MAFIA_BACKEND)")
	pf.String("api-key", "", "API key for hosted backends (overrides OPENROUTER_API_KEY / GEMINI_API_KEY)")
	pf.String("base-url", "", "Backend API root (default depends on the backend)")
	pf.String("model", "", "Model for players without one in the roster")
	pf.String("roster", "", "Roster file (JSON or YAML); empty uses the built-in players")
	pf.Int("player-count", 10, "Number of players, clamped to [4, roster size]")
	pf.String("archive", "", "SQLite file archiving finished games")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text or json")

	root.AddCommand(newPlayCmd())
	root.AddCommand(newModelsCmd())
	root.AddCommand(newRosterCmd())
	root.AddCommand(newGamesCmd())
	return root
}

// loadConfig reads .env and the environment, then applies every flag the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	str := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	float := func(name string, dst *float64) {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}

	if f.Changed("backend") {
		str("backend", &cfg.Backend)
		cfg.Backend = strings.ToLower(cfg.Backend)
		cfg.APIKey = config.APIKeyFromEnv(cfg.Backend)
	}
	str("api-key", &cfg.APIKey)
	str("base-url", &cfg.BaseURL)
	str("model", &cfg.Model)
	str("roster", &cfg.RosterPath)
	num("player-count", &cfg.PlayerCount)
	str("archive", &cfg.Archive)
	str("log-level", &cfg.LogLevel)
	str("log-format", &cfg.LogFormat)

	str("system-prompt", &cfg.SystemPromptPath)
	num("workers", &cfg.Workers)
	float("memory-threshold", &cfg.MemoryThresholdGB)
	str("output", &cfg.Output)
	num("max-days", &cfg.MaxDays)
	float("temperature", &cfg.Temperature)
	float("rate-limit", &cfg.RateLimit)
	str("trace", &cfg.Trace)
	if f.Changed("reveal-secrets") {
		cfg.RevealPrivate, _ = f.GetBool("reveal-secrets")
	}
	return cfg, nil
}
