package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/llm-mafia/internal/archive"
	"github.com/lorenzotomasdiez/llm-mafia/internal/config"
	"github.com/lorenzotomasdiez/llm-mafia/internal/gateway"
	"github.com/lorenzotomasdiez/llm-mafia/internal/logger"
	"github.com/lorenzotomasdiez/llm-mafia/internal/mafia"
	"github.com/lorenzotomasdiez/llm-mafia/internal/memguard"
	"github.com/lorenzotomasdiez/llm-mafia/internal/models"
	"github.com/lorenzotomasdiez/llm-mafia/internal/openrouter"
	"github.com/lorenzotomasdiez/llm-mafia/internal/output"
	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
	"github.com/lorenzotomasdiez/llm-mafia/internal/tracer"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game of Mafia",
		RunE:  runPlay,
	}
	cmd.Flags().String("system-prompt", "system_prompt.md", "File with the rules every player is given")
	cmd.Flags().Int("workers", 1, "Players queried at once (1 = sequential)")
	cmd.Flags().Float64("memory-threshold", 0, "Pause queries while free memory is below this many GB (0 disables)")
	cmd.Flags().String("output", "game_log.json", "Where to write the game log")
	cmd.Flags().Bool("reveal-secrets", false, "Also print roles, night actions and mafia chat")
	cmd.Flags().Int("max-days", 10, "Day limit before the game ends without a winner")
	cmd.Flags().Float64("temperature", 0.7, "Sampling temperature")
	cmd.Flags().Float64("rate-limit", 0, "Maximum backend requests per second (0 = unlimited)")
	cmd.Flags().String("trace", "", "Trace exporter: stdout or empty to disable")
	return cmd
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "stderr")
	if err != nil {
		return err
	}
	defer closeLog()

	// Ctrl+C ends the game early; the log gathered so far is still saved.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := tracer.Setup(ctx, cfg.Trace)
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	agents, err := seatPlayers(ctx, cfg, log)
	if err != nil {
		return err
	}
	gen, err := gateway.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	opts := mafia.DefaultOptions()
	opts.MaxDays = cfg.MaxDays
	opts.Workers = cfg.Workers
	opts.Temperature = cfg.Temperature
	opts.SystemPrompt = loadSystemPrompt(cfg.SystemPromptPath, log)
	opts.Logger = log
	if cfg.MemoryThresholdGB > 0 {
		opts.Throttle = memguard.New(cfg.MemoryThresholdGB, log)
	}

	printer := output.NewPrinter(cmd.OutOrStdout(), cfg.RevealPrivate)
	engine := mafia.NewEngine(agents, gen, opts, printer.PrintEvent)
	log.Info("game starting", "game", engine.Session().ID, "backend", cfg.Backend,
		"players", len(agents), "workers", cfg.Workers)

	res, runErr := engine.Run(ctx)
	if err := saveGame(cfg, res, log); err != nil {
		return errors.Join(runErr, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nGame log saved to: %s\n", cfg.Output)

	if errors.Is(runErr, context.Canceled) {
		fmt.Fprintln(cmd.OutOrStdout(), "Game interrupted by user.")
		return nil
	}
	return runErr
}

// seatPlayers takes the first player-count entries of the roster and gives
// every player without a model one from the backend.
func seatPlayers(ctx context.Context, cfg *config.Config, log *slog.Logger) ([]*roster.Agent, error) {
	entries := roster.Default()
	if cfg.RosterPath != "" {
		var err error
		if entries, err = roster.Load(cfg.RosterPath); err != nil {
			return nil, err
		}
	}
	n := roster.ClampCount(cfg.PlayerCount, len(entries))
	if n < 4 {
		return nil, fmt.Errorf("roster: a game needs at least 4 players, roster has %d", len(entries))
	}
	if n != cfg.PlayerCount {
		log.Warn("player count clamped", "requested", cfg.PlayerCount, "players", n)
	}
	entries = entries[:n]

	model := cfg.Model
	if model == "" {
		model = gateway.DefaultModel(cfg.Backend)
	}
	agents, err := roster.Build(entries, model)
	if err != nil {
		return nil, err
	}

	if cfg.Backend == config.BackendOpenRouter && cfg.Model == "" {
		client := openrouter.NewClientWithBaseURL(cfg.APIKey, baseURLOr(cfg.BaseURL, openrouter.DefaultBaseURL))
		seat := models.Discover(ctx, client, log).Seat(len(agents))
		for i, a := range agents {
			if entries[i].Model == "" {
				a.Model = seat[i]
			}
		}
	}
	return agents, nil
}

// loadSystemPrompt reads the shared rules file, falling back to the
// built-in prompt when it is missing or empty.
func loadSystemPrompt(path string, log *slog.Logger) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("system prompt not loaded, using default", "path", path, "error", err)
		return mafia.DefaultSystemPrompt
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		log.Warn("system prompt file is empty, using default", "path", path)
		return mafia.DefaultSystemPrompt
	}
	return prompt
}

func saveGame(cfg *config.Config, res *mafia.Result, log *slog.Logger) error {
	if err := output.WriteGameLog(cfg.Output, res.Log); err != nil {
		return err
	}
	if cfg.Archive == "" {
		return nil
	}
	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()
	// The game context may already be cancelled.
	if err := store.SaveGame(context.Background(), res); err != nil {
		return err
	}
	log.Info("game archived", "game", res.ID, "archive", cfg.Archive)
	return nil
}

func baseURLOr(override, def string) string {
	if override != "" {
		return override
	}
	return def
}
