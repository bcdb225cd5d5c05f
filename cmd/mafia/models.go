package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/llm-mafia/internal/config"
	"github.com/lorenzotomasdiez/llm-mafia/internal/logger"
	"github.com/lorenzotomasdiez/llm-mafia/internal/models"
	"github.com/lorenzotomasdiez/llm-mafia/internal/openrouter"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the free OpenRouter models players can be seated on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, closeLog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "stderr")
			if err != nil {
				return err
			}
			defer closeLog()

			apiKey := cfg.APIKey
			if apiKey == "" {
				apiKey = config.APIKeyFromEnv(config.BackendOpenRouter)
			}
			client := openrouter.NewClientWithBaseURL(apiKey, baseURLOr(cfg.BaseURL, openrouter.DefaultBaseURL))
			registry := models.Discover(cmd.Context(), client, log)

			out := cmd.OutOrStdout()
			for _, m := range registry.FreeModels() {
				fmt.Fprintf(out, "%-50s %s\n", m.ID, m.Name)
			}
			fmt.Fprintf(out, "\n%d free models\n", len(registry.FreeModels()))
			return nil
		},
	}
}
