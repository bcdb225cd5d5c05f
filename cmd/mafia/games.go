package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/llm-mafia/internal/archive"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games [id]",
		Short: "List archived games, or print the public log of one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGames,
	}
	cmd.Flags().Int("limit", 20, "Number of games to list")
	return cmd
}

func runGames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Archive == "" {
		return errors.New("no archive configured: set --archive or MAFIA_ARCHIVE")
	}
	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		if _, err := store.Get(ctx, args[0]); err != nil {
			return err
		}
		lines, err := store.PublicLog(ctx, args[0])
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	games, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	for _, g := range games {
		status := g.Winner
		if g.Interrupted {
			status = "interrupted"
		}
		fmt.Fprintf(out, "%s  %s  %-11s day %-2d %d players\n",
			g.ID, g.CreatedAt.Local().Format("2006-01-02 15:04"), status, g.Days, g.Players)
	}
	return nil
}
