package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/llm-mafia/internal/gateway"
	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
)

func newRosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Validate the roster and show who would play",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			entries := roster.Default()
			source := "built-in roster"
			if cfg.RosterPath != "" {
				if entries, err = roster.Load(cfg.RosterPath); err != nil {
					return err
				}
				source = cfg.RosterPath
			}
			if err := roster.Validate(entries); err != nil {
				return err
			}

			n := roster.ClampCount(cfg.PlayerCount, len(entries))
			model := cfg.Model
			if model == "" {
				model = gateway.DefaultModel(cfg.Backend)
			}
			if model == "" {
				model = "(free model registry)"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d entries, %d seated\n\n", source, len(entries), n)
			for i, e := range entries {
				seat := " "
				if i < n {
					seat = "*"
				}
				m := e.Model
				if m == "" {
					m = model
				}
				fmt.Fprintf(out, "%s %-20s %-40s %s\n", seat, e.Name, m, firstSentence(e.Personality))
			}
			c := roster.CountsFor(n)
			fmt.Fprintf(out, "\nRoles: %d mafia, %d detective, %d doctor, %d villager\n",
				c.Mafia, c.Detective, c.Doctor, c.Villager)
			return nil
		},
	}
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".!?"); i >= 0 {
		return s[:i+1]
	}
	return s
}
