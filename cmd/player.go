package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/enigma/internal/game"
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Manage players",
}

var playerCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Register a player (no-op if it exists)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *game.Service) error {
			p, err := svc.RegisterPlayer(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Player %s (id %d)\n", p.Username, p.ID)
			return nil
		})
	},
}

var playerShowCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Show a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *game.Service) error {
			p, err := svc.Player(ctx, args[0])
			if err != nil {
				return err
			}
			stats, err := svc.PlayerStats(ctx, p.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Username:  %s\n", p.Username)
			fmt.Fprintf(out, "ID:        %d\n", p.ID)
			fmt.Fprintf(out, "Joined:    %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "Solved:    %d of %d attempted (%d attempts)\n", stats.Solved, stats.Attempted, stats.Attempts)
			return nil
		})
	},
}

func init() {
	playerCmd.AddCommand(playerCreateCmd)
	playerCmd.AddCommand(playerShowCmd)
}
