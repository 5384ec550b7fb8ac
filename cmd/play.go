package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/enigma/internal/game"
	"github.com/abhisek/enigma/internal/play"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Solve puzzles interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("player")
		if username == "" {
			return fmt.Errorf("--player is required")
		}
		domain, difficulty, err := parseTier(cmd, false)
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *game.Service) error {
			p, err := svc.RegisterPlayer(ctx, username)
			if err != nil {
				return err
			}
			return play.Run(ctx, svc, play.Options{
				Player:     p,
				Domain:     domain,
				Difficulty: difficulty,
			})
		})
	},
}

func init() {
	playCmd.Flags().StringP("player", "p", "", "Player username (created if missing)")
	addTierFlags(playCmd)
}
