package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/enigma/internal/game"
)

var statsCmd = &cobra.Command{
	Use:   "stats <player>",
	Short: "Show a player's progress by domain",
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
			if stats.Attempted == 0 {
				fmt.Fprintf(out, "%s has not attempted any puzzles yet.\n", p.Username)
				return nil
			}

			fmt.Fprintf(out, "Progress for %s\n", p.Username)
			fmt.Fprintln(out, strings.Repeat("─", 56))
			fmt.Fprintf(out, "%-16s  %9s  %6s  %8s  %7s\n", "Domain", "Attempted", "Solved", "Attempts", "Rate")
			fmt.Fprintln(out, strings.Repeat("─", 56))
			for _, d := range stats.Domains {
				fmt.Fprintf(out, "%-16s  %9d  %6d  %8d  %7s\n",
					d.Domain, d.Attempted, d.Solved, d.Attempts, solveRate(d.Solved, d.Attempted))
			}
			fmt.Fprintln(out, strings.Repeat("─", 56))
			fmt.Fprintf(out, "%-16s  %9d  %6d  %8d  %7s\n",
				"TOTAL", stats.Attempted, stats.Solved, stats.Attempts, solveRate(stats.Solved, stats.Attempted))
			return nil
		})
	},
}

func solveRate(solved, attempted int) string {
	if attempted == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", float64(solved)*100/float64(attempted))
}
