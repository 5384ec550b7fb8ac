package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/enigma/internal/game"
)

var answerCmd = &cobra.Command{
	Use:   "answer <puzzle-id> [answer]",
	Short: "Submit an answer to a puzzle",
	Long: "Submit an answer to a puzzle. The answer comes from the argument, from --file,\n" +
		"or from stdin when neither is given.",
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		puzzleID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid puzzle ID %q: %w", args[0], err)
		}
		username, _ := cmd.Flags().GetString("player")
		if username == "" {
			return fmt.Errorf("--player is required")
		}

		var answer string
		switch file, _ := cmd.Flags().GetString("file"); {
		case len(args) == 2:
			answer = args[1]
		case file != "":
			if answer, err = readInput(cmd, file); err != nil {
				return err
			}
		default:
			if answer, err = readInput(cmd, "-"); err != nil {
				return err
			}
		}

		return withService(cmd, func(ctx context.Context, svc *game.Service) error {
			p, err := svc.Player(ctx, username)
			if err != nil {
				return fmt.Errorf("%w (create it with `enigma player create %s`)", err, username)
			}
			res, err := svc.SubmitAnswer(ctx, p.ID, puzzleID, answer)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", strings.ToUpper(res.Verdict.String()), res.Feedback)
			if res.AlreadySolved {
				fmt.Fprintln(out, "(already solved, attempt not counted)")
			}
			fmt.Fprintf(out, "Attempts: %d  Status: %s\n", res.Attempts, res.Status)
			if res.Hint != "" {
				fmt.Fprintf(out, "Hint: %s\n", res.Hint)
			}
			return nil
		})
	},
}

func init() {
	answerCmd.Flags().StringP("player", "p", "", "Player username")
	answerCmd.Flags().StringP("file", "f", "", "Read the answer from a file (- for stdin)")
}
