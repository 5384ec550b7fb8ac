package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/enigma/internal/game"
	"github.com/abhisek/enigma/internal/puzzlegen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate puzzles with the LLM and store them",
	Example: `  enigma generate --domain backend --difficulty easy
  enigma generate --domain "AI Engineering" --difficulty hard -n 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, difficulty, err := parseTier(cmd, true)
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("count")
		if n < 1 {
			return fmt.Errorf("--count must be at least 1")
		}
		if c, _ := cmd.Flags().GetInt("concurrency"); c > 0 {
			cfg.Game.BatchConcurrency = c
		}

		return withService(cmd, func(ctx context.Context, svc *game.Service) error {
			if !svc.CanGenerate() {
				return fmt.Errorf("%w: set llm.provider and an API key (see `enigma config show`)", game.ErrGeneratorUnavailable)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generating %d %s %s puzzle(s)...\n", n, difficulty, domain)

			puzzles, genErr := svc.GeneratePuzzles(ctx, domain, difficulty, n)
			for _, p := range puzzles {
				fmt.Fprintf(out, "  #%-5d %s\n", p.ID, summaryLine(p.Description, 70))
			}
			if genErr != nil {
				return genErr
			}
			fmt.Fprintf(out, "Stored %d puzzle(s).\n", len(puzzles))
			return nil
		})
	},
}

// parseTier reads --domain and --difficulty. When required is false, empty
// flags mean "any".
func parseTier(cmd *cobra.Command, required bool) (puzzlegen.Domain, puzzlegen.Difficulty, error) {
	rawDomain, _ := cmd.Flags().GetString("domain")
	rawDifficulty, _ := cmd.Flags().GetString("difficulty")

	var (
		domain     puzzlegen.Domain
		difficulty puzzlegen.Difficulty
		err        error
	)
	if rawDomain != "" || required {
		if domain, err = puzzlegen.ParseDomain(rawDomain); err != nil {
			return "", "", err
		}
	}
	if rawDifficulty != "" || required {
		if difficulty, err = puzzlegen.ParseDifficulty(rawDifficulty); err != nil {
			return "", "", err
		}
	}
	return domain, difficulty, nil
}

func addTierFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("domain", "d", "", "Domain: Frontend, Backend, Database or AI Engineering")
	cmd.Flags().StringP("difficulty", "l", "", "Difficulty: Easy, Medium or Hard")
}

func init() {
	addTierFlags(generateCmd)
	generateCmd.Flags().IntP("count", "n", 1, "Number of puzzles to generate")
	generateCmd.Flags().Int("concurrency", 0, "Parallel LLM calls (default from config)")
}
