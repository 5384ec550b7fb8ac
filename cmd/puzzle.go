package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/enigma/internal/criteria"
	"github.com/abhisek/enigma/internal/game"
	"github.com/abhisek/enigma/internal/store"
	"github.com/abhisek/enigma/internal/ui/theme"
)

var puzzleCmd = &cobra.Command{
	Use:   "puzzle",
	Short: "Browse and add stored puzzles",
}

var puzzleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored puzzles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, difficulty, err := parseTier(cmd, false)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		return withStore(cmd, func(ctx context.Context, st *store.Store) error {
			puzzles, err := st.PuzzleRepo().ListPuzzles(ctx, store.PuzzleFilter{
				Domain:     string(domain),
				Difficulty: string(difficulty),
				Limit:      limit,
			})
			if err != nil {
				return fmt.Errorf("list puzzles: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(puzzles) == 0 {
				fmt.Fprintln(out, "No puzzles found.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-14s  %-6s  %-3s  %-16s  %s\n", "ID", "Domain", "Level", "AI", "Criteria", "Summary")
			fmt.Fprintln(out, strings.Repeat("─", 100))
			for _, p := range puzzles {
				ai := " "
				if p.AIGenerated {
					ai = "✓"
				}
				fmt.Fprintf(out, "%-5d  %-14s  %-6s  %-3s  %-16s  %s\n",
					p.ID, p.Domain, p.Difficulty, ai,
					criteria.Parse(p.ValidationCriteria).Kind(),
					summaryLine(p.Description, 48))
			}
			return nil
		})
	},
}

var puzzleShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render a puzzle description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		raw, _ := cmd.Flags().GetBool("raw")
		showCriteria, _ := cmd.Flags().GetBool("criteria")

		return withService(cmd, func(ctx context.Context, svc *game.Service) error {
			p, err := svc.Puzzle(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "#%d  %s · %s\n\n", p.ID, p.Domain, p.Difficulty)
			if raw {
				fmt.Fprintln(out, p.Description)
			} else {
				fmt.Fprintln(out, theme.RenderMarkdown(p.Description, 100, theme.MarkdownStyle()))
			}
			if showCriteria {
				fmt.Fprintf(out, "\nCriteria (%s):\n%s\n", criteria.Parse(p.ValidationCriteria).Kind(), p.ValidationCriteria)
			}
			return nil
		})
	},
}

var puzzleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a hand-written puzzle",
	Long: "Store a hand-written puzzle. The description is read from --file (\"-\" for stdin).\n" +
		"--criteria takes structured JSON such as {\"type\":\"exact_match\",\"expected\":\"404\"}\n" +
		"or legacy text such as: The correct option is B. Prefix with @ to read it from a file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, difficulty, err := parseTier(cmd, true)
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return fmt.Errorf("--file is required")
		}
		desc, err := readInput(cmd, file)
		if err != nil {
			return err
		}
		critArg, _ := cmd.Flags().GetString("criteria")
		crit, err := readArgValue(critArg)
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *game.Service) error {
			p, err := svc.AddPuzzle(ctx, game.AddPuzzleInput{
				Domain:      domain,
				Difficulty:  difficulty,
				Description: desc,
				Criteria:    crit,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored puzzle #%d (%s).\n", p.ID, criteria.Parse(p.ValidationCriteria).Kind())
			return nil
		})
	},
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// readArgValue returns v, or the contents of the file it names when v
// starts with "@".
func readArgValue(v string) (string, error) {
	if name, ok := strings.CutPrefix(v, "@"); ok {
		data, err := os.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		return string(data), nil
	}
	return v, nil
}

// summaryLine returns the first non-blank line of s outside code fence
// markers, with heading marks dropped and cut to n runes.
func summaryLine(s string, n int) string {
	for line := range strings.SplitSeq(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		r := []rune(line)
		if len(r) > n {
			return string(r[:n-1]) + "…"
		}
		return line
	}
	return ""
}

func init() {
	addTierFlags(puzzleListCmd)
	puzzleListCmd.Flags().IntP("limit", "n", 20, "Number of puzzles to show")

	puzzleShowCmd.Flags().Bool("raw", false, "Print the markdown without rendering")
	puzzleShowCmd.Flags().Bool("criteria", false, "Also print the validation criteria")

	addTierFlags(puzzleAddCmd)
	puzzleAddCmd.Flags().StringP("file", "f", "", "Markdown description file, or - for stdin")
	puzzleAddCmd.Flags().StringP("criteria", "c", "", "Validation criteria (JSON or legacy text, @file to read a file)")

	puzzleCmd.AddCommand(puzzleListCmd)
	puzzleCmd.AddCommand(puzzleShowCmd)
	puzzleCmd.AddCommand(puzzleAddCmd)
}
