package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/enigma/internal/criteria"
)

var checkCmd = &cobra.Command{
	Use:   "check [answer]",
	Short: "Grade an answer against criteria without touching the database",
	Example: `  enigma check --criteria '{"type":"multiple_choice","correct_option":"C"}' "c)"
  echo 'return a + b' | enigma check --criteria '{"type":"code_contains","substrings":["return"]}'
  enigma check --criteria 'The answer must be exactly "42"' 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		critArg, _ := cmd.Flags().GetString("criteria")
		if critArg == "" {
			return fmt.Errorf("--criteria is required")
		}
		stored, err := readArgValue(critArg)
		if err != nil {
			return err
		}

		var answer string
		if len(args) == 1 {
			answer = args[0]
		} else if answer, err = readInput(cmd, "-"); err != nil {
			return err
		}

		out := criteria.NewValidator(logger).Validate(stored, answer)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"kind":     criteria.Parse(stored).Kind(),
				"verdict":  out.Verdict.String(),
				"correct":  out.Correct(),
				"feedback": out.Feedback,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n", out.Verdict, criteria.Parse(stored).Kind(), out.Feedback)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringP("criteria", "c", "", "Validation criteria (JSON or legacy text, @file to read a file)")
	checkCmd.Flags().Bool("json", false, "Print the outcome as JSON")
}
