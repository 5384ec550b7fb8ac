package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/enigma/internal/restructure"
)

var restructureCmd = &cobra.Command{
	Use:   "restructure [file]",
	Short: "Move a description's example code block under an Example Usage heading",
	Long: "Restructure a markdown puzzle description the way generated puzzles are stored:\n" +
		"a code block that follows the placeholder skeleton is moved under\n" +
		"\"" + restructure.ExampleHeading + "\". Reads stdin when no file is given.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		desc, err := readInput(cmd, path)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), restructure.New(logger).Restructure(desc))
		return nil
	},
}
