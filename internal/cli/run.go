package cli

import (
	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Adjudicate an input file",
		Long:  "Reads an adjudication input as JSON (use - for stdin) and prints the result with its full trace.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in adjudicator.Input
			if err := readJSONFile(inputPath, cmd.InOrStdin(), &in); err != nil {
				return WrapExitError(ExitCommandError, "failed to read input", err)
			}

			result, err := adjudicator.Adjudicate(in)
			if err != nil {
				return WrapExitError(ExitCommandError, "adjudication rejected the input", err)
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), "ok", result)
			}
			writeResultText(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the input JSON (- for stdin)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
