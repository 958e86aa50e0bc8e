package cli

import (
	"fmt"
	"strings"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/spf13/cobra"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(opts *RootOptions) *cobra.Command {
	var inputPath, resultPath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a published result against its input",
		Long:  "Recomputes the result for the input and compares every field. Exits 1 when the published result does not match.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in adjudicator.Input
			if err := readJSONFile(inputPath, cmd.InOrStdin(), &in); err != nil {
				return WrapExitError(ExitCommandError, "failed to read input", err)
			}
			var claimed adjudicator.Result
			if err := readJSONFile(resultPath, cmd.InOrStdin(), &claimed); err != nil {
				return WrapExitError(ExitCommandError, "failed to read result", err)
			}

			report, err := adjudicator.Verify(in, &claimed)
			if err != nil {
				return WrapExitError(ExitCommandError, "verification rejected the input", err)
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				status := "ok"
				if !report.Valid {
					status = "mismatch"
				}
				if err := writeJSON(out, status, report); err != nil {
					return err
				}
			} else if report.Valid {
				fmt.Fprintf(out, "VALID: %s won session %s (result hash %s)\n", claimed.WinnerParticipantID, claimed.SessionID, claimed.ResultHash)
			} else {
				fmt.Fprintf(out, "MISMATCH: %s\n", strings.Join(report.Mismatches, ", "))
				fmt.Fprintf(out, "Expected winner %s (ticket %d), result hash %s\n",
					report.Expected.WinnerParticipantID, report.Expected.WinnerTicketNumber, report.Expected.ResultHash)
			}

			if !report.Valid {
				return NewExitError(ExitFailure, "published result does not match its input")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the input JSON")
	cmd.Flags().StringVarP(&resultPath, "result", "r", "", "path to the published result JSON")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("result")
	return cmd
}
