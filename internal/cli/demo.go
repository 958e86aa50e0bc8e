package cli

import (
	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/spf13/cobra"
)

const defaultDemoClosing = "2025-01-01T10:05:00Z"

// DemoInput is the fixed three-participant session used by the demo command.
func DemoInput(closingTimestamp string) adjudicator.Input {
	return adjudicator.Input{
		SessionID:        "demo-session-1",
		ProductID:        "demo-product-1",
		GroupID:          "demo-group-1",
		AlgorithmVersion: adjudicator.AlgorithmFullBinding,
		ClosingTimestamp: closingTimestamp,
		Participants: []adjudicator.Participant{
			{ParticipantID: "user-1", TicketNumber: 1, JoinTimestamp: "2025-01-01T10:00:00Z"},
			{ParticipantID: "user-2", TicketNumber: 2, JoinTimestamp: "2025-01-01T10:01:00Z"},
			{ParticipantID: "user-3", TicketNumber: 3, JoinTimestamp: "2025-01-01T10:02:00Z"},
		},
	}
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(opts *RootOptions) *cobra.Command {
	var closing string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Adjudicate a built-in three-participant session",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := adjudicator.Adjudicate(DemoInput(closing))
			if err != nil {
				return WrapExitError(ExitCommandError, "demo adjudication failed", err)
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), "ok", result)
			}
			writeResultText(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&closing, "closing-timestamp", defaultDemoClosing, "closing timestamp bound into the seed")
	return cmd
}
