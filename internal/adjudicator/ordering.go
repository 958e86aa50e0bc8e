package adjudicator

import (
	"fmt"
	"sort"
)

// ticketKeyWidth is the zero-padded width used when comparing ticket numbers.
const ticketKeyWidth = 10

// maxTicketNumber is the largest ticket that still fits the padded key, keeping
// textual and numeric order identical.
const maxTicketNumber int64 = 9_999_999_999

func ticketKey(n int64) string {
	return fmt.Sprintf("%0*d", ticketKeyWidth, n)
}

// OrderParticipants returns the canonical ordering used for seed construction:
// join_timestamp (missing first), then padded ticket number, then participant_id.
// The input slice is not modified.
func OrderParticipants(participants []Participant) ([]Participant, error) {
	if len(participants) == 0 {
		return nil, newValidationError("participants", "must not be empty")
	}

	ordered := make([]Participant, len(participants))
	copy(ordered, participants)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.JoinTimestamp != b.JoinTimestamp {
			return a.JoinTimestamp < b.JoinTimestamp
		}
		if ka, kb := ticketKey(a.TicketNumber), ticketKey(b.TicketNumber); ka != kb {
			return ka < kb
		}
		return a.ParticipantID < b.ParticipantID
	})
	return ordered, nil
}
