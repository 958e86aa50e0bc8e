package adjudicator

import "math/big"

// Algorithm versions. The two seed constructions are not mutually reproducible,
// so a stored result is only verifiable under the version it records.
const (
	// AlgorithmFullBinding seeds with session_id | closing_timestamp | ordered ids [| public_seed].
	AlgorithmFullBinding = "1.0"
	// AlgorithmSessionSeed seeds with session_id | public_seed only.
	AlgorithmSessionSeed = "1.0-session-seed"

	// DefaultAlgorithmVersion is used when an input leaves algorithm_version empty.
	DefaultAlgorithmVersion = AlgorithmFullBinding
)

// SeedDelimiter joins the components of the base seed and of the result hash input.
const SeedDelimiter = "|"

// Participant is one closed-list entry of a session.
type Participant struct {
	ParticipantID string `json:"participant_id" bson:"participantId"`
	TicketNumber  int64  `json:"ticket_number" bson:"ticketNumber"`
	JoinTimestamp string `json:"join_timestamp,omitempty" bson:"joinTimestamp,omitempty"`
}

// Input is everything a third party needs to reproduce an adjudication.
type Input struct {
	SessionID        string        `json:"session_id" bson:"sessionId"`
	ProductID        string        `json:"product_id" bson:"productId"`
	GroupID          string        `json:"group_id" bson:"groupId"`
	AlgorithmVersion string        `json:"algorithm_version" bson:"algorithmVersion"`
	ClosingTimestamp string        `json:"closing_timestamp" bson:"closingTimestamp"`
	PublicSeed       *string       `json:"public_seed" bson:"publicSeed,omitempty"`
	Participants     []Participant `json:"participants" bson:"participants"`
}

// TraceStep is one append-only audit line of the computation.
type TraceStep struct {
	Step        int    `json:"step" bson:"step"`
	Description string `json:"description" bson:"description"`
	Value       string `json:"value" bson:"value"`
}

// Result is the immutable outcome of one adjudication.
type Result struct {
	SessionID           string      `json:"session_id"`
	ProductID           string      `json:"product_id"`
	GroupID             string      `json:"group_id"`
	AlgorithmVersion    string      `json:"algorithm_version"`
	PublicSeed          *string     `json:"public_seed"`
	NumericSeed         *big.Int    `json:"numeric_seed"`
	WinnerParticipantID string      `json:"winner_participant_id"`
	WinnerTicketNumber  int64       `json:"winner_ticket_number"`
	WinnerIndex         int         `json:"winner_index"`
	Trace               []TraceStep `json:"trace"`
	ResultHash          string      `json:"result_hash"`
}
