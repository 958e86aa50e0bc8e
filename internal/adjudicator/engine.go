// Package adjudicator selects the winner of a closed group-buy session.
//
// The computation is a pure function of its Input: participants are put in a
// canonical order, a textual seed binds the result to the session, SHA-256 turns
// the seed into an integer, and the integer modulo the participant count picks
// the winner. Every intermediate value is recorded in the trace so that a third
// party holding the published input can recompute the result with standard tools.
package adjudicator

import (
	"fmt"
	"strconv"
	"strings"
)

// Engine adjudicates sessions. The zero value uses DefaultAlgorithmVersion.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	defaultVersion string
}

// NewEngine returns an Engine that resolves empty algorithm versions to
// defaultVersion. An unsupported defaultVersion is reported by Adjudicate.
func NewEngine(defaultVersion string) *Engine {
	return &Engine{defaultVersion: defaultVersion}
}

// DefaultVersion returns the version used for inputs that do not name one.
func (e *Engine) DefaultVersion() string {
	if e == nil || e.defaultVersion == "" {
		return DefaultAlgorithmVersion
	}
	return e.defaultVersion
}

// Adjudicate runs the deterministic selection. It either returns a complete
// result or an error, never a partial result, and it never mutates in.
func (e *Engine) Adjudicate(in Input) (*Result, error) {
	version, err := validateInput(in, e.DefaultVersion())
	if err != nil {
		return nil, err
	}

	tb := &traceBuilder{}
	tb.add("Participant count", strconv.Itoa(len(in.Participants)))

	ordered, err := OrderParticipants(in.Participants)
	if err != nil {
		return nil, err
	}
	pairs := make([]string, len(ordered))
	for i, p := range ordered {
		pairs[i] = fmt.Sprintf("%s:%d", p.ParticipantID, p.TicketNumber)
	}
	tb.add("Deterministic participant order (participant_id:ticket_number)", strings.Join(pairs, "; "))

	seed, err := BuildSeed(version, in, ordered)
	if err != nil {
		return nil, err
	}
	tb.add(seedDescription(version, hasPublicSeed(in)), seed)

	numericSeed := NormalizeSeed(seed)
	tb.add("Numeric seed (SHA-256 as big-endian integer)", numericSeed.String())

	idx, err := WinnerIndex(numericSeed, len(ordered))
	if err != nil {
		return nil, err
	}
	tb.add("Winner index (numeric_seed mod N)", fmt.Sprintf("%d (N=%d)", idx, len(ordered)))

	winner := ordered[idx]
	tb.add("Winner (participant at winner index in ordered list)",
		fmt.Sprintf("participant_id=%s, ticket_number=%d", winner.ParticipantID, winner.TicketNumber))

	hash := ResultHash(in.SessionID, winner.ParticipantID, numericSeed)
	tb.add("Result hash (session_id | winner_participant_id | numeric_seed)", hash)

	return &Result{
		SessionID:           in.SessionID,
		ProductID:           in.ProductID,
		GroupID:             in.GroupID,
		AlgorithmVersion:    version,
		PublicSeed:          copyString(in.PublicSeed),
		NumericSeed:         numericSeed,
		WinnerParticipantID: winner.ParticipantID,
		WinnerTicketNumber:  winner.TicketNumber,
		WinnerIndex:         idx,
		Trace:               tb.steps,
		ResultHash:          hash,
	}, nil
}

// Adjudicate runs in through an Engine with the default algorithm version.
func Adjudicate(in Input) (*Result, error) {
	return (*Engine)(nil).Adjudicate(in)
}

func seedDescription(version string, withPublicSeed bool) string {
	if version == AlgorithmSessionSeed {
		return "Base seed (session_id | public_seed)"
	}
	if withPublicSeed {
		return "Base seed (session_id | closing_timestamp | participant_ids | public_seed)"
	}
	return "Base seed (session_id | closing_timestamp | participant_ids)"
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
