package adjudicator

import (
	"fmt"
	"reflect"
)

// VerificationReport is the outcome of recomputing a published result.
type VerificationReport struct {
	Valid      bool     `json:"valid"`
	Mismatches []string `json:"mismatches,omitempty"`
	Expected   *Result  `json:"expected"`
}

// Verify recomputes the result for in and compares it with claimed field by
// field. An input the engine rejects is returned as an error. The claimed
// algorithm version is honoured so that results of either seed variant verify.
func (e *Engine) Verify(in Input, claimed *Result) (*VerificationReport, error) {
	if claimed == nil {
		return nil, newValidationError("result", "is required")
	}
	if in.AlgorithmVersion == "" {
		in.AlgorithmVersion = claimed.AlgorithmVersion
	}

	expected, err := e.Adjudicate(in)
	if err != nil {
		return nil, err
	}

	report := &VerificationReport{Valid: true, Expected: expected}
	mismatch := func(field string) {
		report.Valid = false
		report.Mismatches = append(report.Mismatches, field)
	}

	if claimed.SessionID != expected.SessionID {
		mismatch("session_id")
	}
	if claimed.ProductID != expected.ProductID {
		mismatch("product_id")
	}
	if claimed.GroupID != expected.GroupID {
		mismatch("group_id")
	}
	if claimed.AlgorithmVersion != expected.AlgorithmVersion {
		mismatch("algorithm_version")
	}
	if !equalStringPtr(claimed.PublicSeed, expected.PublicSeed) {
		mismatch("public_seed")
	}
	if claimed.NumericSeed == nil || claimed.NumericSeed.Cmp(expected.NumericSeed) != 0 {
		mismatch("numeric_seed")
	}
	if claimed.WinnerParticipantID != expected.WinnerParticipantID {
		mismatch("winner_participant_id")
	}
	if claimed.WinnerTicketNumber != expected.WinnerTicketNumber {
		mismatch("winner_ticket_number")
	}
	if claimed.WinnerIndex != expected.WinnerIndex {
		mismatch("winner_index")
	}
	if !reflect.DeepEqual(claimed.Trace, expected.Trace) {
		mismatch("trace")
	}
	if claimed.ResultHash != expected.ResultHash {
		mismatch("result_hash")
	}
	return report, nil
}

// Verify checks claimed against in with the default engine.
func Verify(in Input, claimed *Result) (*VerificationReport, error) {
	return (*Engine)(nil).Verify(in, claimed)
}

// VerifyResultHash recomputes result_hash from the three published values.
func VerifyResultHash(r *Result) error {
	if r == nil || r.NumericSeed == nil {
		return newValidationError("numeric_seed", "is required")
	}
	if got := ResultHash(r.SessionID, r.WinnerParticipantID, r.NumericSeed); got != r.ResultHash {
		return fmt.Errorf("result hash mismatch: published %s, recomputed %s", r.ResultHash, got)
	}
	return nil
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
