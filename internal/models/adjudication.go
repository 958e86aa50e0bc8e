package models

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdjudicationRecord persists the exact input and output of one adjudication so it
// can be replayed for audit. One record per session (unique index on sessionId).
type AdjudicationRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	Input     adjudicator.Input  `bson:"input" json:"input"`
	Result    StoredResult       `bson:"result" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// StoredResult mirrors adjudicator.Result with the numeric seed kept as a
// decimal string, since BSON has no arbitrary-precision integer.
type StoredResult struct {
	SessionID           string                  `bson:"sessionId"`
	ProductID           string                  `bson:"productId"`
	GroupID             string                  `bson:"groupId"`
	AlgorithmVersion    string                  `bson:"algorithmVersion"`
	PublicSeed          *string                 `bson:"publicSeed,omitempty"`
	NumericSeed         string                  `bson:"numericSeed"`
	WinnerParticipantID string                  `bson:"winnerParticipantId"`
	WinnerTicketNumber  int64                   `bson:"winnerTicketNumber"`
	WinnerIndex         int                     `bson:"winnerIndex"`
	Trace               []adjudicator.TraceStep `bson:"trace"`
	ResultHash          string                  `bson:"resultHash"`
}

// NewStoredResult converts an engine result for persistence
func NewStoredResult(r *adjudicator.Result) StoredResult {
	return StoredResult{
		SessionID:           r.SessionID,
		ProductID:           r.ProductID,
		GroupID:             r.GroupID,
		AlgorithmVersion:    r.AlgorithmVersion,
		PublicSeed:          r.PublicSeed,
		NumericSeed:         r.NumericSeed.String(),
		WinnerParticipantID: r.WinnerParticipantID,
		WinnerTicketNumber:  r.WinnerTicketNumber,
		WinnerIndex:         r.WinnerIndex,
		Trace:               r.Trace,
		ResultHash:          r.ResultHash,
	}
}

// ToResult restores the engine result
func (s StoredResult) ToResult() (*adjudicator.Result, error) {
	seed, ok := new(big.Int).SetString(s.NumericSeed, 10)
	if !ok {
		return nil, fmt.Errorf("stored numeric seed %q is not a decimal integer", s.NumericSeed)
	}
	return &adjudicator.Result{
		SessionID:           s.SessionID,
		ProductID:           s.ProductID,
		GroupID:             s.GroupID,
		AlgorithmVersion:    s.AlgorithmVersion,
		PublicSeed:          s.PublicSeed,
		NumericSeed:         seed,
		WinnerParticipantID: s.WinnerParticipantID,
		WinnerTicketNumber:  s.WinnerTicketNumber,
		WinnerIndex:         s.WinnerIndex,
		Trace:               s.Trace,
		ResultHash:          s.ResultHash,
	}, nil
}

// AdjudicationView is the API shape of a stored adjudication
type AdjudicationView struct {
	Input     adjudicator.Input   `json:"input"`
	Result    *adjudicator.Result `json:"result"`
	CreatedAt time.Time           `json:"createdAt"`
}

// VerifyRequest carries a published input/result pair to be recomputed
type VerifyRequest struct {
	Input  adjudicator.Input   `json:"input"`
	Result *adjudicator.Result `json:"result" binding:"required"`
}
