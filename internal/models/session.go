package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus represents the lifecycle state of a purchase session
type SessionStatus string

const (
	SessionStatusOpen        SessionStatus = "open"
	SessionStatusComplete    SessionStatus = "complete"
	SessionStatusAdjudicated SessionStatus = "adjudicated"
	SessionStatusExpired     SessionStatus = "expired"
)

// IsTerminal reports whether no further transition is possible
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusAdjudicated || s == SessionStatusExpired
}

// Session represents a collective-purchase round
type Session struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID           string             `bson:"productId" json:"productId"`
	OperatorCode        string             `bson:"operatorCode" json:"operatorCode"`
	GroupID             string             `bson:"groupId" json:"groupId"`
	MaxParticipants     int                `bson:"maxParticipants" json:"maxParticipants"`
	Amount              float64            `bson:"amount" json:"amount"`
	Status              SessionStatus      `bson:"status" json:"status"`
	ExpiryTimestamp     time.Time          `bson:"expiryTimestamp" json:"expiryTimestamp"`
	ClosingTimestamp    string             `bson:"closingTimestamp,omitempty" json:"closingTimestamp,omitempty"` // ISO-8601, verbatim seed input
	PublicSeed          *string            `bson:"publicSeed,omitempty" json:"publicSeed,omitempty"`
	BeaconRound         uint64             `bson:"beaconRound,omitempty" json:"beaconRound,omitempty"`
	AlgorithmVersion    string             `bson:"algorithmVersion,omitempty" json:"algorithmVersion,omitempty"`
	ChainGroupID        string             `bson:"chainGroupId,omitempty" json:"chainGroupId,omitempty"`
	ChainIndex          int                `bson:"chainIndex,omitempty" json:"chainIndex,omitempty"`
	PoolID              primitive.ObjectID `bson:"poolId,omitempty" json:"poolId,omitempty"`
	IsAutoGenerated     bool               `bson:"isAutoGenerated" json:"isAutoGenerated"`
	WinnerParticipantID string             `bson:"winnerParticipantId,omitempty" json:"winnerParticipantId,omitempty"`
	WinnerTicketNumber  int64              `bson:"winnerTicketNumber,omitempty" json:"winnerTicketNumber,omitempty"`
	ResultHash          string             `bson:"resultHash,omitempty" json:"resultHash,omitempty"`
	AdjudicatedAt       time.Time          `bson:"adjudicatedAt,omitempty" json:"adjudicatedAt,omitempty"`
	AdjudicationError   string             `bson:"adjudicationError,omitempty" json:"adjudicationError,omitempty"`
	ExecutionLog        []string           `bson:"executionLog,omitempty" json:"executionLog,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// InChain reports whether the session was created as a link of a pool chain
func (s *Session) InChain() bool {
	return s.ChainGroupID != "" && s.ChainIndex > 0
}

// SessionTransition carries the fields written together with a status change
type SessionTransition struct {
	ClosingTimestamp    string
	PublicSeed          *string
	BeaconRound         uint64
	AlgorithmVersion    string
	WinnerParticipantID string
	WinnerTicketNumber  int64
	ResultHash          string
	AdjudicatedAt       time.Time
	LogLine             string
}

// CreateSessionRequest is the admin payload for opening a session
type CreateSessionRequest struct {
	ProductID       string  `json:"product_id" binding:"required"`
	OperatorCode    string  `json:"operator_code" binding:"required"`
	GroupID         string  `json:"group_id"`
	MaxParticipants int     `json:"max_participants" binding:"required"`
	Amount          float64 `json:"amount" binding:"required"`
	ExpiryTimestamp string  `json:"expiry_timestamp" binding:"required"` // ISO-8601
}

// JoinSessionRequest is the payload for signing up to a session
type JoinSessionRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}
