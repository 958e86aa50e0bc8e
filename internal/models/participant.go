package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionParticipant is one sign-up in a session. Rows are never updated once written.
type SessionParticipant struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID     primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	ParticipantID string             `bson:"participantId" json:"participantId"`
	TicketNumber  int64              `bson:"ticketNumber" json:"ticketNumber"`
	JoinTimestamp string             `bson:"joinTimestamp" json:"joinTimestamp"` // ISO-8601 UTC
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
