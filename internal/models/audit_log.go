package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction names a recorded lifecycle event
type AuditAction string

const (
	AuditSessionCreated     AuditAction = "session_created"
	AuditParticipantJoined  AuditAction = "participant_joined"
	AuditSessionClosed      AuditAction = "session_closed"
	AuditSessionExpired     AuditAction = "session_expired"
	AuditSessionAdjudicated AuditAction = "session_adjudicated"
	AuditAdjudicationFailed AuditAction = "adjudication_failed"
	AuditPoolActivated      AuditAction = "pool_entry_activated"
)

// AuditLog is an append-only record of what happened to a session
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Action    AuditAction        `bson:"action" json:"action"`
	SessionID primitive.ObjectID `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	Details   map[string]string  `bson:"details,omitempty" json:"details,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
