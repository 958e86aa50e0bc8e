package services

import (
	"context"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionService defines the interface for session lifecycle operations
type SessionService interface {
	// CreateSession opens a new session from an admin request
	CreateSession(ctx context.Context, req *models.CreateSessionRequest) (*models.Session, error)

	// JoinSession assigns the next ticket of an open session to a participant
	JoinSession(ctx context.Context, sessionID primitive.ObjectID, participantID string) (*models.SessionParticipant, error)

	// CloseIfFull moves a full open session to complete
	CloseIfFull(ctx context.Context, session *models.Session) (bool, error)

	// ExpireIfDue ends an open session whose expiry has passed
	ExpireIfDue(ctx context.Context, session *models.Session) (bool, error)

	// ProcessOpenSessions runs CloseIfFull and ExpireIfDue over every open session
	ProcessOpenSessions(ctx context.Context) error

	GetSession(ctx context.Context, sessionID primitive.ObjectID) (*models.Session, error)
	ListSessions(ctx context.Context, status models.SessionStatus, page, limit int) ([]*models.Session, error)
	ListParticipants(ctx context.Context, sessionID primitive.ObjectID) ([]*models.SessionParticipant, error)
}

// AdjudicationService defines the interface for winner selection
type AdjudicationService interface {
	// Adjudicate runs the engine on a caller-supplied input without persisting anything
	Adjudicate(ctx context.Context, in adjudicator.Input) (*adjudicator.Result, error)

	// Verify recomputes a published result
	Verify(ctx context.Context, in adjudicator.Input, claimed *adjudicator.Result) (*adjudicator.VerificationReport, error)

	// AdjudicateSession selects and records the winner of a complete session, at most once
	AdjudicateSession(ctx context.Context, sessionID primitive.ObjectID) (*models.AdjudicationView, error)

	// ProcessCompletedSessions adjudicates every complete session not marked as failed
	ProcessCompletedSessions(ctx context.Context) error

	GetSessionAdjudication(ctx context.Context, sessionID primitive.ObjectID) (*models.AdjudicationView, error)
}

// SessionPoolService defines the interface for preconfigured session templates
type SessionPoolService interface {
	CreateEntry(ctx context.Context, entry *models.SessionPoolEntry) error
	ListEntries(ctx context.Context, entryType models.PoolEntryType) ([]*models.SessionPoolEntry, error)

	// ActivateScheduled opens a session for each scheduled entry that is due
	ActivateScheduled(ctx context.Context, now time.Time) ([]*models.Session, error)

	// ActivateStandby opens a session from a standby entry; an entry is used once
	ActivateStandby(ctx context.Context, entryID primitive.ObjectID) (*models.Session, error)

	// CreateNextInChain opens the following link of the session's chain, if any
	CreateNextInChain(ctx context.Context, session *models.Session) (*models.Session, error)
}

// AuthService defines the interface for admin authentication
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// AuditService records and lists lifecycle events
type AuditService interface {
	// Record appends an entry. Failures are logged, never returned.
	Record(ctx context.Context, action models.AuditAction, sessionID primitive.ObjectID, details map[string]string)
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]*models.AuditLog, error)
	ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error)
}
