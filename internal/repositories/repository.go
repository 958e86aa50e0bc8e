package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches a lookup
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index
	ErrDuplicate = errors.New("duplicate record")
)

// SessionRepository defines the interface for session data operations
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Session, error)
	FindByStatus(ctx context.Context, status models.SessionStatus) ([]*models.Session, error)
	FindByPoolID(ctx context.Context, poolID primitive.ObjectID) (*models.Session, error)
	FindByChain(ctx context.Context, chainGroupID string, chainIndex int) (*models.Session, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Session, error)
	// TransitionStatus atomically moves a session from one status to another and
	// reports whether this call performed the transition.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.SessionStatus, fields models.SessionTransition) (bool, error)
	SetAdjudicationError(ctx context.Context, id primitive.ObjectID, message string) error
}

// ParticipantRepository defines the interface for participant data operations
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.SessionParticipant) error
	CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error)
	FindBySession(ctx context.Context, sessionID primitive.ObjectID) ([]*models.SessionParticipant, error)
	FindBySessionAndParticipant(ctx context.Context, sessionID primitive.ObjectID, participantID string) (*models.SessionParticipant, error)
}

// AdjudicationRepository defines the interface for adjudication record operations
type AdjudicationRepository interface {
	Create(ctx context.Context, record *models.AdjudicationRecord) error
	FindBySessionID(ctx context.Context, sessionID primitive.ObjectID) (*models.AdjudicationRecord, error)
}

// SessionPoolRepository defines the interface for session pool operations
type SessionPoolRepository interface {
	Create(ctx context.Context, entry *models.SessionPoolEntry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SessionPoolEntry, error)
	FindByType(ctx context.Context, entryType models.PoolEntryType) ([]*models.SessionPoolEntry, error)
	FindScheduledDue(ctx context.Context, now time.Time) ([]*models.SessionPoolEntry, error)
	FindByChain(ctx context.Context, chainGroupID string, chainIndex int) (*models.SessionPoolEntry, error)
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}

// AuditLogRepository defines the interface for audit log operations
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	FindBySession(ctx context.Context, sessionID primitive.ObjectID) ([]*models.AuditLog, error)
	FindRecent(ctx context.Context, limit int) ([]*models.AuditLog, error)
}
