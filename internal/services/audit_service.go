package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Ensure auditService implements AuditService
var _ AuditService = (*auditService)(nil)

type auditService struct {
	auditRepo repositories.AuditLogRepository
	now       func() time.Time
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo repositories.AuditLogRepository) AuditService {
	return &auditService{auditRepo: auditRepo, now: time.Now}
}

func (s *auditService) Record(ctx context.Context, action models.AuditAction, sessionID primitive.ObjectID, details map[string]string) {
	entry := &models.AuditLog{
		Action:    action,
		SessionID: sessionID,
		Details:   details,
		Timestamp: s.now().UTC(),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		slog.Error("Failed to write audit log", "error", err, "action", action, "sessionId", sessionID.Hex())
	}
}

func (s *auditService) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]*models.AuditLog, error) {
	logs, err := s.auditRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs for session %s: %w", sessionID.Hex(), err)
	}
	return logs, nil
}

func (s *auditService) ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	logs, err := s.auditRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
