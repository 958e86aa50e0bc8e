package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/config"
	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Ensure sessionPoolService implements SessionPoolService
var _ SessionPoolService = (*sessionPoolService)(nil)

type sessionPoolService struct {
	poolRepo    repositories.SessionPoolRepository
	sessionRepo repositories.SessionRepository
	audit       AuditService
	cfg         *config.Config
	now         func() time.Time
}

// NewSessionPoolService creates a new SessionPoolService
func NewSessionPoolService(
	poolRepo repositories.SessionPoolRepository,
	sessionRepo repositories.SessionRepository,
	audit AuditService,
	cfg *config.Config,
) SessionPoolService {
	return &sessionPoolService{
		poolRepo:    poolRepo,
		sessionRepo: sessionRepo,
		audit:       audit,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *sessionPoolService) CreateEntry(ctx context.Context, entry *models.SessionPoolEntry) error {
	if err := s.validateEntry(entry); err != nil {
		return err
	}
	if err := s.poolRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to create pool entry: %w", err)
	}
	slog.Info("Pool entry created", "entryId", entry.ID.Hex(), "type", entry.Type, "chainGroupId", entry.ChainGroupID, "chainIndex", entry.ChainIndex)
	return nil
}

func (s *sessionPoolService) validateEntry(entry *models.SessionPoolEntry) error {
	if !entry.Type.Valid() {
		return invalid("type", "must be one of scheduled, chain, standby")
	}
	if strings.TrimSpace(entry.ProductID) == "" {
		return invalid("product_id", "is required")
	}
	if strings.TrimSpace(entry.OperatorCode) == "" {
		return invalid("operator_code", "is required")
	}
	if entry.MaxParticipants < s.cfg.Sessions.MinParticipants {
		return invalid("max_participants", "must be at least %d", s.cfg.Sessions.MinParticipants)
	}
	if entry.Amount <= 0 {
		return invalid("amount", "must be positive")
	}
	if entry.Type == models.PoolEntryScheduled && entry.StartTimestamp == nil {
		return invalid("start_timestamp", "is required for scheduled entries")
	}
	if entry.Type == models.PoolEntryChain {
		if entry.ChainGroupID == "" {
			return invalid("chain_group_id", "is required for chain entries")
		}
		if entry.ChainIndex < 2 {
			return invalid("chain_index", "chain links start at index 2; index 1 is the scheduled or standby head")
		}
	}
	if entry.ChainGroupID != "" && entry.ChainIndex < 1 {
		return invalid("chain_index", "must be at least 1 when chain_group_id is set")
	}
	return nil
}

func (s *sessionPoolService) ListEntries(ctx context.Context, entryType models.PoolEntryType) ([]*models.SessionPoolEntry, error) {
	if entryType != "" && !entryType.Valid() {
		return nil, invalid("type", "unknown pool entry type %q", entryType)
	}
	return s.poolRepo.FindByType(ctx, entryType)
}

func (s *sessionPoolService) ActivateScheduled(ctx context.Context, now time.Time) ([]*models.Session, error) {
	entries, err := s.poolRepo.FindScheduledDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due pool entries: %w", err)
	}

	var (
		created []*models.Session
		errs    []error
	)
	for _, entry := range entries {
		session, err := s.activate(ctx, entry)
		switch {
		case errors.Is(err, ErrPoolEntryUsed):
			continue
		case err != nil:
			errs = append(errs, fmt.Errorf("pool entry %s: %w", entry.ID.Hex(), err))
		default:
			created = append(created, session)
		}
	}
	return created, errors.Join(errs...)
}

func (s *sessionPoolService) ActivateStandby(ctx context.Context, entryID primitive.ObjectID) (*models.Session, error) {
	entry, err := s.poolRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPoolEntryNotFound
		}
		return nil, fmt.Errorf("failed to load pool entry %s: %w", entryID.Hex(), err)
	}
	if entry.Type != models.PoolEntryStandby {
		return nil, invalid("type", "only standby entries can be activated manually")
	}
	return s.activate(ctx, entry)
}

func (s *sessionPoolService) CreateNextInChain(ctx context.Context, session *models.Session) (*models.Session, error) {
	if !session.InChain() {
		return nil, nil
	}
	next := session.ChainIndex + 1

	entry, err := s.poolRepo.FindByChain(ctx, session.ChainGroupID, next)
	if errors.Is(err, repositories.ErrNotFound) {
		slog.Info("Chain finished", "chainGroupId", session.ChainGroupID, "lastIndex", session.ChainIndex)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chain link %s/%d: %w", session.ChainGroupID, next, err)
	}

	created, err := s.activate(ctx, entry)
	if errors.Is(err, ErrPoolEntryUsed) {
		return nil, nil
	}
	return created, err
}

// activate opens a session from a pool entry. The unique poolId index makes a
// second activation of the same entry fail with ErrPoolEntryUsed.
func (s *sessionPoolService) activate(ctx context.Context, entry *models.SessionPoolEntry) (*models.Session, error) {
	if _, err := s.sessionRepo.FindByPoolID(ctx, entry.ID); err == nil {
		return nil, ErrPoolEntryUsed
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check pool entry usage: %w", err)
	}

	now := s.now().UTC()
	session := &models.Session{
		ProductID:        entry.ProductID,
		OperatorCode:     entry.OperatorCode,
		GroupID:          entry.OperatorCode,
		MaxParticipants:  entry.MaxParticipants,
		Amount:           entry.Amount,
		Status:           models.SessionStatusOpen,
		ExpiryTimestamp:  now.Add(time.Duration(s.cfg.Sessions.DefaultExpiryHours) * time.Hour),
		AlgorithmVersion: s.cfg.Adjudication.AlgorithmVersion,
		ChainGroupID:     entry.ChainGroupID,
		ChainIndex:       entry.ChainIndex,
		PoolID:           entry.ID,
		IsAutoGenerated:  true,
		ExecutionLog:     []string{fmt.Sprintf("%s created from %s pool entry %s", now.Format(time.RFC3339), entry.Type, entry.ID.Hex())},
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrPoolEntryUsed
		}
		return nil, fmt.Errorf("failed to create session from pool entry: %w", err)
	}

	details := map[string]string{
		"poolEntryId": entry.ID.Hex(),
		"type":        string(entry.Type),
	}
	if entry.ChainGroupID != "" {
		details["chainGroupId"] = entry.ChainGroupID
		details["chainIndex"] = strconv.Itoa(entry.ChainIndex)
	}
	s.audit.Record(ctx, models.AuditPoolActivated, session.ID, details)
	slog.Info("Session activated from pool", "sessionId", session.ID.Hex(), "entryId", entry.ID.Hex(), "type", entry.Type)
	return session, nil
}
