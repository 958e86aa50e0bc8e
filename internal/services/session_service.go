package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/ArowuTest/groupbuy-backend/internal/config"
	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/internal/repositories"
	"github.com/ArowuTest/groupbuy-backend/pkg/beacon"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// maxJoinAttempts bounds retries when concurrent joins race for the same ticket
const maxJoinAttempts = 5

// Ensure sessionService implements SessionService
var _ SessionService = (*sessionService)(nil)

type sessionService struct {
	sessionRepo     repositories.SessionRepository
	participantRepo repositories.ParticipantRepository
	audit           AuditService
	beacon          beacon.Source // nil when no public seed is drawn at close
	cfg             *config.Config
	now             func() time.Time
}

// NewSessionService creates a new SessionService. src may be nil.
func NewSessionService(
	sessionRepo repositories.SessionRepository,
	participantRepo repositories.ParticipantRepository,
	audit AuditService,
	src beacon.Source,
	cfg *config.Config,
) SessionService {
	return &sessionService{
		sessionRepo:     sessionRepo,
		participantRepo: participantRepo,
		audit:           audit,
		beacon:          src,
		cfg:             cfg,
		now:             time.Now,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, req *models.CreateSessionRequest) (*models.Session, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return nil, invalid("product_id", "is required")
	}
	if strings.TrimSpace(req.OperatorCode) == "" {
		return nil, invalid("operator_code", "is required")
	}
	if req.MaxParticipants < s.cfg.Sessions.MinParticipants {
		return nil, invalid("max_participants", "must be at least %d", s.cfg.Sessions.MinParticipants)
	}
	if req.Amount <= 0 {
		return nil, invalid("amount", "must be positive")
	}
	expiry, err := adjudicator.ParseTimestamp(req.ExpiryTimestamp)
	if err != nil {
		return nil, invalid("expiry_timestamp", "must be an ISO-8601 timestamp")
	}
	if !expiry.After(s.now()) {
		return nil, invalid("expiry_timestamp", "must be in the future")
	}

	groupID := req.GroupID
	if groupID == "" {
		groupID = req.OperatorCode
	}

	session := &models.Session{
		ProductID:        req.ProductID,
		OperatorCode:     req.OperatorCode,
		GroupID:          groupID,
		MaxParticipants:  req.MaxParticipants,
		Amount:           req.Amount,
		Status:           models.SessionStatusOpen,
		ExpiryTimestamp:  expiry.UTC(),
		AlgorithmVersion: s.cfg.Adjudication.AlgorithmVersion,
		ExecutionLog:     []string{fmt.Sprintf("%s created by operator", s.now().UTC().Format(time.RFC3339))},
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		slog.Error("Failed to create session", "error", err, "productId", req.ProductID)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.audit.Record(ctx, models.AuditSessionCreated, session.ID, map[string]string{
		"productId":       session.ProductID,
		"maxParticipants": strconv.Itoa(session.MaxParticipants),
		"expiry":          session.ExpiryTimestamp.Format(time.RFC3339),
	})
	slog.Info("Session created", "sessionId", session.ID.Hex(), "productId", session.ProductID, "maxParticipants", session.MaxParticipants)
	return session, nil
}

func (s *sessionService) JoinSession(ctx context.Context, sessionID primitive.ObjectID, participantID string) (*models.SessionParticipant, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return nil, invalid("participant_id", "is required")
	}
	if strings.Contains(participantID, adjudicator.SeedDelimiter) {
		return nil, invalid("participant_id", "must not contain %q", adjudicator.SeedDelimiter)
	}

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusOpen {
		return nil, ErrSessionNotOpen
	}
	if !s.now().Before(session.ExpiryTimestamp) {
		return nil, ErrSessionExpired
	}

	if _, err := s.participantRepo.FindBySessionAndParticipant(ctx, sessionID, participantID); err == nil {
		return nil, ErrAlreadyJoined
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check participant: %w", err)
	}

	participant, count, err := s.allocateTicket(ctx, session, participantID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.AuditParticipantJoined, session.ID, map[string]string{
		"participantId": participant.ParticipantID,
		"ticketNumber":  strconv.FormatInt(participant.TicketNumber, 10),
	})
	slog.Info("Participant joined session", "sessionId", session.ID.Hex(), "participantId", participantID, "ticketNumber", participant.TicketNumber)

	if count >= int64(session.MaxParticipants) {
		if _, err := s.CloseIfFull(ctx, session); err != nil {
			// The worker retries the close; the join itself succeeded.
			slog.Warn("Failed to close full session", "error", err, "sessionId", session.ID.Hex())
		}
	}
	return participant, nil
}

// allocateTicket inserts the participant with ticket count+1. The unique
// (session, ticket) index turns a lost race into a retry with a fresh count.
func (s *sessionService) allocateTicket(ctx context.Context, session *models.Session, participantID string) (*models.SessionParticipant, int64, error) {
	for attempt := 0; attempt < maxJoinAttempts; attempt++ {
		count, err := s.participantRepo.CountBySession(ctx, session.ID)
		if err != nil {
			return nil, 0, err
		}
		if count >= int64(session.MaxParticipants) {
			return nil, 0, ErrSessionFull
		}

		participant := &models.SessionParticipant{
			SessionID:     session.ID,
			ParticipantID: participantID,
			TicketNumber:  count + 1,
			JoinTimestamp: s.now().UTC().Format(time.RFC3339),
		}
		err = s.participantRepo.Create(ctx, participant)
		if err == nil {
			return participant, count + 1, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, 0, fmt.Errorf("failed to add participant: %w", err)
		}
		if _, findErr := s.participantRepo.FindBySessionAndParticipant(ctx, session.ID, participantID); findErr == nil {
			return nil, 0, ErrAlreadyJoined
		}
		slog.Debug("Ticket number taken, retrying", "sessionId", session.ID.Hex(), "ticketNumber", count+1, "attempt", attempt+1)
	}
	return nil, 0, fmt.Errorf("session %s: %w after %d attempts", session.ID.Hex(), errTicketAllocationRetry, maxJoinAttempts)
}

func (s *sessionService) CloseIfFull(ctx context.Context, session *models.Session) (bool, error) {
	if session.Status != models.SessionStatusOpen {
		return false, nil
	}
	count, err := s.participantRepo.CountBySession(ctx, session.ID)
	if err != nil {
		return false, err
	}
	if count < int64(session.MaxParticipants) {
		return false, nil
	}
	return s.complete(ctx, session, count, "full")
}

func (s *sessionService) ExpireIfDue(ctx context.Context, session *models.Session) (bool, error) {
	if session.Status != models.SessionStatusOpen || s.now().Before(session.ExpiryTimestamp) {
		return false, nil
	}
	count, err := s.participantRepo.CountBySession(ctx, session.ID)
	if err != nil {
		return false, err
	}

	if quorum := s.cfg.Adjudication.MinQuorum; quorum > 0 && count >= int64(quorum) {
		return s.complete(ctx, session, count, "quorum reached at expiry")
	}

	now := s.now().UTC()
	ok, err := s.sessionRepo.TransitionStatus(ctx, session.ID, models.SessionStatusOpen, models.SessionStatusExpired, models.SessionTransition{
		LogLine: fmt.Sprintf("%s expired with %d of %d participants", now.Format(time.RFC3339), count, session.MaxParticipants),
	})
	if err != nil || !ok {
		return false, err
	}
	session.Status = models.SessionStatusExpired

	s.audit.Record(ctx, models.AuditSessionExpired, session.ID, map[string]string{
		"participants": strconv.FormatInt(count, 10),
	})
	slog.Info("Session expired", "sessionId", session.ID.Hex(), "participants", count)
	return true, nil
}

// complete moves an open session to complete and fixes its closing timestamp
// and, when a beacon is configured, its public seed.
func (s *sessionService) complete(ctx context.Context, session *models.Session, count int64, reason string) (bool, error) {
	now := s.now().UTC()
	fields := models.SessionTransition{
		ClosingTimestamp: now.Format(time.RFC3339),
		AlgorithmVersion: session.AlgorithmVersion,
	}
	if fields.AlgorithmVersion == "" {
		fields.AlgorithmVersion = s.cfg.Adjudication.AlgorithmVersion
	}
	if s.beacon != nil {
		round, err := s.beacon.Latest(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to fetch public seed: %w", err)
		}
		fields.PublicSeed = &round.Randomness
		fields.BeaconRound = round.Round
	}
	fields.LogLine = fmt.Sprintf("%s closed (%s) with %d participants", fields.ClosingTimestamp, reason, count)

	ok, err := s.sessionRepo.TransitionStatus(ctx, session.ID, models.SessionStatusOpen, models.SessionStatusComplete, fields)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	session.Status = models.SessionStatusComplete
	session.ClosingTimestamp = fields.ClosingTimestamp
	session.PublicSeed = fields.PublicSeed
	session.BeaconRound = fields.BeaconRound
	session.AlgorithmVersion = fields.AlgorithmVersion

	details := map[string]string{
		"reason":           reason,
		"participants":     strconv.FormatInt(count, 10),
		"closingTimestamp": fields.ClosingTimestamp,
	}
	if fields.PublicSeed != nil {
		details["beaconRound"] = strconv.FormatUint(fields.BeaconRound, 10)
	}
	s.audit.Record(ctx, models.AuditSessionClosed, session.ID, details)
	slog.Info("Session closed", "sessionId", session.ID.Hex(), "reason", reason, "participants", count)
	return true, nil
}

func (s *sessionService) ProcessOpenSessions(ctx context.Context) error {
	sessions, err := s.sessionRepo.FindByStatus(ctx, models.SessionStatusOpen)
	if err != nil {
		return fmt.Errorf("failed to list open sessions: %w", err)
	}

	var errs []error
	for _, session := range sessions {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		expired, err := s.ExpireIfDue(ctx, session)
		if err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", session.ID.Hex(), err))
			continue
		}
		if expired {
			continue
		}
		if _, err := s.CloseIfFull(ctx, session); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", session.ID.Hex(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *sessionService) GetSession(ctx context.Context, sessionID primitive.ObjectID) (*models.Session, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID.Hex(), err)
	}
	return session, nil
}

func (s *sessionService) ListSessions(ctx context.Context, status models.SessionStatus, page, limit int) ([]*models.Session, error) {
	if status != "" {
		switch status {
		case models.SessionStatusOpen, models.SessionStatusComplete, models.SessionStatusAdjudicated, models.SessionStatusExpired:
		default:
			return nil, invalid("status", "unknown status %q", status)
		}
		return s.sessionRepo.FindByStatus(ctx, status)
	}
	return s.sessionRepo.FindAll(ctx, page, limit)
}

func (s *sessionService) ListParticipants(ctx context.Context, sessionID primitive.ObjectID) ([]*models.SessionParticipant, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.participantRepo.FindBySession(ctx, sessionID)
}
