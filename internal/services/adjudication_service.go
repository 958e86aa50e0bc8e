package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/internal/repositories"
	"github.com/ArowuTest/groupbuy-backend/pkg/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Ensure adjudicationService implements AdjudicationService
var _ AdjudicationService = (*adjudicationService)(nil)

type adjudicationService struct {
	engine           *adjudicator.Engine
	sessionRepo      repositories.SessionRepository
	participantRepo  repositories.ParticipantRepository
	adjudicationRepo repositories.AdjudicationRepository
	pool             SessionPoolService
	audit            AuditService
	notifier         webhook.Notifier
	now              func() time.Time
}

// NewAdjudicationService creates a new AdjudicationService
func NewAdjudicationService(
	engine *adjudicator.Engine,
	sessionRepo repositories.SessionRepository,
	participantRepo repositories.ParticipantRepository,
	adjudicationRepo repositories.AdjudicationRepository,
	pool SessionPoolService,
	audit AuditService,
	notifier webhook.Notifier,
) AdjudicationService {
	if notifier == nil {
		notifier = webhook.NoopNotifier{}
	}
	return &adjudicationService{
		engine:           engine,
		sessionRepo:      sessionRepo,
		participantRepo:  participantRepo,
		adjudicationRepo: adjudicationRepo,
		pool:             pool,
		audit:            audit,
		notifier:         notifier,
		now:              time.Now,
	}
}

func (s *adjudicationService) Adjudicate(_ context.Context, in adjudicator.Input) (*adjudicator.Result, error) {
	return s.engine.Adjudicate(in)
}

func (s *adjudicationService) Verify(_ context.Context, in adjudicator.Input, claimed *adjudicator.Result) (*adjudicator.VerificationReport, error) {
	return s.engine.Verify(in, claimed)
}

func (s *adjudicationService) AdjudicateSession(ctx context.Context, sessionID primitive.ObjectID) (*models.AdjudicationView, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID.Hex(), err)
	}

	switch session.Status {
	case models.SessionStatusAdjudicated:
		return nil, ErrAlreadyAdjudicated
	case models.SessionStatusComplete:
	default:
		return nil, ErrSessionNotComplete
	}

	if record, err := s.adjudicationRepo.FindBySessionID(ctx, sessionID); err == nil {
		return s.resume(ctx, session, record)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing adjudication: %w", err)
	}

	participants, err := s.participantRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	in := buildInput(session, participants, s.engine.DefaultVersion())
	result, err := s.engine.Adjudicate(in)
	if err != nil {
		s.markFailed(ctx, session, err)
		return nil, fmt.Errorf("%w: %v", ErrAdjudicationFailed, err)
	}

	now := s.now().UTC()
	record := &models.AdjudicationRecord{
		SessionID: session.ID,
		Input:     in,
		Result:    models.NewStoredResult(result),
		CreatedAt: now,
	}
	if err := s.adjudicationRepo.Create(ctx, record); err != nil {
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("failed to store adjudication: %w", err)
		}
		existing, findErr := s.adjudicationRepo.FindBySessionID(ctx, sessionID)
		if findErr != nil {
			return nil, fmt.Errorf("failed to load concurrent adjudication: %w", findErr)
		}
		return s.resume(ctx, session, existing)
	}

	return s.finish(ctx, session, in, result, now)
}

// resume completes a session whose adjudication record was stored but whose
// status change did not go through. The stored result is never recomputed.
func (s *adjudicationService) resume(ctx context.Context, session *models.Session, record *models.AdjudicationRecord) (*models.AdjudicationView, error) {
	result, err := record.Result.ToResult()
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored adjudication: %w", err)
	}
	slog.Warn("Resuming adjudication from stored record", "sessionId", session.ID.Hex(), "resultHash", result.ResultHash)
	return s.finish(ctx, session, record.Input, result, record.CreatedAt)
}

// finish moves the session from complete to adjudicated and runs the follow-up
// side effects. Only the caller that performs the transition runs them.
func (s *adjudicationService) finish(ctx context.Context, session *models.Session, in adjudicator.Input, result *adjudicator.Result, at time.Time) (*models.AdjudicationView, error) {
	ok, err := s.sessionRepo.TransitionStatus(ctx, session.ID, models.SessionStatusComplete, models.SessionStatusAdjudicated, models.SessionTransition{
		WinnerParticipantID: result.WinnerParticipantID,
		WinnerTicketNumber:  result.WinnerTicketNumber,
		ResultHash:          result.ResultHash,
		AdjudicatedAt:       at,
		LogLine:             fmt.Sprintf("%s adjudicated: winner %s (ticket %d)", at.Format(time.RFC3339), result.WinnerParticipantID, result.WinnerTicketNumber),
	})
	if err != nil {
		slog.Error("Adjudication stored but session status not updated", "error", err, "sessionId", session.ID.Hex())
		return nil, fmt.Errorf("failed to mark session adjudicated: %w", err)
	}
	if !ok {
		slog.Warn("Session left complete state during adjudication", "sessionId", session.ID.Hex())
		return nil, ErrAlreadyAdjudicated
	}
	session.Status = models.SessionStatusAdjudicated

	s.audit.Record(ctx, models.AuditSessionAdjudicated, session.ID, map[string]string{
		"winnerParticipantId": result.WinnerParticipantID,
		"winnerTicketNumber":  strconv.FormatInt(result.WinnerTicketNumber, 10),
		"resultHash":          result.ResultHash,
		"algorithmVersion":    result.AlgorithmVersion,
	})
	slog.Info("Session adjudicated",
		"sessionId", session.ID.Hex(),
		"winner", result.WinnerParticipantID,
		"ticketNumber", result.WinnerTicketNumber,
		"participants", len(in.Participants),
		"resultHash", result.ResultHash)

	s.notify(ctx, session, result, at)

	if s.pool != nil {
		if _, err := s.pool.CreateNextInChain(ctx, session); err != nil {
			slog.Error("Failed to create next chain session", "error", err, "sessionId", session.ID.Hex(), "chainGroupId", session.ChainGroupID)
		}
	}

	return &models.AdjudicationView{Input: in, Result: result, CreatedAt: at}, nil
}

// markFailed records an engine rejection on the session so the worker does not
// retry it. The session stays complete for an operator to inspect.
func (s *adjudicationService) markFailed(ctx context.Context, session *models.Session, cause error) {
	slog.Error("Adjudication failed", "error", cause, "sessionId", session.ID.Hex())
	if err := s.sessionRepo.SetAdjudicationError(ctx, session.ID, cause.Error()); err != nil {
		slog.Error("Failed to record adjudication error", "error", err, "sessionId", session.ID.Hex())
	}
	s.audit.Record(ctx, models.AuditAdjudicationFailed, session.ID, map[string]string{"error": cause.Error()})
}

func (s *adjudicationService) notify(ctx context.Context, session *models.Session, result *adjudicator.Result, at time.Time) {
	event := webhook.Event{
		Type:                "session.adjudicated",
		SessionID:           result.SessionID,
		ProductID:           session.ProductID,
		GroupID:             session.GroupID,
		WinnerParticipantID: result.WinnerParticipantID,
		WinnerTicketNumber:  result.WinnerTicketNumber,
		ResultHash:          result.ResultHash,
		OccurredAt:          at,
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		slog.Warn("Failed to deliver adjudication webhook", "error", err, "sessionId", session.ID.Hex())
	}
}

func (s *adjudicationService) ProcessCompletedSessions(ctx context.Context) error {
	sessions, err := s.sessionRepo.FindByStatus(ctx, models.SessionStatusComplete)
	if err != nil {
		return fmt.Errorf("failed to list complete sessions: %w", err)
	}

	var errs []error
	for _, session := range sessions {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if session.AdjudicationError != "" {
			continue
		}
		_, err := s.AdjudicateSession(ctx, session.ID)
		switch {
		case err == nil, errors.Is(err, ErrAlreadyAdjudicated):
		default:
			errs = append(errs, fmt.Errorf("session %s: %w", session.ID.Hex(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *adjudicationService) GetSessionAdjudication(ctx context.Context, sessionID primitive.ObjectID) (*models.AdjudicationView, error) {
	record, err := s.adjudicationRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			if _, findErr := s.sessionRepo.FindByID(ctx, sessionID); errors.Is(findErr, repositories.ErrNotFound) {
				return nil, ErrSessionNotFound
			}
			return nil, ErrAdjudicationNotFound
		}
		return nil, fmt.Errorf("failed to load adjudication: %w", err)
	}
	result, err := record.Result.ToResult()
	if err != nil {
		return nil, err
	}
	return &models.AdjudicationView{Input: record.Input, Result: result, CreatedAt: record.CreatedAt}, nil
}

// buildInput assembles the engine input from stored session state. The
// session's hex id is the session_id bound into the seed.
func buildInput(session *models.Session, participants []*models.SessionParticipant, defaultVersion string) adjudicator.Input {
	version := session.AlgorithmVersion
	if version == "" {
		version = defaultVersion
	}
	in := adjudicator.Input{
		SessionID:        session.ID.Hex(),
		ProductID:        session.ProductID,
		GroupID:          session.GroupID,
		AlgorithmVersion: version,
		ClosingTimestamp: session.ClosingTimestamp,
		PublicSeed:       session.PublicSeed,
		Participants:     make([]adjudicator.Participant, 0, len(participants)),
	}
	for _, p := range participants {
		in.Participants = append(in.Participants, adjudicator.Participant{
			ParticipantID: p.ParticipantID,
			TicketNumber:  p.TicketNumber,
			JoinTimestamp: p.JoinTimestamp,
		})
	}
	return in
}
