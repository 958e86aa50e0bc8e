package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAdjudicateSession_RecordsWinnerOnce(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	session := h.openSession(t, 3)
	h.now = time.Date(2025, 1, 1, 10, 5, 0, 0, time.UTC)
	h.fill(t, session, "user-1", "user-2", "user-3")

	view, err := h.adjSvc.AdjudicateSession(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, session.ID.Hex(), view.Input.SessionID)
	assert.Equal(t, "2025-01-01T10:05:00Z", view.Input.ClosingTimestamp)
	assert.Len(t, view.Input.Participants, 3)

	recomputed, err := adjudicator.Adjudicate(view.Input)
	require.NoError(t, err)
	assert.Equal(t, recomputed, view.Result)

	stored := h.reload(t, session)
	assert.Equal(t, models.SessionStatusAdjudicated, stored.Status)
	assert.Equal(t, view.Result.WinnerParticipantID, stored.WinnerParticipantID)
	assert.Equal(t, view.Result.WinnerTicketNumber, stored.WinnerTicketNumber)
	assert.Equal(t, view.Result.ResultHash, stored.ResultHash)

	require.Len(t, h.notifier.events, 1)
	assert.Equal(t, view.Result.ResultHash, h.notifier.events[0].ResultHash)

	_, err = h.adjSvc.AdjudicateSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrAlreadyAdjudicated)
	assert.Len(t, h.notifier.events, 1)

	got, err := h.adjSvc.GetSessionAdjudication(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Result.NumericSeed.Cmp(view.Result.NumericSeed))
	assert.Equal(t, view.Result.Trace, got.Result.Trace)
}

func TestAdjudicateSession_RequiresComplete(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	session := h.openSession(t, 3)
	h.fill(t, session, "user-1")

	_, err := h.adjSvc.AdjudicateSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotComplete)

	_, err = h.adjSvc.GetSessionAdjudication(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrAdjudicationNotFound)
}

func TestAdjudicateSession_EngineFailureIsNotRetried(t *testing.T) {
	cfg := testConfig()
	cfg.Adjudication.AlgorithmVersion = adjudicator.AlgorithmSessionSeed
	h := newHarness(t, cfg, nil)
	session := h.openSession(t, 2)
	h.fill(t, session, "user-1", "user-2")

	_, err := h.adjSvc.AdjudicateSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrAdjudicationFailed)

	stored := h.reload(t, session)
	assert.Equal(t, models.SessionStatusComplete, stored.Status)
	assert.Contains(t, stored.AdjudicationError, "public_seed")
	assert.Contains(t, h.audit.actions(session.ID), models.AuditAdjudicationFailed)

	require.NoError(t, h.adjSvc.ProcessCompletedSessions(context.Background()))
	_, err = h.adjudications.FindBySessionID(context.Background(), session.ID)
	assert.Error(t, err)
}

func TestProcessCompletedSessions(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	first := h.openSession(t, 2)
	second := h.openSession(t, 2)
	h.fill(t, first, "a", "b")
	h.fill(t, second, "c", "d")

	require.NoError(t, h.adjSvc.ProcessCompletedSessions(context.Background()))
	assert.Equal(t, models.SessionStatusAdjudicated, h.reload(t, first).Status)
	assert.Equal(t, models.SessionStatusAdjudicated, h.reload(t, second).Status)

	require.NoError(t, h.adjSvc.ProcessCompletedSessions(context.Background()))
	assert.Len(t, h.notifier.events, 2)
}

func TestAdjudicate_StatelessPassThrough(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	in := adjudicator.Input{
		SessionID:        "demo-session-1",
		ProductID:        "product-xyz",
		GroupID:          "group-abc",
		ClosingTimestamp: "2025-01-01T10:05:00Z",
		Participants: []adjudicator.Participant{
			{ParticipantID: "user-1", TicketNumber: 1},
			{ParticipantID: "user-2", TicketNumber: 2},
			{ParticipantID: "user-3", TicketNumber: 3},
		},
	}
	result, err := h.adjSvc.Adjudicate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.WinnerParticipantID)
	assert.Equal(t, "5b36e6b2ee7d2c03dbdc4451b6b96689403de502673592a7f4b50b4e138928f2", result.ResultHash)

	report, err := h.adjSvc.Verify(context.Background(), in, result)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, h.sessions.sessions)
}

// flakyTransitionRepo fails the next failures transitions into status to.
type flakyTransitionRepo struct {
	repositories.SessionRepository
	to       models.SessionStatus
	failures int
}

func (r *flakyTransitionRepo) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.SessionStatus, f models.SessionTransition) (bool, error) {
	if to == r.to && r.failures > 0 {
		r.failures--
		return false, errors.New("write timeout")
	}
	return r.SessionRepository.TransitionStatus(ctx, id, from, to, f)
}

func TestAdjudicateSession_ResumesAfterFailedStatusWrite(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	session := h.openSession(t, 3)
	h.fill(t, session, "user-1", "user-2", "user-3")
	h.adjSvc.sessionRepo = &flakyTransitionRepo{SessionRepository: h.sessions, to: models.SessionStatusAdjudicated, failures: 1}

	_, err := h.adjSvc.AdjudicateSession(context.Background(), session.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write timeout")

	stored := h.reload(t, session)
	assert.Equal(t, models.SessionStatusComplete, stored.Status)
	assert.Empty(t, stored.WinnerParticipantID)
	record, err := h.adjudications.FindBySessionID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Empty(t, h.notifier.events)

	require.NoError(t, h.adjSvc.ProcessCompletedSessions(context.Background()))

	stored = h.reload(t, session)
	assert.Equal(t, models.SessionStatusAdjudicated, stored.Status)
	assert.Equal(t, record.Result.WinnerParticipantID, stored.WinnerParticipantID)
	assert.Equal(t, record.Result.ResultHash, stored.ResultHash)
	assert.Equal(t, record.CreatedAt, stored.AdjudicatedAt)
	require.Len(t, h.notifier.events, 1)
	assert.Equal(t, record.Result.ResultHash, h.notifier.events[0].ResultHash)
	assert.Contains(t, h.audit.actions(session.ID), models.AuditSessionAdjudicated)

	_, err = h.adjSvc.AdjudicateSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrAlreadyAdjudicated)
	assert.Len(t, h.notifier.events, 1)
}

func TestAdjudicateSession_ConcurrentRecordIsReused(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	session := h.openSession(t, 2)
	h.fill(t, session, "user-1", "user-2")

	// Another worker stored its record between our lookup and insert.
	in := buildInput(h.reload(t, session), h.participants.participants, adjudicator.DefaultAlgorithmVersion)
	result, err := adjudicator.Adjudicate(in)
	require.NoError(t, err)
	h.adjSvc.adjudicationRepo = &racingAdjudicationRepo{
		AdjudicationRepository: h.adjudications,
		winner: &models.AdjudicationRecord{
			SessionID: session.ID,
			Input:     in,
			Result:    models.NewStoredResult(result),
			CreatedAt: h.now,
		},
	}

	view, err := h.adjSvc.AdjudicateSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ResultHash, view.Result.ResultHash)
	assert.Equal(t, models.SessionStatusAdjudicated, h.reload(t, session).Status)
	assert.Len(t, h.notifier.events, 1)
}

// racingAdjudicationRepo hides winner from the first lookup and stores it
// just before the caller's own insert.
type racingAdjudicationRepo struct {
	repositories.AdjudicationRepository
	winner   *models.AdjudicationRecord
	inserted bool
}

func (r *racingAdjudicationRepo) Create(ctx context.Context, rec *models.AdjudicationRecord) error {
	if !r.inserted {
		r.inserted = true
		if err := r.AdjudicationRepository.Create(ctx, r.winner); err != nil {
			return err
		}
	}
	return r.AdjudicationRepository.Create(ctx, rec)
}
