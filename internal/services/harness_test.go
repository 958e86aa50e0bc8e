package services

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/ArowuTest/groupbuy-backend/internal/config"
	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/pkg/beacon"
	"github.com/stretchr/testify/require"
)

type harness struct {
	now time.Time

	sessions      *fakeSessionRepo
	participants  *fakeParticipantRepo
	adjudications *fakeAdjudicationRepo
	pool          *fakePoolRepo
	audit         *fakeAuditRepo
	notifier      *recordingNotifier

	sessionSvc *sessionService
	poolSvc    *sessionPoolService
	adjSvc     *adjudicationService
}

func newHarness(t *testing.T, cfg *config.Config, src beacon.Source) *harness {
	t.Helper()
	h := &harness{
		now:           time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		sessions:      newFakeSessionRepo(),
		participants:  &fakeParticipantRepo{},
		adjudications: newFakeAdjudicationRepo(),
		pool:          &fakePoolRepo{},
		audit:         &fakeAuditRepo{},
		notifier:      &recordingNotifier{},
	}
	clock := func() time.Time { return h.now }

	audit := NewAuditService(h.audit).(*auditService)
	audit.now = clock

	h.sessionSvc = NewSessionService(h.sessions, h.participants, audit, src, cfg).(*sessionService)
	h.sessionSvc.now = clock

	h.poolSvc = NewSessionPoolService(h.pool, h.sessions, audit, cfg).(*sessionPoolService)
	h.poolSvc.now = clock

	engine := adjudicator.NewEngine(cfg.Adjudication.AlgorithmVersion)
	h.adjSvc = NewAdjudicationService(engine, h.sessions, h.participants, h.adjudications, h.poolSvc, audit, h.notifier).(*adjudicationService)
	h.adjSvc.now = clock
	return h
}

func (h *harness) openSession(t *testing.T, max int) *models.Session {
	t.Helper()
	session, err := h.sessionSvc.CreateSession(context.Background(), &models.CreateSessionRequest{
		ProductID:       "product-1",
		OperatorCode:    "OP1",
		MaxParticipants: max,
		Amount:          1500,
		ExpiryTimestamp: h.now.Add(time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	return session
}

func (h *harness) fill(t *testing.T, session *models.Session, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := h.sessionSvc.JoinSession(context.Background(), session.ID, id)
		require.NoError(t, err)
	}
}

func (h *harness) reload(t *testing.T, session *models.Session) *models.Session {
	t.Helper()
	s, err := h.sessions.FindByID(context.Background(), session.ID)
	require.NoError(t, err)
	return s
}
