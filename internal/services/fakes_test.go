package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/config"
	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/internal/repositories"
	"github.com/ArowuTest/groupbuy-backend/pkg/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories honouring the same uniqueness rules as the Mongo indexes.

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[primitive.ObjectID]*models.Session{}}
}

func cloneSession(s *models.Session) *models.Session {
	c := *s
	c.ExecutionLog = append([]string(nil), s.ExecutionLog...)
	return &c
}

func (r *fakeSessionRepo) Create(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !s.PoolID.IsZero() {
		for _, existing := range r.sessions {
			if existing.PoolID == s.PoolID {
				return repositories.ErrDuplicate
			}
		}
	}
	s.ID = primitive.NewObjectID()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) filter(keep func(*models.Session) bool) []*models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Session{}
	for _, s := range r.sessions {
		if keep(s) {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (r *fakeSessionRepo) FindByStatus(_ context.Context, status models.SessionStatus) ([]*models.Session, error) {
	return r.filter(func(s *models.Session) bool { return s.Status == status }), nil
}

func (r *fakeSessionRepo) FindByPoolID(_ context.Context, poolID primitive.ObjectID) (*models.Session, error) {
	found := r.filter(func(s *models.Session) bool { return s.PoolID == poolID })
	if len(found) == 0 {
		return nil, repositories.ErrNotFound
	}
	return found[0], nil
}

func (r *fakeSessionRepo) FindByChain(_ context.Context, group string, index int) (*models.Session, error) {
	found := r.filter(func(s *models.Session) bool { return s.ChainGroupID == group && s.ChainIndex == index })
	if len(found) == 0 {
		return nil, repositories.ErrNotFound
	}
	return found[0], nil
}

func (r *fakeSessionRepo) FindAll(_ context.Context, _, _ int) ([]*models.Session, error) {
	return r.filter(func(*models.Session) bool { return true }), nil
}

func (r *fakeSessionRepo) TransitionStatus(_ context.Context, id primitive.ObjectID, from, to models.SessionStatus, f models.SessionTransition) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	if f.ClosingTimestamp != "" {
		s.ClosingTimestamp = f.ClosingTimestamp
	}
	if f.PublicSeed != nil {
		seed := *f.PublicSeed
		s.PublicSeed = &seed
	}
	if f.BeaconRound != 0 {
		s.BeaconRound = f.BeaconRound
	}
	if f.AlgorithmVersion != "" {
		s.AlgorithmVersion = f.AlgorithmVersion
	}
	if f.WinnerParticipantID != "" {
		s.WinnerParticipantID = f.WinnerParticipantID
		s.WinnerTicketNumber = f.WinnerTicketNumber
	}
	if f.ResultHash != "" {
		s.ResultHash = f.ResultHash
	}
	if !f.AdjudicatedAt.IsZero() {
		s.AdjudicatedAt = f.AdjudicatedAt
	}
	if f.LogLine != "" {
		s.ExecutionLog = append(s.ExecutionLog, f.LogLine)
	}
	return true, nil
}

func (r *fakeSessionRepo) SetAdjudicationError(_ context.Context, id primitive.ObjectID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s.AdjudicationError = message
	return nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants []*models.SessionParticipant
	// stolenTickets are inserted by a phantom concurrent joiner right before
	// the next Create, to exercise ticket collision handling.
	stolenTickets int
}

func (r *fakeParticipantRepo) Create(_ context.Context, p *models.SessionParticipant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stolenTickets > 0 {
		r.stolenTickets--
		r.participants = append(r.participants, &models.SessionParticipant{
			ID:            primitive.NewObjectID(),
			SessionID:     p.SessionID,
			ParticipantID: "phantom-" + primitive.NewObjectID().Hex(),
			TicketNumber:  p.TicketNumber,
			JoinTimestamp: p.JoinTimestamp,
		})
	}
	for _, existing := range r.participants {
		if existing.SessionID != p.SessionID {
			continue
		}
		if existing.ParticipantID == p.ParticipantID || existing.TicketNumber == p.TicketNumber {
			return repositories.ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	c := *p
	r.participants = append(r.participants, &c)
	return nil
}

func (r *fakeParticipantRepo) CountBySession(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.participants {
		if p.SessionID == id {
			n++
		}
	}
	return n, nil
}

func (r *fakeParticipantRepo) FindBySession(_ context.Context, id primitive.ObjectID) ([]*models.SessionParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.SessionParticipant{}
	for _, p := range r.participants {
		if p.SessionID == id {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketNumber < out[j].TicketNumber })
	return out, nil
}

func (r *fakeParticipantRepo) FindBySessionAndParticipant(_ context.Context, id primitive.ObjectID, participantID string) (*models.SessionParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.SessionID == id && p.ParticipantID == participantID {
			c := *p
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type fakeAdjudicationRepo struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]*models.AdjudicationRecord
}

func newFakeAdjudicationRepo() *fakeAdjudicationRepo {
	return &fakeAdjudicationRepo{records: map[primitive.ObjectID]*models.AdjudicationRecord{}}
}

func (r *fakeAdjudicationRepo) Create(_ context.Context, rec *models.AdjudicationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.SessionID]; ok {
		return repositories.ErrDuplicate
	}
	rec.ID = primitive.NewObjectID()
	c := *rec
	r.records[rec.SessionID] = &c
	return nil
}

func (r *fakeAdjudicationRepo) FindBySessionID(_ context.Context, id primitive.ObjectID) (*models.AdjudicationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *rec
	return &c, nil
}

type fakePoolRepo struct {
	mu      sync.Mutex
	entries []*models.SessionPoolEntry
}

func (r *fakePoolRepo) Create(_ context.Context, e *models.SessionPoolEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = primitive.NewObjectID()
	c := *e
	r.entries = append(r.entries, &c)
	return nil
}

func (r *fakePoolRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.SessionPoolEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakePoolRepo) FindByType(_ context.Context, t models.PoolEntryType) ([]*models.SessionPoolEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.SessionPoolEntry{}
	for _, e := range r.entries {
		if t == "" || e.Type == t {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakePoolRepo) FindScheduledDue(_ context.Context, now time.Time) ([]*models.SessionPoolEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.SessionPoolEntry{}
	for _, e := range r.entries {
		if e.Type == models.PoolEntryScheduled && e.StartTimestamp != nil && !e.StartTimestamp.After(now) {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakePoolRepo) FindByChain(_ context.Context, group string, index int) (*models.SessionPoolEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ChainGroupID == group && e.ChainIndex == index {
			c := *e
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type fakeAdminRepo struct {
	mu    sync.Mutex
	users []*models.AdminUser
}

func (r *fakeAdminRepo) Create(_ context.Context, u *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	c := *u
	r.users = append(r.users, &c)
	return nil
}

func (r *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAdminRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, e *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = primitive.NewObjectID()
	c := *e
	r.entries = append(r.entries, &c)
	return nil
}

func (r *fakeAuditRepo) FindBySession(_ context.Context, id primitive.ObjectID) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.AuditLog{}
	for _, e := range r.entries {
		if e.SessionID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) FindRecent(_ context.Context, limit int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.AuditLog{}
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *fakeAuditRepo) actions(id primitive.ObjectID) []models.AuditAction {
	logs, _ := r.FindBySession(context.Background(), id)
	out := make([]models.AuditAction, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Action)
	}
	return out
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []webhook.Event
}

func (n *recordingNotifier) Notify(_ context.Context, e webhook.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Adjudication: config.AdjudicationConfig{AlgorithmVersion: "1.0"},
		Sessions:     config.SessionsConfig{DefaultExpiryHours: 120, MinParticipants: 2},
		Worker:       config.WorkerConfig{PollInterval: time.Second},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
