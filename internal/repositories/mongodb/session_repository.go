package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ensure sessionRepository implements repositories.SessionRepository
var _ repositories.SessionRepository = (*sessionRepository)(nil)

type sessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository creates a new repository for sessions
func NewSessionRepository(db *mongo.Database) repositories.SessionRepository {
	return &sessionRepository{
		collection: db.Collection(CollectionSessions),
	}
}

// Create creates a new session
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return translateError(err)
	}
	session.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a session by ID
func (r *sessionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	var session models.Session
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

// FindByStatus finds sessions by status, oldest first
func (r *sessionRepository) FindByStatus(ctx context.Context, status models.SessionStatus) ([]*models.Session, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	return r.find(ctx, bson.M{"status": status}, opts)
}

// FindByPoolID finds the session created from a pool entry
func (r *sessionRepository) FindByPoolID(ctx context.Context, poolID primitive.ObjectID) (*models.Session, error) {
	var session models.Session
	if err := r.collection.FindOne(ctx, bson.M{"poolId": poolID}).Decode(&session); err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

// FindByChain finds the session holding a given chain link
func (r *sessionRepository) FindByChain(ctx context.Context, chainGroupID string, chainIndex int) (*models.Session, error) {
	var session models.Session
	filter := bson.M{"chainGroupId": chainGroupID, "chainIndex": chainIndex}
	if err := r.collection.FindOne(ctx, filter).Decode(&session); err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

// FindAll lists sessions, newest first
func (r *sessionRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Session, error) {
	skip, lim := pageOptions(page, limit)
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetSkip(skip).SetLimit(lim)
	return r.find(ctx, bson.M{}, opts)
}

// TransitionStatus updates the session only if it is still in the from status,
// which makes the update a compare-and-set.
func (r *sessionRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.SessionStatus, fields models.SessionTransition) (bool, error) {
	set := bson.M{
		"status":    to,
		"updatedAt": time.Now().UTC(),
	}
	if fields.ClosingTimestamp != "" {
		set["closingTimestamp"] = fields.ClosingTimestamp
	}
	if fields.PublicSeed != nil {
		set["publicSeed"] = *fields.PublicSeed
	}
	if fields.BeaconRound != 0 {
		set["beaconRound"] = fields.BeaconRound
	}
	if fields.AlgorithmVersion != "" {
		set["algorithmVersion"] = fields.AlgorithmVersion
	}
	if fields.WinnerParticipantID != "" {
		set["winnerParticipantId"] = fields.WinnerParticipantID
		set["winnerTicketNumber"] = fields.WinnerTicketNumber
	}
	if fields.ResultHash != "" {
		set["resultHash"] = fields.ResultHash
	}
	if !fields.AdjudicatedAt.IsZero() {
		set["adjudicatedAt"] = fields.AdjudicatedAt
	}

	update := bson.M{"$set": set}
	if fields.LogLine != "" {
		update["$push"] = bson.M{"executionLog": fields.LogLine}
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "status": from}, update)
	if err != nil {
		return false, fmt.Errorf("failed to transition session %s from %s to %s: %w", id.Hex(), from, to, err)
	}
	return res.ModifiedCount == 1, nil
}

// SetAdjudicationError records why adjudication of a complete session failed
func (r *sessionRepository) SetAdjudicationError(ctx context.Context, id primitive.ObjectID, message string) error {
	update := bson.M{
		"$set":  bson.M{"adjudicationError": message, "updatedAt": time.Now().UTC()},
		"$push": bson.M{"executionLog": "adjudication failed: " + message},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return translateError(err)
}

func (r *sessionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Session, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*models.Session{}
	}
	return sessions, nil
}
