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

// Ensure participantRepository implements repositories.ParticipantRepository
var _ repositories.ParticipantRepository = (*participantRepository)(nil)

type participantRepository struct {
	collection *mongo.Collection
}

// NewParticipantRepository creates a new repository for session participants
func NewParticipantRepository(db *mongo.Database) repositories.ParticipantRepository {
	return &participantRepository{
		collection: db.Collection(CollectionParticipants),
	}
}

// Create inserts a participant. A repeated (session, participant) or
// (session, ticket) pair surfaces as repositories.ErrDuplicate.
func (r *participantRepository) Create(ctx context.Context, participant *models.SessionParticipant) error {
	participant.ID = primitive.NewObjectID()
	participant.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, participant)
	return translateError(err)
}

// CountBySession counts the participants of a session
func (r *participantRepository) CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return 0, fmt.Errorf("failed to count participants for session %s: %w", sessionID.Hex(), err)
	}
	return count, nil
}

// FindBySession returns a session's participants in ticket order
func (r *participantRepository) FindBySession(ctx context.Context, sessionID primitive.ObjectID) ([]*models.SessionParticipant, error) {
	opts := options.Find().SetSort(bson.M{"ticketNumber": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []*models.SessionParticipant
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}
	if participants == nil {
		participants = []*models.SessionParticipant{}
	}
	return participants, nil
}

// FindBySessionAndParticipant finds one participant's sign-up in a session
func (r *participantRepository) FindBySessionAndParticipant(ctx context.Context, sessionID primitive.ObjectID, participantID string) (*models.SessionParticipant, error) {
	var participant models.SessionParticipant
	filter := bson.M{"sessionId": sessionID, "participantId": participantID}
	if err := r.collection.FindOne(ctx, filter).Decode(&participant); err != nil {
		return nil, translateError(err)
	}
	return &participant, nil
}
