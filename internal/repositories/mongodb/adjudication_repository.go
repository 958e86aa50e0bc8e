package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Ensure adjudicationRepository implements repositories.AdjudicationRepository
var _ repositories.AdjudicationRepository = (*adjudicationRepository)(nil)

type adjudicationRepository struct {
	collection *mongo.Collection
}

// NewAdjudicationRepository creates a new repository for adjudication records
func NewAdjudicationRepository(db *mongo.Database) repositories.AdjudicationRepository {
	return &adjudicationRepository{
		collection: db.Collection(CollectionAdjudications),
	}
}

// Create inserts the record. The unique index on sessionId rejects a second
// record for the same session with repositories.ErrDuplicate.
func (r *adjudicationRepository) Create(ctx context.Context, record *models.AdjudicationRecord) error {
	record.ID = primitive.NewObjectID()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return translateError(err)
}

// FindBySessionID finds the adjudication record of a session
func (r *adjudicationRepository) FindBySessionID(ctx context.Context, sessionID primitive.ObjectID) (*models.AdjudicationRecord, error) {
	var record models.AdjudicationRecord
	if err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&record); err != nil {
		return nil, translateError(err)
	}
	return &record, nil
}
