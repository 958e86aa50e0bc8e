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

// Ensure sessionPoolRepository implements repositories.SessionPoolRepository
var _ repositories.SessionPoolRepository = (*sessionPoolRepository)(nil)

type sessionPoolRepository struct {
	collection *mongo.Collection
}

// NewSessionPoolRepository creates a new repository for session pool entries
func NewSessionPoolRepository(db *mongo.Database) repositories.SessionPoolRepository {
	return &sessionPoolRepository{
		collection: db.Collection(CollectionSessionPool),
	}
}

// Create inserts a pool entry
func (r *sessionPoolRepository) Create(ctx context.Context, entry *models.SessionPoolEntry) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, entry)
	return translateError(err)
}

// FindByID finds a pool entry by ID
func (r *sessionPoolRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SessionPoolEntry, error) {
	var entry models.SessionPoolEntry
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry); err != nil {
		return nil, translateError(err)
	}
	return &entry, nil
}

// FindByType lists entries of one type; an empty type lists all entries
func (r *sessionPoolRepository) FindByType(ctx context.Context, entryType models.PoolEntryType) ([]*models.SessionPoolEntry, error) {
	filter := bson.M{}
	if entryType != "" {
		filter["type"] = entryType
	}
	opts := options.Find().SetSort(bson.D{{Key: "chainGroupId", Value: 1}, {Key: "chainIndex", Value: 1}, {Key: "createdAt", Value: 1}})
	return r.find(ctx, filter, opts)
}

// FindScheduledDue lists scheduled entries whose start time is not after now
func (r *sessionPoolRepository) FindScheduledDue(ctx context.Context, now time.Time) ([]*models.SessionPoolEntry, error) {
	filter := bson.M{
		"type":           models.PoolEntryScheduled,
		"startTimestamp": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.M{"startTimestamp": 1})
	return r.find(ctx, filter, opts)
}

// FindByChain finds the entry holding a given chain link
func (r *sessionPoolRepository) FindByChain(ctx context.Context, chainGroupID string, chainIndex int) (*models.SessionPoolEntry, error) {
	var entry models.SessionPoolEntry
	filter := bson.M{"chainGroupId": chainGroupID, "chainIndex": chainIndex}
	if err := r.collection.FindOne(ctx, filter).Decode(&entry); err != nil {
		return nil, translateError(err)
	}
	return &entry, nil
}

func (r *sessionPoolRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.SessionPoolEntry, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.SessionPoolEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode pool entries: %w", err)
	}
	if entries == nil {
		entries = []*models.SessionPoolEntry{}
	}
	return entries, nil
}
