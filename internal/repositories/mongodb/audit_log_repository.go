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

// Ensure auditLogRepository implements repositories.AuditLogRepository
var _ repositories.AuditLogRepository = (*auditLogRepository)(nil)

type auditLogRepository struct {
	collection *mongo.Collection
}

// NewAuditLogRepository creates a new repository for audit log entries
func NewAuditLogRepository(db *mongo.Database) repositories.AuditLogRepository {
	return &auditLogRepository{
		collection: db.Collection(CollectionAuditLogs),
	}
}

// Create appends an entry
func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = primitive.NewObjectID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return translateError(err)
}

// FindBySession lists a session's entries in the order they were written
func (r *auditLogRepository) FindBySession(ctx context.Context, sessionID primitive.ObjectID) ([]*models.AuditLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"sessionId": sessionID}, opts)
}

// FindRecent lists the newest entries across all sessions
func (r *auditLogRepository) FindRecent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *auditLogRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.AuditLog, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode audit logs: %w", err)
	}
	if entries == nil {
		entries = []*models.AuditLog{}
	}
	return entries, nil
}
