package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/exp/slog"
)

// Collection names
const (
	CollectionSessions      = "sessions"
	CollectionParticipants  = "session_participants"
	CollectionAdjudications = "adjudications"
	CollectionSessionPool   = "session_pool"
	CollectionAdminUsers    = "admin_users"
	CollectionAuditLogs     = "audit_logs"
)

// EnsureIndexes creates the indexes the repositories rely on for uniqueness.
// It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		CollectionParticipants: {
			{Keys: bson.D{{Key: "sessionId", Value: 1}, {Key: "participantId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "sessionId", Value: 1}, {Key: "ticketNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionAdjudications: {
			{Keys: bson.D{{Key: "sessionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionAdminUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionSessions: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "poolId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		CollectionSessionPool: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "startTimestamp", Value: 1}}},
			{Keys: bson.D{{Key: "chainGroupId", Value: 1}, {Key: "chainIndex", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		CollectionAuditLogs: {
			{Keys: bson.D{{Key: "sessionId", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
	}

	for name, models := range specs {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
		slog.Debug("Ensured indexes", "collection", name, "indexes", created)
	}
	return nil
}
