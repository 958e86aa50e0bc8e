package mongodb

import (
	"errors"

	"github.com/ArowuTest/groupbuy-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// translateError maps driver errors onto the repository sentinels so callers
// never depend on the mongo package.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repositories.ErrDuplicate
	default:
		return err
	}
}

func pageOptions(page, limit int) (skip, lim int64) {
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	return int64((page - 1) * limit), int64(limit)
}
