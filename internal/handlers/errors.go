package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/ArowuTest/groupbuy-backend/internal/middleware"
	"github.com/ArowuTest/groupbuy-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// respondError writes the HTTP response for a service or engine error
func respondError(c *gin.Context, err error) {
	var (
		engineValidation  *adjudicator.ValidationError
		engineState       *adjudicator.InvalidStateError
		serviceValidation *services.ValidationError
	)

	switch {
	case errors.As(err, &engineValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "field": engineValidation.Field, "detail": engineValidation.Reason})
	case errors.As(err, &serviceValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "field": serviceValidation.Field, "detail": serviceValidation.Message})
	case errors.As(err, &engineState):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid state", "detail": engineState.Reason})

	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrPoolEntryNotFound),
		errors.Is(err, services.ErrAdjudicationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrSessionNotOpen),
		errors.Is(err, services.ErrSessionFull),
		errors.Is(err, services.ErrSessionExpired),
		errors.Is(err, services.ErrAlreadyJoined),
		errors.Is(err, services.ErrSessionNotComplete),
		errors.Is(err, services.ErrAlreadyAdjudicated),
		errors.Is(err, services.ErrPoolEntryUsed),
		errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrAdjudicationFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Adjudication failed", "detail": err.Error()})

	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})

	default:
		slog.Error("Request failed", "error", err, "path", c.FullPath(), "requestId", c.GetString(middleware.RequestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "detail": err.Error()})
}

// objectIDParam parses a path parameter as an ObjectID, writing a 400 on failure
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}
