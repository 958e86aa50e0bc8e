package handlers

import (
	"net/http"

	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// PoolHandler handles session pool requests
type PoolHandler struct {
	poolService services.SessionPoolService
}

// NewPoolHandler creates a new PoolHandler
func NewPoolHandler(poolService services.SessionPoolService) *PoolHandler {
	return &PoolHandler{poolService: poolService}
}

// ListEntries handles GET /pool?type=
func (h *PoolHandler) ListEntries(c *gin.Context) {
	entries, err := h.poolService.ListEntries(c.Request.Context(), models.PoolEntryType(c.Query("type")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// CreateEntry handles POST /pool
func (h *PoolHandler) CreateEntry(c *gin.Context) {
	var entry models.SessionPoolEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.poolService.CreateEntry(c.Request.Context(), &entry); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Activate handles POST /pool/:id/activate for standby entries
func (h *PoolHandler) Activate(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	session, err := h.poolService.ActivateStandby(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}
