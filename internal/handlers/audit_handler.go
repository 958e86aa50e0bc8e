package handlers

import (
	"net/http"
	"strconv"

	"github.com/ArowuTest/groupbuy-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuditHandler exposes the audit log
type AuditHandler struct {
	auditService services.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// SessionLogs handles GET /sessions/:id/logs
func (h *AuditHandler) SessionLogs(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	logs, err := h.auditService.ListBySession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// RecentLogs handles GET /logs?limit=
func (h *AuditHandler) RecentLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := h.auditService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
