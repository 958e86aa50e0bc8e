package handlers

import (
	"net/http"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/ArowuTest/groupbuy-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AdjudicationHandler handles winner selection and verification requests
type AdjudicationHandler struct {
	adjudicationService services.AdjudicationService
}

// NewAdjudicationHandler creates a new AdjudicationHandler
func NewAdjudicationHandler(adjudicationService services.AdjudicationService) *AdjudicationHandler {
	return &AdjudicationHandler{adjudicationService: adjudicationService}
}

// Adjudicate handles POST /adjudicate. Nothing is stored.
func (h *AdjudicationHandler) Adjudicate(c *gin.Context) {
	var in adjudicator.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.adjudicationService.Adjudicate(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Verify handles POST /adjudications/verify
func (h *AdjudicationHandler) Verify(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.adjudicationService.Verify(c.Request.Context(), req.Input, req.Result)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AdjudicateSession handles POST /sessions/:id/adjudicate
func (h *AdjudicationHandler) AdjudicateSession(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.adjudicationService.AdjudicateSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSessionAdjudication handles GET /sessions/:id/adjudication
func (h *AdjudicationHandler) GetSessionAdjudication(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.adjudicationService.GetSessionAdjudication(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
