package handlers

import (
	"errors"
	"net/http"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/internal/service"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BudgetHandler handles budget requests.
type BudgetHandler struct {
	service service.BudgetService
	log     *logger.Logger
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(service service.BudgetService, log *logger.Logger) *BudgetHandler {
	return &BudgetHandler{
		service: service,
		log:     log,
	}
}

// Upsert handles PUT /budgets. Setting a budget for an existing category
// overwrites the limit.
func (h *BudgetHandler) Upsert(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req domain.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	budget, err := h.service.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to save budget")
		return
	}

	c.JSON(http.StatusOK, budget)
}

// List handles GET /budgets and returns every budget with its evaluation.
func (h *BudgetHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	statuses, err := h.service.ListWithEvaluation(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Failed to list budgets")
		return
	}

	c.JSON(http.StatusOK, statuses)
}

// Delete handles DELETE /budgets/:budget_id.
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	budgetID, err := uuid.Parse(c.Param("budget_id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid budget id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, budgetID); err != nil {
		h.respondError(c, err, "Failed to delete budget")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BudgetHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
	case errors.Is(err, domain.ErrInvalidData), errors.Is(err, repository.ErrInvalidData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Errorw("Budget handler failure", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
