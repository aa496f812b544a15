package handlers

import (
	"net/http"

	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category requests.
type CategoryHandler struct {
	repo repository.CategoryRepository
	log  *logger.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(repo repository.CategoryRepository, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		repo: repo,
		log:  log,
	}
}

// List handles GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cats, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorw("Failed to list categories", "error", err, "userID", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, cats)
}
