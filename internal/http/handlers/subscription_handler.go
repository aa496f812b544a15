package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/internal/middleware"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/internal/service"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubscriptionHandler handles subscription and dashboard requests.
type SubscriptionHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(service service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		log:     log,
	}
}

// Create handles POST /subscriptions.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req domain.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	sub, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to create subscription")
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// Get handles GET /subscriptions/:subscription_id.
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	sub, err := h.service.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		h.respondError(c, err, "Failed to load subscription")
		return
	}

	c.JSON(http.StatusOK, sub)
}

// List handles GET /subscriptions.
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	subs, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Failed to list subscriptions")
		return
	}

	c.JSON(http.StatusOK, subs)
}

// Update handles PUT /subscriptions/:subscription_id.
func (h *SubscriptionHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	var req domain.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	sub, err := h.service.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.respondError(c, err, "Failed to update subscription")
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Delete handles DELETE /subscriptions/:subscription_id.
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		h.respondError(c, err, "Failed to delete subscription")
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkPaid handles POST /subscriptions/:subscription_id/pay.
func (h *SubscriptionHandler) MarkPaid(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	sub, err := h.service.MarkPaid(c.Request.Context(), userID, id)
	if err != nil {
		h.respondError(c, err, "Failed to mark subscription as paid")
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Dashboard handles GET /dashboard.
func (h *SubscriptionHandler) Dashboard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.service.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Failed to compute dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *SubscriptionHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
	case errors.Is(err, domain.ErrInvalidData), errors.Is(err, repository.ErrInvalidData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidOperation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Errorw("Subscription handler failure", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// requireUserID pulls the authenticated user out of the context. The auth
// middleware guarantees it for protected routes; missing means a wiring bug.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication"})
		return uuid.Nil, false
	}
	return userID, true
}

func subscriptionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("subscription_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid subscription id"})
		return 0, false
	}
	return id, true
}
