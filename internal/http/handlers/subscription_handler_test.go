package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/currency"
	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/internal/metrics"
	"github.com/Alicia-Alexia/sub-manager/internal/middleware"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/internal/service"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRates struct{}

func (staticRates) Current(context.Context) (*currency.Snapshot, error) {
	return &currency.Snapshot{USD: 5.0, EUR: 6.0, FetchedAt: time.Now()}, nil
}

func newTestRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, *repository.InMemorySubscriptionRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.ERROR)
	subRepo := repository.NewInMemorySubscriptionRepository()
	catRepo := repository.NewInMemoryCategoryRepository()

	svc := service.NewSubscriptionService(
		subRepo,
		catRepo,
		staticRates{},
		nil,
		metrics.NewBillingMetrics(prometheus.NewRegistry()),
		log,
	)
	handler := NewSubscriptionHandler(svc, log)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	router.POST("/subscriptions", handler.Create)
	router.GET("/subscriptions", handler.List)
	router.GET("/subscriptions/:subscription_id", handler.Get)
	router.POST("/subscriptions/:subscription_id/pay", handler.MarkPaid)
	router.GET("/dashboard", handler.Dashboard)

	return router, subRepo
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(domain.DateLayout)
}

func TestCreateSubscriptionEndpoint(t *testing.T) {
	userID := uuid.New()
	router, _ := newTestRouter(t, userID)

	body := `{
		"name": "Netflix",
		"price": 39.9,
		"currency": "BRL",
		"billing_cycle": "monthly",
		"next_billing_date": "` + futureDate(30) + `",
		"category_name": "Streaming"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sub domain.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, userID, sub.UserID)
	assert.Equal(t, domain.SubscriptionStatusActive, sub.Status)
	require.NotNil(t, sub.Category)
	assert.Equal(t, "Streaming", sub.Category.Name)
}

func TestCreateSubscriptionRejectsBadPayload(t *testing.T) {
	router, _ := newTestRouter(t, uuid.New())

	for name, body := range map[string]string{
		"missing name":  `{"price": 10, "currency": "BRL", "billing_cycle": "monthly", "next_billing_date": "` + futureDate(5) + `"}`,
		"bad currency":  `{"name": "X1", "price": 10, "currency": "GBP", "billing_cycle": "monthly", "next_billing_date": "` + futureDate(5) + `"}`,
		"bad cycle":     `{"name": "X1", "price": 10, "currency": "BRL", "billing_cycle": "daily", "next_billing_date": "` + futureDate(5) + `"}`,
		"past due date": `{"name": "X1", "price": 10, "currency": "BRL", "billing_cycle": "monthly", "next_billing_date": "2020-01-01"}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, name)
	}
}

func TestMarkPaidEndpointRollsOver(t *testing.T) {
	userID := uuid.New()
	router, subRepo := newTestRouter(t, userID)

	require.NoError(t, subRepo.Create(context.Background(), &domain.Subscription{
		UserID:          userID,
		Name:            "Netflix",
		Price:           39.9,
		Currency:        domain.CurrencyBRL,
		BillingCycle:    domain.CycleMonthly,
		StartDate:       "2026-01-15",
		NextBillingDate: "2026-03-15",
		Status:          domain.SubscriptionStatusActive,
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/1/pay", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sub domain.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, "2026-04-15", sub.NextBillingDate)
}

func TestMarkPaidEndpointCancelledConflict(t *testing.T) {
	userID := uuid.New()
	router, subRepo := newTestRouter(t, userID)

	require.NoError(t, subRepo.Create(context.Background(), &domain.Subscription{
		UserID:          userID,
		Name:            "Old Gym",
		Price:           80,
		Currency:        domain.CurrencyBRL,
		BillingCycle:    domain.CycleMonthly,
		StartDate:       "2025-01-01",
		NextBillingDate: "2026-03-01",
		Status:          domain.SubscriptionStatusCancelled,
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/1/pay", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetSubscriptionNotFound(t *testing.T) {
	router, _ := newTestRouter(t, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/subscriptions/99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	userID := uuid.New()
	router, subRepo := newTestRouter(t, userID)

	require.NoError(t, subRepo.Create(context.Background(), &domain.Subscription{
		UserID:          userID,
		Name:            "Adobe",
		Price:           9.99,
		Currency:        domain.CurrencyUSD,
		BillingCycle:    domain.CycleMonthly,
		StartDate:       "2026-01-01",
		NextBillingDate: futureDate(10),
		Status:          domain.SubscriptionStatusActive,
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var dash service.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	require.Len(t, dash.Items, 1)
	assert.InDelta(t, 9.99*5.0, dash.Summary.TotalMonthly, 0.001)
	assert.NotNil(t, dash.Rates)
}
