package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/analytics"
	"github.com/Alicia-Alexia/sub-manager/internal/billing"
	"github.com/Alicia-Alexia/sub-manager/internal/currency"
	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/internal/metrics"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRates struct {
	snapshot *currency.Snapshot
}

func (s *stubRates) Current(context.Context) (*currency.Snapshot, error) {
	return s.snapshot, nil
}

var testNow = time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, rates *currency.Snapshot) (SubscriptionService, *repository.InMemorySubscriptionRepository) {
	t.Helper()
	subRepo := repository.NewInMemorySubscriptionRepository()
	catRepo := repository.NewInMemoryCategoryRepository()
	svc := NewSubscriptionService(
		subRepo,
		catRepo,
		&stubRates{snapshot: rates},
		nil,
		metrics.NewBillingMetrics(prometheus.NewRegistry()),
		logger.New(logger.ERROR),
	)
	svc.(*subscriptionService).now = func() time.Time { return testNow }
	return svc, subRepo
}

func validRequest() *domain.SubscriptionRequest {
	return &domain.SubscriptionRequest{
		Name:            "Netflix",
		Price:           39.9,
		Currency:        domain.CurrencyBRL,
		BillingCycle:    domain.CycleMonthly,
		NextBillingDate: "2026-04-10",
		CategoryName:    "Streaming",
	}
}

func TestCreateSetsStartDateAndCategory(t *testing.T) {
	svc, _ := newTestService(t, nil)

	sub, err := svc.Create(context.Background(), uuid.New(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "2026-03-10", sub.StartDate)
	assert.Equal(t, domain.SubscriptionStatusActive, sub.Status)
	require.NotNil(t, sub.Category)
	assert.Equal(t, "Streaming", sub.Category.Name)
	assert.NotZero(t, sub.ID)
}

func TestCreateRejectsNonFutureBillingDate(t *testing.T) {
	svc, _ := newTestService(t, nil)

	for _, date := range []string{"2026-03-10", "2026-03-01", "2024-02-30"} {
		req := validRequest()
		req.NextBillingDate = date
		_, err := svc.Create(context.Background(), uuid.New(), req)
		require.Error(t, err, date)
		assert.True(t, errors.Is(err, domain.ErrInvalidData), date)
	}
}

func TestCreateTrialStatus(t *testing.T) {
	svc, _ := newTestService(t, nil)

	req := validRequest()
	req.IsTrial = true
	sub, err := svc.Create(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionStatusTrial, sub.Status)
}

func TestMarkPaidRollsOverOneCycle(t *testing.T) {
	svc, _ := newTestService(t, nil)
	userID := uuid.New()

	sub, err := svc.Create(context.Background(), userID, validRequest())
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), userID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-10", paid.NextBillingDate)

	// The new date is persisted, not only returned.
	got, err := svc.GetByID(context.Background(), userID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-10", got.NextBillingDate)
}

func TestMarkPaidClampsMonthEnd(t *testing.T) {
	svc, repo := newTestService(t, nil)
	userID := uuid.New()

	require.NoError(t, repo.Create(context.Background(), &domain.Subscription{
		UserID:          userID,
		Name:            "Hosting",
		Price:           10,
		Currency:        domain.CurrencyBRL,
		BillingCycle:    domain.CycleMonthly,
		StartDate:       "2026-01-31",
		NextBillingDate: "2026-01-31",
		Status:          domain.SubscriptionStatusActive,
	}))

	paid, err := svc.MarkPaid(context.Background(), userID, 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", paid.NextBillingDate)
}

func TestMarkPaidRejectsCancelled(t *testing.T) {
	svc, repo := newTestService(t, nil)
	userID := uuid.New()

	require.NoError(t, repo.Create(context.Background(), &domain.Subscription{
		UserID:          userID,
		Name:            "Old Gym",
		Price:           80,
		Currency:        domain.CurrencyBRL,
		BillingCycle:    domain.CycleMonthly,
		StartDate:       "2025-01-01",
		NextBillingDate: "2026-03-01",
		Status:          domain.SubscriptionStatusCancelled,
	}))

	_, err := svc.MarkPaid(context.Background(), userID, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))
}

func TestMarkPaidUnknownIDReturnsNotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.MarkPaid(context.Background(), uuid.New(), 42)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestGetDashboardAnnotatesUrgency(t *testing.T) {
	rates := &currency.Snapshot{USD: 5.0, EUR: 6.0, FetchedAt: testNow}
	svc, repo := newTestService(t, rates)
	userID := uuid.New()

	require.NoError(t, repo.Create(context.Background(), &domain.Subscription{
		UserID:          userID,
		Name:            "Netflix",
		Price:           39.9,
		Currency:        domain.CurrencyBRL,
		BillingCycle:    domain.CycleMonthly,
		StartDate:       "2026-01-10",
		NextBillingDate: "2026-03-10",
		Status:          domain.SubscriptionStatusActive,
	}))
	require.NoError(t, repo.Create(context.Background(), &domain.Subscription{
		UserID:          userID,
		Name:            "Adobe",
		Price:           9.99,
		Currency:        domain.CurrencyUSD,
		BillingCycle:    domain.CycleMonthly,
		StartDate:       "2026-01-01",
		NextBillingDate: "2026-04-01",
		Status:          domain.SubscriptionStatusActive,
	}))

	dash, err := svc.GetDashboard(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, dash.Items, 2)
	byName := map[string]DashboardItem{}
	for _, item := range dash.Items {
		byName[item.Subscription.Name] = item
	}

	assert.Equal(t, 0, byName["Netflix"].DaysUntilDue)
	assert.Equal(t, billing.SeverityWarning, byName["Netflix"].Urgency.Severity)
	assert.Equal(t, billing.SeverityNeutral, byName["Adobe"].Urgency.Severity)

	assert.InDelta(t, 39.9+9.99*5.0, dash.Summary.TotalMonthly, 0.001)
	assert.Len(t, dash.Summary.PerCategory, 1)
	assert.Equal(t, analytics.UncategorizedBucket, dash.Summary.PerCategory[0].Name)
}
