package service

import (
	"context"
	"testing"

	"github.com/Alicia-Alexia/sub-manager/internal/analytics"
	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBudgetService(t *testing.T) (BudgetService, *repository.InMemorySubscriptionRepository, *repository.InMemoryCategoryRepository) {
	t.Helper()
	subRepo := repository.NewInMemorySubscriptionRepository()
	catRepo := repository.NewInMemoryCategoryRepository()
	svc := NewBudgetService(
		repository.NewInMemoryBudgetRepository(),
		subRepo,
		&stubRates{},
		logger.New(logger.ERROR),
	)
	return svc, subRepo, catRepo
}

func TestBudgetUpsertOverwritesLimit(t *testing.T) {
	svc, _, _ := newTestBudgetService(t)
	userID := uuid.New()

	first, err := svc.Upsert(context.Background(), userID, &domain.BudgetRequest{Category: "streaming", LimitAmount: 100})
	require.NoError(t, err)

	second, err := svc.Upsert(context.Background(), userID, &domain.BudgetRequest{Category: "streaming", LimitAmount: 60})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 60.0, second.LimitAmount)

	statuses, err := svc.ListWithEvaluation(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, 60.0, statuses[0].Budget.LimitAmount)
}

func TestBudgetUpsertRejectsNonPositiveLimit(t *testing.T) {
	svc, _, _ := newTestBudgetService(t)

	_, err := svc.Upsert(context.Background(), uuid.New(), &domain.BudgetRequest{Category: "streaming", LimitAmount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidData)
}

func TestListWithEvaluationComputesUtilization(t *testing.T) {
	svc, subRepo, catRepo := newTestBudgetService(t)
	userID := uuid.New()

	cat, err := catRepo.GetOrCreate(context.Background(), userID, "Streaming", "", "")
	require.NoError(t, err)

	sub := &domain.Subscription{
		UserID:          userID,
		Name:            "Netflix",
		Price:           90,
		Currency:        domain.CurrencyBRL,
		BillingCycle:    domain.CycleMonthly,
		StartDate:       "2026-01-01",
		NextBillingDate: "2026-04-01",
		Status:          domain.SubscriptionStatusActive,
		CategoryID:      &cat.ID,
	}
	sub.Category = cat
	require.NoError(t, subRepo.Create(context.Background(), sub))

	_, err = svc.Upsert(context.Background(), userID, &domain.BudgetRequest{Category: "streaming", LimitAmount: 100})
	require.NoError(t, err)

	statuses, err := svc.ListWithEvaluation(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	eval := statuses[0].Evaluation
	assert.InDelta(t, 90.0, eval.Spent, 0.001)
	assert.InDelta(t, 90.0, eval.Utilization, 0.001)
	assert.False(t, eval.Exceeded)
	assert.Equal(t, analytics.BudgetSeverityWarning, eval.Severity)
}

func TestDeleteBudgetUnknownID(t *testing.T) {
	svc, _, _ := newTestBudgetService(t)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
