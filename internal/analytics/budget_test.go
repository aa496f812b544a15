package analytics

import (
	"testing"

	"github.com/Alicia-Alexia/sub-manager/internal/currency"
	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCategorySpentMatchesNameLoosely(t *testing.T) {
	streaming := &domain.Category{Name: "  Streaming "}
	subs := []domain.Subscription{
		sub("Netflix", 40.00, domain.CycleMonthly, domain.CurrencyBRL, domain.SubscriptionStatusActive, streaming),
		sub("HBO", 30.00, domain.CycleMonthly, domain.CurrencyBRL, domain.SubscriptionStatusTrial, &domain.Category{Name: "streaming"}),
		sub("Adobe", 100.00, domain.CycleMonthly, domain.CurrencyBRL, domain.SubscriptionStatusActive, &domain.Category{Name: "Software"}),
		sub("VPN", 10.00, domain.CycleMonthly, domain.CurrencyBRL, domain.SubscriptionStatusActive, nil),
	}

	got := CategorySpent(subs, nil, "STREAMING")
	assert.InDelta(t, 70.00, got, 1e-9)
}

func TestCategorySpentStatusFilter(t *testing.T) {
	cat := &domain.Category{Name: "Streaming"}
	subs := []domain.Subscription{
		sub("active", 10.00, domain.CycleMonthly, domain.CurrencyBRL, domain.SubscriptionStatusActive, cat),
		sub("trial", 20.00, domain.CycleMonthly, domain.CurrencyBRL, domain.SubscriptionStatusTrial, cat),
		sub("legacy overdue row", 5.00, domain.CycleMonthly, domain.CurrencyBRL, "overdue", cat),
		sub("cancelled", 99.00, domain.CycleMonthly, domain.CurrencyBRL, domain.SubscriptionStatusCancelled, cat),
	}

	got := CategorySpent(subs, nil, "Streaming")
	assert.InDelta(t, 35.00, got, 1e-9)
}

func TestCategorySpentNormalizesCycleAndCurrency(t *testing.T) {
	cat := &domain.Category{Name: "Software"}
	rates := &currency.Snapshot{USD: 5.00, EUR: 6.00}
	subs := []domain.Subscription{
		sub("yearly usd", 120.00, domain.CycleYearly, domain.CurrencyUSD, domain.SubscriptionStatusActive, cat),
	}

	got := CategorySpent(subs, rates, "software")
	assert.InDelta(t, 50.00, got, 1e-9)
}

func TestEvaluateBudgetTiers(t *testing.T) {
	tests := []struct {
		name        string
		spent       float64
		limit       float64
		utilization float64
		exceeded    bool
		severity    string
	}{
		{"well under", 50, 100, 50, false, BudgetSeverityNominal},
		{"just under warning", 79.99, 100, 79.99, false, BudgetSeverityNominal},
		{"warning band", 80, 100, 80, false, BudgetSeverityWarning},
		{"upper warning band", 99.99, 100, 99.99, false, BudgetSeverityWarning},
		{"at the limit", 100, 100, 100, true, BudgetSeverityCritical},
		{"over the limit clamps display", 150, 100, 100, true, BudgetSeverityCritical},
		{"zero spend", 0, 100, 0, false, BudgetSeverityNominal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateBudget(tt.spent, tt.limit)
			assert.InDelta(t, tt.utilization, got.Utilization, 1e-9)
			assert.Equal(t, tt.exceeded, got.Exceeded)
			assert.Equal(t, tt.severity, got.Severity)
		})
	}
}

func TestEvaluateBudgetUnclampedRatio(t *testing.T) {
	got := EvaluateBudget(150, 100)
	assert.InDelta(t, 1.5, got.Ratio, 1e-9)
	assert.InDelta(t, 100, got.Utilization, 1e-9)
}

func TestEvaluateBudgetZeroLimit(t *testing.T) {
	got := EvaluateBudget(10, 0)
	assert.False(t, got.Exceeded)
	assert.Zero(t, got.Utilization)
	assert.Equal(t, BudgetSeverityNominal, got.Severity)
}
