package analytics

import (
	"github.com/Alicia-Alexia/sub-manager/internal/currency"
	"github.com/Alicia-Alexia/sub-manager/internal/domain"
)

// Budget severity tiers.
const (
	BudgetSeverityNominal  = "nominal"
	BudgetSeverityWarning  = "warning"
	BudgetSeverityCritical = "critical"
)

// Evaluation is the result of comparing category spend against a ceiling.
// Utilization is clamped to 100 for display; Ratio keeps the raw value.
type Evaluation struct {
	Spent       float64 `json:"spent"`
	Limit       float64 `json:"limit"`
	Utilization float64 `json:"utilization"`
	Ratio       float64 `json:"ratio"`
	Exceeded    bool    `json:"exceeded"`
	Severity    string  `json:"severity"`
}

// budgetStatuses is the status filter used for budget matching. "overdue" is
// never written by this system (the stored enum is active/trial/cancelled);
// the term is kept so any legacy rows carrying it still count toward spend.
var budgetStatuses = map[domain.SubscriptionStatus]bool{
	domain.SubscriptionStatusActive: true,
	domain.SubscriptionStatusTrial:  true,
	"overdue":                       true,
}

// CategorySpent totals the monthly-base spend of one category, matched by
// trimmed, case-insensitive name equality.
func CategorySpent(subs []domain.Subscription, rates *currency.Snapshot, categoryName string) float64 {
	target := domain.NormalizeCategoryName(categoryName)

	var spent float64
	for i := range subs {
		sub := &subs[i]
		name := sub.CategoryName()
		if name == "" || domain.NormalizeCategoryName(name) != target {
			continue
		}
		if !budgetStatuses[sub.Status] {
			continue
		}
		spent += currency.MonthlyBase(sub.Price, sub.BillingCycle, sub.Currency, rates)
	}
	return spent
}

// EvaluateBudget grades spend against a ceiling. Tiers: below 80% nominal,
// 80-99% warning, at or above the limit critical.
func EvaluateBudget(spent, limit float64) Evaluation {
	eval := Evaluation{
		Spent:    spent,
		Limit:    limit,
		Severity: BudgetSeverityNominal,
	}
	if limit <= 0 {
		return eval
	}

	eval.Ratio = spent / limit
	eval.Utilization = eval.Ratio * 100
	if eval.Utilization > 100 {
		eval.Utilization = 100
	}
	eval.Exceeded = spent >= limit

	switch {
	case eval.Ratio >= 1:
		eval.Severity = BudgetSeverityCritical
	case eval.Ratio >= 0.8:
		eval.Severity = BudgetSeverityWarning
	}

	return eval
}
