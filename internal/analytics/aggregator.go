// Package analytics folds a user's subscriptions into the dashboard
// figures: normalized monthly/annual totals, the per-category distribution
// and budget-ceiling evaluations. Everything here is a pure transformation
// over an already-fetched slice; re-running with the same inputs always
// produces identical output.
package analytics

import (
	"sort"

	"github.com/Alicia-Alexia/sub-manager/internal/currency"
	"github.com/Alicia-Alexia/sub-manager/internal/domain"
)

// UncategorizedBucket is the distribution bucket for subscriptions without
// a category.
const UncategorizedBucket = "Uncategorized"

// CategorySpend is one slice of the per-category distribution.
type CategorySpend struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Summary is the aggregated view of a subscription collection. All amounts
// are monthly-equivalent base currency.
type Summary struct {
	TotalMonthly float64         `json:"total_monthly"`
	TotalAnnual  float64         `json:"total_annual"`
	PerCategory  []CategorySpend `json:"per_category"`
}

// Aggregate computes the dashboard summary for a collection of
// subscriptions. Cancelled subscriptions are excluded; active and trial ones
// contribute their monthly-base amount to the total and to their category
// bucket. The distribution is sorted by amount descending, with the name as
// tie-break so equal amounts still order deterministically.
func Aggregate(subs []domain.Subscription, rates *currency.Snapshot) Summary {
	type bucket struct {
		amount float64
		color  string
	}
	buckets := make(map[string]bucket)

	var totalMonthly float64
	for i := range subs {
		sub := &subs[i]
		if !sub.Status.Billable() {
			continue
		}

		amount := currency.MonthlyBase(sub.Price, sub.BillingCycle, sub.Currency, rates)
		totalMonthly += amount

		name := sub.CategoryName()
		color := domain.DefaultCategoryColor
		if name == "" {
			name = UncategorizedBucket
		} else if sub.Category.Color != "" {
			color = sub.Category.Color
		}

		b := buckets[name]
		if b.color == "" {
			b.color = color
		}
		b.amount += amount
		buckets[name] = b
	}

	perCategory := make([]CategorySpend, 0, len(buckets))
	for name, b := range buckets {
		spend := CategorySpend{Name: name, Color: b.color, Amount: b.amount}
		if totalMonthly > 0 {
			spend.Percentage = b.amount / totalMonthly * 100
		}
		perCategory = append(perCategory, spend)
	}

	sort.Slice(perCategory, func(i, j int) bool {
		if perCategory[i].Amount != perCategory[j].Amount {
			return perCategory[i].Amount > perCategory[j].Amount
		}
		return perCategory[i].Name < perCategory[j].Name
	})

	return Summary{
		TotalMonthly: totalMonthly,
		TotalAnnual:  totalMonthly * 12,
		PerCategory:  perCategory,
	}
}
