// Package currency normalizes subscription prices into a single comparable
// figure: BRL per month. Cycle normalization happens first, then the
// exchange-rate conversion for USD/EUR prices.
package currency

import (
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
)

// Snapshot holds the same-day exchange rates used for one computation pass.
// Each rate is units of BRL per one foreign unit. A nil *Snapshot means the
// rate source was unavailable; foreign amounts are then left unconverted
// (degraded mode) instead of blocking the dashboard.
type Snapshot struct {
	USD       float64   `json:"usd"`
	EUR       float64   `json:"eur"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Rate returns the BRL rate for cur, or 1 when cur is the base currency or
// no rate is known.
func (s *Snapshot) Rate(cur domain.Currency) float64 {
	if s == nil {
		return 1
	}
	switch cur {
	case domain.CurrencyUSD:
		if s.USD > 0 {
			return s.USD
		}
	case domain.CurrencyEUR:
		if s.EUR > 0 {
			return s.EUR
		}
	}
	return 1
}

// MonthlyBase converts a priced amount into its monthly-equivalent value in
// the base currency. Weekly prices count four weeks per month; quarterly and
// yearly prices are spread evenly over their cycle.
func MonthlyBase(price float64, cycle domain.BillingCycle, cur domain.Currency, rates *Snapshot) float64 {
	monthly := price
	switch cycle {
	case domain.CycleYearly:
		monthly = price / 12
	case domain.CycleQuarterly:
		monthly = price / 3
	case domain.CycleWeekly:
		monthly = price * 4
	}

	return monthly * rates.Rate(cur)
}
