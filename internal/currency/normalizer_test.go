package currency

import (
	"testing"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMonthlyBaseCycleNormalization(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		cycle domain.BillingCycle
		want  float64
	}{
		{"monthly unchanged", 29.90, domain.CycleMonthly, 29.90},
		{"yearly spread over twelve months", 120.00, domain.CycleYearly, 10.00},
		{"quarterly spread over three months", 90.00, domain.CycleQuarterly, 30.00},
		{"weekly counts four weeks", 15.00, domain.CycleWeekly, 60.00},
		{"zero price stays zero", 0, domain.CycleYearly, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyBase(tt.price, tt.cycle, domain.CurrencyBRL, nil)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestMonthlyBaseCurrencyConversion(t *testing.T) {
	rates := &Snapshot{USD: 5.00, EUR: 6.00}

	got := MonthlyBase(9.99, domain.CycleMonthly, domain.CurrencyUSD, rates)
	assert.InDelta(t, 49.95, got, 1e-9)

	got = MonthlyBase(10.00, domain.CycleMonthly, domain.CurrencyEUR, rates)
	assert.InDelta(t, 60.00, got, 1e-9)

	// Base currency is never converted.
	got = MonthlyBase(10.00, domain.CycleMonthly, domain.CurrencyBRL, rates)
	assert.InDelta(t, 10.00, got, 1e-9)

	// Conversion composes with cycle normalization.
	got = MonthlyBase(120.00, domain.CycleYearly, domain.CurrencyUSD, rates)
	assert.InDelta(t, 50.00, got, 1e-9)
}

func TestMonthlyBaseDegradedWithoutRates(t *testing.T) {
	// Missing snapshot leaves foreign amounts unconverted.
	got := MonthlyBase(9.99, domain.CycleMonthly, domain.CurrencyUSD, nil)
	assert.InDelta(t, 9.99, got, 1e-9)

	// A snapshot with a missing pair behaves the same for that pair.
	got = MonthlyBase(9.99, domain.CycleMonthly, domain.CurrencyEUR, &Snapshot{USD: 5.00})
	assert.InDelta(t, 9.99, got, 1e-9)
}
