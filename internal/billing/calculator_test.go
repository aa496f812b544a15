package billing

import (
	"testing"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), got)

	for _, bad := range []string{"", "2024-02", "2024-13-01", "2023-02-29", "2024-02-30", "abcd-ef-gh", "2024/01/01"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestDaysUntilDue(t *testing.T) {
	today := date(2024, time.March, 15)

	tests := []struct {
		name string
		due  string
		want int
	}{
		{"due today", "2024-03-15", 0},
		{"due tomorrow", "2024-03-16", 1},
		{"due in a week", "2024-03-22", 7},
		{"overdue yesterday", "2024-03-14", -1},
		{"overdue last month", "2024-02-15", -29},
		{"next year", "2025-03-15", 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DaysUntilDue(tt.due, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// The time component of "today" must not influence the result.
	lateEvening := time.Date(2024, time.March, 15, 23, 59, 59, 0, time.UTC)
	got, err := DaysUntilDue("2024-03-16", lateEvening)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	_, err = DaysUntilDue("not-a-date", today)
	assert.Error(t, err)
}

func TestDaysUntilDueSameDayIsZero(t *testing.T) {
	for _, d := range []string{"2024-01-01", "2024-02-29", "2024-12-31", "1999-06-15"} {
		parsed, err := ParseDate(d)
		require.NoError(t, err)
		got, err := DaysUntilDue(d, parsed)
		require.NoError(t, err)
		assert.Zero(t, got, "date %s", d)
	}
}

func TestClassifyUrgencyTrial(t *testing.T) {
	tests := []struct {
		days int
		want Urgency
	}{
		{-5, Urgency{SeverityCritical, "trial expired"}},
		{-1, Urgency{SeverityCritical, "trial expired"}},
		{0, Urgency{SeverityCritical, "cancel today"}},
		{1, Urgency{SeverityWarning, "cancel soon"}},
		{2, Urgency{SeverityWarning, "cancel soon"}},
		{3, Urgency{SeverityInfo, "in trial"}},
		{30, Urgency{SeverityInfo, "in trial"}},
	}

	for _, tt := range tests {
		got := ClassifyUrgency(tt.days, domain.SubscriptionStatusTrial)
		assert.Equal(t, tt.want, got, "trial, %d days", tt.days)
	}
}

func TestClassifyUrgencyActive(t *testing.T) {
	tests := []struct {
		days int
		want Urgency
	}{
		{-10, Urgency{SeverityCritical, "overdue"}},
		{-1, Urgency{SeverityCritical, "overdue"}},
		{0, Urgency{SeverityWarning, "due today"}},
		{1, Urgency{SeverityCaution, "due soon"}},
		{3, Urgency{SeverityCaution, "due soon"}},
		{4, Urgency{Severity: SeverityNeutral}},
		{90, Urgency{Severity: SeverityNeutral}},
	}

	for _, tt := range tests {
		got := ClassifyUrgency(tt.days, domain.SubscriptionStatusActive)
		assert.Equal(t, tt.want, got, "active, %d days", tt.days)
	}

	// Neutral classification carries no label at all.
	assert.Empty(t, ClassifyUrgency(10, domain.SubscriptionStatusActive).Label)
}

func TestAdvanceBillingDateWeekly(t *testing.T) {
	got, err := AdvanceBillingDate("2024-03-15", domain.CycleWeekly)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-22", got)

	// Across a month boundary.
	got, err = AdvanceBillingDate("2024-01-28", domain.CycleWeekly)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-04", got)
}

func TestAdvanceBillingDateMonthly(t *testing.T) {
	tests := []struct {
		name    string
		current string
		want    string
	}{
		{"plain advance", "2024-03-10", "2024-04-10"},
		{"jan 31 clamps to leap feb", "2024-01-31", "2024-02-29"},
		{"jan 31 clamps to non-leap feb", "2023-01-31", "2023-02-28"},
		{"jan 30 clamps to non-leap feb", "2023-01-30", "2023-02-28"},
		{"mar 31 clamps to apr 30", "2024-03-31", "2024-04-30"},
		{"dec rolls into next year", "2024-12-15", "2025-01-15"},
		{"dec 31 to jan 31", "2024-12-31", "2025-01-31"},
		{"feb 29 keeps day when possible", "2024-02-29", "2024-03-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdvanceBillingDate(tt.current, domain.CycleMonthly)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A monthly advance must always land in the immediately following calendar
// month, whatever the source day-of-month.
func TestAdvanceBillingDateMonthlyNeverSkipsMonth(t *testing.T) {
	for year := 2023; year <= 2025; year++ {
		for month := time.January; month <= time.December; month++ {
			lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			for _, day := range []int{1, 15, 28, lastDay} {
				src := FormatDate(date(year, month, day))
				got, err := AdvanceBillingDate(src, domain.CycleMonthly)
				require.NoError(t, err)

				next, err := ParseDate(got)
				require.NoError(t, err)

				wantMonth := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
				assert.Equal(t, wantMonth.Year(), next.Year(), "source %s", src)
				assert.Equal(t, wantMonth.Month(), next.Month(), "source %s", src)
			}
		}
	}
}

func TestAdvanceBillingDateQuarterly(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"2024-01-15", "2024-04-15"},
		{"2024-11-30", "2025-02-28"},
		{"2023-11-30", "2024-02-29"},
		{"2024-03-31", "2024-06-30"},
	}

	for _, tt := range tests {
		got, err := AdvanceBillingDate(tt.current, domain.CycleQuarterly)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "source %s", tt.current)
	}
}

func TestAdvanceBillingDateYearly(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"2024-03-10", "2025-03-10"},
		{"2024-02-29", "2025-02-28"},
		{"2023-02-28", "2024-02-28"},
		{"2024-12-31", "2025-12-31"},
	}

	for _, tt := range tests {
		got, err := AdvanceBillingDate(tt.current, domain.CycleYearly)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "source %s", tt.current)
	}
}

func TestAdvanceBillingDateErrors(t *testing.T) {
	_, err := AdvanceBillingDate("2024-02-30", domain.CycleMonthly)
	assert.Error(t, err)

	_, err = AdvanceBillingDate("2024-02-10", domain.BillingCycle("biweekly"))
	assert.Error(t, err)
}
