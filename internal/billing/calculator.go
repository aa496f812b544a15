// Package billing holds the pure date arithmetic behind due-date display,
// alert matching and the mark-as-paid rollover. Everything here works on
// calendar days: dates are parsed by components and pinned to midnight UTC,
// so the math never shifts with the host timezone or DST.
package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
)

// Severity grades how urgently a subscription needs attention.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityCaution  Severity = "caution"
	SeverityInfo     Severity = "info"
	SeverityNeutral  Severity = "neutral"
)

// Urgency is the display classification for one subscription.
// Label is empty for the neutral case.
type Urgency struct {
	Severity Severity `json:"severity"`
	Label    string   `json:"label,omitempty"`
}

// ParseDate parses a YYYY-MM-DD calendar date into midnight UTC. It reads
// the components directly instead of time.Parse so an out-of-range day
// (2024-02-30) is rejected rather than normalized.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", s)
	}

	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", s)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", s)
	}
	return t, nil
}

// FormatDate renders a date back into the YYYY-MM-DD wire format.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// Midnight strips the time component, keeping the calendar day of t.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntilDue returns how many whole calendar days remain until dateStr,
// measured from the calendar day of today. Negative means overdue, zero
// means due today.
func DaysUntilDue(dateStr string, today time.Time) (int, error) {
	due, err := ParseDate(dateStr)
	if err != nil {
		return 0, err
	}
	diff := due.Sub(Midnight(today))
	return int(diff / (24 * time.Hour)), nil
}

// ClassifyUrgency maps (status, days-until-due) onto a display label. The
// thresholds are fixed business rules: trials get a 2-day cancellation
// window, billable subscriptions a 3-day due-soon window.
func ClassifyUrgency(days int, status domain.SubscriptionStatus) Urgency {
	if status == domain.SubscriptionStatusTrial {
		switch {
		case days < 0:
			return Urgency{SeverityCritical, "trial expired"}
		case days == 0:
			return Urgency{SeverityCritical, "cancel today"}
		case days <= 2:
			return Urgency{SeverityWarning, "cancel soon"}
		default:
			return Urgency{SeverityInfo, "in trial"}
		}
	}

	switch {
	case days < 0:
		return Urgency{SeverityCritical, "overdue"}
	case days == 0:
		return Urgency{SeverityWarning, "due today"}
	case days <= 3:
		return Urgency{SeverityCaution, "due soon"}
	default:
		return Urgency{Severity: SeverityNeutral}
	}
}

// AdvanceBillingDate computes the next occurrence of a due date after it is
// paid. Monthly and quarterly advances keep the day-of-month, clamping to
// the last day of the target month when it is shorter (Jan 31 -> Feb 28/29).
// Yearly advances clamp Feb 29 to Feb 28 on non-leap years.
func AdvanceBillingDate(dateStr string, cycle domain.BillingCycle) (string, error) {
	current, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}

	var next time.Time
	switch cycle {
	case domain.CycleWeekly:
		next = current.AddDate(0, 0, 7)
	case domain.CycleMonthly:
		next = addMonthsClamped(current, 1)
	case domain.CycleQuarterly:
		next = addMonthsClamped(current, 3)
	case domain.CycleYearly:
		next = addMonthsClamped(current, 12)
	default:
		return "", fmt.Errorf("unknown billing cycle: %s", cycle)
	}

	return FormatDate(next), nil
}

// addMonthsClamped moves t forward by the given number of months without
// letting short months overflow into the following one. time.AddDate would
// turn Jan 31 + 1 month into Mar 2/3; here it becomes the last day of
// February.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()

	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the following month is the last day of the target month.
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if d > lastDay {
		d = lastDay
	}

	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}
