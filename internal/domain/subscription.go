package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Valid reports whether s is a status this system writes.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusTrial, SubscriptionStatusCancelled:
		return true
	}
	return false
}

// Billable reports whether the subscription still costs money.
func (s SubscriptionStatus) Billable() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrial
}

// BillingCycle is how often a subscription renews.
type BillingCycle string

const (
	CycleWeekly    BillingCycle = "weekly"
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
)

// Valid reports whether c is one of the four supported cycles.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleWeekly, CycleMonthly, CycleQuarterly, CycleYearly:
		return true
	}
	return false
}

// Currency is one of the supported price currencies. BRL is the base
// currency every figure is normalized into.
type Currency string

const (
	CurrencyBRL Currency = "BRL"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// Valid reports whether cur is a supported currency.
func (cur Currency) Valid() bool {
	switch cur {
	case CurrencyBRL, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// DateLayout is the wire format for calendar dates. Billing dates carry no
// time component and must never pass through a timezone-sensitive parse.
const DateLayout = "2006-01-02"

// Subscription is a recurring expense owned by a single user.
type Subscription struct {
	ID              int64              `json:"id" db:"id"`
	UserID          uuid.UUID          `json:"user_id" db:"user_id"`
	Name            string             `json:"name" db:"name" validate:"required,min=2"`
	Price           float64            `json:"price" db:"price" validate:"gte=0"`
	Currency        Currency           `json:"currency" db:"currency" validate:"oneof=BRL USD EUR"`
	BillingCycle    BillingCycle       `json:"billing_cycle" db:"billing_cycle" validate:"oneof=weekly monthly quarterly yearly"`
	StartDate       string             `json:"start_date" db:"start_date" validate:"required,datetime=2006-01-02"`
	NextBillingDate string             `json:"next_billing_date" db:"next_billing_date" validate:"required,datetime=2006-01-02"`
	Status          SubscriptionStatus `json:"status" db:"status" validate:"oneof=active trial cancelled"`
	CategoryID      *int64             `json:"category_id,omitempty" db:"category_id"`
	LogoURL         string             `json:"logo_url,omitempty" db:"logo_url"`
	WebsiteURL      string             `json:"website_url,omitempty" db:"website_url"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" db:"updated_at"`

	// Category is populated by joined reads; nil when uncategorized.
	Category *Category `json:"category,omitempty" db:"-"`
}

// CategoryName returns the joined category name, or "" when unset.
func (s *Subscription) CategoryName() string {
	if s.Category == nil {
		return ""
	}
	return s.Category.Name
}

// Validate checks the row against the rules enforced at the storage boundary.
func (s *Subscription) Validate() error {
	if err := validate.Struct(s); err != nil {
		return invalidData(err)
	}
	return nil
}

// SubscriptionRequest is the payload for creating or updating a subscription.
type SubscriptionRequest struct {
	Name            string       `json:"name" binding:"required,min=2"`
	Price           float64      `json:"price" binding:"required,gt=0"`
	Currency        Currency     `json:"currency" binding:"required,oneof=BRL USD EUR"`
	BillingCycle    BillingCycle `json:"billing_cycle" binding:"required,oneof=weekly monthly quarterly yearly"`
	NextBillingDate string       `json:"next_billing_date" binding:"required,datetime=2006-01-02"`
	CategoryName    string       `json:"category_name,omitempty"`
	IsTrial         bool         `json:"is_trial,omitempty"`
	LogoURL         string       `json:"logo_url,omitempty"`
	WebsiteURL      string       `json:"website_url,omitempty"`
}
