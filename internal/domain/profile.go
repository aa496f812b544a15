package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the per-user record the alert scanner reads to resolve email
// recipients. Account creation and sessions are handled outside this service.
type Profile struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Email             string    `json:"email" db:"email"`
	PreferredCurrency Currency  `json:"preferred_currency" db:"preferred_currency"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
