package domain

import (
	"time"

	"github.com/google/uuid"
)

// Budget is a monthly spend ceiling for one category. The category field is
// free text, matched case-insensitively against subscription category names;
// at most one budget exists per (user, category) pair.
type Budget struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Category    string    `json:"category" db:"category" validate:"required"`
	LimitAmount float64   `json:"limit_amount" db:"limit_amount" validate:"gt=0"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Validate checks the row against the rules enforced at the storage boundary.
func (b *Budget) Validate() error {
	if err := validate.Struct(b); err != nil {
		return invalidData(err)
	}
	return nil
}

// BudgetRequest is the payload for upserting a budget ceiling.
type BudgetRequest struct {
	Category    string  `json:"category" binding:"required"`
	LimitAmount float64 `json:"limit_amount" binding:"required,gt=0"`
}
