package domain

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultCategoryColor is used when a category is created without one.
const DefaultCategoryColor = "#94a3b8"

// Category groups subscriptions for charts and budget matching. Names are
// unique per user; creation happens implicitly on first use of a name.
type Category struct {
	ID     int64     `json:"id" db:"id"`
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	Name   string    `json:"name" db:"name" validate:"required"`
	Color  string    `json:"color,omitempty" db:"color"`
	Icon   string    `json:"icon,omitempty" db:"icon"`
}

// Validate checks the row against the rules enforced at the storage boundary.
func (c *Category) Validate() error {
	if err := validate.Struct(c); err != nil {
		return invalidData(err)
	}
	return nil
}

// NormalizeCategoryName is the comparison key used wherever categories are
// matched by name rather than by ID (budget ceilings in particular).
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
