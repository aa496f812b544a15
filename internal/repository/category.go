package repository

import (
	"context"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/google/uuid"
)

// CategoryRepository defines storage operations for categories. Categories
// come into existence implicitly: the first use of a name creates the row,
// later uses reuse it (unique on user_id + name).
type CategoryRepository interface {
	// GetOrCreate returns the category with the given name for the user,
	// creating it with the given color and icon when it does not exist yet.
	GetOrCreate(ctx context.Context, userID uuid.UUID, name, color, icon string) (*domain.Category, error)

	// ListByUser returns all categories owned by one user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error)
}
