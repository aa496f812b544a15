package repository

import (
	"context"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/google/uuid"
)

// BudgetRepository defines storage operations for budget ceilings.
type BudgetRepository interface {
	// Upsert inserts or replaces the budget for (user, category) and fills
	// in the stored ID. At most one budget exists per pair.
	Upsert(ctx context.Context, budget *domain.Budget) error

	// ListByUser returns all budgets owned by one user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Budget, error)

	// Delete removes a budget owned by the user.
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}
