package repository

import (
	"context"
	"fmt"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// postgresBudgetRepo implements BudgetRepository for PostgreSQL.
type postgresBudgetRepo struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresBudgetRepository creates the PostgreSQL-backed budget
// repository.
func NewPostgresBudgetRepository(db *sqlx.DB, log *logger.Logger) BudgetRepository {
	return &postgresBudgetRepo{
		db:  db,
		log: log,
	}
}

// Upsert inserts or replaces the ceiling for (user, category). The conflict
// target keeps a single budget per pair; on conflict only the limit changes
// and the original row ID survives.
func (r *postgresBudgetRepo) Upsert(ctx context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}

	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}

	query := `
        INSERT INTO budgets (id, user_id, category, limit_amount)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, category) DO UPDATE SET limit_amount = EXCLUDED.limit_amount
        RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, budget.ID, budget.UserID, budget.Category, budget.LimitAmount).
		Scan(&budget.ID, &budget.CreatedAt)
	if err != nil {
		r.log.Errorw("Failed to upsert budget in DB", "error", err, "userID", budget.UserID, "category", budget.Category)
		return fmt.Errorf("repository: failed to upsert budget: %w", err)
	}

	r.log.Debugw("Upserted budget", "budgetID", budget.ID, "category", budget.Category, "limit", budget.LimitAmount)
	return nil
}

// ListByUser returns all budgets owned by one user.
func (r *postgresBudgetRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Budget, error) {
	var budgets []domain.Budget
	query := `
        SELECT id, user_id, category, limit_amount, created_at
        FROM budgets
        WHERE user_id = $1
        ORDER BY category ASC`

	err := r.db.SelectContext(ctx, &budgets, query, userID)
	if err != nil {
		r.log.Errorw("Failed to list budgets from DB", "error", err, "userID", userID)
		return nil, fmt.Errorf("repository: failed to list budgets: %w", err)
	}

	return budgets, nil
}

// Delete removes a budget owned by the user.
func (r *postgresBudgetRepo) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		r.log.Errorw("Failed to delete budget from DB", "error", err, "budgetID", id)
		return fmt.Errorf("repository: failed to delete budget: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Debugw("Deleted budget from DB", "budgetID", id, "userID", userID)
	return nil
}
