package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// postgresCategoryRepo implements CategoryRepository for PostgreSQL.
type postgresCategoryRepo struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresCategoryRepository creates the PostgreSQL-backed category
// repository.
func NewPostgresCategoryRepository(db *sqlx.DB, log *logger.Logger) CategoryRepository {
	return &postgresCategoryRepo{
		db:  db,
		log: log,
	}
}

// GetOrCreate upserts the category by (user_id, name). The DO UPDATE arm is
// a no-op rewrite of the name so the RETURNING clause yields the existing
// row on conflict.
func (r *postgresCategoryRepo) GetOrCreate(ctx context.Context, userID uuid.UUID, name, color, icon string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty category name", ErrInvalidData)
	}
	if color == "" {
		color = domain.DefaultCategoryColor
	}

	var cat domain.Category
	query := `
        INSERT INTO categories (user_id, name, color, icon)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, user_id, name, COALESCE(color, '') AS color, COALESCE(icon, '') AS icon`

	err := r.db.GetContext(ctx, &cat, query, userID, name, color, nullable(icon))
	if err != nil {
		r.log.Errorw("Failed to get-or-create category in DB", "error", err, "userID", userID, "name", name)
		return nil, fmt.Errorf("repository: failed to get-or-create category: %w", err)
	}

	r.log.Debugw("Resolved category", "categoryID", cat.ID, "name", cat.Name, "userID", userID)
	return &cat, nil
}

// ListByUser returns all categories owned by one user.
func (r *postgresCategoryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	var cats []domain.Category
	query := `
        SELECT id, user_id, name, COALESCE(color, '') AS color, COALESCE(icon, '') AS icon
        FROM categories
        WHERE user_id = $1
        ORDER BY name ASC`

	err := r.db.SelectContext(ctx, &cats, query, userID)
	if err != nil {
		r.log.Errorw("Failed to list categories from DB", "error", err, "userID", userID)
		return nil, fmt.Errorf("repository: failed to list categories: %w", err)
	}

	return cats, nil
}
