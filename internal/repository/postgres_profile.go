package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// postgresProfileRepo implements ProfileRepository for PostgreSQL.
type postgresProfileRepo struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresProfileRepository creates the PostgreSQL-backed profile
// repository.
func NewPostgresProfileRepository(db *sqlx.DB, log *logger.Logger) ProfileRepository {
	return &postgresProfileRepo{
		db:  db,
		log: log,
	}
}

// GetByID returns the profile for one user.
func (r *postgresProfileRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := `
        SELECT id, COALESCE(email, '') AS email, preferred_currency, created_at
        FROM profiles
        WHERE id = $1`

	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnw("Profile not found", "userID", userID)
			return nil, ErrNotFound
		}
		r.log.Errorw("Failed to get profile from DB", "error", err, "userID", userID)
		return nil, fmt.Errorf("repository: failed to get profile: %w", err)
	}

	return &profile, nil
}
