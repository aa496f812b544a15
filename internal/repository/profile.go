package repository

import (
	"context"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/google/uuid"
)

// ProfileRepository reads user profiles. The alert scanner uses it to
// resolve email recipients; profile creation lives with the auth provider.
type ProfileRepository interface {
	// GetByID returns the profile for one user.
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
}
