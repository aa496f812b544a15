package repository

import (
	"context"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/google/uuid"
)

// SubscriptionRepository defines storage operations for subscriptions.
// Reads return the joined category when one is set.
type SubscriptionRepository interface {
	// Create persists a new subscription and fills in its generated ID.
	Create(ctx context.Context, sub *domain.Subscription) error

	// GetByID returns one subscription scoped to its owner.
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Subscription, error)

	// ListByUser returns all subscriptions owned by one user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error)

	// ListByStatuses returns subscriptions across all users whose status is
	// in the given set. Used by the alert scanner with service-level access.
	ListByStatuses(ctx context.Context, statuses []domain.SubscriptionStatus) ([]domain.Subscription, error)

	// Update rewrites the mutable fields of an existing subscription.
	Update(ctx context.Context, sub *domain.Subscription) error

	// UpdateNextBillingDate performs the mark-as-paid rollover write.
	UpdateNextBillingDate(ctx context.Context, userID uuid.UUID, id int64, nextDate string) error

	// Delete removes a subscription owned by the user.
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}
