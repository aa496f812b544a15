package repository

import (
	"context"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/google/uuid"
)

// CachedSubscriptionRepository decorates a SubscriptionRepository with a
// Redis read-through cache. Cache failures never fail the operation; the
// call falls through to the underlying store.
type CachedSubscriptionRepository struct {
	repo  SubscriptionRepository
	cache *RedisCacheRepository
	log   *logger.Logger
}

// NewCachedSubscriptionRepository creates a caching subscription repository.
func NewCachedSubscriptionRepository(
	repo SubscriptionRepository,
	cache *RedisCacheRepository,
	log *logger.Logger,
) SubscriptionRepository {
	return &CachedSubscriptionRepository{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create stores the subscription and invalidates the owner's cached list.
func (r *CachedSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	if err := r.repo.Create(ctx, sub); err != nil {
		return err
	}

	if err := r.cache.CacheSubscription(ctx, sub); err != nil {
		r.log.Warnw("Failed to cache subscription after creation", "error", err, "subscriptionID", sub.ID)
	}
	if err := r.cache.InvalidateUserSubscriptionsCache(ctx, sub.UserID); err != nil {
		r.log.Warnw("Failed to invalidate user subscriptions cache", "error", err, "userID", sub.UserID)
	}

	return nil
}

// GetByID reads from the cache first, falling back to the store.
func (r *CachedSubscriptionRepository) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Subscription, error) {
	cached, err := r.cache.GetCachedSubscription(ctx, userID, id)
	if err != nil {
		r.log.Warnw("Error getting subscription from cache", "error", err, "subscriptionID", id)
	}
	if cached != nil {
		return cached, nil
	}

	sub, err := r.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.CacheSubscription(ctx, sub); err != nil {
		r.log.Warnw("Failed to cache subscription after fetching", "error", err, "subscriptionID", id)
	}

	return sub, nil
}

// ListByUser reads the user's list from the cache first, falling back to
// the store.
func (r *CachedSubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error) {
	cached, err := r.cache.GetCachedUserSubscriptions(ctx, userID)
	if err != nil {
		r.log.Warnw("Error getting user subscriptions from cache", "error", err, "userID", userID)
	}
	if cached != nil {
		return cached, nil
	}

	subs, err := r.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.CacheUserSubscriptions(ctx, userID, subs); err != nil {
		r.log.Warnw("Failed to cache user subscriptions", "error", err, "userID", userID)
	}

	return subs, nil
}

// ListByStatuses always hits the store: the alert scanner wants a fresh
// cross-user view on every run.
func (r *CachedSubscriptionRepository) ListByStatuses(ctx context.Context, statuses []domain.SubscriptionStatus) ([]domain.Subscription, error) {
	return r.repo.ListByStatuses(ctx, statuses)
}

// Update rewrites the subscription and refreshes the cache.
func (r *CachedSubscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	if err := r.repo.Update(ctx, sub); err != nil {
		return err
	}

	if err := r.cache.CacheSubscription(ctx, sub); err != nil {
		r.log.Warnw("Failed to update subscription in cache", "error", err, "subscriptionID", sub.ID)
	}
	if err := r.cache.InvalidateUserSubscriptionsCache(ctx, sub.UserID); err != nil {
		r.log.Warnw("Failed to invalidate user subscriptions cache after update", "error", err, "userID", sub.UserID)
	}

	return nil
}

// UpdateNextBillingDate rolls the billing date over and drops the stale
// cache entries.
func (r *CachedSubscriptionRepository) UpdateNextBillingDate(ctx context.Context, userID uuid.UUID, id int64, nextDate string) error {
	if err := r.repo.UpdateNextBillingDate(ctx, userID, id, nextDate); err != nil {
		return err
	}

	if err := r.cache.DeleteCachedSubscription(ctx, userID, id); err != nil {
		r.log.Warnw("Failed to drop subscription from cache after rollover", "error", err, "subscriptionID", id)
	}
	if err := r.cache.InvalidateUserSubscriptionsCache(ctx, userID); err != nil {
		r.log.Warnw("Failed to invalidate user subscriptions cache after rollover", "error", err, "userID", userID)
	}

	return nil
}

// Delete removes the subscription and drops its cache entries.
func (r *CachedSubscriptionRepository) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := r.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	if err := r.cache.DeleteCachedSubscription(ctx, userID, id); err != nil {
		r.log.Warnw("Failed to drop subscription from cache after delete", "error", err, "subscriptionID", id)
	}
	if err := r.cache.InvalidateUserSubscriptionsCache(ctx, userID); err != nil {
		r.log.Warnw("Failed to invalidate user subscriptions cache after delete", "error", err, "userID", userID)
	}

	return nil
}
