package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for the cached record types
	subscriptionKeyPrefix      = "subscription:"
	userSubscriptionsKeyPrefix = "user_subscriptions:"

	// TTL for cached entries
	defaultCacheTTL = 15 * time.Minute
)

// RedisCacheRepository implements read-through caching for repositories
// using Redis.
type RedisCacheRepository struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCacheRepository creates a new Redis cache repository.
func NewRedisCacheRepository(redisAddr, redisPassword string, redisDB int, log *logger.Logger) (*RedisCacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorw("Failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Connected to Redis successfully", "addr", redisAddr)
	return &RedisCacheRepository{
		client: client,
		log:    log,
	}, nil
}

// Close closes the Redis connection.
func (r *RedisCacheRepository) Close() error {
	return r.client.Close()
}

func subscriptionKey(userID uuid.UUID, id int64) string {
	return fmt.Sprintf("%s%s:%d", subscriptionKeyPrefix, userID, id)
}

func userSubscriptionsKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s%s", userSubscriptionsKeyPrefix, userID)
}

// CacheSubscription stores one subscription in Redis.
func (r *RedisCacheRepository) CacheSubscription(ctx context.Context, sub *domain.Subscription) error {
	key := subscriptionKey(sub.UserID, sub.ID)

	data, err := json.Marshal(sub)
	if err != nil {
		r.log.Errorw("Failed to marshal subscription for caching", "error", err, "subscriptionID", sub.ID)
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}

	if err := r.client.Set(ctx, key, data, defaultCacheTTL).Err(); err != nil {
		r.log.Errorw("Failed to cache subscription in Redis", "error", err, "subscriptionID", sub.ID)
		return fmt.Errorf("failed to cache subscription: %w", err)
	}

	r.log.Debugw("Subscription cached successfully", "subscriptionID", sub.ID)
	return nil
}

// GetCachedSubscription reads one subscription from the cache. A cache miss
// returns (nil, nil).
func (r *RedisCacheRepository) GetCachedSubscription(ctx context.Context, userID uuid.UUID, id int64) (*domain.Subscription, error) {
	data, err := r.client.Get(ctx, subscriptionKey(userID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.log.Errorw("Error getting subscription from Redis", "error", err, "subscriptionID", id)
		return nil, fmt.Errorf("failed to get subscription from cache: %w", err)
	}

	var sub domain.Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		r.log.Errorw("Failed to unmarshal cached subscription", "error", err, "subscriptionID", id)
		return nil, fmt.Errorf("failed to unmarshal cached subscription: %w", err)
	}

	return &sub, nil
}

// DeleteCachedSubscription removes one subscription from the cache.
func (r *RedisCacheRepository) DeleteCachedSubscription(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := r.client.Del(ctx, subscriptionKey(userID, id)).Err(); err != nil {
		r.log.Errorw("Failed to delete subscription from cache", "error", err, "subscriptionID", id)
		return fmt.Errorf("failed to delete subscription from cache: %w", err)
	}
	return nil
}

// CacheUserSubscriptions stores a user's subscription list.
func (r *RedisCacheRepository) CacheUserSubscriptions(ctx context.Context, userID uuid.UUID, subs []domain.Subscription) error {
	data, err := json.Marshal(subs)
	if err != nil {
		r.log.Errorw("Failed to marshal user subscriptions for caching", "error", err, "userID", userID)
		return fmt.Errorf("failed to marshal user subscriptions: %w", err)
	}

	if err := r.client.Set(ctx, userSubscriptionsKey(userID), data, defaultCacheTTL).Err(); err != nil {
		r.log.Errorw("Failed to cache user subscriptions in Redis", "error", err, "userID", userID)
		return fmt.Errorf("failed to cache user subscriptions: %w", err)
	}

	r.log.Debugw("User subscriptions cached successfully", "userID", userID, "count", len(subs))
	return nil
}

// GetCachedUserSubscriptions reads a user's subscription list from the
// cache. A cache miss returns (nil, nil).
func (r *RedisCacheRepository) GetCachedUserSubscriptions(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error) {
	data, err := r.client.Get(ctx, userSubscriptionsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.log.Errorw("Error getting user subscriptions from Redis", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to get user subscriptions from cache: %w", err)
	}

	var subs []domain.Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		r.log.Errorw("Failed to unmarshal cached user subscriptions", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to unmarshal cached user subscriptions: %w", err)
	}

	return subs, nil
}

// InvalidateUserSubscriptionsCache drops a user's cached subscription list.
func (r *RedisCacheRepository) InvalidateUserSubscriptionsCache(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, userSubscriptionsKey(userID)).Err(); err != nil {
		r.log.Errorw("Failed to invalidate user subscriptions cache", "error", err, "userID", userID)
		return fmt.Errorf("failed to invalidate user subscriptions cache: %w", err)
	}

	r.log.Debugw("User subscriptions cache invalidated", "userID", userID)
	return nil
}
