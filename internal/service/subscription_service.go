package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/analytics"
	"github.com/Alicia-Alexia/sub-manager/internal/billing"
	"github.com/Alicia-Alexia/sub-manager/internal/currency"
	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/internal/kafka"
	"github.com/Alicia-Alexia/sub-manager/internal/metrics"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/google/uuid"
)

// DashboardItem is one subscription annotated with its urgency for display.
type DashboardItem struct {
	Subscription domain.Subscription `json:"subscription"`
	DaysUntilDue int                 `json:"days_until_due"`
	Urgency      billing.Urgency     `json:"urgency"`
}

// Dashboard is the full computed view for one user.
type Dashboard struct {
	Summary analytics.Summary  `json:"summary"`
	Items   []DashboardItem    `json:"items"`
	Rates   *currency.Snapshot `json:"rates,omitempty"`
}

// SubscriptionService orchestrates subscription CRUD, the mark-as-paid
// rollover and the dashboard computation.
type SubscriptionService interface {
	Create(ctx context.Context, userID uuid.UUID, req *domain.SubscriptionRequest) (*domain.Subscription, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error)
	Update(ctx context.Context, userID uuid.UUID, id int64, req *domain.SubscriptionRequest) (*domain.Subscription, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
	MarkPaid(ctx context.Context, userID uuid.UUID, id int64) (*domain.Subscription, error)
	GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

type subscriptionService struct {
	repo     repository.SubscriptionRepository
	catRepo  repository.CategoryRepository
	rates    currency.Source
	producer kafka.Producer
	metrics  metrics.BillingMetrics
	log      *logger.Logger
	now      func() time.Time
}

// NewSubscriptionService creates the subscription service. The producer may
// be nil when event publishing is disabled.
func NewSubscriptionService(
	repo repository.SubscriptionRepository,
	catRepo repository.CategoryRepository,
	rates currency.Source,
	producer kafka.Producer,
	billingMetrics metrics.BillingMetrics,
	log *logger.Logger,
) SubscriptionService {
	return &subscriptionService{
		repo:     repo,
		catRepo:  catRepo,
		rates:    rates,
		producer: producer,
		metrics:  billingMetrics,
		log:      log,
		now:      time.Now,
	}
}

// Create validates the request and persists a new subscription. The due
// date must be in the future; the category is resolved by name, created on
// first use.
func (s *subscriptionService) Create(ctx context.Context, userID uuid.UUID, req *domain.SubscriptionRequest) (*domain.Subscription, error) {
	now := s.now()

	days, err := billing.DaysUntilDue(req.NextBillingDate, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidData, err)
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: next billing date must be in the future", domain.ErrInvalidData)
	}

	status := domain.SubscriptionStatusActive
	if req.IsTrial {
		status = domain.SubscriptionStatusTrial
	}

	sub := &domain.Subscription{
		UserID:          userID,
		Name:            req.Name,
		Price:           req.Price,
		Currency:        req.Currency,
		BillingCycle:    req.BillingCycle,
		StartDate:       billing.FormatDate(billing.Midnight(now)),
		NextBillingDate: req.NextBillingDate,
		Status:          status,
		LogoURL:         req.LogoURL,
		WebsiteURL:      req.WebsiteURL,
	}

	if err := s.resolveCategory(ctx, userID, req.CategoryName, sub); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.metrics.IncSubscriptionCreated(string(sub.Currency))
	s.publish(ctx, kafka.TopicSubscriptionCreated, sub)

	s.log.Infow("Subscription created", "subscriptionID", sub.ID, "userID", userID, "name", sub.Name)
	return sub, nil
}

// GetByID returns one subscription scoped to its owner.
func (s *subscriptionService) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Subscription, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// ListByUser returns all of a user's subscriptions.
func (s *subscriptionService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update rewrites the editable fields of an existing subscription.
func (s *subscriptionService) Update(ctx context.Context, userID uuid.UUID, id int64, req *domain.SubscriptionRequest) (*domain.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if _, err := billing.ParseDate(req.NextBillingDate); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidData, err)
	}

	sub.Name = req.Name
	sub.Price = req.Price
	sub.Currency = req.Currency
	sub.BillingCycle = req.BillingCycle
	sub.NextBillingDate = req.NextBillingDate
	sub.LogoURL = req.LogoURL
	sub.WebsiteURL = req.WebsiteURL
	if req.IsTrial {
		sub.Status = domain.SubscriptionStatusTrial
	} else if sub.Status == domain.SubscriptionStatusTrial {
		sub.Status = domain.SubscriptionStatusActive
	}

	sub.Category = nil
	sub.CategoryID = nil
	if err := s.resolveCategory(ctx, userID, req.CategoryName, sub); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Infow("Subscription updated", "subscriptionID", sub.ID, "userID", userID)
	return sub, nil
}

// Delete removes a subscription and publishes the cancellation event.
func (s *subscriptionService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	sub, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publish(ctx, kafka.TopicSubscriptionCancelled, sub)
	s.log.Infow("Subscription deleted", "subscriptionID", id, "userID", userID)
	return nil
}

// MarkPaid rolls the due date forward one billing cycle. Cancelled
// subscriptions cannot be paid.
func (s *subscriptionService) MarkPaid(ctx context.Context, userID uuid.UUID, id int64) (*domain.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if sub.Status == domain.SubscriptionStatusCancelled {
		return nil, fmt.Errorf("%w: cannot mark a cancelled subscription as paid", domain.ErrInvalidOperation)
	}

	nextDate, err := billing.AdvanceBillingDate(sub.NextBillingDate, sub.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidData, err)
	}

	if err := s.repo.UpdateNextBillingDate(ctx, userID, id, nextDate); err != nil {
		return nil, err
	}
	sub.NextBillingDate = nextDate

	s.metrics.IncRollover(string(sub.BillingCycle))
	s.publish(ctx, kafka.TopicSubscriptionRenewed, sub)

	s.log.Infow("Billing date rolled over", "subscriptionID", id, "userID", userID, "nextDate", nextDate, "cycle", sub.BillingCycle)
	return sub, nil
}

// GetDashboard fetches the user's subscriptions once and computes the
// aggregated view from that snapshot.
func (s *subscriptionService) GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	subs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rates, err := s.rates.Current(ctx)
	if err != nil {
		// Rate trouble is never fatal to the dashboard.
		s.log.Warnw("Rate source unavailable, computing unconverted", "error", err)
		rates = nil
	}

	now := s.now()
	items := make([]DashboardItem, 0, len(subs))
	for _, sub := range subs {
		days, err := billing.DaysUntilDue(sub.NextBillingDate, now)
		if err != nil {
			return nil, fmt.Errorf("%w: subscription %d: %s", domain.ErrInvalidData, sub.ID, err)
		}
		items = append(items, DashboardItem{
			Subscription: sub,
			DaysUntilDue: days,
			Urgency:      billing.ClassifyUrgency(days, sub.Status),
		})
	}

	summary := analytics.Aggregate(subs, rates)
	s.metrics.ObserveMonthlySpend(summary.TotalMonthly)

	return &Dashboard{
		Summary: summary,
		Items:   items,
		Rates:   rates,
	}, nil
}

// resolveCategory attaches the named category to the subscription, creating
// it on first use. An empty name leaves the subscription uncategorized.
func (s *subscriptionService) resolveCategory(ctx context.Context, userID uuid.UUID, name string, sub *domain.Subscription) error {
	if name == "" {
		return nil
	}

	cat, err := s.catRepo.GetOrCreate(ctx, userID, name, "", "")
	if err != nil {
		if errors.Is(err, repository.ErrInvalidData) {
			return fmt.Errorf("%w: malformed category name", domain.ErrInvalidData)
		}
		return err
	}

	sub.CategoryID = &cat.ID
	sub.Category = cat
	return nil
}

// publish sends a lifecycle event when a producer is configured. Event
// publishing is best-effort and never fails the operation.
func (s *subscriptionService) publish(ctx context.Context, topic string, sub *domain.Subscription) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishSubscriptionEvent(ctx, topic, sub); err != nil {
		s.log.Warnw("Failed to publish subscription event", "error", err, "topic", topic, "subscriptionID", sub.ID)
	}
}
