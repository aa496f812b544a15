package notifier

import (
	"context"
	"sort"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/billing"
	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/internal/metrics"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scanner finds subscriptions due today or tomorrow and dispatches one
// notification per user through every configured channel.
type Scanner struct {
	subRepo     repository.SubscriptionRepository
	profileRepo repository.ProfileRepository
	channels    []Channel
	metrics     metrics.AlertMetrics
	log         *zap.SugaredLogger
	now         func() time.Time
}

// NewScanner creates a scanner over the given channels.
func NewScanner(
	subRepo repository.SubscriptionRepository,
	profileRepo repository.ProfileRepository,
	channels []Channel,
	alertMetrics metrics.AlertMetrics,
	log *zap.SugaredLogger,
) *Scanner {
	return &Scanner{
		subRepo:     subRepo,
		profileRepo: profileRepo,
		channels:    channels,
		metrics:     alertMetrics,
		log:         log,
		now:         time.Now,
	}
}

// Run executes one scan pass. Delivery failures are logged and counted but
// never abort the pass; the returned error covers the scan itself only.
func (s *Scanner) Run(ctx context.Context) error {
	subs, err := s.subRepo.ListByStatuses(ctx, []domain.SubscriptionStatus{
		domain.SubscriptionStatusActive,
		domain.SubscriptionStatusTrial,
	})
	if err != nil {
		return err
	}

	now := s.now()
	byUser := make(map[uuid.UUID][]DueItem)
	matches := 0
	for _, sub := range subs {
		days, err := billing.DaysUntilDue(sub.NextBillingDate, now)
		if err != nil {
			s.log.Warnw("Skipping subscription with malformed billing date",
				"subscriptionID", sub.ID, "date", sub.NextBillingDate, "error", err)
			continue
		}
		if days != 0 && days != 1 {
			continue
		}
		byUser[sub.UserID] = append(byUser[sub.UserID], DueItem{Subscription: sub, DaysUntilDue: days})
		matches++
	}
	s.metrics.IncScanMatches(matches)

	if matches == 0 {
		s.log.Infow("Scan complete, nothing due", "scanned", len(subs))
		return nil
	}

	userIDs := make([]uuid.UUID, 0, len(byUser))
	for userID := range byUser {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i].String() < userIDs[j].String() })

	for _, userID := range userIDs {
		s.dispatch(ctx, userID, byUser[userID])
	}

	s.log.Infow("Scan complete", "scanned", len(subs), "matched", matches, "users", len(byUser))
	return nil
}

func (s *Scanner) dispatch(ctx context.Context, userID uuid.UUID, items []DueItem) {
	notification := Notification{UserID: userID, Items: items}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		s.log.Warnw("Failed to load profile, notifying without email address",
			"userID", userID, "error", err)
	} else {
		notification.Email = profile.Email
	}

	for _, channel := range s.channels {
		if err := channel.Send(ctx, notification); err != nil {
			s.metrics.IncAlertFailed(channel.Name())
			s.log.Errorw("Failed to deliver notification",
				"channel", channel.Name(), "userID", userID, "error", err)
			continue
		}
		s.metrics.IncAlertSent(channel.Name())
		s.log.Infow("Notification delivered",
			"channel", channel.Name(), "userID", userID, "items", len(items))
	}
}
