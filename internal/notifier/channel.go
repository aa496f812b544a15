package notifier

import (
	"context"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/google/uuid"
)

// DueItem is one subscription that is due today or tomorrow.
type DueItem struct {
	Subscription domain.Subscription
	DaysUntilDue int
}

// Notification is the batch of due subscriptions for one user, delivered
// through every configured channel.
type Notification struct {
	UserID uuid.UUID
	Email  string
	Items  []DueItem
}

// Channel delivers a notification over one transport.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}
