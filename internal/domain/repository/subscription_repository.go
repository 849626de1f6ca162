package repository

import (
	"context"
	"time"

	"github.com/flowrise/billing-service/internal/domain/model"
)

// SubscriptionRepository persists local mirrors of Stripe subscriptions.
type SubscriptionRepository interface {
	// Create inserts a new subscription record.
	Create(ctx context.Context, subscription *model.Subscription) error

	// GetLatestByUserID returns the most recently created subscription for
	// the user, or nil when the user has none.
	GetLatestByUserID(ctx context.Context, userID int64) (*model.Subscription, error)

	// UpdateStatusByStripeID updates status and billing period for the row
	// mirroring the given Stripe subscription. Returns the number of rows
	// touched so callers can detect events for subscriptions this service
	// never recorded.
	UpdateStatusByStripeID(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd *time.Time) (int64, error)
}
