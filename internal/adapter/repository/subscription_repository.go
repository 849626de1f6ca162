package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flowrise/billing-service/internal/domain/model"
	"github.com/flowrise/billing-service/internal/domain/repository"
)

type subscriptionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB, logger *zap.Logger) repository.SubscriptionRepository {
	return &subscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new subscription record
func (r *subscriptionRepository) Create(ctx context.Context, subscription *model.Subscription) error {
	err := r.db.WithContext(ctx).Create(subscription).Error
	if err != nil {
		r.logger.Error("Failed to save subscription",
			zap.String("stripe_subscription_id", subscription.StripeSubscriptionID),
			zap.Int64("user_id", subscription.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	return nil
}

// GetLatestByUserID retrieves the most recently created subscription for a user
func (r *subscriptionRepository) GetLatestByUserID(ctx context.Context, userID int64) (*model.Subscription, error) {
	var subscription model.Subscription

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&subscription).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get latest subscription",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return &subscription, nil
}

// UpdateStatusByStripeID updates status and billing period for the row
// mirroring the given Stripe subscription
func (r *subscriptionRepository) UpdateStatusByStripeID(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd *time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status": status,
	}
	if periodStart != nil {
		updates["current_period_start"] = periodStart
	}
	if periodEnd != nil {
		updates["current_period_end"] = periodEnd
	}

	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to update subscription status",
			zap.String("stripe_subscription_id", stripeSubscriptionID),
			zap.String("status", status),
			zap.Error(result.Error))
		return 0, fmt.Errorf("failed to update subscription: %w", result.Error)
	}

	return result.RowsAffected, nil
}
