package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/flowrise/billing-service/internal/domain/errors"
	"github.com/flowrise/billing-service/internal/domain/model"
	"github.com/flowrise/billing-service/internal/domain/plan"
	"github.com/flowrise/billing-service/internal/domain/provider"
	"github.com/flowrise/billing-service/internal/domain/repository"
)

// SubscribeResult reports the created local and remote subscription
// references. Status is the provider's status string, passed through
// verbatim.
type SubscribeResult struct {
	SubscriptionID       int64
	StripeSubscriptionID string
	Status               string
}

// SubscriptionService creates recurring Stripe subscriptions from plan
// selections and answers subscription status queries.
type SubscriptionService struct {
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	billing          provider.BillingProvider
	catalog          *plan.Catalog
	logger           *zap.Logger
}

// NewSubscriptionService creates a new subscription service instance
func NewSubscriptionService(
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	billing provider.BillingProvider,
	catalog *plan.Catalog,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		billing:          billing,
		catalog:          catalog,
		logger:           logger,
	}
}

// Subscribe creates a Stripe subscription for the user's stored payment
// method and mirrors it locally. The user must have saved a payment method
// first; no customer is auto-provisioned here.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID int64, planName, priceID string) (*SubscribeResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domainErrors.ErrUserNotFound
	}
	if !user.HasPaymentMethod() {
		return nil, domainErrors.ErrNoPaymentMethod
	}

	if !s.catalog.ValidPriceID(planName, priceID) {
		return nil, domainErrors.ErrPlanPriceMismatch
	}

	amount := s.catalog.Amount(planName)

	callCtx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	remote, err := s.billing.CreateSubscription(callCtx, &provider.CreateSubscriptionRequest{
		CustomerID: *user.StripeCustomerID,
		PriceID:    priceID,
	})
	if err != nil {
		return nil, err
	}

	subscription := &model.Subscription{
		UserID:               user.ID,
		StripeSubscriptionID: remote.ID,
		StripePriceID:        priceID,
		PlanName:             planName,
		Amount:               amount,
		Status:               remote.Status,
		CurrentPeriodStart:   unixToTime(remote.CurrentPeriodStart),
		CurrentPeriodEnd:     unixToTime(remote.CurrentPeriodEnd),
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		// The Stripe subscription exists but has no local record. Logged
		// distinctly so the pair can be reconciled by hand.
		s.logger.Error("stripe subscription created but local record could not be persisted; manual reconciliation required",
			zap.String("stripe_subscription_id", remote.ID),
			zap.Int64("user_id", user.ID),
			zap.String("plan_name", planName),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Info("subscription created",
		zap.Int64("subscription_id", subscription.ID),
		zap.String("stripe_subscription_id", remote.ID),
		zap.Int64("user_id", user.ID),
		zap.String("plan_name", planName),
		zap.String("status", remote.Status))

	return &SubscribeResult{
		SubscriptionID:       subscription.ID,
		StripeSubscriptionID: remote.ID,
		Status:               remote.Status,
	}, nil
}

// Status returns the user's most recently created subscription. A user with
// no subscriptions yields ErrNoSubscription, distinct from lookup failures.
func (s *SubscriptionService) Status(ctx context.Context, userID int64) (*model.Subscription, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domainErrors.ErrUserNotFound
	}

	subscription, err := s.subscriptionRepo.GetLatestByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up subscription: %w", err)
	}
	if subscription == nil {
		return nil, domainErrors.ErrNoSubscription
	}

	return subscription, nil
}

func unixToTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
