package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/flowrise/billing-service/internal/domain/model"
	"github.com/flowrise/billing-service/internal/domain/provider"
	"github.com/flowrise/billing-service/internal/domain/repository"
)

// providerCallTimeout bounds every remote billing provider call. A timeout
// surfaces as a provider error to the caller.
const providerCallTimeout = 5 * time.Second

// UserInfo is the identity collected alongside a payment method.
type UserInfo struct {
	Name  string
	Email string
	Phone string
}

// SavePaymentMethodResult reports the reconciled local and remote customer
// references.
type SavePaymentMethodResult struct {
	UserID           int64
	StripeCustomerID string
}

// PaymentMethodCheck is the outcome of a read-only payment method lookup.
// Found is false for unknown emails; that is not an error.
type PaymentMethodCheck struct {
	Found            bool
	HasPaymentMethod bool
	UserID           int64
	UserInfo         UserInfo
}

// PaymentMethodService reconciles local user records with Stripe customer
// records when a tokenized payment method is saved.
type PaymentMethodService struct {
	userRepo repository.UserRepository
	billing  provider.BillingProvider
	logger   *zap.Logger
}

// NewPaymentMethodService creates a new payment method service instance
func NewPaymentMethodService(
	userRepo repository.UserRepository,
	billing provider.BillingProvider,
	logger *zap.Logger,
) *PaymentMethodService {
	return &PaymentMethodService{
		userRepo: userRepo,
		billing:  billing,
		logger:   logger,
	}
}

// SavePaymentMethod stores paymentMethodID as the default payment method
// for the user identified by info.Email, creating the local user record and
// the Stripe customer as needed. The remote call always precedes local
// writes, so a failed provider call leaves no partial local state.
func (s *PaymentMethodService) SavePaymentMethod(ctx context.Context, info UserInfo, paymentMethodID string) (*SavePaymentMethodResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if user == nil {
		return s.createUserWithCustomer(ctx, info, paymentMethodID)
	}

	if user.HasPaymentMethod() {
		callCtx, cancel := context.WithTimeout(ctx, providerCallTimeout)
		defer cancel()

		if err := s.billing.UpdateDefaultPaymentMethod(callCtx, *user.StripeCustomerID, paymentMethodID); err != nil {
			return nil, err
		}

		s.logger.Info("default payment method updated",
			zap.Int64("user_id", user.ID),
			zap.String("stripe_customer_id", *user.StripeCustomerID))

		return &SavePaymentMethodResult{
			UserID:           user.ID,
			StripeCustomerID: *user.StripeCustomerID,
		}, nil
	}

	// Partial prior state: a local record exists but was never linked to a
	// Stripe customer. Create the customer and attach the reference.
	customer, err := s.createCustomer(ctx, info, paymentMethodID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetStripeCustomerID(ctx, user.ID, customer.ID); err != nil {
		return nil, fmt.Errorf("failed to attach stripe customer to user: %w", err)
	}

	s.logger.Info("stripe customer attached to existing user",
		zap.Int64("user_id", user.ID),
		zap.String("stripe_customer_id", customer.ID))

	return &SavePaymentMethodResult{
		UserID:           user.ID,
		StripeCustomerID: customer.ID,
	}, nil
}

// CheckPaymentMethod looks up payment method presence by email.
func (s *PaymentMethodService) CheckPaymentMethod(ctx context.Context, email string) (*PaymentMethodCheck, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if user == nil {
		return &PaymentMethodCheck{Found: false}, nil
	}

	return &PaymentMethodCheck{
		Found:            true,
		HasPaymentMethod: user.HasPaymentMethod(),
		UserID:           user.ID,
		UserInfo: UserInfo{
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
		},
	}, nil
}

func (s *PaymentMethodService) createUserWithCustomer(ctx context.Context, info UserInfo, paymentMethodID string) (*SavePaymentMethodResult, error) {
	customer, err := s.createCustomer(ctx, info, paymentMethodID)
	if err != nil {
		return nil, err
	}

	// This flow does not implement authentication, so the credential is an
	// unusable random placeholder.
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder credential: %w", err)
	}

	customerID := customer.ID
	user := &model.User{
		Name:             info.Name,
		Email:            info.Email,
		Phone:            info.Phone,
		PasswordHash:     string(passwordHash),
		StripeCustomerID: &customerID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Covers the concurrent first-save race: the unique index on email
		// rejects the second insert.
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created with stripe customer",
		zap.Int64("user_id", user.ID),
		zap.String("stripe_customer_id", customer.ID))

	return &SavePaymentMethodResult{
		UserID:           user.ID,
		StripeCustomerID: customer.ID,
	}, nil
}

func (s *PaymentMethodService) createCustomer(ctx context.Context, info UserInfo, paymentMethodID string) (*provider.Customer, error) {
	callCtx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	return s.billing.CreateCustomer(callCtx, &provider.CreateCustomerRequest{
		Name:            info.Name,
		Email:           info.Email,
		Phone:           info.Phone,
		PaymentMethodID: paymentMethodID,
	})
}
