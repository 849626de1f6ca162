package repository

import (
	"context"

	"github.com/flowrise/billing-service/internal/domain/model"
)

// UserRepository persists billing customer records.
type UserRepository interface {
	// GetByEmail returns the user with the exact stored email, or nil when
	// no such user exists.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID returns the user with the given ID, or nil when absent.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// Create inserts a new user record.
	Create(ctx context.Context, user *model.User) error

	// SetStripeCustomerID attaches a Stripe customer reference to an
	// existing user.
	SetStripeCustomerID(ctx context.Context, userID int64, customerID string) error
}
