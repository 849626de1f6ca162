package errors

import "errors"

var (
	// ErrUserNotFound indicates that the referenced user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrNoPaymentMethod indicates that the user has no saved payment method
	ErrNoPaymentMethod = errors.New("user has no saved payment method")

	// ErrNoSubscription indicates that the user has no subscription on record
	ErrNoSubscription = errors.New("no subscription found")

	// ErrPlanPriceMismatch indicates that the supplied price ID does not
	// belong to the selected plan
	ErrPlanPriceMismatch = errors.New("price ID does not match the selected plan")
)
