package provider

import (
	"context"
)

// BillingProvider defines the payment processor operations this service
// consumes. The Stripe implementation lives in
// internal/infrastructure/provider/stripe; tests substitute fakes.
type BillingProvider interface {
	// CreateCustomer creates a remote customer with the given payment
	// method stored as the default for future invoices.
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*Customer, error)

	// UpdateDefaultPaymentMethod replaces the customer's default payment
	// method. Calling it twice with the same token is a no-op remotely.
	UpdateDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error

	// CreateSubscription creates a recurring subscription for the customer
	// against the given price, with deferred activation so the first charge
	// can require additional authentication.
	CreateSubscription(ctx context.Context, req *CreateSubscriptionRequest) (*Subscription, error)

	// Name returns the provider name.
	Name() string
}

// CreateCustomerRequest carries the identity and tokenized payment method
// for a new remote customer. PaymentMethodID is an opaque token; raw card
// data never reaches this service.
type CreateCustomerRequest struct {
	Name            string
	Email           string
	Phone           string
	PaymentMethodID string
}

// Customer is the provider's representation of a payer.
type Customer struct {
	ID string
}

// CreateSubscriptionRequest carries the inputs for a recurring subscription.
type CreateSubscriptionRequest struct {
	CustomerID string
	PriceID    string
}

// Subscription is the provider's subscription object reduced to the fields
// this service mirrors. Period boundaries are Unix seconds as reported by
// the provider.
type Subscription struct {
	ID                 string
	Status             string
	CurrentPeriodStart int64
	CurrentPeriodEnd   int64
}

// ProviderError is a request the provider rejected: API validation errors,
// rate limits, declined operations. Handlers map it to a client-correctable
// HTTP status; every other failure class is a server error.
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}
