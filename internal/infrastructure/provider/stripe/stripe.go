package stripe

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	"github.com/flowrise/billing-service/internal/domain/provider"
)

// Provider implements provider.BillingProvider against the Stripe API. The
// client is injected rather than configured through the package-global key
// so tests can point it at a fake backend.
type Provider struct {
	api    *client.API
	logger *zap.Logger
}

// NewProvider creates a Stripe-backed billing provider.
func NewProvider(api *client.API, logger *zap.Logger) *Provider {
	return &Provider{
		api:    api,
		logger: logger,
	}
}

// NewClient builds a Stripe API client for the given secret key.
func NewClient(secretKey string) *client.API {
	api := &client.API{}
	api.Init(secretKey, nil)
	return api
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "stripe"
}

// CreateCustomer creates a Stripe customer with the payment method stored
// as the default for future invoices.
func (p *Provider) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (*provider.Customer, error) {
	params := &stripe.CustomerParams{
		Name:          stripe.String(req.Name),
		Email:         stripe.String(req.Email),
		Phone:         stripe.String(req.Phone),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(req.PaymentMethodID),
		},
	}
	params.Context = ctx

	customer, err := p.api.Customers.New(params)
	if err != nil {
		p.logger.Error("stripe customer create failed",
			zap.String("email", req.Email),
			zap.Error(err))
		return nil, p.wrapErr("create customer", err)
	}

	p.logger.Info("stripe customer created",
		zap.String("customer_id", customer.ID),
		zap.String("email", req.Email))

	return &provider.Customer{ID: customer.ID}, nil
}

// UpdateDefaultPaymentMethod replaces the customer's default payment
// method. Repeating the call with the same token is a no-op at Stripe.
func (p *Provider) UpdateDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx

	if _, err := p.api.Customers.Update(customerID, params); err != nil {
		p.logger.Error("stripe customer update failed",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return p.wrapErr("update customer", err)
	}

	return nil
}

// CreateSubscription creates a recurring subscription in the incomplete
// state so the first invoice's payment can require additional
// authentication, and saves the confirming payment method as the default
// for future invoices.
func (p *Provider) CreateSubscription(ctx context.Context, req *provider.CreateSubscriptionRequest) (*provider.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(req.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price: stripe.String(req.PriceID),
			},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
		Expand: stripe.StringSlice([]string{
			"latest_invoice.payment_intent",
		}),
	}
	params.Context = ctx

	sub, err := p.api.Subscriptions.New(params)
	if err != nil {
		p.logger.Error("stripe subscription create failed",
			zap.String("customer_id", req.CustomerID),
			zap.String("price_id", req.PriceID),
			zap.Error(err))
		return nil, p.wrapErr("create subscription", err)
	}

	p.logger.Info("stripe subscription created",
		zap.String("subscription_id", sub.ID),
		zap.String("customer_id", req.CustomerID),
		zap.String("status", string(sub.Status)))

	return &provider.Subscription{
		ID:                 sub.ID,
		Status:             string(sub.Status),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
	}, nil
}

// wrapErr converts Stripe API rejections and call timeouts into provider
// errors. Anything else keeps the generic error class.
func (p *Provider) wrapErr(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &provider.ProviderError{
			Code:    string(stripeErr.Code),
			Message: stripeErr.Msg,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &provider.ProviderError{
			Code:    "timeout",
			Message: fmt.Sprintf("stripe %s timed out", op),
		}
	}
	return fmt.Errorf("stripe %s failed: %w", op, err)
}
