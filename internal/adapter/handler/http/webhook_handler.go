package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"github.com/flowrise/billing-service/internal/domain/repository"
)

// WebhookHandler keeps local subscription rows in sync with Stripe's
// lifecycle events. Events for subscriptions this service never recorded
// are acknowledged and logged.
type WebhookHandler struct {
	logger           *zap.Logger
	webhookSecret    string
	subscriptionRepo repository.SubscriptionRepository
}

func NewWebhookHandler(logger *zap.Logger, webhookSecret string, subscriptionRepo repository.SubscriptionRepository) *WebhookHandler {
	return &WebhookHandler{
		logger:           logger,
		webhookSecret:    webhookSecret,
		subscriptionRepo: subscriptionRepo,
	}
}

// HandleWebhook handles POST /webhook
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("error reading webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(
		body,
		sig,
		h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		h.logger.Error("webhook signature verification failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Webhook signature verification failed",
		})
	}

	h.logger.Info("webhook event received",
		zap.String("type", string(event.Type)),
		zap.String("id", event.ID),
		zap.Time("created", time.Unix(event.Created, 0)))

	switch event.Type {
	case stripe.EventTypeCustomerSubscriptionUpdated:
		return h.syncSubscription(c, event)

	case stripe.EventTypeCustomerSubscriptionDeleted:
		return h.syncSubscription(c, event)

	default:
		h.logger.Debug("unhandled event type", zap.String("type", string(event.Type)))
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

func (h *WebhookHandler) syncSubscription(c echo.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		h.logger.Error("error parsing subscription event", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error parsing webhook"})
	}

	var periodStart, periodEnd *time.Time
	if sub.CurrentPeriodStart > 0 {
		t := time.Unix(sub.CurrentPeriodStart, 0).UTC()
		periodStart = &t
	}
	if sub.CurrentPeriodEnd > 0 {
		t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		periodEnd = &t
	}

	rows, err := h.subscriptionRepo.UpdateStatusByStripeID(
		c.Request().Context(),
		sub.ID,
		string(sub.Status),
		periodStart,
		periodEnd,
	)
	if err != nil {
		h.logger.Error("failed to sync subscription from webhook",
			zap.String("stripe_subscription_id", sub.ID),
			zap.Error(err))
		// Stripe retries on non-2xx; let it.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update subscription"})
	}

	if rows == 0 {
		h.logger.Warn("webhook for unknown subscription",
			zap.String("stripe_subscription_id", sub.ID),
			zap.String("status", string(sub.Status)))
	} else {
		h.logger.Info("subscription synced from webhook",
			zap.String("stripe_subscription_id", sub.ID),
			zap.String("status", string(sub.Status)))
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
