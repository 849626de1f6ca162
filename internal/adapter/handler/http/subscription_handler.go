package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/flowrise/billing-service/internal/domain/errors"
	"github.com/flowrise/billing-service/internal/domain/provider"
	"github.com/flowrise/billing-service/internal/usecase"
)

// SubscriptionHandler serves subscription creation and status lookups.
type SubscriptionHandler struct {
	subscriptions *usecase.SubscriptionService
	logger        *zap.Logger
}

func NewSubscriptionHandler(subscriptions *usecase.SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		logger:        logger,
	}
}

type subscribeRequest struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	PlanName string `json:"plan_name" validate:"required,oneof=Starter Growth Scaling Enterprise"`
	PriceID  string `json:"price_id" validate:"required"`
}

// Subscribe handles POST /api/subscribe
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"success": false,
			"message": "The given data was invalid.",
			"errors":  validationErrorFields(err),
		})
	}

	result, err := h.subscriptions.Subscribe(c.Request().Context(), req.UserID, req.PlanName, req.PriceID)
	if err != nil {
		return h.subscribeError(c, &req, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":                true,
		"message":                "Subscription created successfully",
		"subscription_id":        result.SubscriptionID,
		"stripe_subscription_id": result.StripeSubscriptionID,
		"status":                 result.Status,
	})
}

func (h *SubscriptionHandler) subscribeError(c echo.Context, req *subscribeRequest, err error) error {
	switch {
	case errors.Is(err, domainErrors.ErrUserNotFound):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"success": false,
			"message": "The given data was invalid.",
			"errors":  map[string]string{"user_id": "User not found."},
		})
	case errors.Is(err, domainErrors.ErrNoPaymentMethod):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "User has no saved payment method. Please save payment method first.",
		})
	case errors.Is(err, domainErrors.ErrPlanPriceMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Price ID does not match the selected plan.",
		})
	}

	var provErr *provider.ProviderError
	if errors.As(err, &provErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Stripe error: " + provErr.Message,
		})
	}

	h.logger.Error("failed to create subscription",
		zap.Int64("user_id", req.UserID),
		zap.String("plan_name", req.PlanName),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"message": "An error occurred: " + err.Error(),
	})
}

// SubscriptionStatus handles GET /api/subscription-status?user_id=
func (h *SubscriptionHandler) SubscriptionStatus(c echo.Context) error {
	userID, err := strconv.ParseInt(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"success": false,
			"message": "The given data was invalid.",
			"errors":  map[string]string{"user_id": "User ID must be a positive integer."},
		})
	}

	subscription, err := h.subscriptions.Status(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNoSubscription) || errors.Is(err, domainErrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"message": "No subscription found",
			})
		}

		h.logger.Error("failed to get subscription status",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "An error occurred: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"subscription": echo.Map{
			"id":                   subscription.ID,
			"plan_name":            subscription.PlanName,
			"amount":               subscription.Amount,
			"status":               subscription.Status,
			"current_period_start": formatPeriod(subscription.CurrentPeriodStart),
			"current_period_end":   formatPeriod(subscription.CurrentPeriodEnd),
		},
	})
}

func formatPeriod(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
