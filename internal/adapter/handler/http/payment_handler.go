package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/flowrise/billing-service/internal/domain/provider"
	"github.com/flowrise/billing-service/internal/usecase"
)

// PaymentHandler serves the payment method endpoints: saving a tokenized
// payment method and checking payment method presence by email.
type PaymentHandler struct {
	paymentMethods *usecase.PaymentMethodService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentMethods *usecase.PaymentMethodService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentMethods: paymentMethods,
		logger:         logger,
	}
}

type userInfoRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"required,max=20"`
}

type savePaymentMethodRequest struct {
	UserInfo        userInfoRequest `json:"user_info" validate:"required"`
	PaymentMethodID string          `json:"payment_method_id" validate:"required"`
}

// SavePaymentMethod handles POST /api/save-payment-method
func (h *PaymentHandler) SavePaymentMethod(c echo.Context) error {
	var req savePaymentMethodRequest
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

	result, err := h.paymentMethods.SavePaymentMethod(
		c.Request().Context(),
		usecase.UserInfo{
			Name:  req.UserInfo.Name,
			Email: req.UserInfo.Email,
			Phone: req.UserInfo.Phone,
		},
		req.PaymentMethodID,
	)
	if err != nil {
		var provErr *provider.ProviderError
		if errors.As(err, &provErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "Stripe error: " + provErr.Message,
			})
		}

		h.logger.Error("failed to save payment method",
			zap.String("email", req.UserInfo.Email),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "An error occurred: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":            true,
		"message":            "Payment method saved successfully",
		"user_id":            result.UserID,
		"stripe_customer_id": result.StripeCustomerID,
	})
}

type checkPaymentMethodRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CheckPaymentMethod handles POST /api/check-user-payment-method. An
// unknown email is an HTTP success carrying found=false; the calling UI
// uses the distinction to decide whether to prompt for a new payment
// method.
func (h *PaymentHandler) CheckPaymentMethod(c echo.Context) error {
	var req checkPaymentMethodRequest
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

	check, err := h.paymentMethods.CheckPaymentMethod(c.Request().Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to check payment method",
			zap.String("email", req.Email),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "An error occurred: " + err.Error(),
		})
	}

	if !check.Found {
		return c.JSON(http.StatusOK, echo.Map{
			"success":            false,
			"has_payment_method": false,
			"message":            "User not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":            true,
		"has_payment_method": check.HasPaymentMethod,
		"user_id":            check.UserID,
		"user_info": echo.Map{
			"name":  check.UserInfo.Name,
			"email": check.UserInfo.Email,
			"phone": check.UserInfo.Phone,
		},
	})
}
