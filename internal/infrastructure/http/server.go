package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	stripeclient "github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	handlers "github.com/flowrise/billing-service/internal/adapter/handler/http"
	"github.com/flowrise/billing-service/internal/config"
	"github.com/flowrise/billing-service/internal/domain/plan"
	"github.com/flowrise/billing-service/internal/infrastructure/database"
	stripeprovider "github.com/flowrise/billing-service/internal/infrastructure/provider/stripe"
	"github.com/flowrise/billing-service/internal/usecase"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
	stripe *stripeclient.API
}

func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories, stripe *stripeclient.API) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config: cfg,
		logger: logger,
		echo:   e,
		repos:  repos,
		stripe: stripe,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	billing := stripeprovider.NewProvider(s.stripe, s.logger)
	catalog := plan.NewCatalog(s.config.Service.Plans)

	paymentMethods := usecase.NewPaymentMethodService(s.repos.User, billing, s.logger)
	subscriptions := usecase.NewSubscriptionService(s.repos.User, s.repos.Subscription, billing, catalog, s.logger)

	paymentHandler := handlers.NewPaymentHandler(paymentMethods, s.logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptions, s.logger)
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.config.Service.StripeWebhookSecret, s.repos.Subscription)

	// API routes
	api := s.echo.Group("/api")
	api.POST("/save-payment-method", paymentHandler.SavePaymentMethod)
	api.POST("/check-user-payment-method", paymentHandler.CheckPaymentMethod)
	api.POST("/subscribe", subscriptionHandler.Subscribe)
	api.GET("/subscription-status", subscriptionHandler.SubscriptionStatus)

	// Stripe posts events here directly
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
}
