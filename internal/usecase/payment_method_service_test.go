package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/flowrise/billing-service/internal/domain/model"
	"github.com/flowrise/billing-service/internal/domain/provider"
	"github.com/flowrise/billing-service/internal/usecase"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetStripeCustomerID(ctx context.Context, userID int64, customerID string) error {
	args := m.Called(ctx, userID, customerID)
	return args.Error(0)
}

// MockBillingProvider is a mock implementation of BillingProvider
type MockBillingProvider struct {
	mock.Mock
}

func (m *MockBillingProvider) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (*provider.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Customer), args.Error(1)
}

func (m *MockBillingProvider) UpdateDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	args := m.Called(ctx, customerID, paymentMethodID)
	return args.Error(0)
}

func (m *MockBillingProvider) CreateSubscription(ctx context.Context, req *provider.CreateSubscriptionRequest) (*provider.Subscription, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Subscription), args.Error(1)
}

func (m *MockBillingProvider) Name() string {
	return "mock"
}

func strPtr(s string) *string {
	return &s
}

func TestPaymentMethodService_SavePaymentMethod(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	info := usecase.UserInfo{
		Name:  "Jane Doe",
		Email: "a@x.com",
		Phone: "555-0100",
	}

	t.Run("new email creates remote customer then local user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		billing := new(MockBillingProvider)
		service := usecase.NewPaymentMethodService(userRepo, billing, logger)

		userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, nil)
		billing.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(req *provider.CreateCustomerRequest) bool {
			return req.Name == "Jane Doe" &&
				req.Email == "a@x.com" &&
				req.Phone == "555-0100" &&
				req.PaymentMethodID == "pm_123"
		})).Return(&provider.Customer{ID: "cus_123"}, nil)
		userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "a@x.com" &&
				u.Name == "Jane Doe" &&
				u.Phone == "555-0100" &&
				u.PasswordHash != "" &&
				u.StripeCustomerID != nil && *u.StripeCustomerID == "cus_123"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.User).ID = 42
		}).Return(nil)

		result, err := service.SavePaymentMethod(ctx, info, "pm_123")

		assert.NoError(t, err)
		assert.Equal(t, int64(42), result.UserID)
		assert.Equal(t, "cus_123", result.StripeCustomerID)

		userRepo.AssertExpectations(t)
		billing.AssertExpectations(t)
		userRepo.AssertNumberOfCalls(t, "Create", 1)
		billing.AssertNumberOfCalls(t, "CreateCustomer", 1)
	})

	t.Run("existing user with customer updates payment method only", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		billing := new(MockBillingProvider)
		service := usecase.NewPaymentMethodService(userRepo, billing, logger)

		userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(&model.User{
			ID:               7,
			Email:            "a@x.com",
			StripeCustomerID: strPtr("cus_existing"),
		}, nil)
		billing.On("UpdateDefaultPaymentMethod", mock.Anything, "cus_existing", "pm_456").Return(nil)

		result, err := service.SavePaymentMethod(ctx, info, "pm_456")

		assert.NoError(t, err)
		assert.Equal(t, int64(7), result.UserID)
		assert.Equal(t, "cus_existing", result.StripeCustomerID)

		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		billing.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
		userRepo.AssertExpectations(t)
		billing.AssertExpectations(t)
	})

	t.Run("existing user without customer gets one attached", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		billing := new(MockBillingProvider)
		service := usecase.NewPaymentMethodService(userRepo, billing, logger)

		userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(&model.User{
			ID:    7,
			Email: "a@x.com",
		}, nil)
		billing.On("CreateCustomer", mock.Anything, mock.Anything).Return(&provider.Customer{ID: "cus_55"}, nil)
		userRepo.On("SetStripeCustomerID", mock.Anything, int64(7), "cus_55").Return(nil)

		result, err := service.SavePaymentMethod(ctx, info, "pm_789")

		assert.NoError(t, err)
		assert.Equal(t, int64(7), result.UserID)
		assert.Equal(t, "cus_55", result.StripeCustomerID)

		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		userRepo.AssertExpectations(t)
		billing.AssertExpectations(t)
	})

	t.Run("provider failure leaves no local state", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		billing := new(MockBillingProvider)
		service := usecase.NewPaymentMethodService(userRepo, billing, logger)

		userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, nil)
		billing.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil, &provider.ProviderError{
			Code:    "card_declined",
			Message: "Your card was declined.",
		})

		result, err := service.SavePaymentMethod(ctx, info, "pm_bad")

		assert.Error(t, err)
		assert.Nil(t, result)

		var provErr *provider.ProviderError
		assert.ErrorAs(t, err, &provErr)
		assert.Equal(t, "card_declined", provErr.Code)

		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		userRepo.AssertNotCalled(t, "SetStripeCustomerID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate email insert surfaces as generic error", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		billing := new(MockBillingProvider)
		service := usecase.NewPaymentMethodService(userRepo, billing, logger)

		userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, nil)
		billing.On("CreateCustomer", mock.Anything, mock.Anything).Return(&provider.Customer{ID: "cus_123"}, nil)
		userRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate key value violates unique constraint"))

		result, err := service.SavePaymentMethod(ctx, info, "pm_123")

		assert.Error(t, err)
		assert.Nil(t, result)

		var provErr *provider.ProviderError
		assert.False(t, errors.As(err, &provErr))
	})
}

func TestPaymentMethodService_CheckPaymentMethod(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("unknown email is not an error", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		billing := new(MockBillingProvider)
		service := usecase.NewPaymentMethodService(userRepo, billing, logger)

		userRepo.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, nil)

		check, err := service.CheckPaymentMethod(ctx, "nobody@x.com")

		assert.NoError(t, err)
		assert.False(t, check.Found)
		assert.False(t, check.HasPaymentMethod)
	})

	t.Run("known user with payment method", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		billing := new(MockBillingProvider)
		service := usecase.NewPaymentMethodService(userRepo, billing, logger)

		userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(&model.User{
			ID:               42,
			Name:             "Jane Doe",
			Email:            "a@x.com",
			Phone:            "555-0100",
			StripeCustomerID: strPtr("cus_123"),
		}, nil)

		check, err := service.CheckPaymentMethod(ctx, "a@x.com")

		assert.NoError(t, err)
		assert.True(t, check.Found)
		assert.True(t, check.HasPaymentMethod)
		assert.Equal(t, int64(42), check.UserID)
		assert.Equal(t, "Jane Doe", check.UserInfo.Name)
		assert.Equal(t, "a@x.com", check.UserInfo.Email)
		assert.Equal(t, "555-0100", check.UserInfo.Phone)
	})

	t.Run("known user without payment method", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		billing := new(MockBillingProvider)
		service := usecase.NewPaymentMethodService(userRepo, billing, logger)

		userRepo.On("GetByEmail", mock.Anything, "b@x.com").Return(&model.User{
			ID:    43,
			Email: "b@x.com",
		}, nil)

		check, err := service.CheckPaymentMethod(ctx, "b@x.com")

		assert.NoError(t, err)
		assert.True(t, check.Found)
		assert.False(t, check.HasPaymentMethod)
	})
}
