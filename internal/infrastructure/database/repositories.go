package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flowrise/billing-service/internal/adapter/repository"
	domainRepo "github.com/flowrise/billing-service/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	User         domainRepo.UserRepository
	Subscription domainRepo.SubscriptionRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		User:         repository.NewUserRepository(db, logger),
		Subscription: repository.NewSubscriptionRepository(db, logger),
	}
}
