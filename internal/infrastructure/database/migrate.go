package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flowrise/billing-service/internal/domain/model"
)

// Migrate runs database migrations. The unique index on users.email comes
// from the model tags; it is what resolves concurrent first-saves for the
// same email.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.User{},
		&model.Subscription{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
