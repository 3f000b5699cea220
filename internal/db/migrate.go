package db

import (
	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/pkg/logger"
	"gorm.io/gorm"
)

func models() []interface{} {
	return []interface{}{
		&model.Category{},
		&model.Product{},
		&model.Bundle{},
		&model.BundleItem{},
		&model.Setting{},
	}
}

// AutoMigrate creates or updates the catalog schema on conn.
func AutoMigrate(conn *gorm.DB) error {
	if err := conn.SetupJoinTable(&model.Bundle{}, "Products", &model.BundleItem{}); err != nil {
		return err
	}
	return conn.AutoMigrate(models()...)
}

// Migrate runs migrations against the global connection.
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := AutoMigrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models()),
	})
	return nil
}
