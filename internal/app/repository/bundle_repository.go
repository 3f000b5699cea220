package repository

import (
	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/pkg/logger"
	"gorm.io/gorm"
)

type BundleRepository interface {
	Create(bundle *model.Bundle) error
	FindLatest(limit int) ([]model.Bundle, error)
	FindBySlug(slug string) (*model.Bundle, error)
	FindAll() ([]model.Bundle, error)
}

type bundleRepository struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

// Create inserts the bundle and links the already persisted products in
// bundle.Products.
func (r *bundleRepository) Create(bundle *model.Bundle) error {
	if err := r.db.Create(bundle).Error; err != nil {
		logger.Error("Failed to create bundle", err, map[string]interface{}{
			"slug": bundle.Slug,
		})
		return err
	}
	return nil
}

func (r *bundleRepository) withProducts() *gorm.DB {
	return r.db.Model(&model.Bundle{}).Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Order("products.sort_order ASC").Order("products.slug ASC")
	})
}

// FindLatest returns the newest active bundles.
func (r *bundleRepository) FindLatest(limit int) ([]model.Bundle, error) {
	query := r.withProducts().
		Where("is_active = ?", true).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var bundles []model.Bundle
	if err := query.Find(&bundles).Error; err != nil {
		logger.Error("Failed to find latest bundles", err)
		return nil, err
	}
	return bundles, nil
}

func (r *bundleRepository) FindBySlug(slug string) (*model.Bundle, error) {
	var bundle model.Bundle
	if err := r.withProducts().Where("slug = ? AND is_active = ?", slug, true).First(&bundle).Error; err != nil {
		return nil, err
	}
	return &bundle, nil
}

// FindAll includes inactive bundles, for the admin export.
func (r *bundleRepository) FindAll() ([]model.Bundle, error) {
	var bundles []model.Bundle
	if err := r.withProducts().Order("created_at DESC").Find(&bundles).Error; err != nil {
		logger.Error("Failed to find bundles", err)
		return nil, err
	}
	return bundles, nil
}
