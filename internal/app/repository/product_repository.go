package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductFilter struct {
	CategorySlug string
	Search       string
	InStockOnly  bool
	Limit        int
	Offset       int
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) (int64, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id string) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindFlashSales(now time.Time, limit int) ([]model.Product, error)
	ClearExpiredDiscounts(now time.Time) (int64, error)
	Update(product *model.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"slug": product.Slug,
			"sku":  product.SKU,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

// BulkCreate inserts products in batches, skipping slugs that already exist.
// It returns the number of rows inserted.
func (r *productRepository) BulkCreate(products []model.Product, batchSize int) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).CreateInBatches(&products, batchSize)
	if result.Error != nil {
		logger.Error("Failed to bulk create products", result.Error, map[string]interface{}{
			"count": len(products),
		})
		return 0, result.Error
	}

	logger.Info("Products bulk created", map[string]interface{}{
		"requested": len(products),
		"inserted":  result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *productRepository) active() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Category").
		Where("products.is_active = ?", true)
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category": filter.CategorySlug,
		"search":   filter.Search,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})

	query := r.active()

	if filter.CategorySlug != "" {
		query = query.Select("products.*").
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(products.name_az) LIKE ? OR LOWER(products.name_ru) LIKE ? OR LOWER(products.name_en) LIKE ? OR LOWER(products.sku) LIKE ?",
			like, like, like, like,
		)
	}

	if filter.InStockOnly {
		query = query.Where("products.in_stock = ?", true)
	}

	query = query.Order("products.sort_order ASC").Order("products.created_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(id string) (*model.Product, error) {
	var product model.Product
	if err := r.active().Where("products.id = ?", id).First(&product).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find product by ID", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.active().Where("products.slug = ?", slug).First(&product).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find product by slug", err, map[string]interface{}{
				"slug": slug,
			})
		}
		return nil, err
	}
	return &product, nil
}

// FindFlashSales returns discounted products whose countdown is still
// running, soonest ending first.
func (r *productRepository) FindFlashSales(now time.Time, limit int) ([]model.Product, error) {
	query := r.active().
		Where("products.discount_price IS NOT NULL").
		Where("products.discount_ends_at > ?", now.UTC()).
		Order("products.discount_ends_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find flash sales", err)
		return nil, err
	}
	return products, nil
}

// ClearExpiredDiscounts drops discounts whose countdown has passed and
// returns how many products were reset.
func (r *productRepository) ClearExpiredDiscounts(now time.Time) (int64, error) {
	result := r.db.Model(&model.Product{}).
		Where("discount_ends_at IS NOT NULL AND discount_ends_at <= ?", now.UTC()).
		Updates(map[string]interface{}{
			"discount_price":   nil,
			"discount_ends_at": nil,
		})
	if result.Error != nil {
		logger.Error("Failed to clear expired discounts", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}
