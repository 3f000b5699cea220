package service

import (
	"errors"
	"time"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/app/repository"
	"github.com/kreslo/kreslo-backend/pkg/logger"
	"github.com/kreslo/kreslo-backend/pkg/whatsapp"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCheckoutUnavailable = errors.New("merchant WhatsApp number is not configured")
)

const flashSaleLimit = 12

type ProductListOptions struct {
	Category    string
	Search      string
	InStockOnly bool
	Limit       int
	Offset      int
}

type CatalogService interface {
	ListCategories(localeCode string) ([]CategoryView, error)
	ListProducts(opts ProductListOptions, localeCode string) ([]ProductView, error)
	GetProduct(slug, localeCode string) (*ProductView, error)
	ListFlashSales(localeCode string) ([]ProductView, error)
	ProductInquiryURL(slug, localeCode string) (string, error)
	ExpireFlashSales() (int64, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	settings     SettingsService
	now          func() time.Time
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	settings SettingsService,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		settings:     settings,
		now:          time.Now,
	}
}

func (s *catalogService) ListCategories(localeCode string) ([]CategoryView, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, len(categories))
	for i, c := range categories {
		views[i] = newCategoryView(c, localeCode)
	}
	return views, nil
}

func (s *catalogService) ListProducts(opts ProductListOptions, localeCode string) ([]ProductView, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category": opts.Category,
		"search":   opts.Search,
		"limit":    opts.Limit,
		"offset":   opts.Offset,
		"locale":   localeCode,
	})

	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		CategorySlug: opts.Category,
		Search:       opts.Search,
		InStockOnly:  opts.InStockOnly,
		Limit:        opts.Limit,
		Offset:       opts.Offset,
	})
	if err != nil {
		return nil, err
	}
	return s.views(products, localeCode), nil
}

func (s *catalogService) GetProduct(slug, localeCode string) (*ProductView, error) {
	product, err := s.findBySlug(slug)
	if err != nil {
		return nil, err
	}
	view := newProductView(*product, localeCode, s.now())
	return &view, nil
}

func (s *catalogService) ListFlashSales(localeCode string) ([]ProductView, error) {
	products, err := s.productRepo.FindFlashSales(s.now(), flashSaleLimit)
	if err != nil {
		return nil, err
	}
	return s.views(products, localeCode), nil
}

// ProductInquiryURL builds the "I want to buy this" link for a product page.
func (s *catalogService) ProductInquiryURL(slug, localeCode string) (string, error) {
	product, err := s.findBySlug(slug)
	if err != nil {
		return "", err
	}

	phone := s.settings.WhatsAppNumber()
	if whatsapp.SanitizePhone(phone) == "" {
		return "", ErrCheckoutUnavailable
	}

	now := s.now()
	price := negotiableLabel.Lookup(localeCode)
	if !product.PriceNegotiable {
		price = formatPrice(product.EffectivePrice(now), localeCode)
	}
	display := product.Name().Resolve(localeCode) + " - " + price

	return whatsapp.ProductInquiryURL(phone, display, product.SKU, localeCode), nil
}

// ExpireFlashSales drops discounts whose countdown has ended.
func (s *catalogService) ExpireFlashSales() (int64, error) {
	n, err := s.productRepo.ClearExpiredDiscounts(s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("Expired flash sales cleared", map[string]interface{}{
			"count": n,
		})
	}
	return n, nil
}

func (s *catalogService) findBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) views(products []model.Product, localeCode string) []ProductView {
	now := s.now()
	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = newProductView(p, localeCode, now)
	}
	return views
}
