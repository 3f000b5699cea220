package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/app/repository"
	"github.com/kreslo/kreslo-backend/internal/pricing"
	"github.com/kreslo/kreslo-backend/pkg/logger"
	"github.com/kreslo/kreslo-backend/pkg/money"
	"gorm.io/gorm"
)

var (
	ErrBundleNotFound = errors.New("bundle not found")
	ErrInvalidBundle  = errors.New("invalid bundle")
)

// LatestBundlesLimit is how many bundles the storefront shows.
const LatestBundlesLimit = 3

type BundleView struct {
	ID                 string              `json:"id"`
	Slug               string              `json:"slug"`
	Name               string              `json:"name"`
	Description        string              `json:"description,omitempty"`
	DiscountPercentage int                 `json:"discount_percentage"`
	ImageURL           string              `json:"image_url,omitempty"`
	IsActive           bool                `json:"is_active"`
	Products           []ProductView       `json:"products"`
	Quote              pricing.BundleQuote `json:"quote"`
	OriginalFormatted  string              `json:"original_formatted"`
	BundleFormatted    string              `json:"bundle_formatted"`
	SavingsFormatted   string              `json:"savings_formatted"`
}

type BundleService interface {
	ListLatest(localeCode string) ([]BundleView, error)
	GetBySlug(slug, localeCode string) (*BundleView, error)
	ListAll(localeCode string) ([]BundleView, error)
	// Products returns the bundle's catalog products, for adding to a cart.
	Products(slug string) ([]model.Product, error)
}

type bundleService struct {
	repo repository.BundleRepository
	now  func() time.Time
}

func NewBundleService(repo repository.BundleRepository) BundleService {
	return &bundleService{repo: repo, now: time.Now}
}

func (s *bundleService) ListLatest(localeCode string) ([]BundleView, error) {
	bundles, err := s.repo.FindLatest(LatestBundlesLimit)
	if err != nil {
		return nil, err
	}
	return s.views(bundles, localeCode), nil
}

func (s *bundleService) ListAll(localeCode string) ([]BundleView, error) {
	bundles, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	return s.views(bundles, localeCode), nil
}

func (s *bundleService) GetBySlug(slug, localeCode string) (*BundleView, error) {
	bundle, err := s.findBySlug(slug)
	if err != nil {
		return nil, err
	}
	view, err := s.view(*bundle, localeCode, s.now())
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *bundleService) Products(slug string) ([]model.Product, error) {
	bundle, err := s.findBySlug(slug)
	if err != nil {
		return nil, err
	}
	return bundle.Products, nil
}

func (s *bundleService) findBySlug(slug string) (*model.Bundle, error) {
	bundle, err := s.repo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBundleNotFound
		}
		return nil, err
	}
	return bundle, nil
}

// views skips misconfigured bundles instead of failing the whole listing.
func (s *bundleService) views(bundles []model.Bundle, localeCode string) []BundleView {
	now := s.now()
	views := make([]BundleView, 0, len(bundles))
	for _, b := range bundles {
		view, err := s.view(b, localeCode, now)
		if err != nil {
			logger.Warn("Skipping misconfigured bundle", map[string]interface{}{
				"bundle_id": b.ID,
				"slug":      b.Slug,
				"error":     err.Error(),
			})
			continue
		}
		views = append(views, view)
	}
	return views
}

func (s *bundleService) view(b model.Bundle, localeCode string, now time.Time) (BundleView, error) {
	if err := pricing.ValidatePercentage(b.DiscountPercentage); err != nil {
		return BundleView{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	priced := make([]pricing.PricedProduct, len(b.Products))
	products := make([]ProductView, len(b.Products))
	for i, p := range b.Products {
		pp := p.Priced(now)
		if pp.UnitPrice().IsNegative() {
			return BundleView{}, fmt.Errorf("%w: product %s has a negative price", ErrInvalidBundle, p.Slug)
		}
		priced[i] = pp
		products[i] = newProductView(p, localeCode, now)
	}
	quote := pricing.Quote(priced, b.DiscountPercentage)

	return BundleView{
		ID:                 b.ID,
		Slug:               b.Slug,
		Name:               b.Name().Resolve(localeCode),
		Description:        b.Description().Resolve(localeCode),
		DiscountPercentage: b.DiscountPercentage,
		ImageURL:           b.ImageURL,
		IsActive:           b.IsActive,
		Products:           products,
		Quote:              quote,
		OriginalFormatted:  money.Format(quote.OriginalSubtotal, localeCode),
		BundleFormatted:    money.Format(quote.BundlePrice, localeCode),
		SavingsFormatted:   money.Format(quote.Savings, localeCode),
	}, nil
}
