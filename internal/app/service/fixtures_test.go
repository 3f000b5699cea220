package service

import (
	"testing"
	"time"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/app/repository"
	"github.com/kreslo/kreslo-backend/internal/cart"
	"github.com/kreslo/kreslo-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPhone = "+994 (50) 123-45-67"

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db         *gorm.DB
	products   repository.ProductRepository
	categories repository.CategoryRepository
	bundleRepo repository.BundleRepository
	settings   SettingsService
	catalog    *catalogService
	bundles    *bundleService
	carts      *cartService
	storage    *cart.MemoryStorage
}

func setupFixture(t *testing.T) *fixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	clock := func() time.Time { return testNow }

	f := &fixture{
		db:         testDB,
		products:   repository.NewProductRepository(testDB),
		categories: repository.NewCategoryRepository(testDB),
		bundleRepo: repository.NewBundleRepository(testDB),
		storage:    cart.NewMemoryStorage(),
	}
	f.settings = NewSettingsService(repository.NewSettingRepository(testDB), testPhone)

	f.catalog = NewCatalogService(f.products, f.categories, f.settings).(*catalogService)
	f.catalog.now = clock
	f.bundles = NewBundleService(f.bundleRepo).(*bundleService)
	f.bundles.now = clock
	f.carts = NewCartService(
		CartConfig{Storage: f.storage, Namespace: "kreslo-cart"},
		f.products, f.bundles, f.settings,
	).(*cartService)
	f.carts.now = clock
	return f
}

func (f *fixture) product(t *testing.T, slug, price string, mutate ...func(*model.Product)) *model.Product {
	p := &model.Product{
		NameAZ:   "Kreslo " + slug,
		NameRU:   "Кресло " + slug,
		NameEN:   "Chair " + slug,
		Slug:     slug,
		SKU:      "SKU-" + slug,
		Price:    decimal.RequireFromString(price),
		ImageURL: "https://cdn.example.com/" + slug + ".jpg",
		IsActive: true,
		InStock:  true,
	}
	for _, m := range mutate {
		m(p)
	}
	require.NoError(t, f.products.Create(p))
	return p
}

func (f *fixture) bundle(t *testing.T, slug string, pct int, products ...*model.Product) *model.Bundle {
	b := &model.Bundle{
		NameAZ: "Dəst " + slug, NameRU: "Набор " + slug, NameEN: "Set " + slug,
		Slug:               slug,
		DiscountPercentage: pct,
		IsActive:           true,
	}
	for _, p := range products {
		b.Products = append(b.Products, *p)
	}
	require.NoError(t, f.bundleRepo.Create(b))
	return b
}

func discounted(price string, endsIn time.Duration) func(*model.Product) {
	return func(p *model.Product) {
		p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString(price))
		if endsIn != 0 {
			ends := testNow.Add(endsIn)
			p.DiscountEndsAt = &ends
		}
	}
}
