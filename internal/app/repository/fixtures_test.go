package repository

import (
	"testing"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func newProduct(slug, price string) *model.Product {
	return &model.Product{
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
}
