package service

import (
	"testing"
	"time"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleService_QuoteUsesActiveDiscounts(t *testing.T) {
	f := setupFixture(t)
	chair := f.product(t, "chair", "100")
	desk := f.product(t, "desk", "80", discounted("50", time.Hour))
	f.bundle(t, "office-set", 20, chair, desk)

	view, err := f.bundles.GetBySlug("office-set", "en")
	require.NoError(t, err)
	assert.True(t, view.Quote.OriginalSubtotal.Equal(decimal.NewFromInt(150)))
	assert.True(t, view.Quote.BundlePrice.Equal(decimal.NewFromInt(120)))
	assert.True(t, view.Quote.Savings.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "AZN 120.00", view.BundleFormatted)
	assert.Equal(t, "Set office-set", view.Name)
	assert.Len(t, view.Products, 2)
}

func TestBundleService_ExpiredDiscountIsIgnored(t *testing.T) {
	f := setupFixture(t)
	desk := f.product(t, "desk", "80", discounted("50", -time.Hour))
	f.bundle(t, "solo", 50, desk)

	view, err := f.bundles.GetBySlug("solo", "en")
	require.NoError(t, err)
	assert.True(t, view.Quote.OriginalSubtotal.Equal(decimal.NewFromInt(80)))
	assert.True(t, view.Quote.BundlePrice.Equal(decimal.NewFromInt(40)))
}

func TestBundleService_ListLatestSkipsMisconfigured(t *testing.T) {
	f := setupFixture(t)
	chair := f.product(t, "chair", "100")

	good := f.bundle(t, "good", 10, chair)
	bad := f.bundle(t, "bad", 0, chair)
	require.NoError(t, f.db.Model(&model.Bundle{}).Where("id = ?", good.ID).Update("created_at", testNow.Add(-time.Hour)).Error)
	require.NoError(t, f.db.Model(&model.Bundle{}).Where("id = ?", bad.ID).Update("created_at", testNow).Error)

	views, err := f.bundles.ListLatest("az")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "good", views[0].Slug)

	_, err = f.bundles.GetBySlug("bad", "az")
	assert.ErrorIs(t, err, ErrInvalidBundle)

	_, err = f.bundles.GetBySlug("missing", "az")
	assert.ErrorIs(t, err, ErrBundleNotFound)
}

func TestBundleService_EmptyBundleQuotesZero(t *testing.T) {
	f := setupFixture(t)
	f.bundle(t, "empty", 25)

	view, err := f.bundles.GetBySlug("empty", "en")
	require.NoError(t, err)
	assert.True(t, view.Quote.BundlePrice.IsZero())
	assert.Empty(t, view.Products)
}
