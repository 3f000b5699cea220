package export

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/kreslo/kreslo-backend/internal/app/service"
	"github.com/kreslo/kreslo-backend/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBundleSheet(t *testing.T) {
	discount := decimal.NewFromInt(50)
	bundles := []service.BundleView{
		{
			Slug:               "office",
			Name:               "Office set",
			DiscountPercentage: 20,
			IsActive:           true,
			Products: []service.ProductView{
				{Name: "Chair", SKU: "A1", Price: decimal.NewFromInt(100)},
				{Name: "Desk", SKU: "B2", Price: decimal.NewFromInt(80), DiscountPrice: &discount},
			},
			Quote: pricing.Quote([]pricing.PricedProduct{
				{Price: decimal.NewFromInt(100)},
				{Price: decimal.NewFromInt(80), DiscountPrice: &discount},
			}, 20),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBundleSheet(&buf, bundles))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(BundleSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Slug", rows[0][0])
	assert.Equal(t, "office", rows[1][0])
	assert.Equal(t, "Office set", rows[1][1])
	assert.Equal(t, "20", rows[1][2])

	bundlePrice, err := strconv.ParseFloat(rows[1][6], 64)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, bundlePrice, 0.001)

	items, err := f.GetRows(ItemSheet)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"office", "Desk", "B2"}, items[2][:3])

	unit, err := strconv.ParseFloat(items[2][3], 64)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, unit, 0.001)
}

func TestWriteBundleSheet_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBundleSheet(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(BundleSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
