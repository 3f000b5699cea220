package service

import (
	"math"
	"time"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/locale"
	"github.com/kreslo/kreslo-backend/pkg/color"
	"github.com/kreslo/kreslo-backend/pkg/money"
	"github.com/shopspring/decimal"
)

var negotiableLabel = locale.NewTable("Price Negotiable", map[locale.Locale]string{
	locale.AZ: "Razılaşma Yolu İlə",
	locale.RU: "Договорная цена",
})

type CategoryView struct {
	ID       string  `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
}

// ProductView is a product resolved for one locale at one instant.
type ProductView struct {
	ID                string           `json:"id"`
	Slug              string           `json:"slug"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	SKU               string           `json:"sku,omitempty"`
	CategorySlug      string           `json:"category_slug,omitempty"`
	Price             decimal.Decimal  `json:"price"`
	PriceFormatted    string           `json:"price_formatted"`
	DiscountPrice     *decimal.Decimal `json:"discount_price,omitempty"`
	DiscountFormatted string           `json:"discount_formatted,omitempty"`
	DiscountEndsAt    *time.Time       `json:"discount_ends_at,omitempty"`
	SecondsLeft       int64            `json:"seconds_left,omitempty"`
	ImageURL          string           `json:"image_url"`
	ExtraImages       []string         `json:"extra_images,omitempty"`
	Color             string           `json:"color,omitempty"`
	Swatch            *color.Swatch    `json:"swatch,omitempty"`
	InStock           bool             `json:"in_stock"`
	PriceNegotiable   bool             `json:"price_negotiable"`
}

func newCategoryView(c model.Category, localeCode string) CategoryView {
	return CategoryView{
		ID:       c.ID,
		Slug:     c.Slug,
		Name:     c.Name().Resolve(localeCode),
		ParentID: c.ParentID,
		ImageURL: c.ImageURL,
	}
}

func newProductView(p model.Product, localeCode string, now time.Time) ProductView {
	v := ProductView{
		ID:              p.ID,
		Slug:            p.Slug,
		Name:            p.Name().Resolve(localeCode),
		Description:     p.Description().Resolve(localeCode),
		SKU:             p.SKU,
		Price:           p.Price,
		ImageURL:        p.ImageURL,
		ExtraImages:     []string(p.ExtraImages),
		Color:           p.Color,
		InStock:         p.InStock,
		PriceNegotiable: p.PriceNegotiable,
	}
	if p.Category != nil {
		v.CategorySlug = p.Category.Slug
	}
	if p.Color != "" {
		swatch := color.Resolve(p.Color)
		v.Swatch = &swatch
	}

	if p.PriceNegotiable {
		v.PriceFormatted = negotiableLabel.Lookup(localeCode)
		return v
	}
	v.PriceFormatted = formatPrice(p.Price, localeCode)

	if d := p.ActiveDiscount(now); d != nil && !d.IsNegative() {
		v.DiscountPrice = d
		v.DiscountFormatted = money.Format(*d, localeCode)
		if p.DiscountEndsAt != nil {
			v.DiscountEndsAt = p.DiscountEndsAt
			v.SecondsLeft = int64(math.Ceil(p.DiscountEndsAt.Sub(now).Seconds()))
		}
	}
	return v
}

// formatPrice tolerates bad catalog rows; money.Format panics on negatives.
func formatPrice(amount decimal.Decimal, localeCode string) string {
	if amount.IsNegative() {
		return ""
	}
	return money.Format(amount, localeCode)
}
