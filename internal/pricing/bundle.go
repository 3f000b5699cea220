// Package pricing derives bundle prices from their constituent products.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	MinDiscountPercentage = 1
	MaxDiscountPercentage = 100
)

var hundred = decimal.NewFromInt(100)

// PricedProduct is the part of a product a bundle quote needs.
type PricedProduct struct {
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
}

// UnitPrice is the discount price when set, otherwise the base price.
func (p PricedProduct) UnitPrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// BundleQuote is recomputed on every read and never stored.
type BundleQuote struct {
	OriginalSubtotal decimal.Decimal `json:"original_subtotal"`
	BundlePrice      decimal.Decimal `json:"bundle_price"`
	Savings          decimal.Decimal `json:"savings"`
}

// ValidatePercentage checks a discount percentage at an input boundary.
func ValidatePercentage(pct int) error {
	if pct < MinDiscountPercentage || pct > MaxDiscountPercentage {
		return fmt.Errorf("discount percentage %d outside [%d,%d]", pct, MinDiscountPercentage, MaxDiscountPercentage)
	}
	return nil
}

// OriginalSubtotal sums the unit prices of products.
func OriginalSubtotal(products []PricedProduct) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.UnitPrice())
	}
	return sum
}

// Quote prices a bundle. An empty product list quotes zero everywhere. It
// panics on a percentage outside [1,100]; callers validate input first.
func Quote(products []PricedProduct, discountPercentage int) BundleQuote {
	if err := ValidatePercentage(discountPercentage); err != nil {
		panic("pricing: " + err.Error())
	}

	subtotal := OriginalSubtotal(products)
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(discountPercentage)).Div(hundred))
	bundlePrice := subtotal.Mul(factor)

	return BundleQuote{
		OriginalSubtotal: subtotal,
		BundlePrice:      bundlePrice,
		Savings:          subtotal.Sub(bundlePrice),
	}
}
