package cart

import (
	"github.com/shopspring/decimal"
)

// Item is one cart line. Display fields are captured when the product is first
// added and are not refreshed from the catalog afterwards.
type Item struct {
	ProductID     string           `json:"productId"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	Quantity      int              `json:"quantity"`
	ImageURL      string           `json:"imageUrl"`
	SKU           string           `json:"sku,omitempty"`
}

// MaxQuantity caps a single line. Adds beyond it saturate.
const MaxQuantity = 999

// addQuantity sums two line quantities without overflowing past MaxQuantity.
func addQuantity(current, delta int) int {
	if delta > MaxQuantity-current {
		return MaxQuantity
	}
	return current + delta
}

// UnitPrice is the price used for totals: DiscountPrice when present.
func (i Item) UnitPrice() decimal.Decimal {
	if i.DiscountPrice != nil {
		return *i.DiscountPrice
	}
	return i.Price
}

// LineTotal is UnitPrice × Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HasDiscount reports whether the line shows a struck-through base price.
func (i Item) HasDiscount() bool {
	return i.DiscountPrice != nil
}

func (i Item) pricesValid() bool {
	if i.Price.IsNegative() {
		return false
	}
	return i.DiscountPrice == nil || !i.DiscountPrice.IsNegative()
}

func (i Item) clone() Item {
	if i.DiscountPrice != nil {
		dp := *i.DiscountPrice
		i.DiscountPrice = &dp
	}
	return i
}
