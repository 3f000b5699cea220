package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/kreslo/kreslo-backend/internal/locale"
	"github.com/kreslo/kreslo-backend/internal/pricing"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type Product struct {
	ID              string              `gorm:"type:varchar(36);primaryKey" json:"id"`
	NameAZ          string              `gorm:"column:name_az;not null" json:"name_az"`
	NameRU          string              `gorm:"column:name_ru;not null" json:"name_ru"`
	NameEN          string              `gorm:"column:name_en;not null" json:"name_en"`
	Slug            string              `gorm:"uniqueIndex;not null" json:"slug"`
	DescriptionAZ   string              `gorm:"column:description_az;type:text" json:"description_az"`
	DescriptionRU   string              `gorm:"column:description_ru;type:text" json:"description_ru"`
	DescriptionEN   string              `gorm:"column:description_en;type:text" json:"description_en"`
	CategoryID      *string             `gorm:"type:varchar(36);index" json:"category_id"`
	SKU             string              `gorm:"column:sku;index" json:"sku"`
	Price           decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	DiscountPrice   decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"discount_price"`
	DiscountEndsAt  *time.Time          `gorm:"index" json:"discount_ends_at"`
	ImageURL        string              `gorm:"not null" json:"image_url"`
	ExtraImages     StringList          `json:"extra_images"`
	Color           string              `json:"color"`
	IsActive        bool                `gorm:"index" json:"is_active"`
	InStock         bool                `json:"in_stock"`
	PriceNegotiable bool                `json:"price_negotiable"`
	SortOrder       int                 `json:"sort_order"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p Product) Name() locale.Text {
	return locale.Text{AZ: p.NameAZ, RU: p.NameRU, EN: p.NameEN}
}

func (p Product) Description() locale.Text {
	return locale.Text{AZ: p.DescriptionAZ, RU: p.DescriptionRU, EN: p.DescriptionEN}
}

// ActiveDiscount returns the discount price if one is set and has not
// expired at now.
func (p Product) ActiveDiscount(now time.Time) *decimal.Decimal {
	if !p.DiscountPrice.Valid {
		return nil
	}
	if p.DiscountEndsAt != nil && !p.DiscountEndsAt.After(now) {
		return nil
	}
	d := p.DiscountPrice.Decimal
	return &d
}

// EffectivePrice is the unit price charged at now.
func (p Product) EffectivePrice(now time.Time) decimal.Decimal {
	if d := p.ActiveDiscount(now); d != nil {
		return *d
	}
	return p.Price
}

// IsFlashSale reports a discount with a running countdown.
func (p Product) IsFlashSale(now time.Time) bool {
	return p.DiscountEndsAt != nil && p.ActiveDiscount(now) != nil
}

// Priced projects the product for bundle quoting.
func (p Product) Priced(now time.Time) pricing.PricedProduct {
	return pricing.PricedProduct{Price: p.Price, DiscountPrice: p.ActiveDiscount(now)}
}

// Purchasable reports whether the product can go into the cart: it needs a
// fixed, positive price.
func (p Product) Purchasable() bool {
	return p.IsActive && !p.PriceNegotiable && p.Price.IsPositive()
}

// StringList is a Postgres text[] column. Other dialects store the array
// literal as text.
type StringList []string

func (StringList) GormDataType() string {
	return "text"
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (l StringList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *StringList) Scan(src interface{}) error {
	var a pq.StringArray
	if err := a.Scan(src); err != nil {
		return err
	}
	*l = StringList(a)
	return nil
}
