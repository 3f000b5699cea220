package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/kreslo/kreslo-backend/internal/locale"
	"gorm.io/gorm"
)

// Bundle is a curated set of products sold together at a percentage off the
// sum of their unit prices.
type Bundle struct {
	ID                 string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	NameAZ             string    `gorm:"column:name_az;not null" json:"name_az"`
	NameRU             string    `gorm:"column:name_ru;not null" json:"name_ru"`
	NameEN             string    `gorm:"column:name_en;not null" json:"name_en"`
	Slug               string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	DescriptionAZ      string    `gorm:"column:description_az;type:text" json:"description_az"`
	DescriptionRU      string    `gorm:"column:description_ru;type:text" json:"description_ru"`
	DescriptionEN      string    `gorm:"column:description_en;type:text" json:"description_en"`
	DiscountPercentage int       `gorm:"not null" json:"discount_percentage"`
	ImageURL           string    `json:"image_url"`
	IsActive           bool      `gorm:"index" json:"is_active"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Products []Product `gorm:"many2many:bundle_items;" json:"products,omitempty"`
}

func (Bundle) TableName() string {
	return "bundles"
}

func (b *Bundle) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b Bundle) Name() locale.Text {
	return locale.Text{AZ: b.NameAZ, RU: b.NameRU, EN: b.NameEN}
}

func (b Bundle) Description() locale.Text {
	return locale.Text{AZ: b.DescriptionAZ, RU: b.DescriptionRU, EN: b.DescriptionEN}
}

// BundleItem is the join row between bundles and products.
type BundleItem struct {
	BundleID  string `gorm:"type:varchar(36);primaryKey"`
	ProductID string `gorm:"type:varchar(36);primaryKey;index"`
}

func (BundleItem) TableName() string {
	return "bundle_items"
}
