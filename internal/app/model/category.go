package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/kreslo/kreslo-backend/internal/locale"
	"gorm.io/gorm"
)

// Category groups products in the storefront navigation. Categories nest one
// level through ParentID.
type Category struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	NameAZ    string    `gorm:"column:name_az;not null" json:"name_az"`
	NameRU    string    `gorm:"column:name_ru;not null" json:"name_ru"`
	NameEN    string    `gorm:"column:name_en;not null" json:"name_en"`
	Slug      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	ParentID  *string   `gorm:"type:varchar(36);index" json:"parent_id"`
	ImageURL  string    `json:"image_url"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `gorm:"index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c Category) Name() locale.Text {
	return locale.Text{AZ: c.NameAZ, RU: c.NameRU, EN: c.NameEN}
}
