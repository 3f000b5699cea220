package model

import "time"

// Well-known setting keys.
const (
	SettingWhatsAppNumber = "whatsapp_number"
)

// Setting is a site-wide key/value pair editable from the admin panel.
type Setting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "site_settings"
}
