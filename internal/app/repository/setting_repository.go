package repository

import (
	"github.com/kreslo/kreslo-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	Get(key string) (*model.Setting, error)
	Set(key, value string) (*model.Setting, error)
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.Where(map[string]interface{}{"key": key}).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// Set upserts the value for key.
func (r *settingRepository) Set(key, value string) (*model.Setting, error) {
	setting := &model.Setting{Key: key, Value: value}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}
