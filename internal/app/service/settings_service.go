package service

import (
	"errors"
	"strings"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/app/repository"
	"github.com/kreslo/kreslo-backend/pkg/logger"
	"github.com/kreslo/kreslo-backend/pkg/whatsapp"
	"gorm.io/gorm"
)

var (
	ErrUnknownSetting      = errors.New("unknown setting")
	ErrInvalidSettingValue = errors.New("invalid setting value")
)

type SettingsService interface {
	// WhatsAppNumber is the merchant number checkout links are sent to. The
	// admin-edited value wins over the configured one.
	WhatsAppNumber() string
	UpdateSetting(key, value string) (*model.Setting, error)
}

type settingsService struct {
	repo           repository.SettingRepository
	fallbackNumber string
}

func NewSettingsService(repo repository.SettingRepository, fallbackNumber string) SettingsService {
	return &settingsService{repo: repo, fallbackNumber: fallbackNumber}
}

var settingValidators = map[string]func(string) error{
	model.SettingWhatsAppNumber: func(v string) error {
		if whatsapp.SanitizePhone(v) == "" {
			return ErrInvalidSettingValue
		}
		return nil
	},
}

func (s *settingsService) WhatsAppNumber() string {
	setting, err := s.repo.Get(model.SettingWhatsAppNumber)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Failed to load WhatsApp number, using configured value", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return s.fallbackNumber
	}
	if strings.TrimSpace(setting.Value) == "" {
		return s.fallbackNumber
	}
	return setting.Value
}

func (s *settingsService) UpdateSetting(key, value string) (*model.Setting, error) {
	validate, ok := settingValidators[key]
	if !ok {
		return nil, ErrUnknownSetting
	}
	value = strings.TrimSpace(value)
	if err := validate(value); err != nil {
		return nil, err
	}

	setting, err := s.repo.Set(key, value)
	if err != nil {
		logger.Error("Failed to update setting", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}

	logger.Info("Setting updated", map[string]interface{}{
		"key": key,
	})
	return setting, nil
}
