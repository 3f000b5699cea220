package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kreslo/kreslo-backend/internal/app/service"
	apperrors "github.com/kreslo/kreslo-backend/internal/errors"
	"github.com/kreslo/kreslo-backend/internal/middleware"
)

type SettingsController struct {
	settingsService service.SettingsService
}

func NewSettingsController(settingsService service.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// UpdateSetting changes a site setting
// PUT /api/v1/admin/settings/:key
func (ctrl *SettingsController) UpdateSetting(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	key := c.Param("key")

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "value is required")
		return
	}

	setting, err := ctrl.settingsService.UpdateSetting(key, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownSetting):
			apperrors.NotFound(c, apperrors.SettingUnknownKey, "Unknown setting")
		case errors.Is(err, service.ErrInvalidSettingValue):
			apperrors.BadRequest(c, apperrors.SettingInvalidValue, "Invalid value for this setting")
		default:
			log.Error("Failed to update setting", err, map[string]interface{}{"key": key})
			apperrors.ParseAndRespond(c, err, "update setting")
		}
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Info("Setting updated by admin", map[string]interface{}{
		"key":     key,
		"user_id": userID,
	})
	c.JSON(http.StatusOK, gin.H{"setting": setting})
}
