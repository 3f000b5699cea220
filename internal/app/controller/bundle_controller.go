package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kreslo/kreslo-backend/internal/app/service"
	apperrors "github.com/kreslo/kreslo-backend/internal/errors"
	"github.com/kreslo/kreslo-backend/internal/middleware"
)

type BundleController struct {
	bundleService service.BundleService
	defaultLocale string
}

func NewBundleController(bundleService service.BundleService, defaultLocale string) *BundleController {
	return &BundleController{
		bundleService: bundleService,
		defaultLocale: defaultLocale,
	}
}

// ListBundles returns the newest bundles with their quotes
// GET /api/v1/bundles
func (ctrl *BundleController) ListBundles(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bundles, err := ctrl.bundleService.ListLatest(requestLocale(c, ctrl.defaultLocale))
	if err != nil {
		log.Error("Failed to list bundles", err)
		apperrors.ParseAndRespond(c, err, "bundle")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bundles": bundles,
		"count":   len(bundles),
	})
}

// GetBundle returns one bundle
// GET /api/v1/bundles/:slug
func (ctrl *BundleController) GetBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	slug := c.Param("slug")

	bundle, err := ctrl.bundleService.GetBySlug(slug, requestLocale(c, ctrl.defaultLocale))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBundleNotFound):
			apperrors.NotFound(c, apperrors.BundleNotFound, "Bundle not found")
		case errors.Is(err, service.ErrInvalidBundle):
			log.Warn("Bundle is misconfigured", map[string]interface{}{
				"slug":  slug,
				"error": err.Error(),
			})
			apperrors.NotFound(c, apperrors.BundleNotFound, "Bundle not found")
		default:
			log.Error("Failed to load bundle", err, map[string]interface{}{"slug": slug})
			apperrors.ParseAndRespond(c, err, "bundle")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"bundle": bundle})
}
