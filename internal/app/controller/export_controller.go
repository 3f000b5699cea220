package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kreslo/kreslo-backend/internal/app/service"
	apperrors "github.com/kreslo/kreslo-backend/internal/errors"
	"github.com/kreslo/kreslo-backend/internal/export"
	"github.com/kreslo/kreslo-backend/internal/middleware"
)

type ExportController struct {
	bundleService service.BundleService
	defaultLocale string
}

func NewExportController(bundleService service.BundleService, defaultLocale string) *ExportController {
	return &ExportController{
		bundleService: bundleService,
		defaultLocale: defaultLocale,
	}
}

// ExportBundles downloads the bundle price sheet
// GET /api/v1/admin/bundles/export
func (ctrl *ExportController) ExportBundles(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bundles, err := ctrl.bundleService.ListAll(requestLocale(c, ctrl.defaultLocale))
	if err != nil {
		log.Error("Failed to load bundles for export", err)
		apperrors.ParseAndRespond(c, err, "bundle")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBundleSheet(&buf, bundles); err != nil {
		log.Error("Failed to render bundle sheet", err)
		apperrors.InternalError(c, "")
		return
	}

	filename := fmt.Sprintf("bundles-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())

	log.Info("Bundle sheet exported", map[string]interface{}{
		"bundles": len(bundles),
	})
}
