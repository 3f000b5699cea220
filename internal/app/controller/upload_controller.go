package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/kreslo/kreslo-backend/internal/errors"
	"github.com/kreslo/kreslo-backend/internal/middleware"
	"github.com/kreslo/kreslo-backend/internal/storage"
)

type UploadController struct {
	storage storage.ImagePresigner
}

func NewUploadController(storage storage.ImagePresigner) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"`
}

// GeneratePresignedURL returns a presigned S3 PUT URL for a catalog image
// POST /api/v1/admin/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "filename and content_type are required")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "products"
	}

	response, err := ctrl.storage.PresignImageUpload(c.Request.Context(), req.Filename, req.ContentType, folder)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedContentType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG, WEBP and AVIF images are allowed")
		case errors.Is(err, storage.ErrUnknownFolder):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown upload folder")
		default:
			log.Error("Failed to generate presigned URL", err, map[string]interface{}{
				"filename": req.Filename,
				"folder":   folder,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare the upload")
		}
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": response.Key,
	})
	c.JSON(http.StatusOK, response)
}
