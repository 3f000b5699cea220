package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/kreslo/kreslo-backend/internal/errors"
	"github.com/kreslo/kreslo-backend/pkg/color"
)

type ColorController struct{}

func NewColorController() *ColorController {
	return &ColorController{}
}

// Resolve maps a free-text color name to a swatch
// GET /api/v1/colors/resolve?name=
func (ctrl *ColorController) Resolve(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "name is required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": name,
		"hex":  color.Resolve(name),
	})
}
