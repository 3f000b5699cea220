package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kreslo/kreslo-backend/internal/app/service"
	apperrors "github.com/kreslo/kreslo-backend/internal/errors"
	"github.com/kreslo/kreslo-backend/internal/middleware"
)

const maxPageSize = 100

type CatalogController struct {
	catalogService service.CatalogService
	defaultLocale  string
}

func NewCatalogController(catalogService service.CatalogService, defaultLocale string) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		defaultLocale:  defaultLocale,
	}
}

// ListCategories returns storefront categories
// GET /api/v1/categories
func (ctrl *CatalogController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.catalogService.ListCategories(requestLocale(c, ctrl.defaultLocale))
	if err != nil {
		log.Error("Failed to list categories", err)
		apperrors.ParseAndRespond(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// ListProducts returns active products
// GET /api/v1/products?category=&search=&in_stock=&limit=&offset=
func (ctrl *CatalogController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, err := parseIntQuery(c, "limit", 24)
	if err != nil || limit < 1 || limit > maxPageSize {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "limit must be between 1 and 100")
		return
	}
	offset, err := parseIntQuery(c, "offset", 0)
	if err != nil || offset < 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "offset must not be negative")
		return
	}

	opts := service.ProductListOptions{
		Category:    c.Query("category"),
		Search:      c.Query("search"),
		InStockOnly: c.Query("in_stock") == "true",
		Limit:       limit,
		Offset:      offset,
	}

	products, err := ctrl.catalogService.ListProducts(opts, requestLocale(c, ctrl.defaultLocale))
	if err != nil {
		log.Error("Failed to list products", err)
		apperrors.ParseAndRespond(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"limit":    limit,
		"offset":   offset,
	})
}

// GetProduct returns one product
// GET /api/v1/products/:slug
func (ctrl *CatalogController) GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	product, err := ctrl.catalogService.GetProduct(slug, requestLocale(c, ctrl.defaultLocale))
	if err != nil {
		ctrl.respondProductError(c, err, slug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetProductWhatsAppLink returns the single-product inquiry link
// GET /api/v1/products/:slug/whatsapp
func (ctrl *CatalogController) GetProductWhatsAppLink(c *gin.Context) {
	slug := c.Param("slug")

	url, err := ctrl.catalogService.ProductInquiryURL(slug, requestLocale(c, ctrl.defaultLocale))
	if err != nil {
		ctrl.respondProductError(c, err, slug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// ListFlashSales returns products with a running countdown
// GET /api/v1/flash-sales
func (ctrl *CatalogController) ListFlashSales(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.catalogService.ListFlashSales(requestLocale(c, ctrl.defaultLocale))
	if err != nil {
		log.Error("Failed to list flash sales", err)
		apperrors.ParseAndRespond(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

func (ctrl *CatalogController) respondProductError(c *gin.Context, err error, slug string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		log.Debug("Product not found", map[string]interface{}{"slug": slug})
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrCheckoutUnavailable):
		log.Warn("WhatsApp number is not configured")
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.CartCheckoutMissing, "Ordering via WhatsApp is temporarily unavailable")
	default:
		log.Error("Failed to load product", err, map[string]interface{}{"slug": slug})
		apperrors.ParseAndRespond(c, err, "product")
	}
}

func parseIntQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
