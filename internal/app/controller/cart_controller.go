package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kreslo/kreslo-backend/internal/app/service"
	"github.com/kreslo/kreslo-backend/internal/cart"
	apperrors "github.com/kreslo/kreslo-backend/internal/errors"
	"github.com/kreslo/kreslo-backend/internal/middleware"
)

type CartController struct {
	cartService   service.CartService
	defaultLocale string
}

func NewCartController(cartService service.CartService, defaultLocale string) *CartController {
	return &CartController{
		cartService:   cartService,
		defaultLocale: defaultLocale,
	}
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the session's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, err := ctrl.cartService.GetCart(c.Request.Context(), middleware.GetCartSession(c), requestLocale(c, ctrl.defaultLocale))
	ctrl.respond(c, cart, err)
}

// AddItem adds a catalog product to the cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_id is required")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := ctrl.cartService.AddProduct(c.Request.Context(), middleware.GetCartSession(c), req.ProductID, quantity, requestLocale(c, ctrl.defaultLocale))
	ctrl.respond(c, cart, err)
}

// AddBundle adds every purchasable product of a bundle
// POST /api/v1/cart/bundles/:slug
func (ctrl *CartController) AddBundle(c *gin.Context) {
	cart, err := ctrl.cartService.AddBundle(c.Request.Context(), middleware.GetCartSession(c), c.Param("slug"), requestLocale(c, ctrl.defaultLocale))
	ctrl.respond(c, cart, err)
}

// UpdateItem sets a line's quantity; zero or less removes it
// PUT /api/v1/cart/items/:product_id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "quantity is required")
		return
	}

	cart, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), middleware.GetCartSession(c), c.Param("product_id"), *req.Quantity, requestLocale(c, ctrl.defaultLocale))
	ctrl.respond(c, cart, err)
}

// RemoveItem deletes a line
// DELETE /api/v1/cart/items/:product_id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	cart, err := ctrl.cartService.RemoveItem(c.Request.Context(), middleware.GetCartSession(c), c.Param("product_id"), requestLocale(c, ctrl.defaultLocale))
	ctrl.respond(c, cart, err)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	cart, err := ctrl.cartService.ClearCart(c.Request.Context(), middleware.GetCartSession(c), requestLocale(c, ctrl.defaultLocale))
	ctrl.respond(c, cart, err)
}

// Open, Close and Toggle drive the cart drawer
// POST /api/v1/cart/open|close|toggle
func (ctrl *CartController) Open(c *gin.Context)   { ctrl.setVisibility(c, service.CartOpen) }
func (ctrl *CartController) Close(c *gin.Context)  { ctrl.setVisibility(c, service.CartClose) }
func (ctrl *CartController) Toggle(c *gin.Context) { ctrl.setVisibility(c, service.CartToggle) }

func (ctrl *CartController) setVisibility(c *gin.Context, action service.CartVisibility) {
	cart, err := ctrl.cartService.SetVisibility(c.Request.Context(), middleware.GetCartSession(c), action, requestLocale(c, ctrl.defaultLocale))
	ctrl.respond(c, cart, err)
}

// Checkout returns the WhatsApp order link
// GET /api/v1/cart/checkout
func (ctrl *CartController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	url, err := ctrl.cartService.CheckoutURL(c.Request.Context(), middleware.GetCartSession(c), requestLocale(c, ctrl.defaultLocale))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	log.Info("Checkout link generated", map[string]interface{}{
		"session": middleware.GetCartSession(c),
	})
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (ctrl *CartController) respond(c *gin.Context, cart *service.CartView, err error) {
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (ctrl *CartController) respondError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrSessionRequired):
		apperrors.BadRequest(c, apperrors.CartSessionMissing, "Cart session is missing")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrBundleNotFound):
		apperrors.NotFound(c, apperrors.BundleNotFound, "Bundle not found")
	case errors.Is(err, service.ErrProductNotForSale):
		apperrors.BadRequest(c, apperrors.ProductNotForSale, "This product has no fixed price, contact us to order")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, fmt.Sprintf("Quantity must be between 1 and %d", cart.MaxQuantity))
	case errors.Is(err, service.ErrInvalidVisibility):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown cart action")
	case errors.Is(err, service.ErrCartEmpty):
		apperrors.BadRequest(c, apperrors.CartEmpty, "Your cart is empty")
	case errors.Is(err, service.ErrCheckoutUnavailable):
		log.Warn("WhatsApp number is not configured")
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.CartCheckoutMissing, "Ordering via WhatsApp is temporarily unavailable")
	default:
		log.Error("Cart operation failed", err)
		apperrors.ParseAndRespond(c, err, "cart")
	}
}
