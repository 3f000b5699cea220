package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kreslo/kreslo-backend/config"
	"github.com/kreslo/kreslo-backend/internal/app/controller"
	"github.com/kreslo/kreslo-backend/internal/middleware"
)

type Router struct {
	catalogController  *controller.CatalogController
	bundleController   *controller.BundleController
	cartController     *controller.CartController
	colorController    *controller.ColorController
	uploadController   *controller.UploadController
	exportController   *controller.ExportController
	settingsController *controller.SettingsController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	catalogController *controller.CatalogController,
	bundleController *controller.BundleController,
	cartController *controller.CartController,
	colorController *controller.ColorController,
	uploadController *controller.UploadController,
	exportController *controller.ExportController,
	settingsController *controller.SettingsController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		catalogController:  catalogController,
		bundleController:   bundleController,
		cartController:     cartController,
		colorController:    colorController,
		uploadController:   uploadController,
		exportController:   exportController,
		settingsController: settingsController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "kreslo API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/categories", r.catalogController.ListCategories)
		v1.GET("/products", r.catalogController.ListProducts)
		v1.GET("/products/:slug", r.catalogController.GetProduct)
		v1.GET("/products/:slug/whatsapp", r.catalogController.GetProductWhatsAppLink)
		v1.GET("/flash-sales", r.catalogController.ListFlashSales)

		v1.GET("/bundles", r.bundleController.ListBundles)
		v1.GET("/bundles/:slug", r.bundleController.GetBundle)

		v1.GET("/colors/resolve", r.colorController.Resolve)

		cart := v1.Group("/cart")
		cart.Use(middleware.CartSession(middleware.CartSessionConfig{
			CookieName: r.config.Cart.CookieName,
			MaxAge:     r.config.Cart.CookieMaxAge,
			Secure:     r.config.Server.Environment == "production",
		}))
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:product_id", r.cartController.UpdateItem)
			cart.DELETE("/items/:product_id", r.cartController.RemoveItem)
			cart.POST("/bundles/:slug", r.cartController.AddBundle)
			cart.POST("/open", r.cartController.Open)
			cart.POST("/close", r.cartController.Close)
			cart.POST("/toggle", r.cartController.Toggle)
			cart.GET("/checkout", r.cartController.Checkout)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.RequireAdmin())
		{
			if r.uploadController != nil {
				admin.POST("/uploads/presigned-url", r.uploadController.GeneratePresignedURL)
			}
			admin.GET("/bundles/export", r.exportController.ExportBundles)
			admin.PUT("/settings/:key", r.settingsController.UpdateSetting)
		}
	}

	return router
}
