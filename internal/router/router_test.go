package router

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kreslo/kreslo-backend/config"
	"github.com/kreslo/kreslo-backend/internal/app/controller"
	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/app/repository"
	"github.com/kreslo/kreslo-backend/internal/app/service"
	"github.com/kreslo/kreslo-backend/internal/cart"
	"github.com/kreslo/kreslo-backend/internal/db"
	"github.com/kreslo/kreslo-backend/internal/export"
	"github.com/kreslo/kreslo-backend/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type testApp struct {
	engine *gin.Engine
	chair  *model.Product
}

func setupApp(t *testing.T) *testApp {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		JWT:    config.JWTConfig{Secret: testSecret, AdminRole: "admin"},
		Cart:   config.CartConfig{CookieName: "kreslo_cart_session", CookieMaxAge: 3600},
	}

	productRepo := repository.NewProductRepository(testDB)
	bundleRepo := repository.NewBundleRepository(testDB)
	settings := service.NewSettingsService(repository.NewSettingRepository(testDB), "+994501234567")
	catalog := service.NewCatalogService(productRepo, repository.NewCategoryRepository(testDB), settings)
	bundles := service.NewBundleService(bundleRepo)
	carts := service.NewCartService(service.CartConfig{Storage: cart.NewMemoryStorage(), Namespace: "kreslo-cart"}, productRepo, bundles, settings)

	chair := &model.Product{
		NameAZ: "Ofis kreslosu", NameRU: "Офисное кресло", NameEN: "Office chair",
		Slug: "office-chair", SKU: "OC-1", Price: decimal.NewFromInt(100),
		IsActive: true, InStock: true, Color: "Black",
	}
	desk := &model.Product{
		NameAZ: "Masa", NameRU: "Стол", NameEN: "Desk",
		Slug: "desk", SKU: "D-1", Price: decimal.NewFromInt(50),
		IsActive: true, InStock: true,
	}
	require.NoError(t, productRepo.Create(chair))
	require.NoError(t, productRepo.Create(desk))
	require.NoError(t, bundleRepo.Create(&model.Bundle{
		NameAZ: "Ofis dəsti", NameRU: "Офисный набор", NameEN: "Office set",
		Slug: "office-set", DiscountPercentage: 20, IsActive: true,
		Products: []model.Product{*chair, *desk},
	}))

	r := NewRouter(
		controller.NewCatalogController(catalog, "az"),
		controller.NewBundleController(bundles, "az"),
		controller.NewCartController(carts, "az"),
		controller.NewColorController(),
		nil,
		controller.NewExportController(bundles, "az"),
		controller.NewSettingsController(settings),
		middleware.NewAuthMiddleware(testSecret, "admin"),
		cfg,
	)
	return &testApp{engine: r.Setup(), chair: chair}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, cookies []*http.Cookie, header ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

type cartResponse struct {
	Cart service.CartView `json:"cart"`
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) service.CartView {
	var resp cartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Cart
}

func TestCartFlow(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	empty := decodeCart(t, w)
	assert.Empty(t, empty.Items)
	assert.Empty(t, empty.CheckoutURL)

	w = app.do(t, http.MethodPost, "/api/v1/cart/items?locale=en", gin.H{"product_id": app.chair.ID, "quantity": 2}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decodeCart(t, w)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Office chair", view.Items[0].Name)
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, "AZN 200.00", view.TotalFormatted)
	assert.True(t, strings.HasPrefix(view.CheckoutURL, "https://wa.me/994501234567?text="))

	w = app.do(t, http.MethodPost, "/api/v1/cart/toggle", nil, cookies)
	assert.True(t, decodeCart(t, w).IsOpen)

	w = app.do(t, http.MethodPut, "/api/v1/cart/items/"+app.chair.ID, gin.H{"quantity": 0}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Items)

	w = app.do(t, http.MethodGet, "/api/v1/cart/checkout", nil, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CART_EMPTY")

	w = app.do(t, http.MethodPost, "/api/v1/cart/bundles/office-set", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decodeCart(t, w).TotalItems)

	w = app.do(t, http.MethodGet, "/api/v1/cart/checkout?locale=ru", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://wa.me/994501234567?text=")

	w = app.do(t, http.MethodDelete, "/api/v1/cart", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Items)
}

func TestCartErrors(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "missing"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")

	w = app.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": app.chair.ID, "quantity": -1}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": app.chair.ID, "quantity": math.MaxInt}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_RANGE")

	w = app.do(t, http.MethodPost, "/api/v1/cart/bundles/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/products/office-chair", nil, nil, "Accept-Language", "ru-RU,ru;q=0.9")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Офисное кресло")
	assert.Contains(t, w.Body.String(), `"swatch":"#000000"`)

	w = app.do(t, http.MethodGet, "/api/v1/products/office-chair/whatsapp?locale=en", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "(SKU%3A%20OC-1)")

	w = app.do(t, http.MethodGet, "/api/v1/products?limit=500", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/api/v1/bundles?locale=en", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bundles struct {
		Bundles []service.BundleView `json:"bundles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundles))
	require.Len(t, bundles.Bundles, 1)
	assert.True(t, bundles.Bundles[0].Quote.BundlePrice.Equal(decimal.NewFromInt(120)))

	w = app.do(t, http.MethodGet, "/api/v1/colors/resolve?name=Navy/White", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hex":[`)

	w = app.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func adminToken(t *testing.T, role string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAdminEndpoints(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/admin/bundles/export", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/api/v1/admin/bundles/export", nil, nil, "Authorization", adminToken(t, "customer"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodGet, "/api/v1/admin/bundles/export", nil, nil, "Authorization", adminToken(t, "admin"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w = app.do(t, http.MethodPut, "/api/v1/admin/settings/whatsapp_number", gin.H{"value": "+994 55 111 22 33"}, nil, "Authorization", adminToken(t, "admin"))
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/v1/products/office-chair/whatsapp", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://wa.me/994551112233?text=")

	w = app.do(t, http.MethodPut, "/api/v1/admin/settings/unknown", gin.H{"value": "x"}, nil, "Authorization", adminToken(t, "admin"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
