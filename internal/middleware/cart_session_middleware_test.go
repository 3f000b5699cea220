package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.Use(CartSession(CartSessionConfig{CookieName: "kreslo_cart_session", MaxAge: 3600}))
	router.GET("/cart", func(c *gin.Context) {
		c.String(http.StatusOK, GetCartSession(c))
	})
	return router
}

func TestCartSession_IssuesCookie(t *testing.T) {
	router := setupSessionTest()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "kreslo_cart_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, cookies[0].Value, w.Body.String())
	assert.NoError(t, uuid.Validate(cookies[0].Value))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCartSession_ReusesValidCookie(t *testing.T) {
	router := setupSessionTest()
	existing := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "kreslo_cart_session", Value: existing})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, existing, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestCartSession_ReplacesForgedCookie(t *testing.T) {
	router := setupSessionTest()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "kreslo_cart_session", Value: "../../etc/passwd"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEqual(t, "../../etc/passwd", w.Body.String())
	assert.NoError(t, uuid.Validate(w.Body.String()))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://kreslo.az"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://kreslo.az")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://kreslo.az", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
