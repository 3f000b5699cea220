package service

import (
	"context"
	"math"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/app/repository"
	"github.com/kreslo/kreslo-backend/internal/cart"
	"github.com/kreslo/kreslo-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddProductCapturesCatalogFields(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.product(t, "oslo", "150", discounted("120", time.Hour))

	view, err := f.carts.AddProduct(ctx, "s1", p.ID, 2, "ru")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	line := view.Items[0]
	assert.Equal(t, "Кресло oslo", line.Name)
	assert.Equal(t, "SKU-oslo", line.SKU)
	assert.True(t, line.Price.Equal(decimal.NewFromInt(150)))
	require.NotNil(t, line.DiscountPrice)
	assert.True(t, line.HasDiscount)
	assert.True(t, line.LineTotal.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, 2, view.TotalItems)
	assert.True(t, view.TotalPrice.Equal(decimal.NewFromInt(240)))
	assert.NotEmpty(t, view.CheckoutURL)
}

func TestCartService_RepeatedAddKeepsFirstCapturedName(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.product(t, "oslo", "150")

	_, err := f.carts.AddProduct(ctx, "s1", p.ID, 1, "az")
	require.NoError(t, err)
	view, err := f.carts.AddProduct(ctx, "s1", p.ID, 1, "en")
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "Kreslo oslo", view.Items[0].Name)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestCartService_AddProductErrors(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	negotiable := f.product(t, "custom", "0", func(p *model.Product) { p.PriceNegotiable = true })
	hidden := f.product(t, "hidden", "10", func(p *model.Product) { p.IsActive = false })
	ok := f.product(t, "ok", "10")

	tests := []struct {
		name      string
		session   string
		productID string
		quantity  int
		wantErr   error
	}{
		{name: "unknown product", session: "s1", productID: "nope", quantity: 1, wantErr: ErrProductNotFound},
		{name: "inactive product", session: "s1", productID: hidden.ID, quantity: 1, wantErr: ErrProductNotFound},
		{name: "negotiable price", session: "s1", productID: negotiable.ID, quantity: 1, wantErr: ErrProductNotForSale},
		{name: "zero quantity", session: "s1", productID: ok.ID, quantity: 0, wantErr: ErrInvalidQuantity},
		{name: "quantity above limit", session: "s1", productID: ok.ID, quantity: cart.MaxQuantity + 1, wantErr: ErrInvalidQuantity},
		{name: "overflowing quantity", session: "s1", productID: ok.ID, quantity: math.MaxInt, wantErr: ErrInvalidQuantity},
		{name: "missing session", session: "", productID: ok.ID, quantity: 1, wantErr: ErrSessionRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.carts.AddProduct(ctx, tt.session, tt.productID, tt.quantity, "en")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	view, err := f.carts.GetCart(ctx, "s1", "en")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Empty(t, view.CheckoutURL)
}

func TestCartService_SessionsAreIsolated(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.product(t, "oslo", "150")

	_, err := f.carts.AddProduct(ctx, "alice", p.ID, 1, "en")
	require.NoError(t, err)

	bob, err := f.carts.GetCart(ctx, "bob", "en")
	require.NoError(t, err)
	assert.Empty(t, bob.Items)
	assert.Equal(t, 2, f.carts.ActiveSessions())
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a := f.product(t, "a", "10")
	b := f.product(t, "b", "20")

	_, err := f.carts.AddProduct(ctx, "s1", a.ID, 1, "en")
	require.NoError(t, err)
	_, err = f.carts.AddProduct(ctx, "s1", b.ID, 1, "en")
	require.NoError(t, err)

	view, err := f.carts.UpdateQuantity(ctx, "s1", a.ID, 5, "en")
	require.NoError(t, err)
	assert.Equal(t, 6, view.TotalItems)

	view, err = f.carts.UpdateQuantity(ctx, "s1", b.ID, 0, "en")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	view, err = f.carts.RemoveItem(ctx, "s1", "absent", "en")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	view, err = f.carts.ClearCart(ctx, "s1", "en")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.TotalPrice.IsZero())
}

func TestCartService_Visibility(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	view, err := f.carts.SetVisibility(ctx, "s1", CartToggle, "en")
	require.NoError(t, err)
	assert.True(t, view.IsOpen)

	view, err = f.carts.SetVisibility(ctx, "s1", CartOpen, "en")
	require.NoError(t, err)
	assert.True(t, view.IsOpen)

	view, err = f.carts.SetVisibility(ctx, "s1", CartClose, "en")
	require.NoError(t, err)
	assert.False(t, view.IsOpen)

	_, err = f.carts.SetVisibility(ctx, "s1", "spin", "en")
	assert.ErrorIs(t, err, ErrInvalidVisibility)
}

func TestCartService_AddBundle(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	chair := f.product(t, "chair", "100")
	desk := f.product(t, "desk", "300")
	custom := f.product(t, "custom", "0", func(p *model.Product) { p.PriceNegotiable = true })
	f.bundle(t, "office", 10, chair, desk, custom)
	f.bundle(t, "quote-only", 10, custom)

	view, err := f.carts.AddBundle(ctx, "s1", "office", "en")
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.True(t, view.TotalPrice.Equal(decimal.NewFromInt(400)), "bundle discount is not applied to cart lines")

	_, err = f.carts.AddBundle(ctx, "s1", "quote-only", "en")
	assert.ErrorIs(t, err, ErrProductNotForSale)

	_, err = f.carts.AddBundle(ctx, "s1", "missing", "en")
	assert.ErrorIs(t, err, ErrBundleNotFound)
}

func TestCartService_CheckoutURL(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	chair := f.product(t, "chair", "100")
	desk := f.product(t, "desk", "300", discounted("250", 0))

	_, err := f.carts.CheckoutURL(ctx, "s1", "en")
	assert.ErrorIs(t, err, ErrCartEmpty)

	_, err = f.carts.AddProduct(ctx, "s1", chair.ID, 2, "en")
	require.NoError(t, err)
	_, err = f.carts.AddProduct(ctx, "s1", desk.ID, 1, "en")
	require.NoError(t, err)

	link, err := f.carts.CheckoutURL(ctx, "s1", "en")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://wa.me/994501234567?text="))

	text, err := url.PathUnescape(strings.TrimPrefix(link, "https://wa.me/994501234567?text="))
	require.NoError(t, err)
	assert.Contains(t, text, "• 2x Chair chair (SKU: SKU-chair) — 200.00 AZN +\n")
	assert.Contains(t, text, "• 1x Chair desk (SKU: SKU-desk) — 250.00 AZN")
	assert.Contains(t, text, "450.00 AZN")
}

func TestCartService_CheckoutWithoutMerchantNumber(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	products := repository.NewProductRepository(testDB)
	settings := NewSettingsService(repository.NewSettingRepository(testDB), "")
	svc := NewCartService(CartConfig{Storage: cart.NewMemoryStorage(), Namespace: "kreslo-cart"},
		products, NewBundleService(repository.NewBundleRepository(testDB)), settings)

	p := &model.Product{NameAZ: "x", NameRU: "x", NameEN: "x", Slug: "x", Price: decimal.NewFromInt(5), IsActive: true}
	require.NoError(t, products.Create(p))

	ctx := context.Background()
	view, err := svc.AddProduct(ctx, "s1", p.ID, 1, "en")
	require.NoError(t, err)
	assert.Empty(t, view.CheckoutURL)

	_, err = svc.CheckoutURL(ctx, "s1", "en")
	assert.ErrorIs(t, err, ErrCheckoutUnavailable)
}

func TestCartService_RehydratesAfterEviction(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.product(t, "oslo", "150")

	_, err := f.carts.AddProduct(ctx, "s1", p.ID, 3, "en")
	require.NoError(t, err)
	_, err = f.carts.GetCart(ctx, "s2", "en")
	require.NoError(t, err)

	assert.Equal(t, 0, f.carts.EvictIdle(time.Minute), "nothing is idle yet")

	f.carts.now = func() time.Time { return testNow.Add(time.Hour) }
	assert.Equal(t, 2, f.carts.EvictIdle(30*time.Minute))
	assert.Equal(t, 0, f.carts.ActiveSessions())

	view, err := f.carts.GetCart(ctx, "s1", "en")
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalItems)

	_, err = f.storage.Load(ctx, cart.Key("kreslo-cart", "s1"))
	assert.NoError(t, err)
}

func TestCartService_QuantityStaysWithinLimit(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.product(t, "oslo", "10")

	_, err := f.carts.AddProduct(ctx, "s1", p.ID, cart.MaxQuantity, "en")
	require.NoError(t, err)
	view, err := f.carts.AddProduct(ctx, "s1", p.ID, 1, "en")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, cart.MaxQuantity, view.TotalItems)

	_, err = f.carts.UpdateQuantity(ctx, "s1", p.ID, math.MaxInt, "en")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	view, err = f.carts.GetCart(ctx, "s1", "en")
	require.NoError(t, err)
	assert.Equal(t, cart.MaxQuantity, view.TotalItems)
}

func TestCartService_EvictIdleKeepsStoresInUse(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	held, release, err := f.carts.acquire(ctx, "busy")
	require.NoError(t, err)
	_, err = f.carts.GetCart(ctx, "idle", "en")
	require.NoError(t, err)

	f.carts.now = func() time.Time { return testNow.Add(time.Hour) }
	assert.Equal(t, 1, f.carts.EvictIdle(30*time.Minute))
	assert.Equal(t, 1, f.carts.ActiveSessions())

	again, releaseAgain, err := f.carts.acquire(ctx, "busy")
	require.NoError(t, err)
	assert.Same(t, held, again)
	releaseAgain()
	release()

	f.carts.now = func() time.Time { return testNow.Add(3 * time.Hour) }
	assert.Equal(t, 1, f.carts.EvictIdle(30*time.Minute))
	assert.Equal(t, 0, f.carts.ActiveSessions())
}

func TestCartService_ViewTotalsMatchItemsUnderConcurrentUpdates(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.product(t, "oslo", "10")

	_, err := f.carts.AddProduct(ctx, "s1", p.ID, 1, "en")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			f.carts.UpdateQuantity(ctx, "s1", p.ID, i%40+1, "en")
		}
	}()

	for i := 0; i < 500; i++ {
		view, err := f.carts.GetCart(ctx, "s1", "en")
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		require.Equal(t, view.Items[0].Quantity, view.TotalItems)
		require.True(t, view.Items[0].LineTotal.Equal(view.TotalPrice))
	}
	<-done
}
