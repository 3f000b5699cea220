package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/app/repository"
	"github.com/kreslo/kreslo-backend/internal/cart"
	"github.com/kreslo/kreslo-backend/pkg/logger"
	"github.com/kreslo/kreslo-backend/pkg/money"
	"github.com/kreslo/kreslo-backend/pkg/whatsapp"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotForSale = errors.New("product cannot be added to the cart")
	ErrInvalidQuantity   = errors.New("quantity out of range")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrSessionRequired   = errors.New("cart session is required")
	ErrInvalidVisibility = errors.New("unknown cart visibility action")
)

type CartLineView struct {
	ProductID          string           `json:"product_id"`
	Slug               string           `json:"slug"`
	Name               string           `json:"name"`
	SKU                string           `json:"sku,omitempty"`
	ImageURL           string           `json:"image_url"`
	Quantity           int              `json:"quantity"`
	Price              decimal.Decimal  `json:"price"`
	DiscountPrice      *decimal.Decimal `json:"discount_price,omitempty"`
	HasDiscount        bool             `json:"has_discount"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	LineTotal          decimal.Decimal  `json:"line_total"`
	PriceFormatted     string           `json:"price_formatted"`
	LineTotalFormatted string           `json:"line_total_formatted"`
}

type CartView struct {
	Items          []CartLineView  `json:"items"`
	TotalItems     int             `json:"total_items"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	TotalFormatted string          `json:"total_formatted"`
	IsOpen         bool            `json:"is_open"`
	// CheckoutURL is empty when there is nothing to order.
	CheckoutURL string `json:"checkout_url"`
}

// CartVisibility is the drawer action for SetVisibility.
type CartVisibility string

const (
	CartOpen   CartVisibility = "open"
	CartClose  CartVisibility = "close"
	CartToggle CartVisibility = "toggle"
)

type CartService interface {
	GetCart(ctx context.Context, sessionID, localeCode string) (*CartView, error)
	AddProduct(ctx context.Context, sessionID, productID string, quantity int, localeCode string) (*CartView, error)
	AddBundle(ctx context.Context, sessionID, bundleSlug, localeCode string) (*CartView, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int, localeCode string) (*CartView, error)
	RemoveItem(ctx context.Context, sessionID, productID, localeCode string) (*CartView, error)
	ClearCart(ctx context.Context, sessionID, localeCode string) (*CartView, error)
	SetVisibility(ctx context.Context, sessionID string, action CartVisibility, localeCode string) (*CartView, error)
	CheckoutURL(ctx context.Context, sessionID, localeCode string) (string, error)
	// EvictIdle forgets in-memory stores unused for longer than ttl. Their
	// snapshots stay in storage and are rehydrated on the next request. Stores
	// held by a request in flight are kept.
	EvictIdle(ttl time.Duration) int
	ActiveSessions() int
}

// CartConfig selects where carts persist.
type CartConfig struct {
	Storage   cart.Storage
	Namespace string
}

type cartService struct {
	cfg         CartConfig
	productRepo repository.ProductRepository
	bundles     BundleService
	settings    SettingsService
	now         func() time.Time

	mu     sync.Mutex
	stores map[string]*cart.Store
	inUse  map[string]int
}

func NewCartService(
	cfg CartConfig,
	productRepo repository.ProductRepository,
	bundles BundleService,
	settings SettingsService,
) CartService {
	return &cartService{
		cfg:         cfg,
		productRepo: productRepo,
		bundles:     bundles,
		settings:    settings,
		now:         time.Now,
		stores:      make(map[string]*cart.Store),
		inUse:       make(map[string]int),
	}
}

// acquire returns the session's cart, rehydrating it on first access. The
// store stays pinned against eviction until release is called.
func (s *cartService) acquire(ctx context.Context, sessionID string) (*cart.Store, func(), error) {
	if sessionID == "" {
		return nil, nil, ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stores[sessionID]
	if ok {
		st.Touch()
	} else {
		st = cart.NewStore(ctx, s.cfg.Storage, cart.Key(s.cfg.Namespace, sessionID), cart.WithClock(s.now))
		s.stores[sessionID] = st
	}
	s.inUse[sessionID]++

	release := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.inUse[sessionID]--; s.inUse[sessionID] <= 0 {
			delete(s.inUse, sessionID)
		}
	}
	return st, release, nil
}

func (s *cartService) GetCart(ctx context.Context, sessionID, localeCode string) (*CartView, error) {
	st, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.view(st, localeCode), nil
}

func (s *cartService) itemFor(p model.Product, quantity int, localeCode string) (cart.Item, error) {
	if !p.Purchasable() {
		return cart.Item{}, ErrProductNotForSale
	}
	discount := p.ActiveDiscount(s.now())
	if discount != nil && discount.IsNegative() {
		return cart.Item{}, ErrProductNotForSale
	}
	return cart.Item{
		ProductID:     p.ID,
		Slug:          p.Slug,
		Name:          p.Name().Resolve(localeCode),
		Price:         p.Price,
		DiscountPrice: discount,
		Quantity:      quantity,
		ImageURL:      p.ImageURL,
		SKU:           p.SKU,
	}, nil
}

// AddProduct captures the product's display fields from the catalog at add
// time. A repeated add only increases the quantity of the existing line.
func (s *cartService) AddProduct(ctx context.Context, sessionID, productID string, quantity int, localeCode string) (*CartView, error) {
	if quantity <= 0 || quantity > cart.MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	st, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	item, err := s.itemFor(*product, quantity, localeCode)
	if err != nil {
		return nil, err
	}
	st.AddItem(ctx, item)

	logger.Debug("Product added to cart", map[string]interface{}{
		"cart_key":   st.Key(),
		"product_id": productID,
		"quantity":   quantity,
	})
	return s.view(st, localeCode), nil
}

// AddBundle adds one of each purchasable bundle product.
func (s *cartService) AddBundle(ctx context.Context, sessionID, bundleSlug, localeCode string) (*CartView, error) {
	st, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	products, err := s.bundles.Products(bundleSlug)
	if err != nil {
		return nil, err
	}

	added := 0
	for _, p := range products {
		item, err := s.itemFor(p, 1, localeCode)
		if err != nil {
			logger.Debug("Skipping bundle product", map[string]interface{}{
				"bundle":     bundleSlug,
				"product_id": p.ID,
			})
			continue
		}
		st.AddItem(ctx, item)
		added++
	}
	if added == 0 {
		return nil, ErrProductNotForSale
	}
	return s.view(st, localeCode), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int, localeCode string) (*CartView, error) {
	if quantity > cart.MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	st, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()
	st.UpdateQuantity(ctx, productID, quantity)
	return s.view(st, localeCode), nil
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, productID, localeCode string) (*CartView, error) {
	st, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()
	st.RemoveItem(ctx, productID)
	return s.view(st, localeCode), nil
}

func (s *cartService) ClearCart(ctx context.Context, sessionID, localeCode string) (*CartView, error) {
	st, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()
	st.ClearCart(ctx)
	return s.view(st, localeCode), nil
}

func (s *cartService) SetVisibility(ctx context.Context, sessionID string, action CartVisibility, localeCode string) (*CartView, error) {
	st, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()
	switch action {
	case CartOpen:
		st.Open()
	case CartClose:
		st.Close()
	case CartToggle:
		st.Toggle()
	default:
		return nil, ErrInvalidVisibility
	}
	return s.view(st, localeCode), nil
}

func (s *cartService) CheckoutURL(ctx context.Context, sessionID, localeCode string) (string, error) {
	st, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return "", err
	}
	defer release()
	state := st.State()
	if len(state.Items) == 0 {
		return "", ErrCartEmpty
	}
	url := s.checkoutURL(state.Items, state.TotalPrice, localeCode)
	if url == "" {
		return "", ErrCheckoutUnavailable
	}
	return url, nil
}

func (s *cartService) checkoutURL(items []cart.Item, total decimal.Decimal, localeCode string) string {
	if len(items) == 0 {
		return ""
	}
	phone := s.settings.WhatsAppNumber()
	if whatsapp.SanitizePhone(phone) == "" {
		return ""
	}
	lines := make([]whatsapp.Line, len(items))
	for i, it := range items {
		lines[i] = whatsapp.Line{
			Name:      it.Name,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice(),
		}
	}
	return whatsapp.CartOrderURL(lines, phone, localeCode, total)
}

func (s *cartService) view(st *cart.Store, localeCode string) *CartView {
	state := st.State()

	lines := make([]CartLineView, len(state.Items))
	for i, it := range state.Items {
		unit := it.UnitPrice()
		lineTotal := it.LineTotal()
		lines[i] = CartLineView{
			ProductID:          it.ProductID,
			Slug:               it.Slug,
			Name:               it.Name,
			SKU:                it.SKU,
			ImageURL:           it.ImageURL,
			Quantity:           it.Quantity,
			Price:              it.Price,
			DiscountPrice:      it.DiscountPrice,
			HasDiscount:        it.HasDiscount(),
			UnitPrice:          unit,
			LineTotal:          lineTotal,
			PriceFormatted:     money.Format(unit, localeCode),
			LineTotalFormatted: money.Format(lineTotal, localeCode),
		}
	}

	return &CartView{
		Items:          lines,
		TotalItems:     state.TotalItems,
		TotalPrice:     state.TotalPrice,
		TotalFormatted: money.Format(state.TotalPrice, localeCode),
		IsOpen:         state.IsOpen,
		CheckoutURL:    s.checkoutURL(state.Items, state.TotalPrice, localeCode),
	}
}

func (s *cartService) EvictIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, st := range s.stores {
		if s.inUse[id] > 0 {
			continue
		}
		if st.LastUsed().Before(cutoff) {
			delete(s.stores, id)
			evicted++
		}
	}
	if evicted > 0 {
		logger.Info("Evicted idle carts", map[string]interface{}{
			"evicted":   evicted,
			"remaining": len(s.stores),
		})
	}
	return evicted
}

func (s *cartService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}
