// Package cart is the shopping cart state container.
//
// A Store is the single writer-of-record for one shopper's cart. Every
// mutator leaves the items unique by product id with quantity >= 1, then
// writes a snapshot to Storage. A failed write is logged and the in-memory
// state stands; the next mutation tries again.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kreslo/kreslo-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu         sync.Mutex
	items      []Item
	isOpen     bool
	storage    Storage
	key        string
	persistErr error
	lastUsed   time.Time
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for idle tracking in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore rehydrates the cart persisted under key. Missing or unreadable
// data gives an empty cart.
func NewStore(ctx context.Context, storage Storage, key string, opts ...Option) *Store {
	s := &Store{storage: storage, key: key, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.lastUsed = s.now()
	s.items = s.rehydrate(ctx)
	return s
}

func (s *Store) rehydrate(ctx context.Context) []Item {
	data, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []Item{}
	}
	if err != nil {
		logger.Warn("Cart storage unavailable, starting with an empty cart", logger.Fields{
			"key":   s.key,
			"error": err.Error(),
		})
		return []Item{}
	}

	items, err := decodeSnapshot(data)
	if err != nil {
		logger.Warn("Discarding corrupt cart snapshot", logger.Fields{
			"key":   s.key,
			"error": err.Error(),
		})
		return []Item{}
	}

	logger.Debug("Cart rehydrated", logger.Fields{
		"key":   s.key,
		"count": len(items),
	})
	return items
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) {
	data, err := encodeSnapshot(s.items)
	if err == nil {
		err = s.storage.Save(ctx, s.key, data)
	}
	if err != nil {
		s.persistErr = err
		logger.Warn("Failed to persist cart, keeping in-memory state", logger.Fields{
			"key":   s.key,
			"error": err.Error(),
		})
		return
	}
	s.persistErr = nil
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i], s.items[i+1:]...)
}

// AddItem merges item into the cart. An existing line keeps its captured
// name, price and image and only accumulates quantity, saturating at
// MaxQuantity; if that brings the quantity to zero or below the line is
// removed. A new line with a non-positive quantity is ignored. Negative prices
// are caller bugs and panic.
func (s *Store) AddItem(ctx context.Context, item Item) {
	if !item.pricesValid() {
		panic(fmt.Sprintf("cart: negative price for product %q", item.ProductID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()

	if item.Quantity > MaxQuantity {
		item.Quantity = MaxQuantity
	}
	if i := s.indexOf(item.ProductID); i >= 0 {
		s.items[i].Quantity = addQuantity(s.items[i].Quantity, item.Quantity)
		if s.items[i].Quantity <= 0 {
			s.removeAt(i)
		}
	} else {
		if item.Quantity <= 0 {
			return
		}
		s.items = append(s.items, item.clone())
	}
	s.persist(ctx)
}

// RemoveItem deletes the line for productID. Absent ids are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.removeAt(i)
	s.persist(ctx)
}

// UpdateQuantity sets the quantity of an existing line, capped at
// MaxQuantity. quantity <= 0 removes it. Absent ids are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	switch {
	case quantity <= 0:
		s.removeAt(i)
	case quantity > MaxQuantity:
		s.items[i].Quantity = MaxQuantity
	default:
		s.items[i].Quantity = quantity
	}
	s.persist(ctx)
}

// ClearCart empties the cart unconditionally.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()

	s.items = []Item{}
	s.persist(ctx)
}

func (s *Store) Open() {
	s.setOpen(func(bool) bool { return true })
}

func (s *Store) Close() {
	s.setOpen(func(bool) bool { return false })
}

func (s *Store) Toggle() {
	s.setOpen(func(open bool) bool { return !open })
}

func (s *Store) setOpen(next func(bool) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	s.isOpen = next(s.isOpen)
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// State is a consistent read of the whole cart.
type State struct {
	Items      []Item
	TotalItems int
	TotalPrice decimal.Decimal
	IsOpen     bool
}

// State returns the items, totals and open flag taken under one lock, so the
// totals always agree with the lines.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Items:      s.copyItems(),
		TotalItems: s.totalItems(),
		TotalPrice: s.totalPrice(),
		IsOpen:     s.isOpen,
	}
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

func (s *Store) copyItems() []Item {
	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.clone()
	}
	return out
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// TotalItems is the sum of quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalItems()
}

func (s *Store) totalItems() int {
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice is recomputed from the lines on every call.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPrice()
}

func (s *Store) totalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// PersistError is the error of the most recent failed write, or nil once a
// write succeeds again.
func (s *Store) PersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// LastUsed is when the store was last mutated, toggled or touched.
func (s *Store) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Touch marks the store as used without changing it.
func (s *Store) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
}

func (s *Store) Key() string {
	return s.key
}
