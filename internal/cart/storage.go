package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by a Storage that holds nothing under a key.
var ErrNotFound = errors.New("cart snapshot not found")

// Storage is durable key/value storage for cart snapshots.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Snapshot is what gets persisted: the items only. The open flag and totals
// are derived or transient and never stored.
type Snapshot struct {
	Items []Item `json:"items"`
}

// Key returns the namespaced storage key for a session. An empty session
// uses the namespace itself.
func Key(namespace, session string) string {
	if session == "" {
		return namespace
	}
	return namespace + ":" + session
}

func encodeSnapshot(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(Snapshot{Items: items})
}

// decodeSnapshot parses persisted data and drops anything that would break
// the cart's invariants: lines without a product id, non-positive quantities,
// negative prices. Duplicate ids are merged into the first occurrence and
// quantities are capped at MaxQuantity.
func decodeSnapshot(data []byte) ([]Item, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}

	items := make([]Item, 0, len(snap.Items))
	index := make(map[string]int, len(snap.Items))
	for _, it := range snap.Items {
		if it.ProductID == "" || it.Quantity <= 0 || !it.pricesValid() {
			continue
		}
		if at, ok := index[it.ProductID]; ok {
			items[at].Quantity = addQuantity(items[at].Quantity, it.Quantity)
			continue
		}
		if it.Quantity > MaxQuantity {
			it.Quantity = MaxQuantity
		}
		index[it.ProductID] = len(items)
		items = append(items, it)
	}
	return items, nil
}

// MemoryStorage keeps snapshots in process memory.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStorage) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}
