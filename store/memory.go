package store

import (
	"context"
	"sort"
	"sync"

	"showcase/models"
)

// MemoryStore keeps items in process memory. It is the default driver for local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]models.Item // by item id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]models.Item)}
}

func (m *MemoryStore) ListItems(_ context.Context, showcase string) ([]models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Item
	for _, it := range m.items {
		if it.Showcase == showcase {
			out = append(out, it)
		}
	}
	sortItems(out)
	return out, nil
}

// UpsertItem inserts or replaces an item.
func (m *MemoryStore) UpsertItem(_ context.Context, item models.Item) error {
	if err := ValidateItem(item); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ItemID] = item
	return nil
}

// DeleteItem removes an item; unknown ids are ignored.
func (m *MemoryStore) DeleteItem(_ context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, itemID)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error  { return nil }
func (m *MemoryStore) Close(context.Context) error { return nil }

func sortItems(items []models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ItemID < items[j].ItemID
	})
}
