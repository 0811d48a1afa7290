package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"showcase/logger"
	"showcase/models"
)

//go:embed seed.json
var seedJSON []byte

// ItemWriter is the write side every store driver offers.
type ItemWriter interface {
	UpsertItem(ctx context.Context, item models.Item) error
}

// SeedItems returns the default testimonials and videos of the site.
func SeedItems() ([]models.Item, error) {
	var items []models.Item
	if err := json.Unmarshal(seedJSON, &items); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for _, it := range items {
		if err := ValidateItem(it); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Seed writes the default items into w, overwriting items with the same id.
func Seed(ctx context.Context, w ItemWriter) (int, error) {
	items, err := SeedItems()
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if err := w.UpsertItem(ctx, it); err != nil {
			return 0, fmt.Errorf("seed %s: %w", it.ItemID, err)
		}
	}
	logger.Info("seed items written", logger.FieldKV("count", len(items)))
	return len(items), nil
}
