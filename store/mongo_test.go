package store

import (
	"context"
	"testing"

	"showcase/models"
)

// NOTE: These tests are lightweight structural tests; full integration would require a running MongoDB.
// They cover the guard paths of a store that never connected.

func TestPingWithoutInit(t *testing.T) {
	var s *MongoStore
	if err := s.Ping(context.Background()); err == nil {
		t.Fatalf("expected error when ping before Open")
	}
}

func TestUpsertItemWithoutInit(t *testing.T) {
	s := &MongoStore{}
	if err := s.UpsertItem(context.Background(), dummyItem()); err == nil {
		t.Fatalf("expected error when inserting before Open")
	}
}

func TestListItemsWithoutInit(t *testing.T) {
	s := &MongoStore{}
	if _, err := s.ListItems(context.Background(), "testimonials"); err == nil {
		t.Fatalf("expected error when listing before Open")
	}
}

func TestCloseWithoutInit(t *testing.T) {
	var s *MongoStore
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("expected nil closing an unopened store, got %v", err)
	}
}

// dummyItem creates a minimal valid item
func dummyItem() models.Item {
	return models.Item{
		ItemID:   "test-id",
		Showcase: "testimonials",
		Kind:     models.KindTestimonial,
		Quote:    "q",
		Author:   "a",
		Rating:   5,
	}
}
