package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"showcase/logger"
	"showcase/models"
)

type MongoStore struct {
	client *mongo.Client
	items  *mongo.Collection
}

// OpenMongo connects to MongoDB, pings, ensures indexes and prepares the items collection.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := &MongoStore{client: client, items: client.Database(database).Collection("showcase_items")}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("mongo initialized", logger.FieldKV("uri", uri), logger.FieldKV("database", database))
	return s, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Ping health check.
func (s *MongoStore) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return s.client.Ping(ctx, readpref.Primary())
}

// UpsertItem inserts or replaces an item keyed by item_id.
func (s *MongoStore) UpsertItem(ctx context.Context, item models.Item) error {
	if s == nil || s.items == nil {
		return fmt.Errorf("items collection not initialized")
	}
	if err := ValidateItem(item); err != nil {
		return err
	}
	filter := bson.M{"item_id": item.ItemID}
	opts := options.Replace().SetUpsert(true)
	_, err := s.items.ReplaceOne(ctx, filter, item, opts)
	return err
}

func (s *MongoStore) DeleteItem(ctx context.Context, itemID string) error {
	if s == nil || s.items == nil {
		return fmt.Errorf("items collection not initialized")
	}
	_, err := s.items.DeleteOne(ctx, bson.M{"item_id": itemID})
	return err
}

// ListItems returns the items of a showcase in display order.
func (s *MongoStore) ListItems(ctx context.Context, showcase string) ([]models.Item, error) {
	if s == nil || s.items == nil {
		return nil, fmt.Errorf("items collection not initialized")
	}
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "item_id", Value: 1}})
	cur, err := s.items.Find(ctx, bson.M{"showcase": showcase}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Item
	for cur.Next(ctx) {
		var it models.Item
		if err := cur.Decode(&it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, cur.Err()
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.items.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "item_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_item_id")},
		{Keys: bson.D{{Key: "showcase", Value: 1}, {Key: "position", Value: 1}}, Options: options.Index().SetName("idx_showcase_position")},
	})
	return err
}
