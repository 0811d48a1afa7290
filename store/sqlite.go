package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"showcase/logger"
	"showcase/models"
)

type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.createItemsTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create items table: %w", err)
	}
	logger.Info("sqlite initialized", logger.FieldKV("path", path))
	return s, nil
}

// createItemsTable creates the items table if it doesn't exist
func (s *SQLiteStore) createItemsTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS showcase_items (
		item_id TEXT PRIMARY KEY,
		showcase TEXT NOT NULL,
		position INTEGER NOT NULL,
		kind TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		quote TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT '',
		video_url TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_showcase_position ON showcase_items (showcase, position)`)
	return err
}

// UpsertItem inserts or replaces an item.
func (s *SQLiteStore) UpsertItem(ctx context.Context, it models.Item) error {
	if err := ValidateItem(it); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO showcase_items
		(item_id, showcase, position, kind, title, quote, author, role, avatar, rating, category, video_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			showcase=excluded.showcase, position=excluded.position, kind=excluded.kind,
			title=excluded.title, quote=excluded.quote, author=excluded.author, role=excluded.role,
			avatar=excluded.avatar, rating=excluded.rating, category=excluded.category,
			video_url=excluded.video_url`,
		it.ItemID, it.Showcase, it.Position, it.Kind, it.Title, it.Quote, it.Author, it.Role,
		it.Avatar, it.Rating, it.Category, it.VideoURL)
	return err
}

func (s *SQLiteStore) DeleteItem(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM showcase_items WHERE item_id = ?`, itemID)
	return err
}

// ListItems returns the items of a showcase in display order.
func (s *SQLiteStore) ListItems(ctx context.Context, showcase string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id, showcase, position, kind, title, quote,
		author, role, avatar, rating, category, video_url
		FROM showcase_items WHERE showcase = ? ORDER BY position ASC, item_id ASC`, showcase)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ItemID, &it.Showcase, &it.Position, &it.Kind, &it.Title, &it.Quote,
			&it.Author, &it.Role, &it.Avatar, &it.Rating, &it.Category, &it.VideoURL); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Close(context.Context) error { return s.db.Close() }
