package storage

import (
	"context"
	"fmt"
)

// Schema is created on startup; sqlite ships inside the service so there
// is no external migration step.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		title_en TEXT NOT NULL,
		title_ar TEXT NOT NULL,
		quick_donate INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL REFERENCES categories(id),
		title_en TEXT NOT NULL,
		title_ar TEXT NOT NULL,
		goal_amount REAL NOT NULL DEFAULT 0,
		raised_amount REAL NOT NULL DEFAULT 0,
		allows_monthly INTEGER NOT NULL DEFAULT 1,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		donor_key TEXT NOT NULL,
		campaign_id TEXT NOT NULL REFERENCES campaigns(id),
		amount REAL NOT NULL,
		amount_usd REAL NOT NULL,
		currency TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cart_items_donor_key ON cart_items(donor_key)`,
	`CREATE TABLE IF NOT EXISTS donations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		gateway_id TEXT,
		donor_key TEXT NOT NULL,
		kind TEXT NOT NULL,
		currency TEXT NOT NULL,
		amount_usd REAL NOT NULL,
		team_support_usd REAL NOT NULL DEFAULT 0,
		cover_fees INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		context_mode TEXT NOT NULL,
		campaign_id TEXT,
		category_id TEXT,
		processed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_donations_status ON donations(status)`,
}

func (s *storageImpl) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
