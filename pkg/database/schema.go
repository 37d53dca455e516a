package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
)

// schema is applied in order; {{ts}} is replaced with the dialect's timestamp type.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at {{ts}} NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)`,

	`CREATE TABLE IF NOT EXISTS instagram_accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users (id),
		username TEXT NOT NULL,
		display_name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL,
		created_at {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS instagram_accounts_user_id_idx ON instagram_accounts (user_id)`,

	// campaigns keep the account id after the account is removed, so there is no FK here
	`CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users (id),
		instagram_account_id TEXT NOT NULL,
		name TEXT NOT NULL,
		target_audience TEXT NOT NULL,
		message TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at {{ts}} NOT NULL,
		activated_at {{ts}} NULL
	)`,
	`CREATE INDEX IF NOT EXISTS campaigns_user_id_created_at_idx ON campaigns (user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		campaign_id TEXT NOT NULL REFERENCES campaigns (id),
		username TEXT NOT NULL,
		display_name TEXT NOT NULL,
		is_demo BOOLEAN NOT NULL,
		seq INTEGER NOT NULL,
		created_at {{ts}} NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS leads_campaign_id_username_key ON leads (campaign_id, username)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		campaign_id TEXT NOT NULL REFERENCES campaigns (id),
		lead_id TEXT NOT NULL REFERENCES leads (id),
		content TEXT NOT NULL,
		status TEXT NOT NULL,
		sent_at {{ts}} NOT NULL,
		is_demo BOOLEAN NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS messages_campaign_id_lead_id_key ON messages (campaign_id, lead_id)`,
}

func timestampType(driver string) string {
	if driver == dialect.Postgres {
		return "TIMESTAMPTZ"
	}
	return "TIMESTAMP"
}

// Migrate creates any missing tables and indexes
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	ts := timestampType(driver)
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, strings.ReplaceAll(stmt, "{{ts}}", ts)); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
