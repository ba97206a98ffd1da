package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Shared schema statements; the SQL is the dialect common to SQLite (>=3.24)
// and PostgreSQL except for the auto-increment id columns.
var commonSchema = []string{
	`CREATE TABLE IF NOT EXISTS seen (
		url TEXT PRIMARY KEY,
		checksum TEXT,
		fetched_at DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS text_index (
		checksum TEXT PRIMARY KEY,
		url TEXT,
		title TEXT,
		lang TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chunks_doc ON chunks (doc_id)`,
}

var documentsSchema = map[string]string{
	DriverPostgres: `CREATE TABLE IF NOT EXISTS documents (
		id BIGSERIAL PRIMARY KEY,
		url TEXT UNIQUE NOT NULL,
		domain TEXT,
		fetched_at_iso TEXT,
		title TEXT,
		lang TEXT,
		text TEXT,
		checksum TEXT,
		extra_json TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	DriverSQLite: `CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY,
		url TEXT UNIQUE NOT NULL,
		domain TEXT,
		fetched_at_iso TEXT,
		title TEXT,
		lang TEXT,
		text TEXT,
		checksum TEXT,
		extra_json TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

var chunksSchema = map[string]string{
	DriverPostgres: `CREATE TABLE IF NOT EXISTS chunks (
		id BIGSERIAL PRIMARY KEY,
		doc_id BIGINT NOT NULL,
		chunk_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		char_start INTEGER,
		char_end INTEGER,
		token_estimate INTEGER,
		content_md5 TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (doc_id, chunk_index)
	)`,
	DriverSQLite: `CREATE TABLE IF NOT EXISTS chunks (
		id INTEGER PRIMARY KEY,
		doc_id INTEGER NOT NULL,
		chunk_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		char_start INTEGER,
		char_end INTEGER,
		token_estimate INTEGER,
		content_md5 TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (doc_id, chunk_index)
	)`,
}

// EnsureSchema creates the seen, text_index, documents and chunks tables if
// they do not exist. It is safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	driver := db.DriverName()
	docs, ok := documentsSchema[driver]
	if !ok {
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	stmts := []string{docs, chunksSchema[driver]}
	stmts = append(stmts, commonSchema...)
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
