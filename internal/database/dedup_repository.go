package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DedupRepository handles the seen-URL and content-hash indexes backing the
// dedup gate.
type DedupRepository struct {
	db *sqlx.DB
}

// NewDedupRepository creates a new dedup repository.
func NewDedupRepository(db *sqlx.DB) *DedupRepository {
	return &DedupRepository{db: db}
}

// SeenURL reports whether the URL has already been processed.
func (r *DedupRepository) SeenURL(ctx context.Context, url string) (bool, error) {
	var exists int
	query := r.db.Rebind(`SELECT 1 FROM seen WHERE url = ?`)
	err := r.db.GetContext(ctx, &exists, query, url)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query seen url: %w", err)
	}
	return true, nil
}

// MarkSeen records a URL as processed with the checksum of what was
// observed. Re-marking replaces the previous row.
func (r *DedupRepository) MarkSeen(ctx context.Context, url, checksum string, fetchedAt float64) error {
	query := r.db.Rebind(`
		INSERT INTO seen (url, checksum, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			checksum = excluded.checksum,
			fetched_at = excluded.fetched_at
	`)
	if _, err := r.db.ExecContext(ctx, query, url, checksum, fetchedAt); err != nil {
		return fmt.Errorf("failed to mark url seen: %w", err)
	}
	return nil
}

// HasContent reports whether a content checksum is already indexed.
func (r *DedupRepository) HasContent(ctx context.Context, checksum string) (bool, error) {
	var exists int
	query := r.db.Rebind(`SELECT 1 FROM text_index WHERE checksum = ?`)
	err := r.db.GetContext(ctx, &exists, query, checksum)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query content index: %w", err)
	}
	return true, nil
}

// RecordContent indexes a content checksum as first-seen for the given url.
func (r *DedupRepository) RecordContent(ctx context.Context, checksum, url, title, lang string) error {
	query := r.db.Rebind(`
		INSERT INTO text_index (checksum, url, title, lang)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (checksum) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			lang = excluded.lang
	`)
	if _, err := r.db.ExecContext(ctx, query, checksum, url, title, lang); err != nil {
		return fmt.Errorf("failed to record content checksum: %w", err)
	}
	return nil
}
