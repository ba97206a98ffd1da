package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/heritagelab/ichcrawl/internal/domain"
)

// DocumentsRepository handles database operations for the documents table.
// The url column is the identity key; every write is an idempotent upsert.
type DocumentsRepository struct {
	db *sqlx.DB
}

// NewDocumentsRepository creates a new documents repository.
func NewDocumentsRepository(db *sqlx.DB) *DocumentsRepository {
	return &DocumentsRepository{db: db}
}

const docUpsertWithID = `
	INSERT INTO documents
		(id, url, domain, fetched_at_iso, title, lang, text, checksum, extra_json, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT (url) DO UPDATE SET
		domain = excluded.domain,
		fetched_at_iso = excluded.fetched_at_iso,
		title = excluded.title,
		lang = excluded.lang,
		text = excluded.text,
		checksum = excluded.checksum,
		extra_json = COALESCE(excluded.extra_json, documents.extra_json),
		updated_at = CURRENT_TIMESTAMP
	RETURNING id
`

const docUpsertAutoID = `
	INSERT INTO documents
		(url, domain, fetched_at_iso, title, lang, text, checksum, extra_json, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT (url) DO UPDATE SET
		domain = excluded.domain,
		fetched_at_iso = excluded.fetched_at_iso,
		title = excluded.title,
		lang = excluded.lang,
		text = excluded.text,
		checksum = excluded.checksum,
		extra_json = COALESCE(excluded.extra_json, documents.extra_json),
		updated_at = CURRENT_TIMESTAMP
	RETURNING id
`

// Upsert inserts or updates a document keyed by url and returns its id. An
// explicit positive id is honored on insert so externally computed ids stay
// valid join keys; extra_json is only overwritten by a non-null value. The
// statement runs on q, which may be the repository's own handle or a
// caller-scoped transaction.
func (r *DocumentsRepository) Upsert(ctx context.Context, q sqlx.ExtContext, doc *domain.Document) (int64, error) {
	if q == nil {
		q = r.db
	}

	var query string
	var args []any
	if doc.ID > 0 {
		query = docUpsertWithID
		args = []any{
			doc.ID, doc.URL, doc.Domain, doc.FetchedAtISO,
			doc.Title, doc.Lang, doc.Text, doc.Checksum, doc.Extra,
		}
	} else {
		query = docUpsertAutoID
		args = []any{
			doc.URL, doc.Domain, doc.FetchedAtISO,
			doc.Title, doc.Lang, doc.Text, doc.Checksum, doc.Extra,
		}
	}

	var id int64
	row := q.QueryRowxContext(ctx, q.Rebind(query), args...)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert document: %w", err)
	}
	return id, nil
}

// AdvanceSequence moves the documents id sequence past the maximum observed
// id after a bulk load with explicit ids. SQLite allocates rowids past the
// maximum automatically, so this is a no-op there.
func (r *DocumentsRepository) AdvanceSequence(ctx context.Context) error {
	if r.db.DriverName() != DriverPostgres {
		return nil
	}
	query := `
		SELECT setval(
			pg_get_serial_sequence('documents', 'id'),
			COALESCE((SELECT MAX(id) FROM documents), 0)
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to advance documents sequence: %w", err)
	}
	return nil
}

// DocumentText pairs a document id with its stored text for re-chunking.
type DocumentText struct {
	ID   int64  `db:"id"`
	Text string `db:"text"`
}

// AllTexts returns the id and text of every document with a non-null text,
// for the auto-chunk path.
func (r *DocumentsRepository) AllTexts(ctx context.Context) ([]DocumentText, error) {
	var rows []DocumentText
	query := `SELECT id, text FROM documents WHERE text IS NOT NULL`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list document texts: %w", err)
	}
	return rows, nil
}

// Count returns the number of stored documents.
func (r *DocumentsRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM documents`); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}
