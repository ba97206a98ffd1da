package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/heritagelab/ichcrawl/internal/domain"
)

// ChunksRepository handles database operations for the chunks table, keyed
// by (doc_id, chunk_index).
type ChunksRepository struct {
	db *sqlx.DB
}

// NewChunksRepository creates a new chunks repository.
func NewChunksRepository(db *sqlx.DB) *ChunksRepository {
	return &ChunksRepository{db: db}
}

const chunkUpsert = `
	INSERT INTO chunks
		(doc_id, chunk_index, content, char_start, char_end, token_estimate, content_md5, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT (doc_id, chunk_index) DO UPDATE SET
		content = excluded.content,
		char_start = excluded.char_start,
		char_end = excluded.char_end,
		token_estimate = excluded.token_estimate,
		content_md5 = excluded.content_md5,
		updated_at = CURRENT_TIMESTAMP
`

// Upsert inserts or updates a single chunk. On conflict the content,
// offsets, token estimate and hash are overwritten and updated_at refreshed.
func (r *ChunksRepository) Upsert(ctx context.Context, q sqlx.ExtContext, ch *domain.Chunk) error {
	if q == nil {
		q = r.db
	}
	_, err := q.ExecContext(ctx, q.Rebind(chunkUpsert),
		ch.DocumentID, ch.Index, ch.Content,
		ch.CharStart, ch.CharEnd, ch.TokenEstimate, ch.ContentMD5,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert chunk %d/%d: %w", ch.DocumentID, ch.Index, err)
	}
	return nil
}

// UpsertBatch applies a batch of chunks on the given execution context.
func (r *ChunksRepository) UpsertBatch(ctx context.Context, q sqlx.ExtContext, chunks []domain.Chunk) error {
	for i := range chunks {
		if err := r.Upsert(ctx, q, &chunks[i]); err != nil {
			return err
		}
	}
	return nil
}

// CountForDocument returns the number of chunks stored for a document.
func (r *ChunksRepository) CountForDocument(ctx context.Context, docID int64) (int64, error) {
	var n int64
	query := r.db.Rebind(`SELECT COUNT(*) FROM chunks WHERE doc_id = ?`)
	if err := r.db.GetContext(ctx, &n, query, docID); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}
