package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/heritagelab/ichcrawl/internal/domain"
)

// Store bundles the document and chunk repositories behind one persistence
// operation, applying a document and its chunks in a single transaction.
type Store struct {
	db     *sqlx.DB
	docs   *DocumentsRepository
	chunks *ChunksRepository
}

// NewStore creates a document store over an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:     db,
		docs:   NewDocumentsRepository(db),
		chunks: NewChunksRepository(db),
	}
}

// Documents returns the underlying documents repository.
func (s *Store) Documents() *DocumentsRepository { return s.docs }

// Chunks returns the underlying chunks repository.
func (s *Store) Chunks() *ChunksRepository { return s.chunks }

// Persist upserts the document and its chunks atomically. The chunks'
// DocumentID is rewritten to the stored document id, which may differ from
// the producer's when the row already existed under an auto-assigned id.
// Re-running with identical input is a no-op beyond refreshed timestamps.
func (s *Store) Persist(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin persist transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	id, err := s.docs.Upsert(ctx, tx, doc)
	if err != nil {
		return err
	}
	doc.ID = id

	for i := range chunks {
		chunks[i].DocumentID = id
	}
	if err = s.chunks.UpsertBatch(ctx, tx, chunks); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit persist transaction: %w", err)
	}
	return nil
}
