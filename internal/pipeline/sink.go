package pipeline

import (
	"context"
	"fmt"

	"github.com/heritagelab/ichcrawl/internal/convert"
	"github.com/heritagelab/ichcrawl/internal/database"
	"github.com/heritagelab/ichcrawl/internal/domain"
)

// StoreSink persists accepted pages straight into the database, chunking
// their text on the way in.
type StoreSink struct {
	store *database.Store
	opts  convert.Options
}

// NewStoreSink creates a sink over a store with the given chunking options.
func NewStoreSink(store *database.Store, opts convert.Options) *StoreSink {
	return &StoreSink{store: store, opts: opts}
}

// StoreRecord converts the record to a document, chunks it, and upserts both
// in one transaction.
func (s *StoreSink) StoreRecord(ctx context.Context, rec *domain.PageRecord) error {
	doc := convert.DocumentFromRecord(rec)
	chunks := convert.ChunksForDocument(doc, s.opts)

	if err := s.store.Persist(ctx, doc, chunks); err != nil {
		return fmt.Errorf("failed to persist document %s: %w", doc.URL, err)
	}

	return nil
}
