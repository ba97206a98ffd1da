// Package ingest loads converted document and chunk JSONL files into the
// database with batched transactions, and can re-chunk stored documents when
// no chunk file is available.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/heritagelab/ichcrawl/internal/chunker"
	"github.com/heritagelab/ichcrawl/internal/convert"
	"github.com/heritagelab/ichcrawl/internal/database"
	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/logger"
)

const (
	defaultDocBatch   = 500
	defaultChunkBatch = 2000
	maxLineBytes      = 16 << 20
)

// Options controls an ingest run. ChunksPath may be empty; with AutoChunk
// set, documents are re-chunked from their stored text instead.
type Options struct {
	DocumentsPath string
	ChunksPath    string
	AutoChunk     bool
	Chunking      convert.Options
	DocBatch      int
	ChunkBatch    int
}

// Result summarizes an ingest run.
type Result struct {
	Documents     int
	Chunks        int
	SkippedDocs   int
	SkippedChunks int
	AutoChunked   int
}

// Loader ingests converted files into a database.
type Loader struct {
	db     *sqlx.DB
	docs   *database.DocumentsRepository
	chunks *database.ChunksRepository
	logger logger.Interface
}

// NewLoader creates a loader over an open database handle. A nil logger is
// replaced with a no-op.
func NewLoader(db *sqlx.DB, log logger.Interface) *Loader {
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Loader{
		db:     db,
		docs:   database.NewDocumentsRepository(db),
		chunks: database.NewChunksRepository(db),
		logger: log,
	}
}

// Run ensures the schema, loads documents then chunks, and finally advances
// the id sequence past any explicitly assigned ids. Commits happen every
// DocBatch documents and every ChunkBatch chunks, so a crash loses at most
// one batch and a re-run repairs it through the upserts.
func (l *Loader) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.DocBatch <= 0 {
		opts.DocBatch = defaultDocBatch
	}
	if opts.ChunkBatch <= 0 {
		opts.ChunkBatch = defaultChunkBatch
	}

	if err := database.EnsureSchema(ctx, l.db); err != nil {
		return nil, err
	}

	result := &Result{}

	urlToID, err := l.loadDocuments(ctx, opts, result)
	if err != nil {
		return result, err
	}

	if opts.ChunksPath != "" {
		if err := l.loadChunks(ctx, opts, urlToID, result); err != nil {
			return result, err
		}
	} else if opts.AutoChunk {
		if err := l.autoChunk(ctx, opts, result); err != nil {
			return result, err
		}
	}

	if err := l.docs.AdvanceSequence(ctx); err != nil {
		return result, err
	}

	l.logger.Info("Ingest complete",
		"documents", result.Documents,
		"chunks", result.Chunks,
		"skipped_docs", result.SkippedDocs,
		"skipped_chunks", result.SkippedChunks,
		"auto_chunked", result.AutoChunked)

	return result, nil
}

func (l *Loader) loadDocuments(ctx context.Context, opts Options, result *Result) (map[string]int64, error) {
	urlToID := make(map[string]int64)

	batch := newBatcher(l.db, opts.DocBatch)

	err := scanLines(opts.DocumentsPath, func(lineNo int, line []byte) error {
		var doc domain.Document
		if err := json.Unmarshal(line, &doc); err != nil {
			l.logger.Warn("Skipping malformed document line", "line", lineNo, "error", err)
			result.SkippedDocs++
			return nil
		}

		tx, err := batch.tx(ctx)
		if err != nil {
			return err
		}

		id, err := l.docs.Upsert(ctx, tx, &doc)
		if err != nil {
			return err
		}
		urlToID[doc.URL] = id
		result.Documents++

		return batch.advance()
	})
	if err != nil {
		batch.abort()
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	if err := batch.flush(); err != nil {
		return nil, err
	}

	return urlToID, nil
}

// chunkLine is the wire shape of one chunk record. document_id is either the
// numeric document id or the document URL, so converted files from both
// producers load the same way.
type chunkLine struct {
	DocumentID    json.RawMessage `json:"document_id"`
	ChunkIndex    int             `json:"chunk_index"`
	Content       string          `json:"content"`
	CharStart     int             `json:"char_start"`
	CharEnd       int             `json:"char_end"`
	TokenEstimate int             `json:"token_estimate"`
	ContentMD5    string          `json:"content_md5"`
}

func (l *Loader) loadChunks(ctx context.Context, opts Options, urlToID map[string]int64, result *Result) error {
	batch := newBatcher(l.db, opts.ChunkBatch)

	err := scanLines(opts.ChunksPath, func(lineNo int, line []byte) error {
		var cl chunkLine
		if err := json.Unmarshal(line, &cl); err != nil {
			l.logger.Warn("Skipping malformed chunk line", "line", lineNo, "error", err)
			result.SkippedChunks++
			return nil
		}

		docID, ok := resolveDocID(cl.DocumentID, urlToID)
		if !ok {
			l.logger.Warn("Skipping chunk with unresolvable document", "line", lineNo)
			result.SkippedChunks++
			return nil
		}

		ch := domain.Chunk{
			DocumentID:    docID,
			Index:         cl.ChunkIndex,
			Content:       cl.Content,
			CharStart:     cl.CharStart,
			CharEnd:       cl.CharEnd,
			TokenEstimate: cl.TokenEstimate,
			ContentMD5:    cl.ContentMD5,
		}
		if ch.TokenEstimate <= 0 {
			ch.TokenEstimate = chunker.EstimateTokens(ch.Content)
		}
		if ch.ContentMD5 == "" {
			ch.ContentMD5 = chunker.ContentMD5(ch.Content)
		}

		tx, err := batch.tx(ctx)
		if err != nil {
			return err
		}

		if err := l.chunks.Upsert(ctx, tx, &ch); err != nil {
			return err
		}
		result.Chunks++

		return batch.advance()
	})
	if err != nil {
		batch.abort()
		return fmt.Errorf("failed to load chunks: %w", err)
	}

	return batch.flush()
}

// resolveDocID interprets a raw document_id as a number, or as a URL mapped
// through the documents loaded earlier in this run. Unknown URLs fall back
// to the stable ID the converter would have assigned.
func resolveDocID(raw json.RawMessage, urlToID map[string]int64) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	if raw[0] != '"' {
		id, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	}

	var url string
	if err := json.Unmarshal(raw, &url); err != nil || url == "" {
		return 0, false
	}
	if id, ok := urlToID[url]; ok {
		return id, true
	}
	return convert.StableIDFromURL(url), true
}

func (l *Loader) autoChunk(ctx context.Context, opts Options, result *Result) error {
	texts, err := l.docs.AllTexts(ctx)
	if err != nil {
		return err
	}

	batch := newBatcher(l.db, opts.ChunkBatch)

	for _, dt := range texts {
		doc := domain.Document{ID: dt.ID, Text: dt.Text}

		for _, ch := range convert.ChunksForDocument(&doc, opts.Chunking) {
			tx, err := batch.tx(ctx)
			if err != nil {
				batch.abort()
				return err
			}

			if err := l.chunks.Upsert(ctx, tx, &ch); err != nil {
				batch.abort()
				return err
			}
			result.Chunks++

			if err := batch.advance(); err != nil {
				batch.abort()
				return err
			}
		}

		result.AutoChunked++
	}

	return batch.flush()
}

func scanLines(path string, fn func(lineNo int, line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if err := fn(lineNo, line); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// batcher groups upserts into transactions of a fixed size.
type batcher struct {
	db      *sqlx.DB
	size    int
	current *sqlx.Tx
	count   int
}

func newBatcher(db *sqlx.DB, size int) *batcher {
	return &batcher{db: db, size: size}
}

// tx returns the open transaction, starting one if needed.
func (b *batcher) tx(ctx context.Context) (*sqlx.Tx, error) {
	if b.current == nil {
		tx, err := b.db.BeginTxx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to begin batch transaction: %w", err)
		}
		b.current = tx
		b.count = 0
	}
	return b.current, nil
}

// advance counts one applied statement and commits when the batch is full.
func (b *batcher) advance() error {
	b.count++
	if b.count < b.size {
		return nil
	}
	return b.flush()
}

// flush commits the open transaction, if any.
func (b *batcher) flush() error {
	if b.current == nil {
		return nil
	}
	if err := b.current.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	b.current = nil
	b.count = 0
	return nil
}

// abort rolls back the open transaction, if any.
func (b *batcher) abort() {
	if b.current != nil {
		_ = b.current.Rollback()
		b.current = nil
		b.count = 0
	}
}
