// Package convert turns the crawler's JSONL page records into
// database-shaped documents and chunks, either as files for offline loading
// or as in-memory values for direct persistence.
package convert

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/heritagelab/ichcrawl/internal/chunker"
	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/logger"
)

// StrategySentence splits on sentence boundaries, StrategyWindow on fixed
// rune windows with overlap.
const (
	StrategySentence = "sentence"
	StrategyWindow   = "window"
)

// maxLineBytes bounds a single JSONL line. Heritage pages with full body
// text stay well under this.
const maxLineBytes = 16 << 20

// Options controls chunking during conversion.
type Options struct {
	Strategy      string
	MaxChars      int
	MinChars      int
	WindowSize    int
	WindowOverlap int
}

// DefaultOptions returns sentence chunking with the standard bounds.
func DefaultOptions() Options {
	return Options{
		Strategy:      StrategySentence,
		MaxChars:      chunker.DefaultMaxChars,
		MinChars:      chunker.DefaultMinChars,
		WindowSize:    chunker.DefaultWindowSize,
		WindowOverlap: chunker.DefaultWindowOverlap,
	}
}

// Result summarizes a conversion run.
type Result struct {
	Documents int
	Chunks    int
	Skipped   int
}

// DocumentFromRecord maps a page record onto the stored document shape,
// assigning the stable ID and resolving a missing URL to its placeholder.
func DocumentFromRecord(rec *domain.PageRecord) *domain.Document {
	url := EnsureURL(rec.URL, rec.Title, rec.Text)

	var id int64
	if rec.URL != "" {
		id = StableIDFromURL(rec.URL)
	} else {
		id = StableIDFromValue(rec)
	}

	doc := &domain.Document{
		ID:           id,
		URL:          url,
		Domain:       rec.Domain,
		FetchedAtISO: ToISO(rec.FetchedAt),
		Title:        rec.Title,
		Lang:         rec.Lang,
		Text:         rec.Text,
		Checksum:     rec.Checksum,
	}

	extra := &domain.ExtraPayload{Meta: rec.Meta, Bearers: rec.Bearers}
	if !extra.Empty() {
		doc.Extra = extra
	}

	return doc
}

// ChunksForDocument splits a document's text per the options.
func ChunksForDocument(doc *domain.Document, opts Options) []domain.Chunk {
	if opts.Strategy == StrategyWindow {
		return chunker.WindowChunks(doc.ID, doc.Text, opts.WindowSize, opts.WindowOverlap)
	}

	return chunker.Chunks(doc.ID, doc.Text, chunker.Bounds{
		MaxChars: opts.MaxChars,
		MinChars: opts.MinChars,
	})
}

// Converter reads page-record JSONL files and writes document and chunk
// JSONL files next to each other.
type Converter struct {
	opts   Options
	logger logger.Interface
}

// NewConverter creates a converter. A nil logger is replaced with a no-op.
func NewConverter(opts Options, log logger.Interface) *Converter {
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Converter{opts: opts, logger: log}
}

// Convert reads inPath line by line and writes one document line per record
// to docsPath and its chunk lines to chunksPath. Malformed lines are counted
// and skipped, never fatal; a half-converted corpus is still loadable.
func (c *Converter) Convert(inPath, docsPath, chunksPath string) (*Result, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer in.Close()

	docsOut, err := createOutput(docsPath)
	if err != nil {
		return nil, err
	}
	defer docsOut.Close()

	chunksOut, err := createOutput(chunksPath)
	if err != nil {
		return nil, err
	}
	defer chunksOut.Close()

	docsEnc := newJSONLEncoder(docsOut)
	chunksEnc := newJSONLEncoder(chunksOut)

	result := &Result{}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec domain.PageRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			c.logger.Warn("Skipping malformed record line", "file", inPath, "line", lineNo, "error", err)
			result.Skipped++
			continue
		}

		doc := DocumentFromRecord(&rec)
		if err := docsEnc.Encode(doc); err != nil {
			return result, fmt.Errorf("failed to write document line: %w", err)
		}
		result.Documents++

		for _, ch := range ChunksForDocument(doc, c.opts) {
			if err := chunksEnc.Encode(ch); err != nil {
				return result, fmt.Errorf("failed to write chunk line: %w", err)
			}
			result.Chunks++
		}
	}

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read records file: %w", err)
	}

	if err := docsOut.Flush(); err != nil {
		return result, fmt.Errorf("failed to flush documents file: %w", err)
	}
	if err := chunksOut.Flush(); err != nil {
		return result, fmt.Errorf("failed to flush chunks file: %w", err)
	}

	c.logger.Info("Converted records",
		"input", inPath,
		"documents", result.Documents,
		"chunks", result.Chunks,
		"skipped", result.Skipped)

	return result, nil
}

// ConvertAll converts every *.jsonl file under dir, writing
// documents_min.jsonl and chunks.jsonl per input into outDir.
func (c *Converter) ConvertAll(dir, outDir string) (*Result, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to list record files: %w", err)
	}

	total := &Result{}
	for _, inPath := range matches {
		base := filepath.Base(inPath)
		name := base[:len(base)-len(filepath.Ext(base))]

		res, err := c.Convert(inPath,
			filepath.Join(outDir, name+".documents_min.jsonl"),
			filepath.Join(outDir, name+".chunks.jsonl"))
		if err != nil {
			return total, fmt.Errorf("failed to convert %s: %w", base, err)
		}

		total.Documents += res.Documents
		total.Chunks += res.Chunks
		total.Skipped += res.Skipped
	}

	return total, nil
}

type outputFile struct {
	file *os.File
	buf  *bufio.Writer
}

func createOutput(path string) (*outputFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &outputFile{file: f, buf: bufio.NewWriter(f)}, nil
}

func (o *outputFile) Write(p []byte) (int, error) { return o.buf.Write(p) }

func (o *outputFile) Flush() error {
	if err := o.buf.Flush(); err != nil {
		return err
	}
	return o.file.Sync()
}

func (o *outputFile) Close() error {
	_ = o.buf.Flush()
	return o.file.Close()
}

func newJSONLEncoder(o *outputFile) *json.Encoder {
	enc := json.NewEncoder(o)
	enc.SetEscapeHTML(false)
	return enc
}
