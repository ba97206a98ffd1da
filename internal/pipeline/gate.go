// Package pipeline runs extracted pages through the dedup and store gate:
// URL dedup, text resolution, length filtering, content dedup, and finally
// archival and optional database persistence.
package pipeline

import (
	"context"
	"crypto/sha1" //nolint:gosec // checksums identify content, not secrets
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"

	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/extract"
	"github.com/heritagelab/ichcrawl/internal/logger"
)

// minTextLength is the minimum number of characters a page must resolve to
// before it is worth storing.
const minTextLength = 20

// Item is one extracted page presented to the gate. TextLines carries
// pre-split body lines and takes precedence; Text carries the document text
// for callers that already composed it.
type Item struct {
	URL         string
	FetchedAt   time.Time
	Status      int
	ContentType string
	Title       string
	Text        string
	TextLines   []string
	RawHTML     []byte
	Meta        *domain.Record
	Bearers     []*domain.Record
	Outlinks    []string
	License     string
	Robots      string
}

// DedupIndex tracks seen URLs and stored content checksums.
type DedupIndex interface {
	SeenURL(ctx context.Context, url string) (bool, error)
	MarkSeen(ctx context.Context, url, checksum string, fetchedAt float64) error
	HasContent(ctx context.Context, checksum string) (bool, error)
	RecordContent(ctx context.Context, checksum, url, title, lang string) error
}

// RecordWriter persists accepted pages outside the database: raw HTML
// snapshots and one JSONL record per page.
type RecordWriter interface {
	SaveRaw(dom string, fetchedAt time.Time, body []byte) (string, error)
	AppendRecord(dom string, rec *domain.PageRecord) error
}

// DocumentSink receives accepted pages for database persistence. It is
// optional; a nil sink means archive-only operation.
type DocumentSink interface {
	StoreRecord(ctx context.Context, rec *domain.PageRecord) error
}

// Gate decides whether an extracted page is stored or dropped. Items are
// processed one at a time; the mutex keeps the seen-check and mark-seen pair
// atomic when the fetch layer delivers responses concurrently.
type Gate struct {
	mu     sync.Mutex
	index  DedupIndex
	writer RecordWriter
	sink   DocumentSink
	stats  *Stats
	logger logger.Interface
}

// NewGate creates a gate over a dedup index and a record writer. The sink
// may be nil.
func NewGate(index DedupIndex, writer RecordWriter, sink DocumentSink, log logger.Interface) *Gate {
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Gate{
		index:  index,
		writer: writer,
		sink:   sink,
		stats:  NewStats(),
		logger: log,
	}
}

// Stats returns the gate's outcome counters.
func (g *Gate) Stats() *Stats {
	return g.stats
}

// Process runs one item through the gate and returns its outcome. An error
// is returned only for storage failures; dropped items are outcomes, not
// errors. Safe for concurrent use.
func (g *Gate) Process(ctx context.Context, item *Item) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	outcome, err := g.process(ctx, item)
	if err != nil {
		return outcome, err
	}

	g.stats.Inc(outcome)

	return outcome, nil
}

func (g *Gate) process(ctx context.Context, item *Item) (Outcome, error) {
	url := strings.TrimSpace(item.URL)
	if url == "" {
		g.logger.Debug("Dropping page without URL", "title", item.Title)
		return OutcomeNoURL, nil
	}

	seen, err := g.index.SeenURL(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to check seen URL: %w", err)
	}

	if seen {
		g.logger.Debug("Dropping already seen URL", "url", url)
		return OutcomeDuplicateURL, nil
	}

	fetchedAt := epochSeconds(item.FetchedAt)

	// Seen rows carry the raw-HTML checksum when raw bytes exist; past the
	// length check they fall back to the content checksum, never to the
	// digest of empty input.
	rawSum := ""
	if len(item.RawHTML) > 0 {
		rawSum = SHA1Hex(item.RawHTML)
	}

	text := g.resolveText(item)
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTextLength {
		if err := g.index.MarkSeen(ctx, url, rawSum, fetchedAt); err != nil {
			return "", fmt.Errorf("failed to mark URL seen: %w", err)
		}

		g.logger.Debug("Dropping page with too little text", "url", url)

		return OutcomeTooShort, nil
	}

	contentSum := SHA1Hex([]byte(text))
	seenSum := rawSum
	if seenSum == "" {
		seenSum = contentSum
	}

	dup, err := g.index.HasContent(ctx, contentSum)
	if err != nil {
		return "", fmt.Errorf("failed to check content checksum: %w", err)
	}

	if dup {
		if err := g.index.MarkSeen(ctx, url, seenSum, fetchedAt); err != nil {
			return "", fmt.Errorf("failed to mark URL seen: %w", err)
		}

		g.logger.Debug("Dropping duplicate content", "url", url, "checksum", contentSum)

		return OutcomeDuplicateContent, nil
	}

	rec := g.buildRecord(item, url, text, contentSum)

	if g.writer != nil {
		if len(item.RawHTML) > 0 {
			if _, err := g.writer.SaveRaw(rec.Domain, item.FetchedAt, item.RawHTML); err != nil {
				return "", fmt.Errorf("failed to archive raw HTML: %w", err)
			}
		}

		if err := g.writer.AppendRecord(rec.Domain, rec); err != nil {
			return "", fmt.Errorf("failed to append record: %w", err)
		}
	}

	if g.sink != nil {
		if err := g.sink.StoreRecord(ctx, rec); err != nil {
			return "", fmt.Errorf("failed to store record: %w", err)
		}
	}

	if err := g.index.RecordContent(ctx, contentSum, url, rec.Title, rec.Lang); err != nil {
		return "", fmt.Errorf("failed to record content checksum: %w", err)
	}

	if err := g.index.MarkSeen(ctx, url, seenSum, fetchedAt); err != nil {
		return "", fmt.Errorf("failed to mark URL seen: %w", err)
	}

	g.logger.Info("Stored page", "url", url, "chars", utf8.RuneCountInString(text))

	return OutcomeAccepted, nil
}

// resolveText picks the document text: the pre-split line list when present,
// then the raw text field, then a generic extraction over the raw HTML as a
// last resort.
func (g *Gate) resolveText(item *Item) string {
	if len(item.TextLines) > 0 {
		joined := strings.TrimSpace(strings.Join(item.TextLines, "\n"))
		if joined != "" {
			return joined
		}
	}

	if strings.TrimSpace(item.Text) != "" {
		return item.Text
	}

	if len(item.RawHTML) > 0 {
		return extract.GenericText(item.RawHTML)
	}

	return ""
}

// buildRecord assembles the interchange record. The checksum is the content
// hash of the resolved text, so equal-checksum records are content
// duplicates regardless of markup differences.
func (g *Gate) buildRecord(item *Item, url, text, contentSum string) *domain.PageRecord {
	dom := domain.DomainOf(url)

	rec := &domain.PageRecord{
		URL:         url,
		Domain:      dom,
		FetchedAt:   epochSeconds(item.FetchedAt),
		Status:      item.Status,
		ContentType: item.ContentType,
		Title:       item.Title,
		Lang:        DetectLang(text),
		Text:        text,
		Checksum:    contentSum,
		License:     item.License,
		Robots:      item.Robots,
		Outlinks:    item.Outlinks,
		Meta:        item.Meta,
		Bearers:     item.Bearers,
	}

	return rec
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000.0
}

// SHA1Hex returns the lowercase hex SHA-1 digest of data.
func SHA1Hex(data []byte) string {
	sum := sha1.Sum(data) //nolint:gosec // content fingerprint, not a credential
	return hex.EncodeToString(sum[:])
}

// DetectLang returns the ISO 639-3 code of the dominant language in text,
// or "und" when detection is not confident.
func DetectLang(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "und"
	}

	return info.Lang.Iso6393()
}

// TextFromBytes decodes body bytes into a string, replacing invalid UTF-8
// sequences instead of failing.
func TextFromBytes(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}

	return strings.ToValidUTF8(string(body), string(utf8.RuneError))
}
