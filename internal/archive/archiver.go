// Package archive persists raw fetched HTML and accepted page records under
// a local data root: raw bodies as data/raw/<domain>/<unix-ts>.html and
// records as one JSON line per page in data/text/<domain>.jsonl.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/logger"
)

// Subdirectories under the data root.
const (
	rawSubdir  = "raw"
	textSubdir = "text"
)

const dirPerm = 0o755

// Archiver writes raw pages and page records to the local filesystem.
type Archiver struct {
	root   string
	logger logger.Interface
}

// NewArchiver creates an archiver rooted at the given data directory.
func NewArchiver(root string, log logger.Interface) *Archiver {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Archiver{root: root, logger: log}
}

// SaveRaw writes the raw HTML body for a page and returns the file path.
// Files are named by fetch time (unix seconds) within a per-domain
// directory.
func (a *Archiver) SaveRaw(dom string, fetchedAt time.Time, body []byte) (string, error) {
	dir := filepath.Join(a.root, rawSubdir, dom)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create raw archive dir: %w", err)
	}

	path := filepath.Join(dir, strconv.FormatInt(fetchedAt.Unix(), 10)+".html")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write raw html: %w", err)
	}

	a.logger.Debug("archived raw html", "path", path, "bytes", len(body))
	return path, nil
}

// AppendRecord appends one page record to the per-domain JSONL log. The
// write is append-only; each call emits exactly one line.
func (a *Archiver) AppendRecord(dom string, rec *domain.PageRecord) error {
	dir := filepath.Join(a.root, textSubdir)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create text archive dir: %w", err)
	}

	path := filepath.Join(dir, dom+".jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open record log: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	if err = enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}
