package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Document is the canonical stored unit. The URL is the identity key in the
// durable store; the checksum is a pure function of Text and identifies
// content-duplicates regardless of URL.
type Document struct {
	ID           int64         `db:"id" json:"id"`
	URL          string        `db:"url" json:"url"`
	Domain       string        `db:"domain" json:"domain"`
	FetchedAtISO string        `db:"fetched_at_iso" json:"fetched_at_iso"`
	Title        string        `db:"title" json:"title"`
	Lang         string        `db:"lang" json:"lang"`
	Text         string        `db:"text" json:"text"`
	Checksum     string        `db:"checksum" json:"checksum,omitempty"`
	Extra        *ExtraPayload `db:"extra_json" json:"extra_json,omitempty"`
}

// Chunk is a bounded substring of a document's text with recorded offsets.
// (DocumentID, Index) is unique within the store.
type Chunk struct {
	DocumentID    int64  `db:"doc_id" json:"document_id"`
	Index         int    `db:"chunk_index" json:"chunk_index"`
	Content       string `db:"content" json:"content"`
	CharStart     int    `db:"char_start" json:"char_start"`
	CharEnd       int    `db:"char_end" json:"char_end"`
	TokenEstimate int    `db:"token_estimate" json:"token_estimate,omitempty"`
	ContentMD5    string `db:"content_md5" json:"content_md5,omitempty"`
}

// ExtraPayload holds the structured extraction attached to a document. A nil
// payload is stored as NULL so an upsert from a blank re-scrape preserves
// the prior value.
type ExtraPayload struct {
	Meta    *Record   `json:"meta,omitempty"`
	Bearers []*Record `json:"bearers,omitempty"`
}

// Empty reports whether the payload carries no structured data.
func (e *ExtraPayload) Empty() bool {
	return e == nil || (e.Meta.Empty() && len(e.Bearers) == 0)
}

// Value implements driver.Valuer, serializing the payload to JSON for
// storage. Empty payloads become NULL.
func (e *ExtraPayload) Value() (driver.Value, error) {
	if e.Empty() {
		return nil, nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner for JSON/JSONB columns.
func (e *ExtraPayload) Scan(value any) error {
	if value == nil {
		*e = ExtraPayload{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.New("unsupported type for ExtraPayload")
	}

	if len(data) == 0 {
		*e = ExtraPayload{}
		return nil
	}
	return json.Unmarshal(data, e)
}
