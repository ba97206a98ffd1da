package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is an ordered label-to-value mapping extracted from an HTML table.
// Insertion order is preserved so rendered text and serialized JSON are
// deterministic; setting an existing label updates its value in place.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores a value for the given label, keeping the label's original
// position if it was already present.
func (r *Record) Set(label, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[label]; !ok {
		r.keys = append(r.keys, label)
	}
	r.values[label] = value
}

// Get returns the value for a label, or the empty string.
func (r *Record) Get(label string) string {
	if r == nil || r.values == nil {
		return ""
	}
	return r.values[label]
}

// Has reports whether the label is present.
func (r *Record) Has(label string) bool {
	if r == nil || r.values == nil {
		return false
	}
	_, ok := r.values[label]
	return ok
}

// Len returns the number of labels.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Empty reports whether the record has no labels.
func (r *Record) Empty() bool {
	return r.Len() == 0
}

// Labels returns the labels in insertion order.
func (r *Record) Labels() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// MarshalJSON serializes the record as a JSON object with labels in
// insertion order and without escaping non-ASCII text.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, r.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order. Number values
// are kept as their literal text; other non-string values are skipped.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if tok == nil {
		*r = Record{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode record: expected object, got %v", tok)
	}

	*r = Record{values: make(map[string]string)}
	for dec.More() {
		keyTok, keyErr := dec.Token()
		if keyErr != nil {
			return fmt.Errorf("decode record key: %w", keyErr)
		}
		key, _ := keyTok.(string)

		valTok, valErr := dec.Token()
		if valErr != nil {
			return fmt.Errorf("decode record value: %w", valErr)
		}
		switch v := valTok.(type) {
		case string:
			r.Set(key, v)
		case json.Number:
			r.Set(key, v.String())
		case nil:
			r.Set(key, "")
		}
	}

	if _, err = dec.Token(); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// writeJSONString appends a JSON-encoded string without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline; drop it.
	buf.Truncate(buf.Len() - 1)
	return nil
}
