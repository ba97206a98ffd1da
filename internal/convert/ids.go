package convert

import (
	"crypto/md5" //nolint:gosec // identifiers, not secrets
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// idMask keeps stable IDs inside the positive int64 range so every SQL
// BIGINT column can hold them. Untyped so the shift is evaluated before the
// subtraction brings it back into int64 range.
const idMask = 1<<63 - 1

// StableIDFromURL derives a deterministic positive 63-bit ID from a URL.
// The same URL always maps to the same ID, so re-ingesting a corpus never
// renumbers documents.
func StableIDFromURL(url string) int64 {
	sum := sha1.Sum([]byte(url)) //nolint:gosec // fingerprint, not a credential
	return int64(binary.BigEndian.Uint64(sum[:8])) & idMask
}

// StableIDFromValue derives an ID from the canonical JSON encoding of a
// value. It is the fallback for records that carry no URL at all.
func StableIDFromValue(v any) int64 {
	data, err := json.Marshal(v)
	if err != nil {
		data = fmt.Appendf(nil, "%v", v)
	}
	sum := md5.Sum(data) //nolint:gosec // fingerprint, not a credential
	return int64(binary.BigEndian.Uint64(sum[:8])) & idMask
}

// EnsureURL fills in a synthetic missing:// URL for records without one, so
// the URL stays usable as an upsert key. The placeholder is derived from the
// record's title and text and is therefore stable across runs.
func EnsureURL(url, title, text string) string {
	if url != "" {
		return url
	}
	sum := md5.Sum([]byte(title + "|" + text)) //nolint:gosec // placeholder key
	return "missing://" + hex.EncodeToString(sum[:])
}

// ToISO renders an epoch timestamp as a UTC ISO-8601 string. Values large
// enough to be milliseconds are scaled down first; zero yields the empty
// string.
func ToISO(epoch float64) string {
	if epoch == 0 {
		return ""
	}
	if epoch > 1e12 {
		epoch /= 1000
	}
	sec, frac := math.Modf(epoch)
	t := time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
	return t.Format("2006-01-02T15:04:05Z")
}
