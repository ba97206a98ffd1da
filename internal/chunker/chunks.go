package chunker

import (
	"crypto/md5" //nolint:gosec // content fingerprint, not a security hash
	"encoding/hex"

	"github.com/heritagelab/ichcrawl/internal/domain"
)

// charsPerToken is the rough character-per-token ratio used for estimates.
const charsPerToken = 4

// Chunks builds the chunk rows for a document's text using the sentence
// strategy, recovering character offsets for each piece.
func Chunks(docID int64, text string, b Bounds) []domain.Chunk {
	return buildChunks(docID, text, SplitSentences(text, b))
}

// WindowChunks builds chunk rows using the fixed-window strategy.
func WindowChunks(docID int64, text string, size, overlap int) []domain.Chunk {
	return buildChunks(docID, text, SplitWindow(text, size, overlap))
}

// buildChunks assigns indexes, offsets, token estimates and content hashes
// to the produced pieces. Offset recovery searches for the piece at or after
// the previous chunk's end cursor, falling back to a search from the start;
// it is best-effort, since packed pieces are whitespace-joined and may not
// appear verbatim in the source text.
func buildChunks(docID int64, text string, pieces []string) []domain.Chunk {
	runes := []rune(text)
	chunks := make([]domain.Chunk, 0, len(pieces))
	cursor := 0
	for idx, piece := range pieces {
		start := indexRunes(runes, []rune(piece), cursor)
		if start < 0 {
			start = indexRunes(runes, []rune(piece), 0)
		}
		end := start + runeLen(piece)
		if end > cursor {
			cursor = end
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID:    docID,
			Index:         idx,
			Content:       piece,
			CharStart:     start,
			CharEnd:       end,
			TokenEstimate: EstimateTokens(piece),
			ContentMD5:    ContentMD5(piece),
		})
	}
	return chunks
}

// indexRunes returns the character offset of needle in haystack at or after
// from, or -1.
func indexRunes(haystack, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	if len(needle) == 0 {
		return from
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		if haystack[i] != needle[0] {
			continue
		}
		match := true
		for j := 1; j < len(needle); j++ {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// EstimateTokens approximates the token count as ceil(characters/4), with a
// minimum of one. It is not authoritative.
func EstimateTokens(s string) int {
	n := (runeLen(s) + charsPerToken - 1) / charsPerToken
	if n < 1 {
		return 1
	}
	return n
}

// ContentMD5 returns the hex MD5 of the chunk content.
func ContentMD5(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // fingerprint only
	return hex.EncodeToString(sum[:])
}
