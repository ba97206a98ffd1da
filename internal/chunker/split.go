// Package chunker splits document text into retrieval-sized chunks with
// stable offsets and identifiers. Two interchangeable strategies are
// provided: sentence-boundary packing and a fixed sliding window. Lengths
// and offsets are counted in characters, not bytes.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Default sentence-strategy bounds.
const (
	DefaultMaxChars = 1000
	DefaultMinChars = 600
)

// sentencePattern marks chunk boundaries: a blank line or any terminal
// Chinese punctuation.
var sentencePattern = regexp.MustCompile(`\n{2,}|。|；|！|\?|？`)

// Bounds configures the sentence-boundary splitter.
type Bounds struct {
	MaxChars int
	MinChars int
}

// DefaultBounds returns the standard chunking bounds.
func DefaultBounds() Bounds {
	return Bounds{MaxChars: DefaultMaxChars, MinChars: DefaultMinChars}
}

// SplitSentences splits text at sentence boundaries and greedily packs the
// fragments into chunks of at most MaxChars characters. A second pass merges
// any chunk shorter than MinChars into its predecessor when the result stays
// within 1.5 times MaxChars, so no tiny chunk survives except possibly the
// first.
func SplitSentences(text string, b Bounds) []string {
	if text == "" {
		return nil
	}

	var parts []string
	for _, p := range sentencePattern.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	var chunks []string
	buf := ""
	for _, p := range parts {
		if runeLen(buf)+runeLen(p)+1 <= b.MaxChars {
			if buf == "" {
				buf = p
			} else {
				buf = buf + " " + p
			}
			continue
		}
		if buf != "" {
			chunks = append(chunks, buf)
		}
		buf = p
	}
	if buf != "" {
		chunks = append(chunks, buf)
	}

	mergeLimit := b.MaxChars * 3 / 2
	var merged []string
	for _, c := range chunks {
		last := len(merged) - 1
		if last >= 0 && runeLen(c) < b.MinChars && runeLen(merged[last])+runeLen(c)+1 <= mergeLimit {
			merged[last] = merged[last] + " " + c
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
