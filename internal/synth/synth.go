// Package synth assembles the final document text from extracted body
// paragraphs and structured table records, under a selectable enrichment
// mode and block format. Composition is a pure function of its inputs.
package synth

import (
	"strings"

	"github.com/heritagelab/ichcrawl/internal/domain"
)

// Mode selects how structured blocks combine with the free-text body.
type Mode string

const (
	// ModeNone renders meta lines followed by the body; bearer data is
	// not included.
	ModeNone Mode = "none"
	// ModeAppend keeps the body and appends the structured blocks.
	ModeAppend Mode = "append"
	// ModeReplace keeps only the structured blocks, falling back to the
	// body when no blocks exist.
	ModeReplace Mode = "replace"
)

// Format selects the rendering of structured blocks.
type Format string

const (
	// FormatReadable renders titled label:value text blocks.
	FormatReadable Format = "readable"
	// FormatJSON renders titled blocks holding the raw payload as JSON.
	FormatJSON Format = "json"
)

// Ruler separates the body from structured blocks, and blocks from each
// other.
const Ruler = "\n\n——\n\n"

// Options configures composition.
type Options struct {
	Mode   Mode
	Format Format
	// JSONSummary appends a trailing JSON summary block of the whole
	// structured payload in the augmented modes.
	JSONSummary bool
}

// ParseMode normalizes a mode string, defaulting to ModeNone.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(s)) {
	case ModeAppend:
		return ModeAppend
	case ModeReplace:
		return ModeReplace
	default:
		return ModeNone
	}
}

// ParseFormat normalizes a format string, defaulting to FormatReadable.
func ParseFormat(s string) Format {
	if Format(strings.ToLower(s)) == FormatJSON {
		return FormatJSON
	}
	return FormatReadable
}

// Compose builds the final text for a document and reports whether it was
// augmented with structured blocks (mode other than none).
func Compose(meta *domain.Record, bearers []*domain.Record, paragraphs []string, opts Options) (string, bool) {
	baseBody := strings.TrimSpace(strings.Join(paragraphs, "\n"))

	var metaBlock, bearersBlock string
	if opts.Format == FormatJSON {
		metaBlock = metaBlockJSON(meta)
		bearersBlock = bearersBlockJSON(bearers)
	} else {
		metaBlock = metaBlockReadable(meta)
		bearersBlock = bearersBlockReadable(bearers)
	}

	var blocks []string
	for _, b := range []string{metaBlock, bearersBlock} {
		if b != "" {
			blocks = append(blocks, b)
		}
	}

	var text string
	switch opts.Mode {
	case ModeReplace:
		if len(blocks) > 0 {
			text = strings.TrimSpace(strings.Join(blocks, Ruler))
		} else {
			text = baseBody
		}
	case ModeAppend:
		switch {
		case baseBody != "" && len(blocks) > 0:
			text = strings.TrimSpace(baseBody + Ruler + strings.Join(blocks, Ruler))
		case len(blocks) > 0:
			text = strings.TrimSpace(strings.Join(blocks, Ruler))
		default:
			text = baseBody
		}
	default:
		text = composeNone(meta, paragraphs)
	}

	augmented := opts.Mode == ModeAppend || opts.Mode == ModeReplace
	if augmented && opts.JSONSummary {
		if summary := summaryBlockJSON(meta, bearers); summary != "" {
			if text != "" {
				text = text + Ruler + summary
			} else {
				text = summary
			}
		}
	}
	return text, augmented
}

// composeNone renders inline label：value meta lines followed by the body
// paragraphs, with one blank separator line when both are present.
func composeNone(meta *domain.Record, paragraphs []string) string {
	var lines []string
	for _, k := range meta.Labels() {
		lines = append(lines, k+"："+meta.Get(k))
	}
	if len(lines) > 0 && len(paragraphs) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, paragraphs...)
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
