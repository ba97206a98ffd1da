package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/heritagelab/ichcrawl/internal/domain"
)

// ParseMetaTable interprets a key-value metadata table using two strategies
// per row: cross-cell pairing (label in one cell, value in the next) and
// inline pairing (several label:value pairs inside one cell). Results merge
// first-wins; a later strategy only fills labels that are missing or empty.
// A malformed table yields an empty record, never an error.
func ParseMetaTable(table *goquery.Selection) *domain.Record {
	data := domain.NewRecord()
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := cellTexts(tr, "th, td")
		if len(cells) == 0 {
			return
		}

		pairs := parseMetaRowByPairs(cells)
		for _, k := range pairs.Labels() {
			if v := pairs.Get(k); !data.Has(k) && v != "" {
				data.Set(k, v)
			}
		}

		for _, c := range cells {
			inline := parseMetaRowInsideCell(c)
			for _, k := range inline.Labels() {
				if !data.Has(k) || data.Get(k) == "" {
					data.Set(k, inline.Get(k))
				}
			}
		}
	})
	return data
}

// parseMetaRowByPairs scans an ordered cell list left to right. A cell that
// matches a known label (after stripping a trailing colon) consumes the next
// cell as its value — unless the next cell is itself a label, in which case
// the value is empty and the cursor advances by one. A value that happens to
// equal a label string is therefore parsed as a missing value; this mirrors
// the source tables, where a blank cell is usually elided entirely.
func parseMetaRowByPairs(cells []string) *domain.Record {
	out := domain.NewRecord()
	i := 0
	for i < len(cells) {
		key := strings.TrimSpace(strings.TrimRight(cells[i], "：:"))
		if !IsMetaLabel(key) {
			i++
			continue
		}
		val := ""
		if i+1 < len(cells) {
			next := strings.TrimSpace(strings.TrimRight(cells[i+1], "：:"))
			if IsMetaLabel(next) {
				i++
			} else {
				val = cells[i+1]
				i += 2
			}
		} else {
			i++
		}
		out.Set(key, Normalize(val))
	}
	return out
}

// parseMetaRowInsideCell extracts label:value pairs packed into one cell's
// text. The value of each match runs until the next label match or the end
// of the text.
func parseMetaRowInsideCell(text string) *domain.Record {
	out := domain.NewRecord()
	matches := metaKVRegex.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		key := text[m[2]:m[3]]
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		out.Set(key, Normalize(text[start:end]))
	}
	return out
}

// ParseBearerTable reads a bearer (person) table into one record per row.
// The first row is treated as a header only when at least half of its cells
// (and no fewer than three) match the bearer vocabulary; otherwise column
// names are derived from the first data row's label prefixes, with
// positional placeholders for unmatched columns. Label prefixes found inside
// values are stripped before storage. Rows whose values are all empty are
// dropped.
func ParseBearerTable(table *goquery.Selection) []*domain.Record {
	trs := table.Find("tr")
	if trs.Length() == 0 {
		return nil
	}

	headerCells := cellTexts(trs.First(), "th, td")
	for i, h := range headerCells {
		headerCells[i] = strings.TrimSpace(strings.ReplaceAll(h, "：", ""))
	}

	var headers []string
	var dataRows *goquery.Selection
	if isHeaderRow(headerCells) {
		headers = headerCells
		dataRows = trs.Slice(1, trs.Length())
	} else {
		dataRows = trs
		firstCells := cellTextsAll(trs.First(), "td")
		headers = deriveHeaders(firstCells)
	}

	var rows []*domain.Record
	dataRows.Each(func(_ int, tr *goquery.Selection) {
		// Empty cells are kept so values stay aligned with their columns.
		cells := cellTextsAll(tr, "td")
		if len(cells) == 0 {
			return
		}
		row := domain.NewRecord()
		nonEmpty := false
		for i, val := range cells {
			key := positionalHeader(i)
			if i < len(headers) {
				key = headers[i]
			}
			cleaned := StripBearerPrefix(val)
			row.Set(key, cleaned)
			if cleaned != "" {
				nonEmpty = true
			}
		}
		if nonEmpty {
			rows = append(rows, row)
		}
	})
	return rows
}

// isHeaderRow accepts a header when known labels make up at least half the
// cells, with an absolute floor of three.
func isHeaderRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	known := 0
	for _, c := range cells {
		if IsBearerLabel(c) {
			known++
		}
	}
	floor := len(cells) / 2
	if floor < 3 {
		floor = 3
	}
	return known >= floor
}

// deriveHeaders infers column names from the label prefixes of the first
// data row, backfilling positional placeholders for unmatched columns.
func deriveHeaders(cells []string) []string {
	headers := make([]string, len(cells))
	for i, c := range cells {
		if m := bearerPrefixRegex.FindStringSubmatch(c); m != nil {
			headers[i] = Normalize(m[1])
		}
	}
	for i, h := range headers {
		if h == "" {
			headers[i] = positionalHeader(i)
		}
	}
	return headers
}

func positionalHeader(i int) string {
	return fmt.Sprintf("列%d", i+1)
}

// cellTexts returns the normalized text of each matching cell in a row,
// dropping cells that are empty after normalization.
func cellTexts(row *goquery.Selection, selector string) []string {
	var cells []string
	row.Find(selector).Each(func(_ int, cell *goquery.Selection) {
		if text := Normalize(cell.Text()); text != "" {
			cells = append(cells, text)
		}
	})
	return cells
}

// cellTextsAll is cellTexts without the empty-cell filter, keeping
// positional alignment for column-oriented tables.
func cellTextsAll(row *goquery.Selection, selector string) []string {
	var cells []string
	row.Find(selector).Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, Normalize(cell.Text()))
	})
	return cells
}
