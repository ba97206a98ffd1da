// Package extract turns raw detail-page HTML into structured records and
// body paragraphs: a table interpreter for the project metadata and bearer
// tables, and a body extractor for the free-text content.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/heritagelab/ichcrawl/internal/domain"
)

// mainContainerSelector locates the page's main content region.
const mainContainerSelector = ".project_detail, .project-details, .projectDetails, " +
	".details, .article, .content, .project_content, .container"

// Page is the structured extraction of one detail page.
type Page struct {
	Title      string
	PubTime    string
	Meta       *domain.Record
	Bearers    []*domain.Record
	Paragraphs []string
}

// Extractor parses detail pages with goquery.
type Extractor struct{}

// NewExtractor creates a page extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the page HTML and returns its structured content. The first
// table in the main container is interpreted as project metadata; any later
// table whose header mentions a bearer label, or which has at least two
// rows, contributes bearer records.
func (e *Extractor) Extract(page domain.RawPage) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := &Page{
		Title:   extractTitle(doc),
		PubTime: Normalize(doc.Find("time, .date, .pubtime").First().Text()),
	}

	main := doc.Find(mainContainerSelector)
	if main.Length() == 0 {
		main = doc.Selection
	}

	tables := main.Find("table")
	if tables.Length() > 0 {
		out.Meta = ParseMetaTable(tables.First())
		tables.Slice(1, tables.Length()).Each(func(_ int, tb *goquery.Selection) {
			if isBearerCandidate(tb) {
				out.Bearers = append(out.Bearers, ParseBearerTable(tb)...)
			}
		})
	}

	out.Paragraphs = ExtractBodyParagraphs(doc, main)
	return out, nil
}

// extractTitle prefers the page h1, then og:title, then <title>.
func extractTitle(doc *goquery.Document) string {
	if title := Normalize(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	if ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content"); exists {
		if title := Normalize(ogTitle); title != "" {
			return title
		}
	}
	return Normalize(doc.Find("title").First().Text())
}

// isBearerCandidate accepts a table as a bearer source when its first row
// mentions any bearer label or the table has at least two rows.
func isBearerCandidate(tb *goquery.Selection) bool {
	headerText := tb.Find("tr").First().Text()
	for _, label := range BearerLabels {
		if strings.Contains(headerText, label) {
			return true
		}
	}
	return tb.Find("tr").Length() >= 2
}

// nonContentSelectors lists elements stripped before generic text extraction.
const nonContentSelectors = "script, style, nav, header, footer"

// GenericText is the last-resort content extraction over raw HTML bytes,
// used when a page reaches the dedup gate without a usable synthesized text.
// Prefers <article> content, falling back to <body>.
func GenericText(rawHTML []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	if article := doc.Find("article").First(); article.Length() > 0 {
		article.Find(nonContentSelectors).Remove()
		return strings.TrimSpace(article.Text())
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		body.Find(nonContentSelectors).Remove()
		return strings.TrimSpace(body.Text())
	}
	return ""
}
