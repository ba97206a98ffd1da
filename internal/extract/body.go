package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// bodyCandidates are generic content-container selectors tried, in order,
// when no known template container matches.
var bodyCandidates = []string{
	".text", ".project_content", ".projectContent",
	".article .content", ".details .text", ".details .content",
	".container .content", ".content",
}

// pickBodyContainers returns the container selections to linearize, tried in
// a fixed priority order: the known detail-page containers, then the older
// template, then generic candidates under the main selection, then the whole
// document as a last resort.
func pickBodyContainers(doc *goquery.Document, main *goquery.Selection) *goquery.Selection {
	if n := doc.Find(".inherit_xx1, .inherit_xx2"); n.Length() > 0 {
		return n
	}
	if n := doc.Find(".inherit_xx1 .text"); n.Length() > 0 {
		return n
	}
	for _, selector := range bodyCandidates {
		if c := main.Find(selector); c.Length() > 0 {
			return c
		}
	}
	if main.Length() > 0 {
		return main
	}
	return doc.Selection
}

// ExtractBodyParagraphs produces the ordered sequence of non-empty,
// normalized body paragraphs. Containers that expose paragraph-level .p
// sub-blocks yield one paragraph per block (explicit line breaks inside a
// block are joined with a single space); otherwise every non-empty line of
// the container becomes its own paragraph. Multiple containers concatenate
// in document order.
func ExtractBodyParagraphs(doc *goquery.Document, main *goquery.Selection) []string {
	var paras []string
	pickBodyContainers(doc, main).Each(func(_ int, cont *goquery.Selection) {
		c := cont.Find(".text")
		if c.Length() == 0 {
			c = cont
		}

		pBlocks := c.Find(".p")
		if pBlocks.Length() > 0 {
			pBlocks.Each(func(_ int, blk *goquery.Selection) {
				lines := flattenToLines(blk)
				if para := Normalize(strings.Join(lines, " ")); para != "" {
					paras = append(paras, para)
				}
			})
			return
		}
		paras = append(paras, flattenToLines(c)...)
	})
	return paras
}

// flattenToLines linearizes a selection's text content, treating <br>
// elements as line boundaries, and returns the non-empty normalized lines.
func flattenToLines(sel *goquery.Selection) []string {
	var sb strings.Builder
	for _, node := range sel.Nodes {
		writeNodeText(&sb, node)
	}

	var lines []string
	for _, raw := range strings.Split(sb.String(), "\n") {
		if line := Normalize(raw); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// writeNodeText appends the text content of a node tree, emitting a newline
// for each <br>.
func writeNodeText(sb *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		sb.WriteString(n.Data)
	case n.Type == html.ElementNode && n.Data == "br":
		sb.WriteByte('\n')
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		writeNodeText(sb, child)
	}
}
