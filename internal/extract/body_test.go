package extract_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagelab/ichcrawl/internal/extract"
)

func parseDoc(t *testing.T, pageHTML string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	require.NoError(t, err)
	return doc
}

func TestExtractBodyParagraphs_InheritContainerWithPBlocks(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
		<div class="inherit_xx1">
			<div class="text">
				<div class="p">第一段第一行<br>第一段第二行</div>
				<div class="p">第二段。</div>
				<div class="p">  </div>
			</div>
		</div>
	</body></html>`)

	paras := extract.ExtractBodyParagraphs(doc, doc.Selection)
	require.Len(t, paras, 2)

	// Lines inside one .p block join with a single space.
	assert.Equal(t, "第一段第一行 第一段第二行", paras[0])
	assert.Equal(t, "第二段。", paras[1])
}

func TestExtractBodyParagraphs_LinesWithoutPBlocks(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
		<div class="inherit_xx2">
			<div class="text">第一行<br>第二行<br><br>第三行</div>
		</div>
	</body></html>`)

	paras := extract.ExtractBodyParagraphs(doc, doc.Selection)
	assert.Equal(t, []string{"第一行", "第二行", "第三行"}, paras)
}

func TestExtractBodyParagraphs_CandidateFallback(t *testing.T) {
	t.Parallel()

	// No inherit container; the generic .content candidate is used.
	doc := parseDoc(t, `<html><body>
		<div class="content">正文内容在这里。</div>
	</body></html>`)

	paras := extract.ExtractBodyParagraphs(doc, doc.Selection)
	assert.Equal(t, []string{"正文内容在这里。"}, paras)
}

func TestExtractBodyParagraphs_InheritWinsOverCandidates(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
		<div class="content">不应出现</div>
		<div class="inherit_xx1"><div class="text">应该出现</div></div>
	</body></html>`)

	paras := extract.ExtractBodyParagraphs(doc, doc.Selection)
	assert.Equal(t, []string{"应该出现"}, paras)
}

func TestExtractBodyParagraphs_MultipleContainersConcatenate(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
		<div class="inherit_xx1"><div class="text">上篇</div></div>
		<div class="inherit_xx2"><div class="text">下篇</div></div>
	</body></html>`)

	paras := extract.ExtractBodyParagraphs(doc, doc.Selection)
	assert.Equal(t, []string{"上篇", "下篇"}, paras)
}
