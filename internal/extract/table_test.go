package extract_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagelab/ichcrawl/internal/extract"
)

func tableSelection(t *testing.T, tableHTML string) *goquery.Selection {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	require.NoError(t, err)

	sel := doc.Find("table").First()
	require.Equal(t, 1, sel.Length(), "fixture must contain a table")
	return sel
}

func TestParseMetaTable_CrossCellPairs(t *testing.T) {
	t.Parallel()

	sel := tableSelection(t, `<table>
		<tr><td>项目序号</td><td>78</td><td>项目编号</td><td>Ⅱ-47</td></tr>
		<tr><td>公布时间</td><td>2006(第一批)</td></tr>
	</table>`)

	meta := extract.ParseMetaTable(sel)
	assert.Equal(t, "78", meta.Get("项目序号"))
	assert.Equal(t, "Ⅱ-47", meta.Get("项目编号"))
	assert.Equal(t, "2006(第一批)", meta.Get("公布时间"))
	assert.Equal(t, []string{"项目序号", "项目编号", "公布时间"}, meta.Labels())
}

func TestParseMetaTable_LabelFollowedByLabel(t *testing.T) {
	t.Parallel()

	// 类别's value cell is missing; the next cell is itself a label. 类别
	// must come out empty instead of swallowing 类型.
	sel := tableSelection(t, `<table>
		<tr><td>类别</td><td>类型</td><td>新增项目</td></tr>
	</table>`)

	meta := extract.ParseMetaTable(sel)
	assert.False(t, meta.Has("类别"), "empty pair value is not stored")
	assert.Equal(t, "新增项目", meta.Get("类型"))
}

func TestParseMetaTable_TrailingColonOnLabelCell(t *testing.T) {
	t.Parallel()

	sel := tableSelection(t, `<table>
		<tr><td>保护单位：</td><td>潮州市文化馆</td></tr>
	</table>`)

	meta := extract.ParseMetaTable(sel)
	assert.Equal(t, "潮州市文化馆", meta.Get("保护单位"))
}

func TestParseMetaTable_InlinePairs(t *testing.T) {
	t.Parallel()

	sel := tableSelection(t, `<table>
		<tr><td>项目编号：Ⅷ-28 类别：传统技艺</td></tr>
	</table>`)

	meta := extract.ParseMetaTable(sel)
	assert.Equal(t, "Ⅷ-28", meta.Get("项目编号"))
	assert.Equal(t, "传统技艺", meta.Get("类别"))
}

func TestParseMetaTable_InlineFillsMissingOnly(t *testing.T) {
	t.Parallel()

	// 项目编号 already has a non-empty value from the pair pass, so the
	// inline occurrence in a later row must not overwrite it. 类别 has no
	// value yet and is filled.
	sel := tableSelection(t, `<table>
		<tr><td>项目编号</td><td>Ⅷ-28</td></tr>
		<tr><td>项目编号：IX-99 类别：传统技艺</td></tr>
	</table>`)

	meta := extract.ParseMetaTable(sel)
	assert.Equal(t, "Ⅷ-28", meta.Get("项目编号"))
	assert.Equal(t, "传统技艺", meta.Get("类别"))
}

func TestParseMetaTable_UnknownLabelIgnoredByPairs(t *testing.T) {
	t.Parallel()

	sel := tableSelection(t, `<table>
		<tr><td>备注</td><td>无</td><td>所属地区</td><td>广东省</td></tr>
	</table>`)

	meta := extract.ParseMetaTable(sel)
	assert.False(t, meta.Has("备注"))
	assert.Equal(t, "广东省", meta.Get("所属地区"))
}

func TestParseMetaTable_Malformed(t *testing.T) {
	t.Parallel()

	sel := tableSelection(t, `<table><tr></tr><tr><td></td></tr></table>`)

	meta := extract.ParseMetaTable(sel)
	assert.True(t, meta.Empty())
}

func TestParseBearerTable_HeaderRow(t *testing.T) {
	t.Parallel()

	sel := tableSelection(t, `<table>
		<tr><th>编号</th><th>姓名</th><th>性别</th><th>民族</th></tr>
		<tr><td>01-001</td><td>张三</td><td>男</td><td>汉族</td></tr>
		<tr><td>01-002</td><td>李四</td><td>女</td><td>回族</td></tr>
	</table>`)

	rows := extract.ParseBearerTable(sel)
	require.Len(t, rows, 2)

	assert.Equal(t, "01-001", rows[0].Get("编号"))
	assert.Equal(t, "张三", rows[0].Get("姓名"))
	assert.Equal(t, "男", rows[0].Get("性别"))
	assert.Equal(t, "李四", rows[1].Get("姓名"))
}

func TestParseBearerTable_HeaderRowWithColons(t *testing.T) {
	t.Parallel()

	// Header cells sometimes carry a decorative full-width colon.
	sel := tableSelection(t, `<table>
		<tr><td>编号：</td><td>姓名：</td><td>性别：</td></tr>
		<tr><td>02-001</td><td>王五</td><td>男</td></tr>
	</table>`)

	rows := extract.ParseBearerTable(sel)
	require.Len(t, rows, 1)
	assert.Equal(t, "王五", rows[0].Get("姓名"))
}

func TestParseBearerTable_DerivedHeaders(t *testing.T) {
	t.Parallel()

	// Too few known labels in the first row to qualify as a header, so
	// column names come from the first data row's label prefixes; the
	// unmatched third column gets a positional placeholder.
	sel := tableSelection(t, `<table>
		<tr><td>编号：03-001</td><td>姓名：赵六</td><td>广东省潮州市</td></tr>
		<tr><td>编号：03-002</td><td>姓名：钱七</td><td>福建省泉州市</td></tr>
	</table>`)

	rows := extract.ParseBearerTable(sel)
	require.Len(t, rows, 2)

	assert.Equal(t, "03-001", rows[0].Get("编号"))
	assert.Equal(t, "赵六", rows[0].Get("姓名"))
	assert.Equal(t, "广东省潮州市", rows[0].Get("列3"))
	assert.Equal(t, "钱七", rows[1].Get("姓名"))
}

func TestParseBearerTable_EmptyCellsKeepAlignment(t *testing.T) {
	t.Parallel()

	sel := tableSelection(t, `<table>
		<tr><th>编号</th><th>姓名</th><th>性别</th><th>民族</th></tr>
		<tr><td>04-001</td><td></td><td>女</td><td>汉族</td></tr>
	</table>`)

	rows := extract.ParseBearerTable(sel)
	require.Len(t, rows, 1)

	assert.Equal(t, "", rows[0].Get("姓名"))
	assert.Equal(t, "女", rows[0].Get("性别"))
	assert.Equal(t, "汉族", rows[0].Get("民族"))
}

func TestParseBearerTable_AllEmptyRowDropped(t *testing.T) {
	t.Parallel()

	sel := tableSelection(t, `<table>
		<tr><th>编号</th><th>姓名</th><th>性别</th><th>民族</th></tr>
		<tr><td></td><td></td><td></td><td></td></tr>
		<tr><td>05-001</td><td>孙八</td><td>男</td><td>汉族</td></tr>
	</table>`)

	rows := extract.ParseBearerTable(sel)
	require.Len(t, rows, 1)
	assert.Equal(t, "孙八", rows[0].Get("姓名"))
}

func TestStripBearerPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "张三", extract.StripBearerPrefix("姓名：张三"))
	assert.Equal(t, "张三", extract.StripBearerPrefix("姓名:　张三"))
	assert.Equal(t, "广东省", extract.StripBearerPrefix("广东省"))
	assert.Equal(t, "", extract.StripBearerPrefix("姓名："))
}
