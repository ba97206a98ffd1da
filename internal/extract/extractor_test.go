package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/extract"
)

const detailPageHTML = `<html>
<head>
	<title>页面标题 - 中国非物质文化遗产网</title>
	<meta property="og:title" content="OG标题">
</head>
<body>
	<nav>导航</nav>
	<h1>潮州木雕</h1>
	<div class="date">2019-11-12</div>
	<div class="project_detail">
		<table>
			<tr><td>项目序号</td><td>78</td><td>项目编号</td><td>Ⅶ-34</td></tr>
			<tr><td>类别</td><td>传统美术</td><td>所属地区</td><td>广东省</td></tr>
		</table>
		<table>
			<tr><th>编号</th><th>姓名</th><th>性别</th><th>民族</th></tr>
			<tr><td>01-001</td><td>张三</td><td>男</td><td>汉族</td></tr>
		</table>
	</div>
	<div class="inherit_xx1">
		<div class="text">
			<div class="p">潮州木雕是广东潮州地区的民间雕刻艺术。</div>
			<div class="p">其技法以多层镂通为特色。</div>
		</div>
	</div>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	page, err := extract.NewExtractor().Extract(domain.RawPage{
		URL:  "https://www.ihchina.cn/project_details/13774.html",
		HTML: []byte(detailPageHTML),
	})
	require.NoError(t, err)

	assert.Equal(t, "潮州木雕", page.Title)
	assert.Equal(t, "2019-11-12", page.PubTime)

	require.NotNil(t, page.Meta)
	assert.Equal(t, "78", page.Meta.Get("项目序号"))
	assert.Equal(t, "Ⅶ-34", page.Meta.Get("项目编号"))
	assert.Equal(t, "传统美术", page.Meta.Get("类别"))
	assert.Equal(t, "广东省", page.Meta.Get("所属地区"))

	require.Len(t, page.Bearers, 1)
	assert.Equal(t, "张三", page.Bearers[0].Get("姓名"))

	require.Len(t, page.Paragraphs, 2)
	assert.Equal(t, "潮州木雕是广东潮州地区的民间雕刻艺术。", page.Paragraphs[0])
}

func TestExtractor_TitleFallbacks(t *testing.T) {
	t.Parallel()

	ex := extract.NewExtractor()

	page, err := ex.Extract(domain.RawPage{HTML: []byte(`<html><head>
		<meta property="og:title" content="OG标题">
		<title>文档标题</title>
	</head><body></body></html>`)})
	require.NoError(t, err)
	assert.Equal(t, "OG标题", page.Title, "og:title wins when h1 is absent")

	page, err = ex.Extract(domain.RawPage{HTML: []byte(`<html><head>
		<title>文档标题</title>
	</head><body></body></html>`)})
	require.NoError(t, err)
	assert.Equal(t, "文档标题", page.Title)
}

func TestExtractor_NoTables(t *testing.T) {
	t.Parallel()

	page, err := extract.NewExtractor().Extract(domain.RawPage{
		HTML: []byte(`<html><body><h1>标题</h1><div class="content">只有正文。</div></body></html>`),
	})
	require.NoError(t, err)

	assert.Nil(t, page.Meta)
	assert.Empty(t, page.Bearers)
	assert.Equal(t, []string{"只有正文。"}, page.Paragraphs)
}

func TestGenericText(t *testing.T) {
	t.Parallel()

	text := extract.GenericText([]byte(`<html><body>
		<script>var x = 1;</script>
		<nav>菜单</nav>
		<article>文章主体内容。</article>
	</body></html>`))
	assert.Equal(t, "文章主体内容。", text)

	text = extract.GenericText([]byte(`<html><body>
		<style>.a{}</style>
		<p>正文落入 body。</p>
	</body></html>`))
	assert.Equal(t, "正文落入 body。", text)
}
