package synth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/synth"
)

func sampleMeta() *domain.Record {
	meta := domain.NewRecord()
	meta.Set("项目编号", "Ⅵ-1")
	meta.Set("类别", "传统技艺")
	return meta
}

func sampleBearer() *domain.Record {
	b := domain.NewRecord()
	b.Set("编号", "01-001")
	b.Set("姓名", "张三")
	b.Set("性别", "男")
	b.Set("民族", "汉族")
	b.Set("项目名称", "潮州木雕")
	return b
}

var sampleParagraphs = []string{"第一段。", "第二段。"}

func TestCompose_NoneMode(t *testing.T) {
	t.Parallel()

	text, augmented := synth.Compose(sampleMeta(), nil, sampleParagraphs, synth.Options{
		Mode: synth.ModeNone,
	})

	assert.False(t, augmented)
	assert.Equal(t, "项目编号：Ⅵ-1\n类别：传统技艺\n\n第一段。\n第二段。", text)
}

func TestCompose_NoneModeOmitsBearers(t *testing.T) {
	t.Parallel()

	text, _ := synth.Compose(sampleMeta(), []*domain.Record{sampleBearer()}, sampleParagraphs, synth.Options{
		Mode: synth.ModeNone,
	})

	assert.NotContains(t, text, "张三")
}

func TestCompose_NoneModeBodyOnly(t *testing.T) {
	t.Parallel()

	text, _ := synth.Compose(nil, nil, sampleParagraphs, synth.Options{Mode: synth.ModeNone})
	assert.Equal(t, "第一段。\n第二段。", text)
}

func TestCompose_AppendReadable(t *testing.T) {
	t.Parallel()

	text, augmented := synth.Compose(sampleMeta(), []*domain.Record{sampleBearer()}, sampleParagraphs, synth.Options{
		Mode:   synth.ModeAppend,
		Format: synth.FormatReadable,
	})

	assert.True(t, augmented)
	assert.True(t, strings.HasPrefix(text, "第一段。\n第二段。"), "body comes first")

	parts := strings.Split(text, synth.Ruler)
	require.Len(t, parts, 3)

	assert.Equal(t, "【项目基本信息】\n项目编号：Ⅵ-1\n类别：传统技艺", parts[1])
	assert.Equal(t, "【代表性传承人】\n- 姓名：张三（性别：男，民族：汉族）；编号：01-001；项目名称：潮州木雕", parts[2])
}

func TestCompose_ReplaceReadable(t *testing.T) {
	t.Parallel()

	text, _ := synth.Compose(sampleMeta(), nil, sampleParagraphs, synth.Options{
		Mode:   synth.ModeReplace,
		Format: synth.FormatReadable,
	})

	assert.NotContains(t, text, "第一段。")
	assert.True(t, strings.HasPrefix(text, "【项目基本信息】"))
}

func TestCompose_ReplaceFallsBackToBody(t *testing.T) {
	t.Parallel()

	text, _ := synth.Compose(nil, nil, sampleParagraphs, synth.Options{Mode: synth.ModeReplace})
	assert.Equal(t, "第一段。\n第二段。", text)
}

func TestCompose_AppendWithEmptyBody(t *testing.T) {
	t.Parallel()

	text, _ := synth.Compose(sampleMeta(), nil, nil, synth.Options{
		Mode:   synth.ModeAppend,
		Format: synth.FormatReadable,
	})

	assert.True(t, strings.HasPrefix(text, "【项目基本信息】"))
	assert.NotContains(t, text, synth.Ruler)
}

func TestCompose_JSONFormat(t *testing.T) {
	t.Parallel()

	text, _ := synth.Compose(sampleMeta(), []*domain.Record{sampleBearer()}, sampleParagraphs, synth.Options{
		Mode:   synth.ModeAppend,
		Format: synth.FormatJSON,
	})

	assert.Contains(t, text, "【项目基本信息-JSON】")
	assert.Contains(t, text, "【代表性传承人-JSON】")
	// Keys stay in insertion order and non-ASCII is not escaped.
	assert.Contains(t, text, `{"项目编号":"Ⅵ-1","类别":"传统技艺"}`)
}

func TestCompose_JSONSummary(t *testing.T) {
	t.Parallel()

	opts := synth.Options{
		Mode:        synth.ModeAppend,
		Format:      synth.FormatReadable,
		JSONSummary: true,
	}

	text, _ := synth.Compose(sampleMeta(), nil, sampleParagraphs, opts)
	assert.Contains(t, text, "【JSON摘要】")

	// The summary is only added in augmented modes.
	opts.Mode = synth.ModeNone
	text, _ = synth.Compose(sampleMeta(), nil, sampleParagraphs, opts)
	assert.NotContains(t, text, "【JSON摘要】")
}

func TestCompose_EmptyEverything(t *testing.T) {
	t.Parallel()

	for _, mode := range []synth.Mode{synth.ModeNone, synth.ModeAppend, synth.ModeReplace} {
		text, _ := synth.Compose(nil, nil, nil, synth.Options{Mode: mode})
		assert.Empty(t, text, "mode %s", mode)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, synth.ModeAppend, synth.ParseMode("APPEND"))
	assert.Equal(t, synth.ModeReplace, synth.ParseMode("replace"))
	assert.Equal(t, synth.ModeNone, synth.ParseMode(""))
	assert.Equal(t, synth.ModeNone, synth.ParseMode("bogus"))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, synth.FormatJSON, synth.ParseFormat("JSON"))
	assert.Equal(t, synth.FormatReadable, synth.ParseFormat("readable"))
	assert.Equal(t, synth.FormatReadable, synth.ParseFormat(""))
}
