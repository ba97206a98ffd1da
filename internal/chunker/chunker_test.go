package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagelab/ichcrawl/internal/chunker"
)

// fragment builds a sentence of n identical characters ending with 。
func fragment(ch string, n int) string {
	return strings.Repeat(ch, n) + "。"
}

func TestSplitSentences_ShortTextSingleChunk(t *testing.T) {
	t.Parallel()

	chunks := chunker.SplitSentences("第一句。第二句。第三句。", chunker.DefaultBounds())
	require.Len(t, chunks, 1)

	// Fragments pack into one chunk joined with single spaces.
	assert.Equal(t, "第一句 第二句 第三句", chunks[0])
}

func TestSplitSentences_GreedyPacking(t *testing.T) {
	t.Parallel()

	text := fragment("甲", 830) + fragment("乙", 830) + fragment("丙", 830)

	chunks := chunker.SplitSentences(text, chunker.DefaultBounds())
	require.Len(t, chunks, 3)

	for i, c := range chunks {
		assert.Equal(t, 830, len([]rune(c)), "chunk %d", i)
	}
}

func TestSplitSentences_2500CharsThreeChunks(t *testing.T) {
	t.Parallel()

	// Three sentences, 2500 characters in total including terminators.
	text := fragment("甲", 832) + fragment("乙", 832) + fragment("丙", 833)
	require.Equal(t, 2500, len([]rune(text)))

	chunks := chunker.SplitSentences(text, chunker.DefaultBounds())
	require.Len(t, chunks, 3)

	for i, c := range chunks {
		assert.GreaterOrEqual(t, len([]rune(c)), chunker.DefaultMinChars, "chunk %d", i)
	}
}

func TestSplitSentences_MergeShortIntoPrevious(t *testing.T) {
	t.Parallel()

	text := fragment("甲", 830) + fragment("乙", 900) + fragment("丙", 100)

	chunks := chunker.SplitSentences(text, chunker.DefaultBounds())
	require.Len(t, chunks, 2)

	// The 100-char tail is under MinChars and merges into the previous
	// chunk because the result stays within 1.5x MaxChars.
	assert.Equal(t, 830, len([]rune(chunks[0])))
	assert.Equal(t, 1001, len([]rune(chunks[1])))
}

func TestSplitSentences_Boundaries(t *testing.T) {
	t.Parallel()

	chunks := chunker.SplitSentences("段落一\n\n段落二；段落三！段落四？段落五", chunker.Bounds{
		MaxChars: 3,
		MinChars: 0,
	})

	assert.Equal(t, []string{"段落一", "段落二", "段落三", "段落四", "段落五"}, chunks)
}

func TestSplitSentences_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, chunker.SplitSentences("", chunker.DefaultBounds()))
	assert.Nil(t, chunker.SplitSentences("。。。", chunker.DefaultBounds()))
}

func TestSplitWindow(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("甲", 2500)

	chunks := chunker.SplitWindow(text, 1000, 100)
	require.Len(t, chunks, 3)

	assert.Equal(t, 1000, len([]rune(chunks[0])))
	assert.Equal(t, 1000, len([]rune(chunks[1])))
	assert.Equal(t, 700, len([]rune(chunks[2])), "final chunk is clipped, not padded")
}

func TestSplitWindow_Overlap(t *testing.T) {
	t.Parallel()

	runes := []rune("一二三四五六七八九十早中晚")

	chunks := chunker.SplitWindow(string(runes), 5, 2)
	require.Len(t, chunks, 4)

	assert.Equal(t, "一二三四五", chunks[0])
	assert.Equal(t, "四五六七八", chunks[1])
	assert.Equal(t, "七八九十早", chunks[2])
	assert.Equal(t, "十早中晚", chunks[3])
}

func TestSplitWindow_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, chunker.SplitWindow("", 1000, 100))
}

func TestChunks_Offsets(t *testing.T) {
	t.Parallel()

	text := "甲甲甲。乙乙乙。"

	chunks := chunker.Chunks(42, text, chunker.Bounds{MaxChars: 3, MinChars: 0})
	require.Len(t, chunks, 2)

	assert.Equal(t, int64(42), chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 0, chunks[0].CharStart)
	assert.Equal(t, 3, chunks[0].CharEnd)
	assert.Equal(t, "甲甲甲", chunks[0].Content)

	assert.Equal(t, 1, chunks[1].Index)
	assert.Equal(t, 4, chunks[1].CharStart, "offsets count characters, not bytes")
	assert.Equal(t, 7, chunks[1].CharEnd)
}

func TestWindowChunks_Offsets(t *testing.T) {
	t.Parallel()

	chunks := chunker.WindowChunks(7, "一二三四五六七八九十早中晚", 5, 2)
	require.Len(t, chunks, 4)

	assert.Equal(t, 0, chunks[0].CharStart)
	assert.Equal(t, 5, chunks[0].CharEnd)
	assert.Equal(t, 3, chunks[1].CharStart)
	assert.Equal(t, 8, chunks[1].CharEnd)
	assert.Equal(t, 9, chunks[3].CharStart)
	assert.Equal(t, 13, chunks[3].CharEnd)
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, chunker.EstimateTokens(""))
	assert.Equal(t, 1, chunker.EstimateTokens("四字四个"))
	assert.Equal(t, 2, chunker.EstimateTokens("五个字符了"))
	assert.Equal(t, 250, chunker.EstimateTokens(strings.Repeat("甲", 1000)))
}

func TestContentMD5(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", chunker.ContentMD5("abc"))
	assert.Equal(t, chunker.ContentMD5("甲乙"), chunker.ContentMD5("甲乙"))
	assert.NotEqual(t, chunker.ContentMD5("甲"), chunker.ContentMD5("乙"))
}
