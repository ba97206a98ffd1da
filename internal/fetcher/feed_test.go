package fetcher_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagelab/ichcrawl/internal/fetcher"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>非遗动态</title>
    <item>
      <title>第一条</title>
      <link>https://www.ihchina.cn/news/1.html</link>
      <pubDate>Mon, 01 Jun 2026 12:00:00 +0000</pubDate>
    </item>
    <item>
      <title>第二条</title>
      <link>https://www.ihchina.cn/news/2.html</link>
    </item>
  </channel>
</rss>`

const guidOnlyFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>GUID Feed</title>
    <item>
      <title>仅有 GUID</title>
      <guid>https://www.ihchina.cn/news/3.html</guid>
    </item>
    <item>
      <title>不可用 GUID</title>
      <guid isPermaLink="false">opaque-id-1</guid>
    </item>
  </channel>
</rss>`

func TestParseFeed_RSS(t *testing.T) {
	t.Parallel()

	items, err := fetcher.ParseFeed(context.Background(), rssFixture)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "https://www.ihchina.cn/news/1.html", items[0].URL)
	assert.Equal(t, "第一条", items[0].Title)
	assert.NotEmpty(t, items[0].PublishedAt)

	assert.Equal(t, "https://www.ihchina.cn/news/2.html", items[1].URL)
	assert.Empty(t, items[1].PublishedAt)
}

func TestParseFeed_GUIDFallback(t *testing.T) {
	t.Parallel()

	items, err := fetcher.ParseFeed(context.Background(), guidOnlyFixture)
	require.NoError(t, err)
	require.Len(t, items, 1, "entries without a usable link are skipped")

	assert.Equal(t, "https://www.ihchina.cn/news/3.html", items[0].URL)
}

func TestParseFeed_InvalidXML(t *testing.T) {
	t.Parallel()

	_, err := fetcher.ParseFeed(context.Background(), "not a feed")
	assert.Error(t, err)
}

func TestParseFeed_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.ParseFeed(ctx, rssFixture)
	assert.Error(t, err)
}
