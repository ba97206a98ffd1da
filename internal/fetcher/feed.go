package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// httpPrefix is the scheme prefix used to decide whether a GUID is usable
// as a URL.
const httpPrefix = "http"

const feedFetchTimeout = 30 * time.Second

// SeedItem is a single entry discovered from an RSS or Atom feed.
type SeedItem struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	PublishedAt string `json:"published_at"`
}

// ParseFeed parses a feed body and returns the discovered items. Entries
// without a usable link are silently skipped; an empty feed yields a non-nil
// empty slice.
func ParseFeed(ctx context.Context, body string) ([]SeedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	parser := gofeed.NewParser()

	parsed, err := parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]SeedItem, 0, len(parsed.Items))

	for _, entry := range parsed.Items {
		link := extractLink(entry)
		if link == "" {
			continue
		}

		items = append(items, SeedItem{
			URL:         link,
			Title:       entry.Title,
			PublishedAt: formatPublishedAt(entry.PublishedParsed),
		})
	}

	return items, nil
}

// LoadSeeds fetches and parses every feed URL, concatenating the discovered
// items in input order. A feed that fails to load is skipped with an error
// in the returned map rather than aborting discovery.
func LoadSeeds(ctx context.Context, feedURLs []string) ([]SeedItem, map[string]error) {
	failures := make(map[string]error)
	seeds := make([]SeedItem, 0)

	client := &http.Client{Timeout: feedFetchTimeout}
	parser := gofeed.NewParser()
	parser.Client = client

	for _, feedURL := range feedURLs {
		parsed, err := parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			failures[feedURL] = fmt.Errorf("failed to load feed: %w", err)
			continue
		}

		for _, entry := range parsed.Items {
			link := extractLink(entry)
			if link == "" {
				continue
			}

			seeds = append(seeds, SeedItem{
				URL:         link,
				Title:       entry.Title,
				PublishedAt: formatPublishedAt(entry.PublishedParsed),
			})
		}
	}

	return seeds, failures
}

// extractLink returns the best available URL from a feed entry, preferring
// the explicit link and falling back to an HTTP-looking GUID.
func extractLink(entry *gofeed.Item) string {
	if entry.Link != "" {
		return entry.Link
	}

	if strings.HasPrefix(entry.GUID, httpPrefix) {
		return entry.GUID
	}

	return ""
}

func formatPublishedAt(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.RFC3339)
}
