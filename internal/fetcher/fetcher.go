// Package fetcher downloads heritage pages with a rate-limited colly
// collector and hands the raw responses to the extraction pipeline.
package fetcher

import (
	"fmt"
	"math/rand"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/logger"
)

// detailURLPattern is the canonical project detail page location.
const detailURLPattern = "https://www.ihchina.cn/project_details/%d.html"

// userAgents is a small static rotation list, so no network call is needed
// to obtain one.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:118.0) Gecko/20100101 Firefox/118.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Edge/120.0.0.0",
}

// Config defines the fetcher configuration.
type Config struct {
	// AllowedDomains are the domains that can be crawled.
	AllowedDomains []string
	// Delay is the base delay between requests to one domain.
	Delay time.Duration
	// RandomDelay is the extra random delay added on top of Delay.
	RandomDelay time.Duration
	// Parallelism is the number of concurrent requests.
	Parallelism int
	// Referer is sent with every request.
	Referer string
}

// DefaultConfig returns the polite defaults for the heritage portal.
func DefaultConfig() Config {
	return Config{
		AllowedDomains: []string{"www.ihchina.cn", "ihchina.cn"},
		Delay:          500 * time.Millisecond,
		RandomDelay:    500 * time.Millisecond,
		Parallelism:    2,
		Referer:        "https://www.ihchina.cn/",
	}
}

// Handler consumes one fetched page. Returned errors are logged, not fatal;
// one bad page must not stop a range walk.
type Handler func(page *domain.RawPage) error

// Fetcher walks project detail pages by numeric ID and forwards every
// successful response to a handler.
type Fetcher struct {
	collector *colly.Collector
	logger    logger.Interface
}

// New creates a fetcher. A nil logger is replaced with a no-op.
func New(cfg Config, handler Handler, log logger.Interface) (*Fetcher, error) {
	if log == nil {
		log = logger.NewNoOp()
	}

	collector := colly.NewCollector(
		colly.Async(true),
		colly.AllowedDomains(cfg.AllowedDomains...),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       cfg.Delay,
		RandomDelay: cfg.RandomDelay,
		Parallelism: cfg.Parallelism,
	}); err != nil {
		return nil, fmt.Errorf("failed to set rate limit: %w", err)
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgents[rand.Intn(len(userAgents))]) //nolint:gosec // rotation, not crypto
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
		if cfg.Referer != "" {
			r.Headers.Set("Referer", cfg.Referer)
		}

		log.Info("Visiting", "url", r.URL.String())
	})

	collector.OnResponse(func(r *colly.Response) {
		log.Debug("Visited", "url", r.Request.URL.String(), "status", r.StatusCode)

		page := &domain.RawPage{
			URL:         r.Request.URL.String(),
			HTML:        append([]byte(nil), r.Body...),
			FetchedAt:   time.Now(),
			Status:      r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
		}

		if err := handler(page); err != nil {
			log.Error("Failed to process page", "url", page.URL, "error", err)
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		log.Error("Error while crawling",
			"url", r.Request.URL.String(),
			"status", r.StatusCode,
			"error", err)
	})

	return &Fetcher{collector: collector, logger: log}, nil
}

// FetchRange visits every project detail page with an ID in [start, end] and
// blocks until all responses are handled.
func (f *Fetcher) FetchRange(start, end int) error {
	if start > end {
		return fmt.Errorf("invalid id range: %d > %d", start, end)
	}

	for id := start; id <= end; id++ {
		url := fmt.Sprintf(detailURLPattern, id)
		if err := f.collector.Visit(url); err != nil {
			f.logger.Warn("Failed to enqueue URL", "url", url, "error", err)
		}
	}

	f.collector.Wait()

	return nil
}

// FetchURLs visits an explicit list of URLs, for seeds discovered from
// feeds, and blocks until all responses are handled.
func (f *Fetcher) FetchURLs(urls []string) error {
	for _, url := range urls {
		if err := f.collector.Visit(url); err != nil {
			f.logger.Warn("Failed to enqueue URL", "url", url, "error", err)
		}
	}

	f.collector.Wait()

	return nil
}
