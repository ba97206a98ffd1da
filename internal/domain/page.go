// Package domain provides domain models used across the application.
package domain

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// RawPage is a fetched page as handed over by the fetch layer, before any
// extraction has happened. It is discarded once parsed.
type RawPage struct {
	// URL is the originating request URL.
	URL string
	// HTML is the raw response body.
	HTML []byte
	// FetchedAt is the time the response was received.
	FetchedAt time.Time
	// Status is the HTTP status code.
	Status int
	// ContentType is the response Content-Type header.
	ContentType string
}

// PageRecord is the canonical line-delimited interchange record written for
// every accepted page. The field set is fixed; downstream ingestion relies
// on it.
type PageRecord struct {
	URL         string    `json:"url"`
	Domain      string    `json:"domain"`
	FetchedAt   float64   `json:"fetched_at"`
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	Title       string    `json:"title"`
	Lang        string    `json:"lang"`
	Text        string    `json:"text"`
	Checksum    string    `json:"checksum"`
	License     string    `json:"license"`
	Robots      string    `json:"robots"`
	Outlinks    []string  `json:"outlinks"`
	Meta        *Record   `json:"meta"`
	Bearers     []*Record `json:"bearers"`
}

// DomainOf returns the registered domain (eTLD+1) for a URL, falling back to
// the bare host when the public suffix list cannot resolve it.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	if dom, psErr := publicsuffix.EffectiveTLDPlusOne(host); psErr == nil {
		return dom
	}
	return host
}
