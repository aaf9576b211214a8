// Package scrape fetches candidate pages and reduces them to visible text for
// name extraction. A local HTTP fetch is tried first with Jina Reader as the
// fallback.
package scrape

import "context"

// Page is a fetched page reduced to plain text.
type Page struct {
	URL        string
	Title      string
	Text       string
	StatusCode int
}

// Result holds a fetched page with the scraper that produced it.
type Result struct {
	Page   Page
	Source string // "local_http" or "jina"
}

// Scraper fetches a single URL and returns its content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
	Supports(url string) bool
}
