package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultMaxChars bounds the text returned by FetchText.
const DefaultMaxChars = 12000

// Chain tries scrapers in priority order, returning the first success.
type Chain struct {
	scrapers []Scraper
}

// NewChain creates a Chain. Scrapers are tried in order.
func NewChain(scrapers ...Scraper) *Chain {
	return &Chain{scrapers: scrapers}
}

// Scrape tries each scraper in order for a single URL.
func (c *Chain) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	var lastErr error
	for _, s := range c.scrapers {
		if !s.Supports(targetURL) {
			continue
		}
		result, err := s.Scrape(ctx, targetURL)
		if err == nil && result != nil {
			return result, nil
		}
		if err != nil {
			zap.L().Debug("scrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all scrapers failed")
	}
	return nil, eris.Errorf("scrape: no suitable scraper for url: %s", targetURL)
}

// FetchText returns the visible text of targetURL truncated to maxChars
// characters (DefaultMaxChars when maxChars <= 0). Any failure yields "".
func (c *Chain) FetchText(ctx context.Context, targetURL string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	res, err := c.Scrape(ctx, targetURL)
	if err != nil {
		zap.L().Debug("scrape: fetch failed", zap.String("url", targetURL), zap.Error(err))
		return ""
	}
	return Truncate(res.Page.Text, maxChars)
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
