// Package evidence runs search queries and merges their results into one
// ordered, URL-unique list of candidate sources.
package evidence

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/people-finder/internal/model"
	"github.com/sells-group/people-finder/internal/resilience"
	"github.com/sells-group/people-finder/internal/search"
)

// Defaults for a Collector.
const (
	DefaultMaxResults = 8
	DefaultQueryDelay = time.Second
)

// Collector queries a Searcher sequentially and de-duplicates by URL.
type Collector struct {
	searcher   search.Searcher
	maxResults int
	delay      time.Duration
	sleep      resilience.SleepFunc
}

// Option configures a Collector.
type Option func(*Collector)

// WithMaxResults sets the per-query result cap.
func WithMaxResults(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithQueryDelay sets the wait between consecutive queries.
func WithQueryDelay(d time.Duration) Option {
	return func(c *Collector) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithSleep replaces the blocking wait used between queries.
func WithSleep(fn resilience.SleepFunc) Option {
	return func(c *Collector) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// NewCollector creates a Collector over s.
func NewCollector(s search.Searcher, opts ...Option) *Collector {
	c := &Collector{
		searcher:   s,
		maxResults: DefaultMaxResults,
		delay:      DefaultQueryDelay,
		sleep:      resilience.Sleep,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Collect runs each query in order and returns the merged sources. The first
// occurrence of a URL wins and keeps its position. Failed queries contribute
// nothing; an empty result means no query produced a usable source.
func (c *Collector) Collect(ctx context.Context, queries []string) []model.Source {
	log := zap.L().With(zap.Int("queries", len(queries)))

	var sources []model.Source
	seen := make(map[string]bool)

	for i, q := range queries {
		if i > 0 {
			if err := c.sleep(ctx, c.delay); err != nil {
				log.Warn("evidence: collection interrupted", zap.Int("completed", i), zap.Error(err))
				break
			}
		}

		results, err := c.searcher.Search(ctx, q, c.maxResults)
		if err != nil {
			log.Warn("evidence: search failed", zap.String("query", q), zap.Error(err))
			continue
		}

		added := 0
		for _, r := range results {
			r.URL = strings.TrimSpace(r.URL)
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			sources = append(sources, r)
			added++
		}
		log.Debug("evidence: query done",
			zap.String("query", q),
			zap.Int("results", len(results)),
			zap.Int("new", added),
		)
	}

	log.Info("evidence: collected", zap.Int("sources", len(sources)))
	return sources
}
