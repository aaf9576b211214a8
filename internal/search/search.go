// Package search adapts web search backends to the Searcher capability used
// by the evidence collector.
package search

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/people-finder/internal/model"
	"github.com/sells-group/people-finder/pkg/duckduckgo"
	"github.com/sells-group/people-finder/pkg/jina"
)

// Provider names accepted by New.
const (
	ProviderDuckDuckGo = "duckduckgo"
	ProviderJina       = "jina"
)

// Searcher runs one web search and returns up to maxResults sources in the
// backend's ranking order.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.Source, error)
}

// New returns the Searcher for provider. An empty provider selects
// DuckDuckGo.
func New(provider string, ddg duckduckgo.Client, jc jina.Client) (Searcher, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderDuckDuckGo:
		if ddg == nil {
			return nil, eris.New("search: duckduckgo client is nil")
		}
		return NewDuckDuckGo(ddg), nil
	case ProviderJina:
		if jc == nil {
			return nil, eris.New("search: jina client is nil")
		}
		return NewJina(jc), nil
	default:
		return nil, eris.Errorf("search: unknown provider %q", provider)
	}
}

// DuckDuckGo searches via the DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	client duckduckgo.Client
}

// NewDuckDuckGo wraps a DuckDuckGo client.
func NewDuckDuckGo(client duckduckgo.Client) *DuckDuckGo {
	return &DuckDuckGo{client: client}
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]model.Source, error) {
	results, err := d.client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, eris.Wrap(err, "search: duckduckgo")
	}
	out := make([]model.Source, 0, len(results))
	for _, r := range results {
		out = append(out, model.Source{URL: r.URL, Title: r.Title, Body: r.Snippet})
	}
	return out, nil
}

// Jina searches via Jina Search.
type Jina struct {
	client jina.Client
}

// NewJina wraps a Jina client.
func NewJina(client jina.Client) *Jina {
	return &Jina{client: client}
}

// snippetChars bounds the body taken from Jina's full-content results.
const snippetChars = 500

func (j *Jina) Search(ctx context.Context, query string, maxResults int) ([]model.Source, error) {
	resp, err := j.client.Search(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "search: jina")
	}

	var out []model.Source
	for _, r := range resp.Data {
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
		if r.URL == "" {
			continue
		}
		body := r.Description
		if body == "" {
			body = truncate(strings.Join(strings.Fields(r.Content), " "), snippetChars)
		}
		out = append(out, model.Source{URL: r.URL, Title: r.Title, Body: body})
	}
	return out, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
