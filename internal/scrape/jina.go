package scrape

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/people-finder/pkg/jina"
)

// JinaAdapter wraps a Jina Reader client as a Scraper.
type JinaAdapter struct {
	client jina.Client
}

// NewJinaAdapter creates a JinaAdapter from a Jina client.
func NewJinaAdapter(client jina.Client) *JinaAdapter {
	return &JinaAdapter{client: client}
}

func (j *JinaAdapter) Name() string { return "jina" }

func (j *JinaAdapter) Supports(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// Scrape fetches a URL via Jina Reader and validates the response.
func (j *JinaAdapter) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	resp, err := j.client.Read(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	if needsFallback(resp) {
		return nil, eris.New("jina: unusable response")
	}

	return &Result{
		Page: Page{
			URL:        targetURL,
			Title:      resp.Data.Title,
			Text:       collapse(resp.Data.Content),
			StatusCode: resp.Code,
		},
		Source: "jina",
	}, nil
}

var challengeSignatures = []string{
	"checking your browser",
	"enable javascript",
	"please enable cookies",
	"access denied",
	"403 forbidden",
	"just a moment",
	"attention required",
	"sign in to view",
}

// needsFallback reports whether a Jina response is empty or a challenge page.
func needsFallback(resp *jina.ReadResponse) bool {
	if resp == nil {
		return true
	}
	if resp.Code != 0 && resp.Code != 200 {
		return true
	}

	content := strings.TrimSpace(resp.Data.Content)
	if content == "" {
		return true
	}
	if len(content) >= 1000 {
		return false
	}

	lower := strings.ToLower(content)
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
