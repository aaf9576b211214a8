package extract

import (
	"context"
	"strings"

	"github.com/sells-group/people-finder/internal/model"
	"github.com/sells-group/people-finder/internal/scrape"
)

// Fetcher returns the visible text of a page, or "" on any failure.
type Fetcher interface {
	FetchText(ctx context.Context, url string, maxChars int) string
}

// Adapter produces Extractions from sources, cheaply from the snippet or
// expensively from the full page.
type Adapter struct {
	oracle       NameOracle
	fetcher      Fetcher
	maxPageChars int
}

// NewAdapter creates an Adapter. maxPageChars <= 0 uses
// scrape.DefaultMaxChars.
func NewAdapter(oracle NameOracle, fetcher Fetcher, maxPageChars int) *Adapter {
	if maxPageChars <= 0 {
		maxPageChars = scrape.DefaultMaxChars
	}
	return &Adapter{oracle: oracle, fetcher: fetcher, maxPageChars: maxPageChars}
}

// Cheap extracts from the source's title and snippet only.
func (a *Adapter) Cheap(ctx context.Context, company, designation string, src model.Source) *model.Extraction {
	text := strings.TrimSpace(src.Title + "\n" + src.Body)
	if text == "" {
		return nil
	}
	return a.extract(ctx, company, designation, text, src.URL, true)
}

// Expensive fetches the page behind the source and extracts from its text.
func (a *Adapter) Expensive(ctx context.Context, company, designation string, src model.Source) *model.Extraction {
	if a.fetcher == nil {
		return nil
	}
	text := a.fetcher.FetchText(ctx, src.URL, a.maxPageChars)
	if text == "" {
		return nil
	}
	return a.extract(ctx, company, designation, text, src.URL, false)
}

func (a *Adapter) extract(ctx context.Context, company, designation, text, url string, fromSnippet bool) *model.Extraction {
	first, last, ok := a.oracle.Extract(ctx, company, designation, text, url)
	if !ok {
		return nil
	}
	return &model.Extraction{
		FirstName:   first,
		LastName:    last,
		SourceURL:   url,
		FromSnippet: fromSnippet,
	}
}
