// Package resolve turns a company and designation into a single,
// confidence-scored person identity.
package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/sells-group/people-finder/internal/model"
)

// Diagnostics reported in model.Result.Error.
const (
	ErrMissingInput = "Company and designation are required"
	ErrNoQueries    = "Could not build search queries"
	ErrNoResults    = "No search results found"
	ErrNoName       = "Could not extract a name from any source"
	ErrInternal     = "internal error"
)

// PanicMessage renders a recovered panic value as a diagnostic. A value
// that prints as nothing becomes ErrInternal so the result still carries
// an error.
func PanicMessage(v any) string {
	if msg := fmt.Sprint(v); msg != "" {
		return msg
	}
	return ErrInternal
}

// Resolver finds the person holding designation at company. It never
// returns an error; every failure is described by the Result.
type Resolver interface {
	Resolve(ctx context.Context, company, designation string) model.Result
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, company, designation string) model.Result

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, company, designation string) model.Result {
	return f(ctx, company, designation)
}

// Settings parameterizes a Pipeline. The zero value is not useful; start
// from DefaultSettings.
type Settings struct {
	// ResultsPerQuery caps each search call.
	ResultsPerQuery int
	// QueryDelay is the wait between consecutive search queries.
	QueryDelay time.Duration

	// Budget is the number of extractions after which harvesting stops.
	Budget int
	// SnippetDelay precedes every snippet extraction.
	SnippetDelay time.Duration
	// PageDelay precedes every page fetch and extraction.
	PageDelay time.Duration
	// ReexamineWithPage lets the page phase revisit sources whose snippet
	// yielded no name. When false the page phase only visits sources the
	// snippet phase never examined.
	ReexamineWithPage bool

	// CredibleDomains is ordered from most to least credible. The first
	// domain scores TopCredibility and each next one scores one less.
	CredibleDomains []string
	TopCredibility  int

	// Agreement confidence is min(MaxConfidence, AgreementBase +
	// AgreementStep*n) for n >= 2 agreeing sources, else SingleConfidence.
	AgreementBase    float64
	AgreementStep    float64
	MaxConfidence    float64
	SingleConfidence float64
}

// DefaultSettings returns the production defaults.
func DefaultSettings() Settings {
	return Settings{
		ResultsPerQuery:  8,
		QueryDelay:       time.Second,
		Budget:           3,
		SnippetDelay:     500 * time.Millisecond,
		PageDelay:        time.Second,
		CredibleDomains:  []string{"linkedin.com", "wikipedia.org", "crunchbase.com", "bloomberg.com", "reuters.com", "forbes.com"},
		TopCredibility:   10,
		AgreementBase:    0.6,
		AgreementStep:    0.15,
		MaxConfidence:    0.95,
		SingleConfidence: 0.5,
	}
}
