// Package agentic is a single-call alternative to the resolve pipeline: it
// hands every collected source to the model and asks for a cross-validated
// JSON report.
package agentic

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/people-finder/internal/evidence"
	"github.com/sells-group/people-finder/internal/llm"
	"github.com/sells-group/people-finder/internal/model"
	"github.com/sells-group/people-finder/internal/resolve"
	"github.com/sells-group/people-finder/internal/scrape"
)

// Defaults for a Resolver.
const (
	DefaultMaxSources   = 12
	DefaultSnippetChars = 300
	DefaultMaxTokens    = 400
	DefaultTemperature  = 0.2
)

const systemPrompt = `You are a research team of three: a Researcher who reads search results and notes the person named in each, a Validator who cross-checks which name appears in more than one source and picks the most credible one, and a Reporter who outputs the final answer as strict JSON. Reply with a single JSON object and nothing else.`

const promptTemplate = `Find the full name of the person who holds the role "%[2]s" at the company "%[1]s".

Search results:
%[3]s
Instructions:
- For each source, note the person named for this role (or NONE).
- Prefer a name that appears in two or more sources. Use 0.7-0.95 for confidence_score when 2+ sources agree and 0.5-0.6 when only one source names the person.
- Pick one source_url as the primary source. Prefer linkedin.com, wikipedia.org, the company's own site, then news.
- If nobody can be identified, use empty strings for the names and 0 for confidence_score.

Output ONLY a JSON object with exactly these keys:
{"first_name": string, "last_name": string, "current_title": string, "source_url": string, "confidence_score": number}
current_title is the designation, e.g. %[2]s.`

// Deps are the collaborators of a Resolver.
type Deps struct {
	Queries   resolve.QueryBuilder
	Collector *evidence.Collector
	Completer llm.Completer
}

// Resolver implements resolve.Resolver with one model call per run.
type Resolver struct {
	queries      resolve.QueryBuilder
	collector    *evidence.Collector
	completer    llm.Completer
	maxSources   int
	snippetChars int
}

// New creates a Resolver.
func New(deps Deps) *Resolver {
	return &Resolver{
		queries:      deps.Queries,
		collector:    deps.Collector,
		completer:    deps.Completer,
		maxSources:   DefaultMaxSources,
		snippetChars: DefaultSnippetChars,
	}
}

// RefinedQuery is the fallback query used when the default queries find
// nothing.
func RefinedQuery(company, designation string) string {
	return fmt.Sprintf("%s %s LinkedIn", company, designation)
}

// Resolve implements resolve.Resolver.
func (r *Resolver) Resolve(ctx context.Context, company, designation string) (res model.Result) {
	company = strings.TrimSpace(company)
	designation = strings.TrimSpace(designation)
	if company == "" || designation == "" {
		return model.NotFound(designation, resolve.ErrMissingInput, nil)
	}
	ctx = context.WithoutCancel(ctx)

	log := zap.L().With(
		zap.String("run_id", uuid.NewString()),
		zap.String("company", company),
		zap.String("designation", designation),
		zap.String("resolver", "agentic"),
	)
	listed := []string{}

	defer func() {
		if v := recover(); v != nil {
			log.Error("agentic: panic", zap.Any("panic", v), zap.Stack("stack"))
			res = model.NotFound(designation, resolve.PanicMessage(v), listed)
		}
	}()

	queries := r.queries.Build(company, designation)
	if len(queries) == 0 {
		return model.NotFound(designation, resolve.ErrNoQueries, nil)
	}

	sources := r.collector.Collect(ctx, queries)
	if len(sources) == 0 {
		refined := RefinedQuery(company, designation)
		log.Info("agentic: no results, refining query", zap.String("query", refined))
		sources = r.collector.Collect(ctx, []string{refined})
	}
	if len(sources) == 0 {
		return model.NotFound(designation, resolve.ErrNoResults, nil)
	}
	if len(sources) > r.maxSources {
		sources = sources[:r.maxSources]
	}
	for _, s := range sources {
		listed = append(listed, s.URL)
	}

	reply, err := r.completer.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      r.prompt(company, designation, sources),
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	})
	if err != nil {
		log.Warn("agentic: completion failed", zap.Error(err))
		return model.NotFound(designation, err.Error(), listed)
	}

	rep, err := parseReport(reply)
	if err != nil {
		log.Warn("agentic: unusable report", zap.Error(err), zap.String("reply", scrape.Truncate(reply, 500)))
		return model.NotFound(designation, "", listed)
	}

	res = model.Result{
		FirstName:       strings.TrimSpace(rep.FirstName),
		LastName:        strings.TrimSpace(rep.LastName),
		CurrentTitle:    strings.TrimSpace(rep.CurrentTitle),
		SourceURL:       strings.TrimSpace(rep.SourceURL),
		ConfidenceScore: min(1, max(0, rep.ConfidenceScore)),
		SourcesChecked:  listed,
	}
	if res.CurrentTitle == "" {
		res.CurrentTitle = designation
	}
	res.Found = res.FirstName != "" || res.LastName != ""

	log.Info("agentic: done", zap.Bool("found", res.Found), zap.Float64("confidence", res.ConfidenceScore))
	return res
}

func (r *Resolver) prompt(company, designation string, sources []model.Source) string {
	var sb strings.Builder
	for i, s := range sources {
		fmt.Fprintf(&sb, "%d. %s\n   URL: %s\n   Snippet: %s\n",
			i+1, s.Title, s.URL, scrape.Truncate(strings.Join(strings.Fields(s.Body), " "), r.snippetChars))
	}
	return fmt.Sprintf(promptTemplate, company, designation, sb.String())
}
