package resolve

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/people-finder/internal/evidence"
	"github.com/sells-group/people-finder/internal/model"
	"github.com/sells-group/people-finder/internal/resilience"
	"github.com/sells-group/people-finder/internal/search"
)

// QueryBuilder turns inputs into search queries.
type QueryBuilder interface {
	Build(company, designation string) []string
}

// Extractor produces candidate names from a source.
type Extractor interface {
	Cheap(ctx context.Context, company, designation string, src model.Source) *model.Extraction
	Expensive(ctx context.Context, company, designation string, src model.Source) *model.Extraction
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Queries   QueryBuilder
	Searcher  search.Searcher
	Extractor Extractor
	// Sleep performs every courtesy delay. Defaults to resilience.Sleep.
	Sleep resilience.SleepFunc
}

// Pipeline is the search, extract and vote Resolver.
type Pipeline struct {
	queries   QueryBuilder
	collector *evidence.Collector
	extractor Extractor
	settings  Settings
	sleep     resilience.SleepFunc
}

// NewPipeline creates a Pipeline.
func NewPipeline(deps Deps, settings Settings) *Pipeline {
	sleep := deps.Sleep
	if sleep == nil {
		sleep = resilience.Sleep
	}
	if settings.Budget <= 0 {
		settings.Budget = DefaultSettings().Budget
	}
	return &Pipeline{
		queries: deps.Queries,
		collector: evidence.NewCollector(deps.Searcher,
			evidence.WithMaxResults(settings.ResultsPerQuery),
			evidence.WithQueryDelay(settings.QueryDelay),
			evidence.WithSleep(sleep),
		),
		extractor: deps.Extractor,
		settings:  settings,
		sleep:     sleep,
	}
}

// run is the mutable state of one Resolve call.
type run struct {
	company     string
	designation string
	log         *zap.Logger

	checked     []string
	seen        map[string]bool
	extractions []model.Extraction
}

// record notes url as examined. A URL appears in checked at most once.
func (r *run) record(url string) {
	if r.seen[url] {
		return
	}
	r.checked = append(r.checked, url)
	r.seen[url] = true
}

func (r *run) wasChecked(url string) bool { return r.seen[url] }

// Resolve implements Resolver. Panics in collaborators are recovered into
// a not-found result that keeps the URLs examined so far.
//
// A run is not cancelled by its caller: ctx contributes values only, and
// each collaborator call is bounded by its own timeout.
func (p *Pipeline) Resolve(ctx context.Context, company, designation string) (res model.Result) {
	company = strings.TrimSpace(company)
	designation = strings.TrimSpace(designation)
	if company == "" || designation == "" {
		return model.NotFound(designation, ErrMissingInput, nil)
	}
	ctx = context.WithoutCancel(ctx)

	r := &run{
		company:     company,
		designation: designation,
		log: zap.L().With(
			zap.String("run_id", uuid.NewString()),
			zap.String("company", company),
			zap.String("designation", designation),
		),
		checked: []string{},
		seen:    make(map[string]bool),
	}

	defer func() {
		if v := recover(); v != nil {
			r.log.Error("resolve: pipeline panic", zap.Any("panic", v), zap.Stack("stack"))
			res = model.NotFound(designation, PanicMessage(v), r.checked)
		}
	}()

	start := time.Now()
	res = p.resolve(ctx, r)
	r.log.Info("resolve: done",
		zap.Bool("found", res.Found),
		zap.String("error", res.ErrorMessage()),
		zap.Int("sources_checked", len(res.SourcesChecked)),
		zap.Float64("confidence", res.ConfidenceScore),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res
}

func (p *Pipeline) resolve(ctx context.Context, r *run) model.Result {
	queries := p.queries.Build(r.company, r.designation)
	if len(queries) == 0 {
		return model.NotFound(r.designation, ErrNoQueries, nil)
	}

	sources := p.collector.Collect(ctx, queries)
	if len(sources) == 0 {
		return model.NotFound(r.designation, ErrNoResults, nil)
	}

	p.harvest(ctx, r, sources, "snippet", p.settings.SnippetDelay, r.wasChecked, p.extractor.Cheap)

	skip, extract := r.pagePhase(p.settings.ReexamineWithPage, p.extractor.Expensive)
	p.harvest(ctx, r, sources, "page", p.settings.PageDelay, skip, extract)

	if len(r.extractions) == 0 {
		return model.NotFound(r.designation, ErrNoName, r.checked)
	}

	winner, confidence := p.settings.choose(r.extractions)
	r.log.Debug("resolve: winner chosen",
		zap.String("name", NormalizeName(winner.FirstName, winner.LastName)),
		zap.String("source_url", winner.SourceURL),
		zap.Int("extractions", len(r.extractions)),
	)

	return model.Result{
		FirstName:       winner.FirstName,
		LastName:        winner.LastName,
		CurrentTitle:    r.designation,
		SourceURL:       winner.SourceURL,
		ConfidenceScore: confidence,
		SourcesChecked:  r.checked,
		Found:           true,
	}
}

type extractFunc func(ctx context.Context, company, designation string, src model.Source) *model.Extraction

// harvest runs one extraction phase over the sources not rejected by skip
// until the budget is met or the sources run out.
func (p *Pipeline) harvest(ctx context.Context, r *run, sources []model.Source, phase string, delay time.Duration,
	skip func(url string) bool, extract extractFunc,
) {
	for src := range unexamined(sources, skip) {
		if len(r.extractions) >= p.settings.Budget {
			return
		}
		if err := p.sleep(ctx, delay); err != nil {
			r.log.Warn("resolve: harvest interrupted", zap.String("phase", phase), zap.Error(err))
			return
		}

		r.record(src.URL)
		ext := extract(ctx, r.company, r.designation, src)
		if ext == nil {
			continue
		}
		r.extractions = append(r.extractions, *ext)
		r.log.Debug("resolve: extracted",
			zap.String("phase", phase),
			zap.String("url", src.URL),
			zap.Int("extractions", len(r.extractions)),
		)
	}
}

// unexamined yields sources with a non-empty URL that skip does not reject.
// skip is consulted at yield time so URLs recorded during iteration count.
func unexamined(sources []model.Source, skip func(url string) bool) iter.Seq[model.Source] {
	return func(yield func(model.Source) bool) {
		for _, src := range sources {
			url := strings.TrimSpace(src.URL)
			if url == "" || skip(url) {
				continue
			}
			src.URL = url
			if !yield(src) {
				return
			}
		}
	}
}

// pagePhase returns the skip rule and extractor for the page phase.
func (r *run) pagePhase(reexamine bool, extract extractFunc) (func(string) bool, extractFunc) {
	if !reexamine {
		return func(url string) bool { return r.seen[url] || r.extracted(url) }, extract
	}
	paged := make(map[string]bool)
	skip := func(url string) bool { return paged[url] || r.extracted(url) }
	return skip, func(ctx context.Context, company, designation string, src model.Source) *model.Extraction {
		paged[src.URL] = true
		return extract(ctx, company, designation, src)
	}
}

func (r *run) extracted(url string) bool {
	for _, e := range r.extractions {
		if e.SourceURL == url {
			return true
		}
	}
	return false
}
