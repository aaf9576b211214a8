package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/people-finder/internal/agentic"
	"github.com/sells-group/people-finder/internal/config"
	"github.com/sells-group/people-finder/internal/evidence"
	"github.com/sells-group/people-finder/internal/extract"
	"github.com/sells-group/people-finder/internal/llm"
	"github.com/sells-group/people-finder/internal/query"
	"github.com/sells-group/people-finder/internal/resolve"
	"github.com/sells-group/people-finder/internal/scrape"
	"github.com/sells-group/people-finder/internal/search"
	"github.com/sells-group/people-finder/pkg/duckduckgo"
	"github.com/sells-group/people-finder/pkg/jina"
)

// finderEnv holds the initialized resolver and the facts the health
// endpoint reports about it.
type finderEnv struct {
	Resolver      resolve.Resolver
	LLMConfigured bool
	Agentic       bool
}

// initFinder builds the collaborators from cfg and wires the resolver
// selected by resolver.mode (or forced agentic).
func initFinder(ctx context.Context, cfg *config.Config, mode string, forceAgentic bool) (*finderEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	completer, err := llm.New(ctx, llm.Config{
		Provider:          cfg.LLM.Provider,
		APIKey:            cfg.LLM.Key,
		Model:             cfg.LLM.Model,
		BaseURL:           cfg.LLM.BaseURL,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init llm")
	}
	if !llm.Configured(completer) {
		zap.L().Warn("llm credential not configured; extraction will find no names",
			zap.String("provider", cfg.LLM.Provider),
		)
	}

	builder, err := initQueryBuilder(cfg.Resolver)
	if err != nil {
		return nil, err
	}

	jinaClient := initJina(cfg.Jina)
	searcher, err := initSearcher(cfg.Search, jinaClient)
	if err != nil {
		return nil, err
	}

	settings := buildSettings(cfg)
	useAgentic := forceAgentic || strings.EqualFold(cfg.Resolver.Mode, "agentic")

	var resolver resolve.Resolver
	if useAgentic {
		resolver = agentic.New(agentic.Deps{
			Queries: builder,
			Collector: evidence.NewCollector(searcher,
				evidence.WithMaxResults(settings.ResultsPerQuery),
				evidence.WithQueryDelay(settings.QueryDelay),
			),
			Completer: completer,
		})
	} else {
		oracle := extract.NewOracle(completer,
			extract.WithMaxTextChars(cfg.LLM.MaxTextChars),
			extract.WithMaxTokens(cfg.LLM.MaxTokens),
		)
		fetcher := initFetcher(cfg.Fetch, jinaClient)
		resolver = resolve.NewPipeline(resolve.Deps{
			Queries:   builder,
			Searcher:  searcher,
			Extractor: extract.NewAdapter(oracle, fetcher, cfg.Fetch.MaxChars),
		}, settings)
	}

	zap.L().Info("resolver ready",
		zap.Bool("agentic", useAgentic),
		zap.String("search", cfg.Search.Provider),
		zap.String("llm", completer.Name()),
	)

	return &finderEnv{
		Resolver:      resolver,
		LLMConfigured: llm.Configured(completer),
		Agentic:       useAgentic,
	}, nil
}

func initQueryBuilder(rc config.ResolverConfig) (*query.Builder, error) {
	if rc.AliasesFile == "" {
		return query.NewBuilder(nil), nil
	}
	aliases, err := query.LoadAliases(rc.AliasesFile)
	if err != nil {
		return nil, eris.Wrap(err, "load designation aliases")
	}
	return query.NewBuilder(aliases), nil
}

func initJina(jc config.JinaConfig) jina.Client {
	var opts []jina.Option
	if jc.BaseURL != "" {
		opts = append(opts, jina.WithBaseURL(jc.BaseURL))
	}
	if jc.SearchBaseURL != "" {
		opts = append(opts, jina.WithSearchBaseURL(jc.SearchBaseURL))
	}
	return jina.NewClient(jc.Key, opts...)
}

func initSearcher(sc config.SearchConfig, jinaClient jina.Client) (search.Searcher, error) {
	var ddgOpts []duckduckgo.Option
	if sc.TimeoutSecs > 0 {
		ddgOpts = append(ddgOpts, duckduckgo.WithHTTPClient(&http.Client{Timeout: time.Duration(sc.TimeoutSecs) * time.Second}))
	}
	if sc.BaseURL != "" {
		ddgOpts = append(ddgOpts, duckduckgo.WithBaseURL(sc.BaseURL))
	}
	s, err := search.New(sc.Provider, duckduckgo.NewClient(ddgOpts...), jinaClient)
	if err != nil {
		return nil, eris.Wrap(err, "init searcher")
	}
	return s, nil
}

func initFetcher(fc config.FetchConfig, jinaClient jina.Client) *scrape.Chain {
	scrapers := []scrape.Scraper{
		scrape.NewLocalScraper(
			scrape.WithTimeout(time.Duration(fc.TimeoutSecs)*time.Second),
			scrape.WithUserAgent(fc.UserAgent),
		),
	}
	if fc.JinaFallback {
		scrapers = append(scrapers, scrape.NewJinaAdapter(jinaClient))
	}
	return scrape.NewChain(scrapers...)
}

// buildSettings maps the resolver, search and fetch sections onto the
// pipeline settings. Zero values keep the defaults.
func buildSettings(cfg *config.Config) resolve.Settings {
	s := resolve.DefaultSettings()
	rc := cfg.Resolver

	if cfg.Search.MaxResultsPerQuery > 0 {
		s.ResultsPerQuery = cfg.Search.MaxResultsPerQuery
	}
	if cfg.Search.QueryDelayMs >= 0 {
		s.QueryDelay = time.Duration(cfg.Search.QueryDelayMs) * time.Millisecond
	}
	if rc.Budget > 0 {
		s.Budget = rc.Budget
	}
	if rc.SnippetDelayMs >= 0 {
		s.SnippetDelay = time.Duration(rc.SnippetDelayMs) * time.Millisecond
	}
	if rc.PageDelayMs >= 0 {
		s.PageDelay = time.Duration(rc.PageDelayMs) * time.Millisecond
	}
	s.ReexamineWithPage = rc.ReexamineWithPage
	if len(rc.CredibleDomains) > 0 {
		s.CredibleDomains = rc.CredibleDomains
	}
	if rc.TopCredibility > 0 {
		s.TopCredibility = rc.TopCredibility
	}
	if rc.AgreementBase > 0 {
		s.AgreementBase = rc.AgreementBase
	}
	if rc.AgreementStep > 0 {
		s.AgreementStep = rc.AgreementStep
	}
	if rc.MaxConfidence > 0 {
		s.MaxConfidence = rc.MaxConfidence
	}
	if rc.SingleConfidence > 0 {
		s.SingleConfidence = rc.SingleConfidence
	}
	return s
}
