// Package llm provides the text-completion backends behind the name
// extraction oracle.
package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Provider names accepted by New.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// ErrNoCredential is returned by a backend that has no API key configured.
var ErrNoCredential = eris.New("llm: credential not configured")

// Request is a single-turn completion request.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completer turns a prompt into a text reply.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	// Name identifies the backend and model for logging.
	Name() string
}

// Config selects and configures a backend.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	// RequestsPerMinute limits outbound calls. Zero disables the limiter.
	RequestsPerMinute int
}

// New builds the backend named by cfg.Provider. A missing API key yields an
// Unconfigured backend rather than an error so callers can still run and
// report "no name".
func New(ctx context.Context, cfg Config) (Completer, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderGroq
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		switch provider {
		case ProviderGroq, ProviderAnthropic, ProviderGemini:
			return Unconfigured(provider), nil
		}
	}

	var (
		c   Completer
		err error
	)
	switch provider {
	case ProviderGroq:
		c = NewGroq(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderAnthropic:
		c = NewAnthropic(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderGemini:
		c, err = NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.Provider)
	}

	return WithRateLimit(c, cfg.RequestsPerMinute), nil
}

// Configured reports whether c can actually reach a model.
func Configured(c Completer) bool {
	if c == nil {
		return false
	}
	_, ok := c.(unconfigured)
	return !ok
}

type unconfigured string

// Unconfigured returns a Completer that always fails with ErrNoCredential.
func Unconfigured(provider string) Completer {
	return unconfigured(provider)
}

func (u unconfigured) Complete(context.Context, Request) (string, error) {
	return "", ErrNoCredential
}

func (u unconfigured) Name() string {
	return string(u) + " (unconfigured)"
}

type limited struct {
	Completer
	limiter *rate.Limiter
}

// WithRateLimit wraps c so that it issues at most rpm requests per minute.
// A non-positive rpm returns c unchanged.
func WithRateLimit(c Completer, rpm int) Completer {
	if rpm <= 0 {
		return c
	}
	return &limited{
		Completer: c,
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}
}

func (l *limited) Complete(ctx context.Context, req Request) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "llm: rate limit wait")
	}
	return l.Completer.Complete(ctx, req)
}
