package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/people-finder/pkg/anthropic"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-haiku-4-5-20251001"

type anthropicBackend struct {
	client anthropic.Client
	model  string
}

// NewAnthropic returns a Completer backed by the Anthropic Messages API.
func NewAnthropic(apiKey, model, baseURL string) Completer {
	if model == "" {
		model = DefaultAnthropicModel
	}
	var opts []option.RequestOption
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &anthropicBackend{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (a *anthropicBackend) Name() string { return "anthropic/" + a.model }

func (a *anthropicBackend) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 256
	}
	temp := req.Temperature

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic completion")
	}
	resp.Usage.LogCost(a.model, "extract")
	return resp.Text(), nil
}
