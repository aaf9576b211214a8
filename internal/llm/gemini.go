package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"

	"github.com/sells-group/people-finder/internal/resilience"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

type geminiBackend struct {
	client *genai.Client
	model  string
	retry  resilience.Policy
}

// NewGemini returns a Completer backed by the Gemini API.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (Completer, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "llm: create gemini client")
	}

	retry := resilience.DefaultPolicy()
	retry.OnRetry = resilience.Logger("gemini", "generate_content")
	return &geminiBackend{client: client, model: model, retry: retry}, nil
}

func (g *geminiBackend) Name() string { return "gemini/" + g.model }

func (g *geminiBackend) Complete(ctx context.Context, req Request) (string, error) {
	temp := float32(req.Temperature)
	gc := &genai.GenerateContentConfig{
		CandidateCount: 1,
		Temperature:    &temp,
	}
	if req.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		gc.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	return resilience.Call(ctx, g.retry, func(ctx context.Context) (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), gc)
		if err != nil {
			return "", classifyGeminiErr(err)
		}
		return resp.Text(), nil
	})
}

// classifyGeminiErr marks rate-limit and server errors as transient.
func classifyGeminiErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.Code) {
		return resilience.NewTransientError(eris.Wrap(err, "llm: gemini completion"), apiErr.Code)
	}
	return eris.Wrap(err, "llm: gemini completion")
}
