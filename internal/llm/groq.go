package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/people-finder/pkg/groq"
)

// DefaultGroqModel is used when no model is configured.
const DefaultGroqModel = "llama-3.3-70b-versatile"

type groqBackend struct {
	client groq.Client
	model  string
}

// NewGroq returns a Completer backed by Groq's chat completions API.
func NewGroq(apiKey, model, baseURL string) Completer {
	if model == "" {
		model = DefaultGroqModel
	}
	return &groqBackend{
		client: groq.NewClient(apiKey, groq.WithBaseURL(baseURL), groq.WithModel(model)),
		model:  model,
	}
}

func (g *groqBackend) Name() string { return "groq/" + g.model }

func (g *groqBackend) Complete(ctx context.Context, req Request) (string, error) {
	var msgs []groq.Message
	if req.System != "" {
		msgs = append(msgs, groq.Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, groq.Message{Role: "user", Content: req.Prompt})

	temp := req.Temperature
	cr := groq.ChatCompletionRequest{
		Model:       g.model,
		Messages:    msgs,
		Temperature: &temp,
	}
	if req.MaxTokens > 0 {
		mt := req.MaxTokens
		cr.MaxTokens = &mt
	}

	resp, err := g.client.ChatCompletion(ctx, cr)
	if err != nil {
		return "", eris.Wrap(err, "llm: groq completion")
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
