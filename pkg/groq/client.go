// Package groq is a client for Groq's OpenAI-compatible chat completions API.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/people-finder/internal/resilience"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"
)

// Client performs chat completions against an OpenAI-compatible endpoint.
type Client interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// ChatCompletionRequest is the request body for POST /chat/completions.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse is the response from POST /chat/completions.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is a single completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *httpClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetryPolicy overrides the retry policy for transient failures.
func WithRetryPolicy(p resilience.Policy) Option {
	return func(c *httpClient) {
		c.retry = p
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	retry   resilience.Policy
}

// NewClient creates a Groq API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: resilience.DefaultPolicy(),
	}
	c.retry.OnRetry = resilience.Logger("groq", "chat_completion")
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "groq: marshal request")
	}

	return resilience.Call(ctx, c.retry, func(ctx context.Context) (*ChatCompletionResponse, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, eris.Wrap(err, "groq: create request")
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, eris.Wrap(err, "groq: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "groq: read response")
		}

		if resp.StatusCode != http.StatusOK {
			return nil, resilience.StatusError("groq", resp.StatusCode, respBody)
		}

		var result ChatCompletionResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, eris.Wrap(err, "groq: unmarshal response")
		}
		return &result, nil
	})
}
