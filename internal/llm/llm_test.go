package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/sells-group/people-finder/internal/resilience"
)

func TestNew_MissingKeyIsUnconfigured(t *testing.T) {
	for _, p := range []string{"", ProviderGroq, ProviderAnthropic, ProviderGemini} {
		c, err := New(context.Background(), Config{Provider: p})
		require.NoError(t, err, p)
		assert.False(t, Configured(c), p)

		_, err = c.Complete(context.Background(), Request{Prompt: "x"})
		assert.ErrorIs(t, err, ErrNoCredential)
		assert.Contains(t, c.Name(), "unconfigured")
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "cohere", APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestNew_SelectsBackend(t *testing.T) {
	c, err := New(context.Background(), Config{Provider: "Anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.True(t, Configured(c))
	assert.Equal(t, "anthropic/"+DefaultAnthropicModel, c.Name())

	c, err = New(context.Background(), Config{APIKey: "k", Model: "llama-3.1-8b-instant", RequestsPerMinute: 30})
	require.NoError(t, err)
	assert.Equal(t, "groq/llama-3.1-8b-instant", c.Name())
	_, isLimited := c.(*limited)
	assert.True(t, isLimited)

	c, err = New(context.Background(), Config{Provider: ProviderGemini, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "gemini/"+DefaultGeminiModel, c.Name())
}

func TestConfigured_Nil(t *testing.T) {
	assert.False(t, Configured(nil))
}

type stubCompleter struct {
	calls int
	reply string
}

func (s *stubCompleter) Complete(context.Context, Request) (string, error) {
	s.calls++
	return s.reply, nil
}

func (s *stubCompleter) Name() string { return "stub" }

func TestWithRateLimit(t *testing.T) {
	s := &stubCompleter{reply: "ok"}
	assert.Same(t, s, WithRateLimit(s, 0))

	c := WithRateLimit(s, 600)
	got, err := c.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, "stub", c.Name())
	assert.Equal(t, 1, s.calls)
}

func TestWithRateLimit_ContextCancelled(t *testing.T) {
	s := &stubCompleter{}
	c := WithRateLimit(s, 1)

	// Drain the single burst token.
	_, err := c.Complete(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Complete(ctx, Request{})
	require.Error(t, err)
	assert.Equal(t, 1, s.calls)
}

func TestGroq_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gk", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "m1", body["model"])
		assert.EqualValues(t, 50, body["max_tokens"])
		assert.EqualValues(t, 0, body["temperature"])
		msgs, _ := body["messages"].([]any)
		assert.Len(t, msgs, 2)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Jane Doe"}}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewGroq("gk", "m1", srv.URL)
	got, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "p", MaxTokens: 50})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got)
}

func TestGroq_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	got, err := NewGroq("gk", "", srv.URL).Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAnthropic_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/messages"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 256, body["max_tokens"])
		assert.NotNil(t, body["system"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-haiku-4-5-20251001",` + //nolint:errcheck
			`"content":[{"type":"text","text":"Jane Doe"}],"stop_reason":"end_turn","usage":{"input_tokens":12,"output_tokens":3}}`))
	}))
	defer srv.Close()

	c := NewAnthropic("ak", "", srv.URL)
	got, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got)
}

func TestGemini_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Contains(t, r.URL.Path, "gemini-test")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Jane Doe"}]}}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c, err := NewGemini(context.Background(), "gk", "gemini-test", srv.URL)
	require.NoError(t, err)
	got, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "p", MaxTokens: 50})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got)
}

func TestClassifyGeminiErr(t *testing.T) {
	tests := []struct {
		name          string
		in            error
		wantTransient bool
	}{
		{name: "api_429", in: genai.APIError{Code: 429}, wantTransient: true},
		{name: "api_503", in: genai.APIError{Code: 503}, wantTransient: true},
		{name: "api_400", in: genai.APIError{Code: 400}, wantTransient: false},
		{name: "api_401", in: genai.APIError{Code: 401}, wantTransient: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var te *resilience.TransientError
			got := classifyGeminiErr(tt.in)
			assert.Equal(t, tt.wantTransient, errors.As(got, &te))
		})
	}
}
