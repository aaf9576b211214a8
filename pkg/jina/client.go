// Package jina provides a client for the Jina AI reader and search API.
package jina

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/people-finder/internal/resilience"
)

const (
	defaultBaseURL       = "https://r.jina.ai"
	defaultSearchBaseURL = "https://s.jina.ai"
)

// Client defines the Jina AI operations used for page reads and web search.
type Client interface {
	// Read fetches a URL via Jina Reader and returns its text content.
	Read(ctx context.Context, targetURL string) (*ReadResponse, error)
	// Search runs a web search via Jina Search.
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// ReadResponse is the parsed Jina Reader response.
type ReadResponse struct {
	Code int      `json:"code"`
	Data ReadData `json:"data"`
}

// ReadData holds the content from Jina.
type ReadData struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// SearchResponse is the parsed Jina Search response.
type SearchResponse struct {
	Code int            `json:"code"`
	Data []SearchResult `json:"data"`
}

// SearchResult represents a single search hit.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// Option configures the Jina client.
type Option func(*httpClient)

// WithBaseURL sets a custom reader base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithSearchBaseURL sets a custom search base URL (for testing).
func WithSearchBaseURL(url string) Option {
	return func(c *httpClient) {
		c.searchBaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
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
	apiKey        string
	baseURL       string
	searchBaseURL string
	http          *http.Client
	retry         resilience.Policy
}

// NewClient creates a new Jina AI client. The API key is optional; Jina
// serves unauthenticated requests at a lower rate limit.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		baseURL:       defaultBaseURL,
		searchBaseURL: defaultSearchBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry: resilience.DefaultPolicy(),
	}
	c.retry.OnRetry = resilience.Logger("jina", "request")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a GET with retries on transient statuses and returns the body
// of the final response together with its status code.
func (c *httpClient) get(ctx context.Context, reqURL string, headers map[string]string) ([]byte, int, error) {
	type reply struct {
		body   []byte
		status int
	}

	r, err := resilience.Call(ctx, c.retry, func(ctx context.Context) (reply, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return reply{}, eris.Wrap(err, "jina: create request")
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return reply{}, eris.Wrap(err, "jina: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return reply{}, eris.Wrap(err, "jina: read response body")
		}

		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return reply{}, resilience.StatusError("jina", resp.StatusCode, body)
		}
		return reply{body: body, status: resp.StatusCode}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return r.body, r.status, nil
}

func (c *httpClient) Read(ctx context.Context, targetURL string) (*ReadResponse, error) {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, targetURL)

	body, status, err := c.get(ctx, reqURL, map[string]string{"X-Return-Format": "text"})
	if err != nil {
		return nil, eris.Wrap(err, "jina: read failed")
	}
	if status != http.StatusOK {
		return nil, resilience.StatusError("jina", status, body)
	}

	var result ReadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "jina: unmarshal response")
	}
	return &result, nil
}

func (c *httpClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	reqURL := fmt.Sprintf("%s/%s", c.searchBaseURL, url.PathEscape(query))

	body, status, err := c.get(ctx, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "jina: search failed")
	}

	// Jina returns 422 when a query has no results.
	if status == http.StatusUnprocessableEntity {
		return &SearchResponse{Code: status}, nil
	}
	if status != http.StatusOK {
		return nil, resilience.StatusError("jina", status, body)
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "jina: unmarshal search response")
	}
	return &result, nil
}
