// Package duckduckgo searches the DuckDuckGo HTML endpoint. No API key is
// required.
package duckduckgo

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/sells-group/people-finder/internal/resilience"
)

const (
	defaultBaseURL   = "https://html.duckduckgo.com/html/"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:91.0) Gecko/20100101 Firefox/91.0"
)

// ErrRateLimited is returned when DuckDuckGo serves its anomaly page.
var ErrRateLimited = eris.New("duckduckgo: rate limited")

// Result is a single organic search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Client runs text searches.
type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the HTML endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent overrides the browser-like User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRetryPolicy overrides the retry policy for transient failures.
func WithRetryPolicy(p resilience.Policy) Option {
	return func(c *httpClient) {
		c.retry = p
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	retry     resilience.Policy
}

// NewClient creates a DuckDuckGo HTML search client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: 15 * time.Second},
		retry:     resilience.DefaultPolicy(),
	}
	c.retry.OnRetry = resilience.Logger("duckduckgo", "search")
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	form := url.Values{"q": {query}}

	body, err := resilience.Call(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, eris.Wrap(err, "duckduckgo: create request")
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "duckduckgo: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		data, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
		if err != nil {
			return nil, eris.Wrap(err, "duckduckgo: read response")
		}

		// The anomaly/captcha page is served with 202.
		if resp.StatusCode == http.StatusAccepted {
			return nil, ErrRateLimited
		}
		if resp.StatusCode != http.StatusOK {
			return nil, resilience.StatusError("duckduckgo", resp.StatusCode, data)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	results, err := ParseResults(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// ParseResults extracts organic results from a DuckDuckGo HTML page. Ads
// and results without a resolvable URL are skipped.
func ParseResults(r io.Reader) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: parse html")
	}

	var results []Result
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "result") && !hasClass(n, "result--ad") {
			if res, ok := parseResult(n); ok {
				results = append(results, res)
			}
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)

	return results, nil
}

func parseResult(n *html.Node) (Result, bool) {
	var res Result
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "result__a") && res.URL == "":
				res.URL = resolveHref(attr(n, "href"))
				res.Title = textOf(n)
				return
			case hasClass(n, "result__snippet") && res.Snippet == "":
				res.Snippet = textOf(n)
				return
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return res, res.URL != ""
}

// resolveHref unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveHref(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
