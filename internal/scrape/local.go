package scrape

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is a desktop browser identity; many sites reject bot UAs.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:91.0) Gecko/20100101 Firefox/91.0"

const maxBodyBytes = 2 << 20

// LocalScraper fetches HTML via net/http, detects blocks, and reduces the page
// to visible text.
type LocalScraper struct {
	client    *http.Client
	userAgent string
}

// LocalOption configures a LocalScraper.
type LocalOption func(*LocalScraper)

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) LocalOption {
	return func(l *LocalScraper) {
		if d > 0 {
			l.client.Timeout = d
		}
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) LocalOption {
	return func(l *LocalScraper) {
		if ua != "" {
			l.userAgent = ua
		}
	}
}

// NewLocalScraper creates a LocalScraper with a 10 second timeout.
func NewLocalScraper(opts ...LocalOption) *LocalScraper {
	l := &LocalScraper{
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		userAgent: DefaultUserAgent,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *LocalScraper) Name() string { return "local_http" }

// Supports accepts any http(s) URL.
func (l *LocalScraper) Supports(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// Scrape fetches a URL, detects blocks, and strips the HTML to plain text.
func (l *LocalScraper) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: create request")
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "local_http: read body")
	}

	if blocked, kind := DetectBlock(resp, raw); blocked {
		return nil, eris.Errorf("local_http: blocked (%s)", kind)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("local_http: status %d", resp.StatusCode)
	}

	body, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, eris.Wrap(err, "local_http: decode charset")
	}
	title, text, err := ExtractText(body)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, eris.New("local_http: empty page")
	}

	return &Result{
		Page: Page{
			URL:        targetURL,
			Title:      title,
			Text:       text,
			StatusCode: resp.StatusCode,
		},
		Source: "local_http",
	}, nil
}

// boilerplate elements are dropped together with their subtree.
var boilerplate = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

// ExtractText parses an HTML document and returns its title and visible
// text. Boilerplate elements are removed and whitespace is collapsed to
// single spaces.
func ExtractText(r io.Reader) (title, text string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", eris.Wrap(err, "scrape: parse html")
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.DataAtom == atom.Title && title == "" {
				title = collapse(nodeText(n))
				return
			}
			if boilerplate[n.DataAtom] {
				return
			}
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)

	return title, collapse(sb.String()), nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			sb.WriteString(ch.Data)
		}
	}
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
