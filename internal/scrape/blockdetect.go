package scrape

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of block detected.
type BlockType string

const (
	BlockNone        BlockType = ""
	BlockCloudflare  BlockType = "cloudflare"
	BlockCaptcha     BlockType = "captcha"
	BlockJSShell     BlockType = "js_shell"
	BlockRateLimited BlockType = "rate_limited"
	BlockAuthWall    BlockType = "auth_wall"
)

// markerScanLimit bounds how much of a body is searched for challenge
// markers. Large real pages often embed captcha scripts for their forms.
const markerScanLimit = 64 * 1024

var bodyMarkers = []struct {
	marker string
	kind   BlockType
}{
	{"checking your browser", BlockCloudflare},
	{"cf-browser-verification", BlockCloudflare},
	{"just a moment...", BlockCloudflare},
	{"recaptcha", BlockCaptcha},
	{"hcaptcha", BlockCaptcha},
	{"captcha", BlockCaptcha},
	{"authwall", BlockAuthWall},
	{"sign in to view", BlockAuthWall},
}

// DetectBlock checks an HTTP response for signs of anti-bot protection or a
// login wall.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil {
		return false, BlockNone
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return true, BlockRateLimited
	}

	// LinkedIn answers scrapers with 999.
	if resp.StatusCode == 999 {
		return true, BlockAuthWall
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("cf-cache-status") != "" ||
			strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return true, BlockCloudflare
		}
	}

	if len(body) > markerScanLimit {
		return false, BlockNone
	}

	lower := strings.ToLower(string(body))
	for _, m := range bodyMarkers {
		if strings.Contains(lower, m.marker) {
			return true, m.kind
		}
	}

	// JS-only shell: very small body with noscript or meta refresh.
	if len(body) < 2000 {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return true, BlockJSShell
		}
		if strings.Contains(lower, `http-equiv="refresh"`) {
			return true, BlockJSShell
		}
	}

	return false, BlockNone
}
