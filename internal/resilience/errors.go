package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
)

// TransientError marks an error as safe to retry (429, 5xx, timeouts).
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps err as transient with an optional HTTP status code.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// StatusError builds the error for an unexpected HTTP status. Retryable
// statuses are wrapped in a TransientError.
func StatusError(service string, statusCode int, body []byte) error {
	snippet := string(body)
	if len(snippet) > 512 {
		snippet = snippet[:512]
	}
	err := eris.Errorf("%s: unexpected status %d: %s", service, statusCode, snippet)
	if IsTransientHTTPStatus(statusCode) {
		return NewTransientError(err, statusCode)
	}
	return err
}

// IsTransient reports whether err (or anything it wraps) is a TransientError
// or looks like a transient network failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// IsTransientHTTPStatus reports whether an HTTP status is worth retrying.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
