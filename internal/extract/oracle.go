// Package extract asks a language model for the name of the person holding a
// role, from either a search snippet or a fetched page.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sells-group/people-finder/internal/llm"
	"github.com/sells-group/people-finder/internal/scrape"
)

// Oracle defaults.
const (
	DefaultMaxTextChars = 8000
	DefaultMaxTokens    = 50
	minTextChars        = 20
)

const systemPrompt = "You extract person names. Reply only with 'FirstName LastName' or 'NONE'."

const promptTemplate = `You are given text that may mention a person who holds a specific role at a company.
Company: %s
Role/Designation: %s
Source context: %s

Extract the full name of the person who holds this role at this company. Reply with exactly two words: first name and last name, separated by a space. If you cannot find a clear full name, reply with: NONE

Text to analyze:

%s`

// NameOracle extracts a (first, last) name from text. ok is false when no
// usable name was found for any reason.
type NameOracle interface {
	Extract(ctx context.Context, company, designation, text, sourceHint string) (first, last string, ok bool)
}

// Oracle is the LLM-backed NameOracle.
type Oracle struct {
	completer    llm.Completer
	maxTextChars int
	maxTokens    int
}

// OracleOption configures an Oracle.
type OracleOption func(*Oracle)

// WithMaxTextChars bounds the text sent to the model.
func WithMaxTextChars(n int) OracleOption {
	return func(o *Oracle) {
		if n > 0 {
			o.maxTextChars = n
		}
	}
}

// WithMaxTokens bounds the model reply.
func WithMaxTokens(n int) OracleOption {
	return func(o *Oracle) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// NewOracle creates an Oracle over c.
func NewOracle(c llm.Completer, opts ...OracleOption) *Oracle {
	o := &Oracle{
		completer:    c,
		maxTextChars: DefaultMaxTextChars,
		maxTokens:    DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Extract implements NameOracle. Every failure is reported as ok=false; the
// kind of failure is only visible in the logs.
func (o *Oracle) Extract(ctx context.Context, company, designation, text, sourceHint string) (string, string, bool) {
	log := zap.L().With(zap.String("source", sourceHint), zap.String("backend", o.completer.Name()))

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minTextChars {
		log.Debug("extract: text too short", zap.Int("chars", utf8.RuneCountInString(text)))
		return "", "", false
	}
	if sourceHint == "" {
		sourceHint = "web search result"
	}

	prompt := fmt.Sprintf(promptTemplate, company, designation, sourceHint, scrape.Truncate(text, o.maxTextChars))
	reply, err := o.completer.Complete(ctx, llm.Request{
		System:    systemPrompt,
		Prompt:    prompt,
		MaxTokens: o.maxTokens,
	})
	switch {
	case errors.Is(err, llm.ErrNoCredential):
		log.Warn("extract: credential not configured")
		return "", "", false
	case err != nil:
		log.Warn("extract: completion failed", zap.Error(err))
		return "", "", false
	}

	first, last, status := ParseReply(reply)
	switch status {
	case ReplyName:
		return first, last, true
	case ReplyMalformed:
		log.Debug("extract: malformed reply", zap.String("reply", reply))
	default:
		log.Debug("extract: no name")
	}
	return "", "", false
}

// ReplyStatus classifies a model reply.
type ReplyStatus int

const (
	ReplyNone ReplyStatus = iota
	ReplyName
	ReplyMalformed
)

// ParseReply turns a model reply into a name. Two or more tokens become
// (first, rest joined by spaces); a single token longer than one character
// becomes (token, ""). An empty reply or "NONE" is ReplyNone.
func ParseReply(reply string) (first, last string, status ReplyStatus) {
	reply = strings.TrimSpace(reply)
	if reply == "" || strings.EqualFold(reply, "NONE") {
		return "", "", ReplyNone
	}

	parts := strings.Fields(reply)
	switch {
	case len(parts) >= 2:
		return parts[0], strings.Join(parts[1:], " "), ReplyName
	case utf8.RuneCountInString(parts[0]) > 1:
		return parts[0], "", ReplyName
	default:
		return "", "", ReplyMalformed
	}
}
