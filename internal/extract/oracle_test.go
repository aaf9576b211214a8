package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/people-finder/internal/llm"
	"github.com/sells-group/people-finder/internal/llm/mocks"
)

const longText = "Jane Doe serves as the Chief Executive Officer of Acme Corp."

func TestParseReply(t *testing.T) {
	tests := []struct {
		reply      string
		first      string
		last       string
		wantStatus ReplyStatus
	}{
		{"Jane Doe", "Jane", "Doe", ReplyName},
		{"  Jane   van der Berg \n", "Jane", "van der Berg", ReplyName},
		{"Madonna", "Madonna", "", ReplyName},
		{"NONE", "", "", ReplyNone},
		{"none", "", "", ReplyNone},
		{"", "", "", ReplyNone},
		{"   ", "", "", ReplyNone},
		{"J", "", "", ReplyMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			first, last, status := ParseReply(tt.reply)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestOracle_Extract(t *testing.T) {
	c := mocks.NewMockCompleter(t)
	c.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.System == systemPrompt &&
			req.MaxTokens == DefaultMaxTokens &&
			req.Temperature == 0 &&
			strings.Contains(req.Prompt, "Company: Acme") &&
			strings.Contains(req.Prompt, "Role/Designation: CEO") &&
			strings.Contains(req.Prompt, "Source context: https://acme.com") &&
			strings.HasSuffix(req.Prompt, "Text to analyze:\n\n"+longText)
	})).Return("Jane Doe", nil).Once()

	first, last, ok := NewOracle(c).Extract(context.Background(), "Acme", "CEO", "  "+longText+"  ", "https://acme.com")
	assert.True(t, ok)
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Doe", last)
}

func TestOracle_DefaultSourceHint(t *testing.T) {
	c := mocks.NewMockCompleter(t)
	c.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return strings.Contains(req.Prompt, "Source context: web search result")
	})).Return("NONE", nil).Once()

	_, _, ok := NewOracle(c).Extract(context.Background(), "Acme", "CEO", longText, "")
	assert.False(t, ok)
}

func TestOracle_TruncatesText(t *testing.T) {
	text := strings.Repeat("a", 100)
	c := mocks.NewMockCompleter(t)
	c.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return strings.HasSuffix(req.Prompt, "\n\n"+strings.Repeat("a", 30))
	})).Return("Jane Doe", nil).Once()

	_, _, ok := NewOracle(c, WithMaxTextChars(30)).Extract(context.Background(), "Acme", "CEO", text, "u")
	assert.True(t, ok)
}

func TestOracle_ShortTextSkipsModel(t *testing.T) {
	c := mocks.NewMockCompleter(t)
	_, _, ok := NewOracle(c).Extract(context.Background(), "Acme", "CEO", "   Jane Doe, CEO   ", "u")
	assert.False(t, ok)
	c.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestOracle_Failures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"no credential", "", llm.ErrNoCredential},
		{"completion error", "", errors.New("503")},
		{"none", "NONE", nil},
		{"malformed", "J", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mocks.NewMockCompleter(t)
			c.On("Complete", mock.Anything, mock.Anything).Return(tt.reply, tt.err).Once()
			_, _, ok := NewOracle(c).Extract(context.Background(), "Acme", "CEO", longText, "u")
			assert.False(t, ok)
		})
	}
}

func TestOracle_Unconfigured(t *testing.T) {
	_, _, ok := NewOracle(llm.Unconfigured("groq")).Extract(context.Background(), "Acme", "CEO", longText, "u")
	assert.False(t, ok)
}

func TestNewOracle_Options(t *testing.T) {
	o := NewOracle(nil, WithMaxTextChars(0), WithMaxTokens(-1))
	assert.Equal(t, DefaultMaxTextChars, o.maxTextChars)
	assert.Equal(t, DefaultMaxTokens, o.maxTokens)

	o = NewOracle(nil, WithMaxTokens(20))
	assert.Equal(t, 20, o.maxTokens)
}
