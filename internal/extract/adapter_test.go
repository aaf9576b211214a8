package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/people-finder/internal/model"
)

type oracleCall struct {
	company, designation, text, hint string
}

type fakeOracle struct {
	first, last string
	ok          bool
	calls       []oracleCall
}

func (f *fakeOracle) Extract(_ context.Context, company, designation, text, hint string) (string, string, bool) {
	f.calls = append(f.calls, oracleCall{company, designation, text, hint})
	return f.first, f.last, f.ok
}

type fakeFetcher struct {
	text     string
	gotURL   string
	gotChars int
}

func (f *fakeFetcher) FetchText(_ context.Context, url string, maxChars int) string {
	f.gotURL, f.gotChars = url, maxChars
	return f.text
}

func TestAdapter_Cheap(t *testing.T) {
	o := &fakeOracle{first: "Jane", last: "Doe", ok: true}
	a := NewAdapter(o, nil, 0)

	ext := a.Cheap(context.Background(), "Acme", "CEO", model.Source{
		URL: "https://linkedin.com/in/jane", Title: "Jane Doe - CEO", Body: "Acme Corp",
	})
	require.NotNil(t, ext)
	assert.Equal(t, model.Extraction{
		FirstName: "Jane", LastName: "Doe", SourceURL: "https://linkedin.com/in/jane", FromSnippet: true,
	}, *ext)
	require.Len(t, o.calls, 1)
	assert.Equal(t, "Jane Doe - CEO\nAcme Corp", o.calls[0].text)
	assert.Equal(t, "https://linkedin.com/in/jane", o.calls[0].hint)
}

func TestAdapter_Cheap_EmptyText(t *testing.T) {
	o := &fakeOracle{ok: true}
	assert.Nil(t, NewAdapter(o, nil, 0).Cheap(context.Background(), "Acme", "CEO", model.Source{URL: "u", Title: " ", Body: "\n"}))
	assert.Empty(t, o.calls)
}

func TestAdapter_Cheap_NoName(t *testing.T) {
	o := &fakeOracle{ok: false}
	assert.Nil(t, NewAdapter(o, nil, 0).Cheap(context.Background(), "Acme", "CEO", model.Source{URL: "u", Title: "x"}))
}

func TestAdapter_Expensive(t *testing.T) {
	o := &fakeOracle{first: "Jane", last: "Doe", ok: true}
	f := &fakeFetcher{text: "Leadership: Jane Doe, Chief Executive Officer"}
	a := NewAdapter(o, f, 0)

	ext := a.Expensive(context.Background(), "Acme", "CEO", model.Source{URL: "https://acme.com/team", Body: "ignored"})
	require.NotNil(t, ext)
	assert.False(t, ext.FromSnippet)
	assert.Equal(t, "https://acme.com/team", ext.SourceURL)
	assert.Equal(t, "https://acme.com/team", f.gotURL)
	assert.Equal(t, 12000, f.gotChars)
	assert.Equal(t, f.text, o.calls[0].text)
}

func TestAdapter_Expensive_FetchFailed(t *testing.T) {
	o := &fakeOracle{ok: true}
	a := NewAdapter(o, &fakeFetcher{}, 500)
	assert.Nil(t, a.Expensive(context.Background(), "Acme", "CEO", model.Source{URL: "u"}))
	assert.Empty(t, o.calls)
}

func TestAdapter_Expensive_NoFetcher(t *testing.T) {
	assert.Nil(t, NewAdapter(&fakeOracle{ok: true}, nil, 0).Expensive(context.Background(), "Acme", "CEO", model.Source{URL: "u"}))
}
