package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/people-finder/internal/model"
	"github.com/sells-group/people-finder/internal/resolve"
)

func testEnv(fn resolve.ResolverFunc) *finderEnv {
	return &finderEnv{Resolver: fn, LLMConfigured: true, Agentic: false}
}

func postSearch(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, model.Result) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var res model.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	return rr, res
}

func TestRouter_Health(t *testing.T) {
	h := buildRouter(&finderEnv{LLMConfigured: false, Agentic: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["llm_configured"])
	assert.Equal(t, true, body["agentic"])
}

func TestRouter_SearchFound(t *testing.T) {
	var gotCompany, gotDesignation string
	h := buildRouter(testEnv(func(_ context.Context, company, designation string) model.Result {
		gotCompany, gotDesignation = company, designation
		return sampleResult()
	}), nil)

	rr, res := postSearch(t, h, `{"company":"  Acme ","designation":"CEO "}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, res.Found)
	assert.Equal(t, "Jane", res.FirstName)
	assert.Equal(t, "Acme", gotCompany)
	assert.Equal(t, "CEO", gotDesignation)
}

func TestRouter_SearchNotFoundWithError(t *testing.T) {
	h := buildRouter(testEnv(func(_ context.Context, _, designation string) model.Result {
		return model.NotFound(designation, resolve.ErrNoName, []string{"https://a.example"})
	}), nil)

	rr, res := postSearch(t, h, `{"company":"Acme","designation":"CTO"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, res.Found)
	assert.Equal(t, resolve.ErrNoName, res.ErrorMessage())
	assert.Equal(t, []string{"https://a.example"}, res.SourcesChecked)
}

func TestRouter_SearchNotFoundWithoutError(t *testing.T) {
	h := buildRouter(testEnv(func(_ context.Context, _, designation string) model.Result {
		return model.NotFound(designation, "", nil)
	}), nil)

	rr, res := postSearch(t, h, `{"company":"Acme","designation":"CTO"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, res.Found)
	assert.Nil(t, res.Error)
}

func TestRouter_SearchMissingInput(t *testing.T) {
	called := false
	h := buildRouter(testEnv(func(context.Context, string, string) model.Result {
		called = true
		return model.Result{}
	}), nil)

	for _, body := range []string{`{"company":"","designation":"CEO"}`, `{"company":"Acme"}`, `not json`} {
		rr, res := postSearch(t, h, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.False(t, res.Found)
		assert.Equal(t, errBadRequest, res.ErrorMessage())
		assert.Equal(t, []string{}, res.SourcesChecked)
	}
	assert.False(t, called)

	_, res := postSearch(t, h, `{"company":"","designation":"CEO"}`)
	assert.Equal(t, "CEO", res.CurrentTitle)
}

func TestRouter_CORS(t *testing.T) {
	h := buildRouter(testEnv(nil), []string{"https://app.example"})

	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RecoversPanics(t *testing.T) {
	h := buildRouter(testEnv(func(context.Context, string, string) model.Result {
		panic("boom")
	}), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(`{"company":"Acme","designation":"CEO"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
