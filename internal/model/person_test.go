package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFound_EmptyChecked(t *testing.T) {
	r := NotFound("CEO", "No search results found", nil)

	assert.False(t, r.Found)
	assert.Equal(t, "CEO", r.CurrentTitle)
	assert.Equal(t, "No search results found", r.ErrorMessage())
	require.NotNil(t, r.SourcesChecked)
	assert.Empty(t, r.SourcesChecked)
}

func TestNotFound_NoMessage(t *testing.T) {
	r := NotFound("CTO", "", []string{"https://a.example"})
	assert.Nil(t, r.Error)
	assert.Equal(t, "", r.ErrorMessage())
	assert.Equal(t, []string{"https://a.example"}, r.SourcesChecked)
}

func TestResult_JSONShape(t *testing.T) {
	r := NotFound("CEO", "", nil)
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "error")
	assert.Nil(t, m["error"])
	assert.Equal(t, []any{}, m["sources_checked"])
	assert.Equal(t, false, m["found"])
}

func TestResult_FullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Result{FirstName: "Jane", LastName: "Doe"}.FullName())
	assert.Equal(t, "Cher", Result{FirstName: "Cher"}.FullName())
	assert.Equal(t, "Doe", Result{LastName: "Doe"}.FullName())
}
