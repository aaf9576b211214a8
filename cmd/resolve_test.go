package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/people-finder/internal/model"
)

func sampleResult() model.Result {
	return model.Result{
		FirstName:       "Jane",
		LastName:        "Doe",
		CurrentTitle:    "CEO",
		SourceURL:       "https://linkedin.com/in/janedoe",
		ConfidenceScore: 0.75,
		SourcesChecked:  []string{"https://linkedin.com/in/janedoe"},
		Found:           true,
	}
}

func TestWriteResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, sampleResult(), "json"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Jane", got["first_name"])
	assert.Equal(t, 0.75, got["confidence_score"])
	assert.Nil(t, got["error"])
	assert.Contains(t, buf.String(), "\n  \"first_name\"")
}

func TestWriteResult_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, model.NotFound("CTO", "No search results found", nil), "YAML"))

	var got model.Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.False(t, got.Found)
	assert.Equal(t, "CTO", got.CurrentTitle)
	assert.Equal(t, "No search results found", got.ErrorMessage())
	assert.Contains(t, buf.String(), "current_title: CTO")
}

func TestWriteResult_UnknownFormat(t *testing.T) {
	err := writeResult(&bytes.Buffer{}, sampleResult(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
