package agentic

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

const reportSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["first_name", "last_name", "source_url", "confidence_score"],
  "properties": {
    "first_name":       {"type": "string"},
    "last_name":        {"type": "string"},
    "current_title":    {"type": "string"},
    "source_url":       {"type": "string"},
    "confidence_score": {"type": "number"}
  }
}`

var reportSchema = gojsonschema.NewStringLoader(reportSchemaJSON)

// report is the JSON object the model is asked to produce.
type report struct {
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	CurrentTitle    string  `json:"current_title"`
	SourceURL       string  `json:"source_url"`
	ConfidenceScore float64 `json:"confidence_score"`
}

var fenceRe = regexp.MustCompile("```(?:json)?\\s*")

// parseReport extracts, validates and decodes the first JSON object in a
// model reply.
func parseReport(reply string) (*report, error) {
	text := fenceRe.ReplaceAllString(strings.TrimSpace(reply), "")
	block := firstObject(text)
	if block == "" {
		return nil, eris.New("agentic: no json object in reply")
	}

	result, err := gojsonschema.Validate(reportSchema, gojsonschema.NewStringLoader(block))
	if err != nil {
		return nil, eris.Wrap(err, "agentic: decode report")
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, eris.Errorf("agentic: invalid report: %s", strings.Join(msgs, "; "))
	}

	var r report
	if err := json.Unmarshal([]byte(block), &r); err != nil {
		return nil, eris.Wrap(err, "agentic: unmarshal report")
	}
	return &r, nil
}

// firstObject returns the first balanced {...} block of s, or "".
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
