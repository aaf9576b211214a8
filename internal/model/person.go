// Package model holds the records passed between resolver stages.
package model

// Source is one candidate evidence unit returned by a search backend.
// URL is the unique key within a run.
type Source struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Extraction is a candidate name pulled from a single Source.
type Extraction struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	SourceURL   string `json:"source_url"`
	FromSnippet bool   `json:"from_snippet"`
}

// Result is the single record produced by a resolver run.
type Result struct {
	FirstName       string   `json:"first_name" yaml:"first_name"`
	LastName        string   `json:"last_name" yaml:"last_name"`
	CurrentTitle    string   `json:"current_title" yaml:"current_title"`
	SourceURL       string   `json:"source_url" yaml:"source_url"`
	ConfidenceScore float64  `json:"confidence_score" yaml:"confidence_score"`
	SourcesChecked  []string `json:"sources_checked" yaml:"sources_checked"`
	Found           bool     `json:"found" yaml:"found"`
	Error           *string  `json:"error" yaml:"error"`
}

// NotFound builds an unsuccessful result carrying msg as its diagnostic.
// An empty msg leaves Error nil.
func NotFound(designation, msg string, checked []string) Result {
	if checked == nil {
		checked = []string{}
	}
	r := Result{
		CurrentTitle:   designation,
		SourcesChecked: checked,
	}
	if msg != "" {
		r.Error = &msg
	}
	return r
}

// ErrorMessage returns the diagnostic string, or "" when there is none.
func (r Result) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// FullName joins first and last name with a single space.
func (r Result) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}
