// Package query turns a company and designation into web search queries.
package query

import (
	"fmt"
	"slices"
	"strings"
)

// MaxQueries caps how many queries a single run sends to the search backend.
const MaxQueries = 3

// Builder builds search queries using a designation alias table.
type Builder struct {
	aliases map[string]string
}

// NewBuilder creates a Builder. A nil table uses DefaultAliases.
func NewBuilder(aliases map[string]string) *Builder {
	if aliases == nil {
		aliases = DefaultAliases
	}
	return &Builder{aliases: aliases}
}

var defaultBuilder = NewBuilder(nil)

// NormalizeDesignation expands a designation using DefaultAliases.
func NormalizeDesignation(designation string) string {
	return defaultBuilder.Normalize(designation)
}

// Build produces queries using DefaultAliases.
func Build(company, designation string) []string {
	return defaultBuilder.Build(company, designation)
}

// Normalize expands a known abbreviation ("cto") to its full title. Unknown
// designations are returned trimmed but otherwise unchanged.
func (b *Builder) Normalize(designation string) string {
	d := strings.TrimSpace(designation)
	if d == "" {
		return ""
	}
	if expanded, ok := b.aliases[strings.ToLower(d)]; ok && expanded != d {
		return expanded
	}
	return d
}

// Build returns an ordered, de-duplicated list of at most MaxQueries search
// queries. Empty company or designation yields nil.
func (b *Builder) Build(company, designation string) []string {
	company = strings.TrimSpace(company)
	designation = strings.TrimSpace(designation)
	if company == "" || designation == "" {
		return nil
	}

	variants := []string{designation}
	if n := b.Normalize(designation); n != designation {
		variants = append(variants, n)
	}

	var queries []string
	add := func(q string) {
		if !slices.Contains(queries, q) {
			queries = append(queries, q)
		}
	}

	for _, v := range variants {
		add(fmt.Sprintf("%s %s name", company, v))
	}
	add(fmt.Sprintf("who is %s of %s", designation, company))
	if len(queries) < 4 {
		add(fmt.Sprintf("%s %s LinkedIn", company, designation))
	}

	if len(queries) < 2 {
		return queries
	}
	return queries[:min(len(queries), MaxQueries)]
}
