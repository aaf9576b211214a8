package resolve

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/people-finder/internal/model"
)

// NormalizeName builds the grouping key for a name: both parts trimmed,
// joined by single spaces, and lowercased. A Caser holds state, so each
// call gets its own.
func NormalizeName(first, last string) string {
	joined := strings.Join(strings.Fields(first+" "+last), " ")
	return cases.Lower(language.Und).String(joined)
}

// nameGroup is a set of extractions sharing a normalized name, in the order
// they were collected.
type nameGroup struct {
	key     string
	members []model.Extraction
}

// groupByName buckets extractions by normalized name. Groups keep
// first-seen order. Keys of one character or less are noise and dropped.
func groupByName(exts []model.Extraction) []*nameGroup {
	var groups []*nameGroup
	index := make(map[string]*nameGroup)
	for _, e := range exts {
		key := NormalizeName(e.FirstName, e.LastName)
		if utf8.RuneCountInString(key) <= 1 {
			continue
		}
		g, ok := index[key]
		if !ok {
			g = &nameGroup{key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, e)
	}
	return groups
}

// largestGroup returns the group with the most members. The earliest group
// wins ties. It returns nil for no groups.
func largestGroup(groups []*nameGroup) *nameGroup {
	var best *nameGroup
	for _, g := range groups {
		if best == nil || len(g.members) > len(best.members) {
			best = g
		}
	}
	return best
}

// credibility scores a URL by the first credible domain it contains.
func (s Settings) credibility(url string) int {
	lower := strings.ToLower(url)
	for i, d := range s.CredibleDomains {
		if strings.Contains(lower, d) {
			return s.TopCredibility - i
		}
	}
	return 0
}

// mostCredible returns the member with the highest credibility. The first
// member wins ties.
func (s Settings) mostCredible(members []model.Extraction) model.Extraction {
	best := members[0]
	bestScore := s.credibility(best.SourceURL)
	for _, m := range members[1:] {
		if score := s.credibility(m.SourceURL); score > bestScore {
			best, bestScore = m, score
		}
	}
	return best
}

// confidence maps the number of agreeing sources to a score rounded to two
// decimals.
func (s Settings) confidence(agree int) float64 {
	if agree < 2 {
		return s.SingleConfidence
	}
	c := math.Min(s.MaxConfidence, s.AgreementBase+s.AgreementStep*float64(agree))
	return math.Round(c*100) / 100
}

// choose picks the winning extraction and its confidence. exts must be
// non-empty.
func (s Settings) choose(exts []model.Extraction) (model.Extraction, float64) {
	best := largestGroup(groupByName(exts))
	if best == nil {
		return exts[0], s.confidence(1)
	}
	return s.mostCredible(best.members), s.confidence(len(best.members))
}
