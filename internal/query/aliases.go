package query

import (
	"maps"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultAliases maps lowercase designation abbreviations to their full title.
var DefaultAliases = map[string]string{
	"ceo":               "Chief Executive Officer",
	"cfo":               "Chief Financial Officer",
	"cto":               "Chief Technology Officer",
	"coo":               "Chief Operating Officer",
	"cmo":               "Chief Marketing Officer",
	"co-founder":        "Co-Founder",
	"cofounder":         "Co-Founder",
	"founder":           "Founder",
	"director":          "Director",
	"manager":           "Manager",
	"head":              "Head",
	"vp":                "Vice President",
	"vice president":    "Vice President",
	"svp":               "Senior Vice President",
	"evp":               "Executive Vice President",
	"md":                "Managing Director",
	"managing director": "Managing Director",
	"owner":             "Owner",
	"partner":           "Partner",
	"lead":              "Lead",
	"chief":             "Chief",
}

// aliasFile is the on-disk shape of an extra alias table.
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads a YAML alias table and merges it over DefaultAliases.
// Keys are lowercased; entries in the file win over the defaults.
func LoadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "query: read aliases file")
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "query: parse aliases file")
	}

	out := maps.Clone(DefaultAliases)
	for k, v := range f.Aliases {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out, nil
}
