package output

import (
	"github.com/sonemaro/finditor/pkg/scanner"
	"gopkg.in/yaml.v3"
)

const (
	yamlMatchesKey   = "matches:\n"
	yamlEmptyMatches = "matches: []\n"
)

// yamlRecord renders m as one item of the top level matches sequence.
func yamlRecord(m scanner.Match) ([]byte, error) {
	return yaml.Marshal([]matchRecord{newMatchRecord(m)})
}
