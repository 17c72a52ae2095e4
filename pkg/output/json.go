package output

import (
	"encoding/json"

	"github.com/sonemaro/finditor/pkg/scanner"
)

// matchRecord is the structured form of a match in json and yaml output
type matchRecord struct {
	Path    string `json:"path" yaml:"path"`
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Symlink bool   `json:"symlink,omitempty" yaml:"symlink,omitempty"`
	Depth   int    `json:"depth" yaml:"depth"`
}

func newMatchRecord(m scanner.Match) matchRecord {
	r := matchRecord{
		Path:    m.Path,
		Name:    m.Name,
		Type:    "file",
		Symlink: m.IsSymlink,
		Depth:   m.Depth,
	}
	if m.IsDir {
		r.Type = "directory"
	}
	return r
}

func jsonRecord(m scanner.Match) ([]byte, error) {
	b, err := json.Marshal(newMatchRecord(m))
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
