package output

import (
	"path/filepath"
	"strings"

	"github.com/sonemaro/finditor/pkg/scanner"
)

// plainRecord renders the full path, with the base name highlighted when
// colors are enabled.
func (w *Writer) plainRecord(m scanner.Match) []byte {
	var b strings.Builder
	if !w.config.Colors {
		b.Grow(len(m.Path) + 1)
		b.WriteString(m.Path)
		b.WriteByte('\n')
		return []byte(b.String())
	}

	dir, name := filepath.Split(m.Path)
	b.WriteString(dir)
	if m.IsDir {
		b.WriteString(w.dirColor.Sprint(name))
	} else {
		b.WriteString(w.nameColor.Sprint(name))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}
