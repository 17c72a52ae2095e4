//go:build windows

package scanner

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// dirIdentity returns a key that is equal for every path reaching the same
// directory. Windows has no inode in FileInfo.Sys, so links are resolved.
func dirIdentity(fs afero.Fs, path string) string {
	if _, ok := fs.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			return "path:" + filepath.Clean(resolved)
		}
	}
	return "path:" + filepath.Clean(path)
}
