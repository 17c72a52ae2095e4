//go:build !windows

package scanner

import (
	"fmt"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
)

// dirIdentity returns a key that is equal for every path reaching the same
// directory: device and inode where the filesystem exposes them, the cleaned
// path otherwise.
func dirIdentity(fs afero.Fs, path string) string {
	info, err := fs.Stat(path)
	if err == nil {
		if st, ok := info.Sys().(*syscall.Stat_t); ok {
			return fmt.Sprintf("%d:%d", st.Dev, st.Ino)
		}
	}
	return "path:" + filepath.Clean(path)
}
