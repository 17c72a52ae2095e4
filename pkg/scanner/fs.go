package scanner

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// listBatch bounds how many entries are read from a directory at a time.
const listBatch = 512

// Lister enumerates a single directory.
type Lister interface {
	List(dir string) ([]Entry, error)
}

// fsLister lists directories of an afero.Fs. Entry types come from the
// lstat done by Readdir; symbolic links are resolved with Stat only when
// following is enabled.
type fsLister struct {
	fs     afero.Fs
	follow bool
}

// NewLister returns a Lister backed by fs.
func NewLister(fs afero.Fs, followSymlinks bool) Lister {
	return &fsLister{fs: fs, follow: followSymlinks}
}

// List returns the entries of dir in the order the filesystem yields them.
// A read failure part way through returns the entries read so far together
// with the error.
func (l *fsLister) List(dir string) ([]Entry, error) {
	f, err := l.fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	for {
		infos, err := f.Readdir(listBatch)
		for _, info := range infos {
			entries = append(entries, l.entry(dir, info))
		}
		if errors.Is(err, io.EOF) || (err == nil && len(infos) == 0) {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
	}
}

func (l *fsLister) entry(dir string, info os.FileInfo) Entry {
	e := Entry{
		Name:      info.Name(),
		IsDir:     info.IsDir(),
		IsSymlink: info.Mode()&os.ModeSymlink != 0,
	}
	if !e.IsSymlink || !l.follow {
		return e
	}

	target, err := l.fs.Stat(filepath.Join(dir, e.Name))
	if err != nil {
		e.Err = err
		return e
	}
	e.IsDir = target.IsDir()
	return e
}
