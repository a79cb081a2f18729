package traqcal

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore reads from the local filesystem.
type LocalStore struct{}

// List returns the entries of dir. An existing but empty directory gives an
// empty listing; a path that is not a directory matches fs.ErrNotExist.
func (LocalStore) List(ctx context.Context, dir string) ([]Entry, error) {
	dir = ExpandHome(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, fs.ErrNotExist)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		isDir := de.IsDir()

		// Follow symlinks so a linked data file still counts as a file.
		if de.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(dir, de.Name()))
			if err != nil {
				return nil, err
			}
			isDir = info.IsDir()
		}

		out = append(out, Entry{
			Path:  filepath.Join(dir, de.Name()),
			Name:  de.Name(),
			IsDir: isDir,
		})
	}

	return out, nil
}

func (LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return os.Open(ExpandHome(path))
}
