// Package fsys is the filesystem capability shared by the workspace manager and
// the transport client. Both sides see the same billy.Filesystem, so a sync can
// run against the OS temp dir in production and an in-memory tree in tests.
package fsys

import (
	"errors"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FS is a chrootable filesystem
type FS = billy.Filesystem

// NewOS returns a filesystem rooted at dir on local disk
func NewOS(dir string) FS {
	return osfs.New(dir)
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() FS {
	return memfs.New()
}

// Exists reports whether path exists in fs
func Exists(fs FS, path string) (bool, error) {
	_, err := fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// RemoveAll removes path and everything below it. A missing path is not an error.
func RemoveAll(fs FS, path string) error {
	return util.RemoveAll(fs, path)
}

func ReadFile(fs FS, path string) ([]byte, error) {
	return util.ReadFile(fs, path)
}

func WriteFile(fs FS, path string, data []byte) error {
	return util.WriteFile(fs, path, data, 0o644)
}
