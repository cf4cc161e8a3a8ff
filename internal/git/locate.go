package git

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
)

// Locate walks upward from start until a directory containing gitDirName
// is found and returns the path of that marker directory. fs must be
// rooted at the filesystem root so that start can be absolute.
func Locate(fs billy.Filesystem, start, gitDirName string) (string, error) {
	dir := filepath.Clean(start)
	for {
		candidate := filepath.Join(dir, gitDirName)
		if fi, err := fs.Stat(candidate); err == nil && fi.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", &Error{Kind: ErrNotARepository, Subject: "(or any of the parent directories of " + start + "): " + gitDirName}
}
