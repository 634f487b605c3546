package gitrepo

import (
	"os"
	"path/filepath"
)

// resolvePath returns an absolute, symlink-free form of path so it can be
// compared with the roots git reports. Missing trailing components are kept
// as written.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	dir, base := filepath.Split(abs)
	if dir == abs || dir == "" {
		return abs
	}
	return filepath.Join(resolvePath(filepath.Clean(dir)), base)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
