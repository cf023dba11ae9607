// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFiles recursively searches rootPath for files whose basename matches
// the given glob pattern. If underDir is non-empty, only files located
// somewhere beneath a directory with that exact name are returned. It
// returns a slice of their full paths.
func FindFiles(rootPath, pattern, underDir string) ([]string, error) {
	if pattern == "" {
		return nil, fmt.Errorf("fsutil: pattern must not be empty")
	}
	// Reject invalid patterns up front instead of once per directory entry.
	if _, err := filepath.Match(pattern, "probe"); err != nil {
		return nil, fmt.Errorf("fsutil: invalid pattern %q: %w", pattern, err)
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		matched, _ := filepath.Match(pattern, d.Name())
		if !matched {
			return nil
		}
		if underDir != "" && !hasAncestorDir(rootPath, path, underDir) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// hasAncestorDir reports whether any directory element between root and the
// file itself is named dir.
func hasAncestorDir(root, path, dir string) bool {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return false
	}
	for _, elem := range strings.Split(rel, string(filepath.Separator)) {
		if elem == dir {
			return true
		}
	}
	return false
}
