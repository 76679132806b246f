// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// NotFoundError reports a path that was expected to exist but does not.
type NotFoundError struct {
	Path string
	Err  error
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s", e.Path)
}

// Unwrap returns the underlying cause, typically an fs.ErrNotExist.
func (e *NotFoundError) Unwrap() error { return e.Err }

// FindFilesByPattern walks root and returns every regular file whose path,
// relative to root, matches the given glob pattern. The pattern uses
// path.Match syntax per slash-separated segment, so "*/region*.gbk" matches
// files exactly one directory below root. An empty result is valid; a missing
// root is a NotFoundError. Results are sorted lexicographically so traversal
// order is deterministic on a stable file system.
func FindFilesByPattern(root string, pattern string) ([]string, error) {
	if pattern == "" {
		panic("pattern must not be empty")
	}

	if _, err := os.Stat(root); err != nil {
		return nil, &NotFoundError{Path: root, Err: err}
	}

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		ok, err := path.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
