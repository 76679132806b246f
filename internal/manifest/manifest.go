// Package manifest reads and writes the line-oriented list of staged input
// files. The format is plain UTF-8 text, one path per line, newline
// terminated, with no header and no escaping.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matinnuhamunada/bgcstage/internal/fsutil"
)

// IOError reports a failed manifest read or write.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface for IOError.
func (e *IOError) Error() string {
	return fmt.Sprintf("manifest %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error { return e.Err }

// Write serializes the given file list to dest, creating parent directories
// as needed. Any existing manifest at dest is truncated first, so a failure
// mid-write leaves a partial file behind; callers must treat a write error as
// a staging failure, never as partial success.
func Write(dest string, files []string) error {
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &IOError{Op: "write", Path: dest, Err: err}
		}
	}

	f, err := os.Create(dest)
	if err != nil {
		return &IOError{Op: "write", Path: dest, Err: err}
	}

	w := bufio.NewWriter(f)
	for _, file := range files {
		if _, err := w.WriteString(file + "\n"); err != nil {
			f.Close()
			return &IOError{Op: "write", Path: dest, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: dest, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: dest, Err: err}
	}
	return nil
}

// Read loads a manifest from path and verifies that every entry still refers
// to an existing file. A missing entry is a fsutil.NotFoundError naming that
// entry; a missing or unreadable manifest is an IOError.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	var files []string
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		if _, err := os.Stat(line); err != nil {
			return nil, &fsutil.NotFoundError{Path: line, Err: err}
		}
		files = append(files, line)
	}
	return files, nil
}
