// Package table persists record sets as partitioned columnar artifacts.
//
// An artifact is a directory of parquet part files plus a small JSON
// descriptor. The directory is replaced wholesale on overwrite, never mixed
// with a previous write.
package table

import (
	"context"
	"fmt"

	"github.com/matinnuhamunada/bgcstage/internal/record"
)

// WriteError reports a failed table artifact write: a destination conflict,
// a permission problem, or a failure inside the partition writers.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface for WriteError.
func (e *WriteError) Error() string {
	return fmt.Sprintf("table write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *WriteError) Unwrap() error { return e.Err }

// PartitionFile describes one written part file.
type PartitionFile struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
	Size int64  `json:"size_bytes"`
}

// Result describes a completed artifact write.
type Result struct {
	Path       string          `json:"path"`
	Rows       int64           `json:"rows"`
	Partitions []PartitionFile `json:"partitions"`
}

// Store is the narrow contract the staging pipeline holds against whichever
// engine persists the dataset. Partition count controls write parallelism and
// artifact layout only; it never changes record content, and no ordering is
// guaranteed across partitions.
type Store interface {
	Write(ctx context.Context, set *record.Set, dir string, overwrite bool, partitions int) (*Result, error)
	Read(ctx context.Context, dir string) (*record.Set, error)
}
