package table

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/matinnuhamunada/bgcstage/internal/ctxlog"
	"github.com/matinnuhamunada/bgcstage/internal/fsutil"
	"github.com/matinnuhamunada/bgcstage/internal/record"
)

// descriptorName is the JSON descriptor written next to the part files.
const descriptorName = "_table.json"

// row is the on-disk parquet schema for one region record.
type row struct {
	SourceFile string   `parquet:"source_file"`
	RegionID   string   `parquet:"region_id"`
	Accession  string   `parquet:"accession"`
	Definition string   `parquet:"definition"`
	ContigEdge bool     `parquet:"contig_edge"`
	Products   []string `parquet:"products,list"`
	LengthBP   int64    `parquet:"length_bp"`
}

// Verify interface compliance at compile time.
var _ Store = (*ParquetStore)(nil)

// ParquetStore writes record sets as directories of parquet part files.
// Partitions are written concurrently by a bounded worker pool; Workers
// limits the pool size, with 0 meaning one worker per partition.
type ParquetStore struct {
	Workers int
}

// NewParquetStore creates a store with the given write parallelism.
func NewParquetStore(workers int) *ParquetStore {
	return &ParquetStore{Workers: workers}
}

// Write implements the Store interface. The artifact is assembled in a
// sibling staging directory and swapped into place only once every part file
// has been written, so a prior artifact is either fully present or fully
// replaced, never mixed with new parts.
func (s *ParquetStore) Write(ctx context.Context, set *record.Set, dir string, overwrite bool, partitions int) (*Result, error) {
	if partitions < 1 {
		return nil, &WriteError{Path: dir, Err: fmt.Errorf("partitions must be >= 1, got %d", partitions)}
	}
	logger := ctxlog.FromContext(ctx)

	exists, err := artifactExists(dir)
	if err != nil {
		return nil, &WriteError{Path: dir, Err: err}
	}
	if exists && !overwrite {
		return nil, &WriteError{Path: dir, Err: fmt.Errorf("destination already holds an artifact and overwrite is disabled")}
	}

	buckets := splitRoundRobin(set, partitions)
	tmp := fmt.Sprintf("%s.staging-%s", dir, uuid.NewString()[:8])
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return nil, &WriteError{Path: dir, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(tmp)
		}
	}()

	parts, err := s.writePartitions(ctx, tmp, buckets)
	if err != nil {
		return nil, &WriteError{Path: dir, Err: err}
	}

	result := &Result{Path: dir, Rows: int64(set.Len()), Partitions: parts}
	if err := writeDescriptor(filepath.Join(tmp, descriptorName), result); err != nil {
		return nil, &WriteError{Path: dir, Err: err}
	}

	// Swap: the old artifact disappears before the new one becomes visible.
	if exists {
		if err := os.RemoveAll(dir); err != nil {
			return nil, &WriteError{Path: dir, Err: err}
		}
	}
	if err := os.Rename(tmp, dir); err != nil {
		return nil, &WriteError{Path: dir, Err: err}
	}
	committed = true

	logger.Debug("Table artifact written.", "path", dir, "rows", result.Rows, "partitions", len(parts))
	return result, nil
}

// writePartitions writes one part file per bucket using at most s.Workers
// concurrent writers. The first failure cancels the remaining work.
func (s *ParquetStore) writePartitions(ctx context.Context, tmp string, buckets [][]row) ([]PartitionFile, error) {
	workers := s.Workers
	if workers <= 0 || workers > len(buckets) {
		workers = len(buckets)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, workers)
	parts := make([]PartitionFile, len(buckets))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, bucket := range buckets {
		wg.Add(1)
		go func(i int, bucket []row) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			name := fmt.Sprintf("part-%05d.parquet", i)
			size, err := writePartFile(filepath.Join(tmp, name), bucket)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("partition %d: %w", i, err)
				}
				mu.Unlock()
				cancel()
				return
			}
			parts[i] = PartitionFile{Name: name, Rows: int64(len(bucket)), Size: size}
		}(i, bucket)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

// Read implements the Store interface. It loads every part file of an
// artifact and concatenates them in part order.
func (s *ParquetStore) Read(ctx context.Context, dir string) (*record.Set, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, &fsutil.NotFoundError{Path: dir, Err: err}
	}

	paths, err := filepath.Glob(filepath.Join(dir, "part-*.parquet"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	set := &record.Set{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := parquet.ReadFile[row](path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		for _, r := range rows {
			set.Records = append(set.Records, record.Record(r))
		}
	}
	return set, nil
}

// writeDescriptor serializes the artifact descriptor next to the part files.
func writeDescriptor(path string, result *Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadDescriptor loads the JSON descriptor of a previously written artifact.
func ReadDescriptor(dir string) (*Result, error) {
	data, err := os.ReadFile(filepath.Join(dir, descriptorName))
	if err != nil {
		return nil, err
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", descriptorName, err)
	}
	return &result, nil
}

// artifactExists reports whether dir already holds anything. A non-directory
// at the destination is an error rather than a silent overwrite.
func artifactExists(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("destination %s exists and is not a directory", dir)
	}
	return true, nil
}

// splitRoundRobin assigns records to partition buckets. Empty sets still
// produce a single empty part so the artifact directory is well formed.
func splitRoundRobin(set *record.Set, partitions int) [][]row {
	n := partitions
	if set.Len() > 0 && set.Len() < n {
		n = set.Len()
	}
	if set.Len() == 0 {
		n = 1
	}
	buckets := make([][]row, n)
	for i, rec := range set.Records {
		b := i % n
		buckets[b] = append(buckets[b], row(rec))
	}
	return buckets
}

// writePartFile writes one parquet part file and returns its size in bytes.
func writePartFile(path string, rows []row) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	w := parquet.NewGenericWriter[row](f)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			f.Close()
			return 0, err
		}
	}
	if err := w.Close(); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
