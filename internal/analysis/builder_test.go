package analysis

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matinnuhamunada/bgcstage/internal/table"
)

func datasetFixture(t *testing.T) *table.Result {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "regions.parquet")
	require.NoError(t, os.MkdirAll(dir, 0755))
	return &table.Result{
		Path: dir,
		Rows: 3,
		Partitions: []table.PartitionFile{
			{Name: "part-00000.parquet", Rows: 2},
			{Name: "part-00001.parquet", Rows: 1},
		},
	}
}

func TestLocalBuilder_Build(t *testing.T) {
	t.Parallel()
	ws := t.TempDir()
	dataset := datasetFixture(t)

	app, err := NewLocalBuilder().Build(context.Background(), ws, dataset, "antismash")
	require.NoError(t, err)
	assert.NotEmpty(t, app.RunID)
	assert.Equal(t, "antismash", app.SourceType)
	assert.Equal(t, int64(3), app.Rows)
	assert.Equal(t, 2, app.Partitions)

	data, err := os.ReadFile(filepath.Join(ws, "app.json"))
	require.NoError(t, err)
	var onDisk App
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, *app, onDisk)
}

func TestLocalBuilder_MissingDataset(t *testing.T) {
	t.Parallel()
	dataset := &table.Result{Path: filepath.Join(t.TempDir(), "nope")}

	_, err := NewLocalBuilder().Build(context.Background(), t.TempDir(), dataset, "antismash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset artifact")
}

func TestLocalBuilder_MissingWorkspace(t *testing.T) {
	t.Parallel()
	dataset := datasetFixture(t)

	_, err := NewLocalBuilder().Build(context.Background(), filepath.Join(t.TempDir(), "nope"), dataset, "antismash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace")
}

func TestLocalBuilder_EmptySourceType(t *testing.T) {
	t.Parallel()
	dataset := datasetFixture(t)

	_, err := NewLocalBuilder().Build(context.Background(), t.TempDir(), dataset, "")
	require.Error(t, err)
}
