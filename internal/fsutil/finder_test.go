package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles creates the given relative paths under root with trivial content.
func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
	}
}

func TestFindFilesByPattern_MatchesOneLevel(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root,
		"a/region1.gbk",
		"a/region2.gbk",
		"b/region1.gbk",
		"b/notes.txt",
		"toplevel.gbk",
		"a/deep/region9.gbk",
	)

	files, err := FindFilesByPattern(root, "*/region*.gbk")
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "a", "region1.gbk"),
		filepath.Join(root, "a", "region2.gbk"),
		filepath.Join(root, "b", "region1.gbk"),
	}
	assert.Equal(t, want, files)
}

func TestFindFilesByPattern_EmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, "a/other.txt")

	files, err := FindFilesByPattern(root, "*/region*.gbk")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindFilesByPattern_MissingRoot(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := FindFilesByPattern(missing, "*.gbk")
	require.Error(t, err)

	var nfe *NotFoundError
	require.True(t, errors.As(err, &nfe))
	assert.Equal(t, missing, nfe.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFindFilesByPattern_Deterministic(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, "b/region1.gbk", "a/region1.gbk", "c/region1.gbk")

	first, err := FindFilesByPattern(root, "*/region*.gbk")
	require.NoError(t, err)
	second, err := FindFilesByPattern(root, "*/region*.gbk")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
	// Sorted order, not directory-walk order.
	assert.True(t, first[0] < first[1] && first[1] < first[2])
}

func TestFindFilesByPattern_InvalidPattern(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, "a/region1.gbk")

	_, err := FindFilesByPattern(root, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}
