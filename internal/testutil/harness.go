// Package testutil provides a standardized harness for integration tests
// that exercise a full staging run through the app layer.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matinnuhamunada/bgcstage/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// StagingOptions tunes the profile the harness generates.
type StagingOptions struct {
	Pattern     string // defaults to "*/region*.gbk"
	Overwrite   bool
	Partitions  int // defaults to 2
	Application bool
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App

	// Paths the generated profile pointed at, for assertions.
	InputDir   string
	Manifest   string
	DatasetDir string
	Workspace  string
}

// RunStagingTest writes the given input files (relative path -> content)
// under a temp root, generates a staging profile over them, and executes a
// full staging run using a default background context.
func RunStagingTest(t *testing.T, files map[string]string, opts StagingOptions) *HarnessResult {
	t.Helper()
	return RunStagingTestWithContext(context.Background(), t, files, opts)
}

// RunStagingTestWithContext is RunStagingTest with a caller-provided context.
func RunStagingTestWithContext(ctx context.Context, t *testing.T, files map[string]string, opts StagingOptions) *HarnessResult {
	t.Helper()

	if opts.Pattern == "" {
		opts.Pattern = "*/region*.gbk"
	}
	if opts.Partitions == 0 {
		opts.Partitions = 2
	}

	tmpDir := t.TempDir()
	result := &HarnessResult{
		InputDir:   filepath.Join(tmpDir, "input"),
		Manifest:   filepath.Join(tmpDir, "out", "regions.manifest"),
		DatasetDir: filepath.Join(tmpDir, "out", "regions.parquet"),
		Workspace:  filepath.Join(tmpDir, "out", "bigslice"),
	}
	require.NoError(t, os.MkdirAll(result.InputDir, 0755))

	for name, content := range files {
		filePath := filepath.Join(result.InputDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	profilePath := filepath.Join(tmpDir, "staging.hcl")
	require.NoError(t, os.WriteFile(profilePath, []byte(renderProfile(result, opts)), 0644))

	appConfig, err := app.NewConfig(app.Config{
		ProfilePath: profilePath,
		LogFormat:   "text",
		LogLevel:    "debug",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, nil)
	}()

	if panicErr != nil {
		result.LogOutput = logBuffer.String()
		result.Err = fmt.Errorf("application startup panicked | %v", panicErr)
		return result
	}

	result.Err = testApp.Run(ctx)
	result.LogOutput = logBuffer.String()
	result.App = testApp

	if os.Getenv("BGCSTAGE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}

	return result
}

// renderProfile generates the HCL profile text the run is driven by.
func renderProfile(r *HarnessResult, opts StagingOptions) string {
	profile := fmt.Sprintf(`
staging "harness" {
  input_dir   = %q
  pattern     = %q
  manifest    = %q
  dataset_dir = %q
  overwrite   = %t
  partitions  = %d
`, r.InputDir, opts.Pattern, r.Manifest, r.DatasetDir, opts.Overwrite, opts.Partitions)

	if opts.Application {
		profile += fmt.Sprintf(`
  application {
    workspace   = %q
    source_type = "antismash"
  }
`, r.Workspace)
	}

	return profile + "}\n"
}

// Region returns a minimal but well-formed region GenBank file body for use
// as harness input.
func Region(accession, product string) string {
	return fmt.Sprintf(`LOCUS       %s   5000 bp    DNA     linear   BCT 01-JAN-1970
DEFINITION  harness organism.
ACCESSION   %s
FEATURES             Location/Qualifiers
     region          1..5000
                     /contig_edge="False"
                     /product=%q
ORIGIN
//
`, accession, accession, product)
}
