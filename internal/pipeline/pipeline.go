// Package pipeline orchestrates one staging run: discover input files, write
// the manifest, load records, persist the table artifact, and hand the
// dataset to the analysis application.
//
// The sequence is strictly ordered and synchronous; no step begins before the
// prior one completes. The first failure aborts the run and is surfaced
// unmodified, leaving whatever artifacts were produced on disk for
// inspection. Parallelism, where it exists, lives inside the collaborators.
package pipeline

import (
	"context"
	"fmt"

	"github.com/matinnuhamunada/bgcstage/internal/analysis"
	"github.com/matinnuhamunada/bgcstage/internal/ctxlog"
	"github.com/matinnuhamunada/bgcstage/internal/fsutil"
	"github.com/matinnuhamunada/bgcstage/internal/manifest"
	"github.com/matinnuhamunada/bgcstage/internal/profile"
	"github.com/matinnuhamunada/bgcstage/internal/record"
	"github.com/matinnuhamunada/bgcstage/internal/table"
	"github.com/matinnuhamunada/bgcstage/internal/workspace"
)

// ExternalError wraps a failure surfaced by an external collaborator (the
// record loader or the application builder). The cause is opaque to the
// pipeline and propagated without interpretation.
type ExternalError struct {
	Collaborator string
	Err          error
}

// Error implements the error interface for ExternalError.
func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Collaborator, e.Err)
}

// Unwrap returns the collaborator's own error.
func (e *ExternalError) Unwrap() error { return e.Err }

// Summary reports what a successful staging run produced.
type Summary struct {
	Profile    string
	FilesFound int
	Manifest   string
	Rows       int64
	Dataset    *table.Result
	App        *analysis.App
}

// Pipeline holds the collaborators a staging run is executed against.
type Pipeline struct {
	loader  record.Loader
	store   table.Store
	builder analysis.Builder
}

// New wires a pipeline from its collaborators.
func New(loader record.Loader, store table.Store, builder analysis.Builder) *Pipeline {
	return &Pipeline{loader: loader, store: store, builder: builder}
}

// Run executes one staging run for the given profile.
func (p *Pipeline) Run(ctx context.Context, prof *profile.Profile) (*Summary, error) {
	logger := ctxlog.FromContext(ctx).With("profile", prof.Name)

	logger.Info("Discovering input files.", "input_dir", prof.InputDir, "pattern", prof.Pattern)
	files, err := fsutil.FindFilesByPattern(prof.InputDir, prof.Pattern)
	if err != nil {
		return nil, err
	}
	logger.Info("Discovery finished.", "files", len(files))

	logger.Info("Writing manifest.", "path", prof.Manifest)
	if err := manifest.Write(prof.Manifest, files); err != nil {
		return nil, err
	}

	// Records are loaded from the manifest, not the discovery result, so a
	// file that vanished in between is caught here as a missing entry.
	entries, err := manifest.Read(prof.Manifest)
	if err != nil {
		return nil, err
	}

	logger.Info("Loading records.", "files", len(entries))
	set, err := p.loader.Load(ctx, entries)
	if err != nil {
		return nil, &ExternalError{Collaborator: "record loader", Err: err}
	}
	logger.Info("Records loaded.", "rows", set.Len())

	logger.Info("Writing table artifact.", "path", prof.DatasetDir, "partitions", prof.Partitions, "overwrite", prof.Overwrite)
	result, err := p.store.Write(ctx, set, prof.DatasetDir, prof.Overwrite, prof.Partitions)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Profile:    prof.Name,
		FilesFound: len(files),
		Manifest:   prof.Manifest,
		Rows:       result.Rows,
		Dataset:    result,
	}

	if prof.Application == nil {
		logger.Info("No application block; staging stops after the table write.")
		return summary, nil
	}

	logger.Info("Resetting application workspace.", "path", prof.Application.Workspace)
	if err := workspace.Reset(prof.Application.Workspace); err != nil {
		return nil, err
	}

	logger.Info("Constructing analysis application.", "source_type", prof.Application.SourceType)
	app, err := p.builder.Build(ctx, prof.Application.Workspace, result, prof.Application.SourceType)
	if err != nil {
		return nil, &ExternalError{Collaborator: "application builder", Err: err}
	}
	summary.App = app

	logger.Info("Staging run complete.", "run_id", app.RunID, "rows", summary.Rows)
	return summary, nil
}
