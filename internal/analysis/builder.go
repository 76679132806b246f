// Package analysis defines the contract with the downstream BGC comparison
// application and provides a local builder for it. The application itself is
// an external collaborator; this package only hands it a workspace and a
// persisted dataset.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/matinnuhamunada/bgcstage/internal/ctxlog"
	"github.com/matinnuhamunada/bgcstage/internal/table"
)

// descriptorName is the application descriptor written into the workspace.
const descriptorName = "app.json"

// App is the handle returned once the application has been constructed over
// a staged dataset.
type App struct {
	RunID      string `json:"run_id"`
	Workspace  string `json:"workspace"`
	SourceType string `json:"source_type"`
	Dataset    string `json:"dataset"`
	Rows       int64  `json:"rows"`
	Partitions int    `json:"partitions"`
}

// Builder constructs an analysis application from a persisted table artifact.
// The source type tag is opaque to the pipeline and passed through unchanged.
type Builder interface {
	Build(ctx context.Context, workspace string, dataset *table.Result, sourceType string) (*App, error)
}

// LocalBuilder is the in-process Builder implementation. It verifies the
// dataset artifact and seeds the workspace with an application descriptor the
// comparison engine picks up on its own schedule.
type LocalBuilder struct{}

// NewLocalBuilder creates a builder that seeds a local workspace.
func NewLocalBuilder() *LocalBuilder {
	return &LocalBuilder{}
}

// Build implements the Builder interface.
func (b *LocalBuilder) Build(ctx context.Context, ws string, dataset *table.Result, sourceType string) (*App, error) {
	logger := ctxlog.FromContext(ctx)

	if sourceType == "" {
		return nil, fmt.Errorf("source type must not be empty")
	}
	if _, err := os.Stat(dataset.Path); err != nil {
		return nil, fmt.Errorf("dataset artifact %s: %w", dataset.Path, err)
	}
	if _, err := os.Stat(ws); err != nil {
		return nil, fmt.Errorf("workspace %s: %w", ws, err)
	}

	app := &App{
		RunID:      uuid.NewString(),
		Workspace:  ws,
		SourceType: sourceType,
		Dataset:    dataset.Path,
		Rows:       dataset.Rows,
		Partitions: len(dataset.Partitions),
	}

	data, err := json.MarshalIndent(app, "", "  ")
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(ws, descriptorName)
	if err := os.WriteFile(dest, append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", dest, err)
	}

	logger.Debug("Analysis application constructed.", "run_id", app.RunID, "workspace", ws, "source_type", sourceType)
	return app, nil
}
