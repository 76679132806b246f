// Package localsession provides a concrete implementation of the
// session.Session and session.Factory interfaces for local, in-process
// staging runs.
package localsession

import (
	"context"

	"github.com/matinnuhamunada/bgcstage/internal/analysis"
	"github.com/matinnuhamunada/bgcstage/internal/ctxlog"
	"github.com/matinnuhamunada/bgcstage/internal/pipeline"
	"github.com/matinnuhamunada/bgcstage/internal/profile"
	"github.com/matinnuhamunada/bgcstage/internal/record"
	"github.com/matinnuhamunada/bgcstage/internal/session"
	"github.com/matinnuhamunada/bgcstage/internal/table"
)

// Verify interface compliance at compile time.
var (
	_ session.Factory = (*Factory)(nil)
	_ session.Session = (*Session)(nil)
)

// Factory implements session.Factory for local runs.
type Factory struct {
	// Workers bounds the partition write parallelism. Zero means one worker
	// per partition.
	Workers int
}

// NewSession creates and wires a new local session.
func (f *Factory) NewSession(ctx context.Context, prof *profile.Profile) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("localsession.Factory.NewSession called", "workers", f.Workers)

	loader := record.NewGenBankLoader()
	store := table.NewParquetStore(f.Workers)
	builder := analysis.NewLocalBuilder()

	return &Session{
		pipeline: pipeline.New(loader, store, builder),
	}, nil
}

// Session implements session.Session for local runs.
type Session struct {
	pipeline *pipeline.Pipeline
}

// Pipeline returns the pipeline that was wired up by the factory.
func (s *Session) Pipeline() (*pipeline.Pipeline, error) {
	return s.pipeline, nil
}

// Close releases session resources. Local sessions hold nothing beyond the
// collaborators themselves, so this only logs.
func (s *Session) Close(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("localsession.Session.Close called")
	return nil
}
