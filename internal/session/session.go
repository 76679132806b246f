// Package session defines the interfaces for creating and managing a staging
// session. It abstracts away which concrete engines back the record loader,
// the table store, and the application builder, so the staging logic stays
// independent of them.
//
// Session lifecycle is an explicit caller decision: whoever opens a session
// owns closing it. There is no process-wide ambient session and no implicit
// teardown of sessions created elsewhere.
package session

import (
	"context"

	"github.com/matinnuhamunada/bgcstage/internal/pipeline"
	"github.com/matinnuhamunada/bgcstage/internal/profile"
)

// Factory creates staging sessions. Different implementations can support
// various backends, such as local or distributed execution.
type Factory interface {
	NewSession(ctx context.Context, prof *profile.Profile) (Session, error)
}

// Session represents a single staging run and manages its lifecycle.
type Session interface {
	Pipeline() (*pipeline.Pipeline, error)
	// Close releases any resources held by the session. It accepts a context
	// to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
