package app

import (
	"context"
	"fmt"

	"github.com/matinnuhamunada/bgcstage/internal/ctxlog"
)

// Run executes one staging run for the loaded profile. The session is opened
// here and closed before Run returns; its lifecycle is never ambient.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	sess, err := a.factory.NewSession(ctx, a.profile)
	if err != nil {
		return fmt.Errorf("failed to open staging session: %w", err)
	}
	defer func() {
		if closeErr := sess.Close(ctx); closeErr != nil {
			a.logger.Warn("Session close failed.", "error", closeErr)
		}
	}()

	pipe, err := sess.Pipeline()
	if err != nil {
		return fmt.Errorf("failed to obtain pipeline from session: %w", err)
	}

	summary, err := pipe.Run(ctx, a.profile)
	if err != nil {
		return fmt.Errorf("staging run failed: %w", err)
	}

	a.logger.Info("Staging finished.",
		"profile", summary.Profile,
		"files", summary.FilesFound,
		"rows", summary.Rows,
		"dataset", summary.Dataset.Path,
	)
	if summary.App != nil {
		a.logger.Info("Application ready.",
			"run_id", summary.App.RunID,
			"workspace", summary.App.Workspace,
			"source_type", summary.App.SourceType,
		)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
