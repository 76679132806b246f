// Package app wires configuration, logging, and the staging session into a
// runnable application.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/matinnuhamunada/bgcstage/internal/ctxlog"
	"github.com/matinnuhamunada/bgcstage/internal/localsession"
	"github.com/matinnuhamunada/bgcstage/internal/profile"
	"github.com/matinnuhamunada/bgcstage/internal/session"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	profile *profile.Profile
	factory session.Factory
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. A nil factory
// selects the local in-process session backend.
func NewApp(outW io.Writer, cfg *Config, factory session.Factory) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	prof, err := profile.Load(ctx, cfg.ProfilePath)
	if err != nil {
		// A failure to load the profile is a fatal startup error.
		panic(fmt.Errorf("failed to load staging profile: %w", err))
	}
	logger.Debug("Staging profile loaded.", "name", prof.Name)

	if factory == nil {
		factory = &localsession.Factory{Workers: cfg.Workers}
	}

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		profile: prof,
		factory: factory,
	}
}

// Profile returns the loaded staging profile. This is primarily for testing.
func (a *App) Profile() *profile.Profile {
	return a.profile
}
