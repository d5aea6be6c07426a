package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Jacobbrewer1/tickets/pkg/dataaccess/connection"
	"github.com/alexliesenfeld/health"
)

func (a *App) statusListener(component string) func(ctx context.Context, name string, state health.CheckState) {
	return func(ctx context.Context, name string, state health.CheckState) {
		a.base.Info(component+" health check status changed",
			slog.String("name", name),
			slog.String("state", string(state.Status)),
		)
	}
}

func (a *App) healthCheck() Controller {
	opts := []health.CheckerOption{
		// Set a TTL of 1 second for the results of the checks.
		health.WithCacheDuration(1 * time.Second),

		// Set a timeout of 2 seconds for the checks.
		health.WithTimeout(2 * time.Second),

		// The settings file must stay readable for edits to persist.
		health.WithCheck(health.Check{
			Name: "Settings_File",
			Check: func(ctx context.Context) error {
				if _, err := os.Stat(a.settings.Path()); err != nil {
					return fmt.Errorf("settings file unavailable: %w", err)
				}
				return nil
			},
			StatusListener: a.statusListener("Settings file"),
		}),

		// Monitor the health of the Discord API.
		health.WithPeriodicCheck(15*time.Second, 5*time.Second, health.Check{
			Name: "Discord_API",
			Check: func(ctx context.Context) error {
				if _, err := a.Session().GatewayBot(); err != nil {
					return fmt.Errorf("failed to ping Discord API: %w", err)
				}
				return nil
			},
			Timeout:        3 * time.Second,
			StatusListener: a.statusListener("Discord API"),
		}),
	}

	// Monitor the audit archive when it is enabled.
	if a.mongo != nil {
		opts = append(opts, health.WithCheck(health.Check{
			Name: "MongoDB",
			Check: func(ctx context.Context) error {
				if err := connection.Ping(ctx, a.mongo); err != nil {
					return fmt.Errorf("failed to ping MongoDB: %w", err)
				}
				return nil
			},
			Timeout:        2 * time.Second,
			StatusListener: a.statusListener("MongoDB"),
		}))
	}

	return Controller(health.NewHandler(health.NewChecker(opts...)))
}
