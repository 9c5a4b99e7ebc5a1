package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strconv"

	"github.com/geox55/youtrack-time-tracker/internal/repositories"
	"github.com/geox55/youtrack-time-tracker/internal/services"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var togglService services.TimeTracker
	var youtrackService services.IssueTracker

	if config.Credentials.Toggl.APIToken != "" && config.Credentials.Toggl.WorkspaceID != 0 {
		togglService = services.NewTogglService("", config.Credentials.Toggl.APIToken, config.Credentials.Toggl.WorkspaceID)
	}
	if config.Credentials.YouTrack.Token != "" && config.Credentials.YouTrack.BaseURL != "" {
		youtrackService = services.NewYouTrackService(config.Credentials.YouTrack.BaseURL, config.Credentials.YouTrack.Token)
	}

	var db *sql.DB
	var offsets services.OffsetCache
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err = shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			offsets = repositories.NewPageOffsetRepository(db)

			// Persisted preference wins over the config default.
			settings := repositories.NewSettingsRepository(db)
			if value, ok, err := settings.Get(repositories.SettingGroupEntries); err == nil && ok {
				if grouped, err := strconv.ParseBool(value); err == nil {
					config.Reconcile.GroupEntries = grouped
				}
			}
		} else {
			logger.Warn("failed to open database, paging from zero", "error", err)
		}
	}
	if db != nil {
		defer db.Close()
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Toggl:    togglService,
		YouTrack: youtrackService,
		Offsets:  offsets,
		DB:       db,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "ytt",
		Usage:    "Reconcile and transfer tracked time from Toggl to YouTrack",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrAlreadyTransferred) {
			logger.Warn("nothing to do", "reason", err)
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
