package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/geox55/youtrack-time-tracker/internal/repositories"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database schema and seeds settings from the
// configuration file.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := repositories.Setup(db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	settings := repositories.NewSettingsRepository(db)
	if err := settings.Set(repositories.SettingGroupEntries, strconv.FormatBool(config.Reconcile.GroupEntries)); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	if config.Credentials.YouTrack.BaseURL != "" {
		if err := settings.Set(repositories.SettingBaseURL, config.Credentials.YouTrack.BaseURL); err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupConfig writes the bundled configuration template to disk.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	outputPath := cmd.String("output")

	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%w: %s already exists", shared.ErrInvalidArgument, outputPath)
	}

	if err := shared.CreateConfigFile(outputPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.writePlain("Created %s\n", outputPath)
	r.writePlain("Fill in your Toggl and YouTrack credentials, then run 'ytt setup database'.\n")
	return nil
}
