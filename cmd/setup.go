package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the embedded default configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlain("Set %s or proxy.tmdb_api_key before running 'moviebot proxy serve'\n", shared.EnvTMDBAPIKey)
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.cfg()
	if config.Storage.Driver != shared.DriverSQLite {
		return fmt.Errorf("%w: storage.driver is %q, migrations only apply to sqlite", shared.ErrInvalidConfig, config.Storage.Driver)
	}

	r.logger.Info("initializing database", "path", config.Storage.Path)

	db, err := shared.OpenStorageDatabase(ctx, config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	applied, err := shared.AppliedMigrations(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", config.Storage.Path)
	r.writePlain("✓ Database ready: %s\n", config.Storage.Path)
	for _, m := range applied {
		r.writePlain("  migration %04d applied %s\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
