package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"ytspot/internal/shared"
)

// Setup creates the config file from the embedded template, the data
// directory and the database with its schema.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Config file created: %s\n", configPath)
	} else {
		r.writePlain("✓ Config file exists: %s\n", configPath)
	}

	config := r.reloadConfig(cmd)

	if err := config.Output.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	r.writePlain("✓ Data directory ready: %s\n", config.Output.DataDir)

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.writePlain("✓ Database ready: %s\n", config.Database.Path)

	r.writePlainln("Next steps:")
	r.writePlain("1. Add your YouTube API key and Spotify credentials to %s\n", configPath)
	r.writePlain("2. Run 'ytspot auth spotify' to connect your Spotify account\n")
	r.writePlain("3. Run 'ytspot migrate run --id <playlist> --dest <name>'\n")

	return nil
}
