package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"framecast/internal/config"
	"framecast/internal/store"
)

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a framecast project: config file plus seeded database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "framecast", "Project name")
	return cmd
}

func runInit(projectName string) error {
	ctx := context.Background()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	cfg := config.Default()
	cfg.Project = projectName

	contents, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(configPath, contents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := db.SeedTypes(ctx, store.DefaultSeeds(cfg.Families)); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Initialised project %q with %s database %s.\n",
		projectName, cfg.Database.Driver, cfg.Database.DSN)
	return nil
}
