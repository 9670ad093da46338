package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"framecast/internal/config"
)

func levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the building levels in the project database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLevels()
		},
	}
}

func runLevels() error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	rows, err := db.ListLevels(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No levels found.")
		return nil
	}
	for _, row := range rows {
		fmt.Fprintf(os.Stdout, "%-20s %10.0f mm\n", row.Name, row.ElevationMM)
	}
	return nil
}
