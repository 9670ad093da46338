package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"framecast/internal/config"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the summary of the most recent import run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport()
		},
	}
}

func runReport() error {
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

	run, err := db.LastRun(ctx)
	if err != nil {
		return err
	}
	if run == nil {
		fmt.Fprintln(os.Stdout, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "Run %s at %s (%d ms)\n", run.ID, run.StartedAt.Format("2006-01-02 15:04:05"), run.ElapsedMS)

	var pretty map[string]any
	if err := json.Unmarshal([]byte(run.Summary), &pretty); err != nil {
		fmt.Fprintln(os.Stdout, run.Summary)
		return nil
	}
	encoded, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(encoded))
	return nil
}
