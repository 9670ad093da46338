package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"framecast/internal/config"
	"framecast/internal/host"
	"framecast/internal/ingest"
	"framecast/internal/logging"
	"framecast/internal/model"
	"framecast/internal/store"
)

var importDryRun bool

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import structural elements from an exchange file into the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0])
		},
	}
	cmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Run the pipeline against an in-memory project, persisting nothing")
	return cmd
}

func runImport(path string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Logging)
	defer log.Sync()

	var adapter host.Adapter
	var db store.Store
	if importDryRun {
		adapter = seededMemory(cfg)
	} else {
		db, err = openStore(ctx, cfg)
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
		adapter = host.NewProject(db)
	}

	started := time.Now()
	summary, err := ingest.Run(ctx, cfg, adapter, log, path)
	if err != nil && summary == nil {
		return err
	}

	if db != nil && summary != nil {
		payload, marshalErr := json.Marshal(summary)
		if marshalErr == nil {
			record := store.RunRecord{
				ID:        summary.RunID,
				StartedAt: started,
				ElapsedMS: summary.Elapsed.Milliseconds(),
				Summary:   string(payload),
			}
			if saveErr := db.SaveRun(ctx, record); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", saveErr)
			}
		}
	}

	printSummary(summary)
	return err
}

func printSummary(summary *ingest.Summary) {
	if summary == nil {
		return
	}
	fmt.Fprintln(os.Stdout, "Import complete.")
	for _, kind := range model.Kinds() {
		counts := summary.PerKind[kind]
		if counts.Seen == 0 {
			continue
		}
		fmt.Fprintf(os.Stdout, "  %-8s seen: %-4d created: %-4d updated: %d\n",
			kind, counts.Seen, counts.Created, counts.Updated)
	}
	fmt.Fprintf(os.Stdout, "  Orphans: %d\n", summary.OrphanCount)
	fmt.Fprintf(os.Stdout, "  Elapsed: %s\n", summary.Elapsed.Round(time.Millisecond))

	if len(summary.Diagnostics) > 0 {
		fmt.Fprintf(os.Stdout, "\nDiagnostics (%d):\n", len(summary.Diagnostics))
		for _, item := range summary.Diagnostics {
			fmt.Fprintf(os.Stdout, "  - %s\n", item)
		}
	}
}

// seededMemory builds the dry-run host: an in-memory project with one
// type per preferred family so resolution behaves like a real project.
func seededMemory(cfg *config.ProjectConfig) *host.Memory {
	memory := host.NewMemory()
	for _, seed := range store.DefaultSeeds(cfg.Families) {
		memory.AddType(model.Kind(seed.Kind), seed.Family, seed.Name)
	}
	return memory
}
