package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"framecast/internal/config"
)

var (
	elementsKind  string
	elementsLevel string
)

func elementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elements",
		Short: "List the imported elements in the project database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runElements()
		},
	}
	cmd.Flags().StringVar(&elementsKind, "kind", "", "Element kind filter")
	cmd.Flags().StringVar(&elementsLevel, "level", "", "Level name filter")
	return cmd
}

func runElements() error {
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

	rows, err := db.ListElements(ctx, elementsKind, elementsLevel)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No elements found.")
		return nil
	}

	for _, row := range rows {
		marker := " "
		if row.IsOrphan {
			marker = "!"
		}
		fmt.Fprintf(os.Stdout, "%s %-8s %-24s %-20s %-12s (%.0f, %.0f, %.0f)\n",
			marker, row.Kind, row.GUID, row.TypeName, row.LevelName, row.X, row.Y, row.Z)
	}
	fmt.Fprintf(os.Stdout, "\n%d elements. Rows marked ! are orphans.\n", len(rows))
	return nil
}
