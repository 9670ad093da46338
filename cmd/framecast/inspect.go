package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"framecast/internal/config"
	"framecast/internal/extract"
	"framecast/internal/model"
	"framecast/internal/step"
)

var inspectKind string

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the structural elements an exchange file would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
	cmd.Flags().StringVar(&inspectKind, "kind", "", "Element kind filter (beam, column, slab, footing)")
	return cmd
}

func runInspect(path string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	st, err := step.ParseFile(path)
	if err != nil {
		return err
	}

	result := extract.Assemble(st, cfg.Defaults)
	for _, element := range result.Model.Elements {
		if inspectKind != "" && string(element.Kind) != inspectKind {
			continue
		}
		printElement(element)
	}

	for _, item := range result.Errors {
		fmt.Fprintf(os.Stderr, "skipped: %v\n", item)
	}
	return nil
}

func printElement(e model.Element) {
	fmt.Fprintf(os.Stdout, "%s %s\n", e.Kind, e.GlobalID)
	if e.Name != "" {
		fmt.Fprintf(os.Stdout, "  name:      %s\n", e.Name)
	}
	fmt.Fprintf(os.Stdout, "  material:  %s\n", e.Material)
	if e.Level.Name != "" {
		fmt.Fprintf(os.Stdout, "  level:     %s (%.0f mm)\n", e.Level.Name, e.Level.ElevationMM)
	}
	fmt.Fprintf(os.Stdout, "  position:  (%.0f, %.0f, %.0f)\n", e.Placement.X, e.Placement.Y, e.Placement.Z)
	switch e.Kind {
	case model.Slab:
		fmt.Fprintf(os.Stdout, "  thickness: %.0f mm, boundary points: %d\n", e.Thickness, len(e.Boundary))
	case model.Footing:
		fmt.Fprintf(os.Stdout, "  footing:   %s, %s %.0fx%.0f\n", e.FootingKind, e.Profile.Shape, e.Profile.Width, e.Profile.Height)
	default:
		if e.Profile.Shape == model.Circular {
			fmt.Fprintf(os.Stdout, "  profile:   %s D%.0f\n", e.Profile.Shape, e.Profile.Diameter)
		} else {
			fmt.Fprintf(os.Stdout, "  profile:   %s %.0fx%.0f\n", e.Profile.Shape, e.Profile.Width, e.Profile.Height)
		}
	}
}
