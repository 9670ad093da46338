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

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse and extract an exchange file without touching the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func runValidate(path string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	st, err := step.ParseFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Entities parsed:    %d\n", st.Len())
	fmt.Fprintf(os.Stdout, "Statements dropped: %d\n", st.Dropped())

	result := extract.Assemble(st, cfg.Defaults)
	for _, kind := range model.Kinds() {
		fmt.Fprintf(os.Stdout, "  %-8s %d\n", kind, len(result.Model.OfKind(kind)))
	}
	fmt.Fprintf(os.Stdout, "Levels required:    %d\n", len(result.Model.RequiredLevels))
	fmt.Fprintf(os.Stdout, "Materials required: %d\n", len(result.Model.RequiredMaterials))

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nExtraction errors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("validation completed with errors")
	}
	return nil
}
