package main

import (
	"fmt"

	"github.com/dialogeval/humanstudy/internal/models"
	"github.com/dialogeval/humanstudy/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <study.yaml>",
		Short: "Check a study file against the study schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()

			errs, err := validation.ValidateStudyFile(path)
			if err != nil {
				return err
			}
			if len(errs) > 0 {
				fmt.Fprintf(out, "✗ %s\n", path) //nolint:errcheck
				for _, e := range errs {
					fmt.Fprintf(out, "  - %s\n", e) //nolint:errcheck
				}
				return fmt.Errorf("%s: %d schema error(s)", path, len(errs))
			}

			if _, err := models.LoadStudyConfig(path); err != nil {
				fmt.Fprintf(out, "✗ %s\n  - %s\n", path, err) //nolint:errcheck
				return fmt.Errorf("%s: %w", path, err)
			}

			fmt.Fprintf(out, "✓ %s\n", path) //nolint:errcheck
			return nil
		},
	}
}
