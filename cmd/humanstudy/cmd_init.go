package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dialogeval/humanstudy/internal/models"
	"github.com/dialogeval/humanstudy/internal/wizard"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	var (
		interactive bool
		force       bool
		output      string
	)

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a starter study file",
		Long: `Create a starter study file with two rpc agents.

Use --interactive to run a guided wizard. Without it, the study is written
with placeholder paths and local model server addresses to edit by hand.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "visdial-human-study"
			if len(args) > 0 {
				name = args[0]
			}
			if err := wizard.ValidateName(name); err != nil {
				return err
			}

			answers := defaultStudyAnswers(name)
			if interactive {
				var err error
				answers, err = wizard.RunStudyWizard(cmd.InOrStdin(), cmd.OutOrStdout(), name)
				if err != nil {
					return err
				}
			}

			content, err := wizard.GenerateStudyYAML(answers)
			if err != nil {
				return err
			}

			if output == "" {
				output = answers.Name + ".yaml"
			}
			if !force {
				if _, err := os.Stat(output); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", output)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}
			if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", output) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the guided study wizard")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing study file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Study file to write (default: <name>.yaml)")

	return cmd
}

func defaultStudyAnswers(name string) *wizard.StudyAnswers {
	return &wizard.StudyAnswers{
		Name:                 name,
		Dataset:              "data/visdial_test.json.gz",
		Split:                models.DefaultSplit,
		ImagePool:            models.DefaultImagePool,
		BeamSize:             models.DefaultBeamSize,
		QuestionerCheckpoint: "checkpoints/qbot.vd",
		QuestionerAddr:       "127.0.0.1:9001",
		AnswererCheckpoint:   "checkpoints/abot.vd",
		AnswererAddr:         "127.0.0.1:9002",
	}
}
