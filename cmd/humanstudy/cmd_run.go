package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dialogeval/humanstudy/internal/agent"
	"github.com/dialogeval/humanstudy/internal/config"
	"github.com/dialogeval/humanstudy/internal/dataset"
	"github.com/dialogeval/humanstudy/internal/imagepool"
	"github.com/dialogeval/humanstudy/internal/models"
	"github.com/dialogeval/humanstudy/internal/orchestration"
	"github.com/dialogeval/humanstudy/internal/results"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type runFlags struct {
	split     string
	outputDir string
	beamSize  int
	batchSize int
	numRounds int
	verbose   bool
	publish   bool
}

func newRunCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <study.yaml>",
		Short: "Generate dialog transcripts for a study",
		Long: `Run a study: load the dataset split and image pool, let the questioner and
answerer talk about every image for the configured number of rounds, and
write results.json to the output directory.

Exits with status 1 when the split has no image filename table; no output
is written in that case.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runStudy(ctx, cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.split, "split", "", "Dataset split to run (overrides study)")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for results.json (overrides study)")
	cmd.Flags().IntVar(&flags.beamSize, "beam-size", 0, "Beam width passed to both agents (overrides study)")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", 0, "Examples per batch (overrides study and dataset)")
	cmd.Flags().IntVar(&flags.numRounds, "num-rounds", 0, "Dialog rounds per image (overrides study and dataset)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Print per-round progress")
	cmd.Flags().BoolVar(&flags.publish, "publish", false, "Upload results.json to the study's blob container")

	return cmd
}

func runStudy(ctx context.Context, out io.Writer, studyPath string, flags runFlags) error {
	study, err := models.LoadStudyConfig(studyPath)
	if err != nil {
		return fmt.Errorf("failed to load study: %w", err)
	}

	// CLI flags override study config
	if flags.split != "" {
		study.Split = flags.split
	}
	if flags.beamSize != 0 {
		study.BeamSize = flags.beamSize
	}
	if flags.batchSize != 0 {
		study.BatchSize = flags.batchSize
	}
	if flags.numRounds != 0 {
		study.NumRounds = flags.numRounds
	}
	if err := study.Validate(); err != nil {
		return fmt.Errorf("invalid study: %w", err)
	}

	cfg := config.NewStudyRunConfig(study,
		config.WithStudyDir(filepath.Dir(studyPath)),
		config.WithOutputDir(flags.outputDir),
		config.WithVerbose(flags.verbose),
		config.WithPublish(flags.publish),
	)

	ds, pool, err := loadInputs(ctx, cfg)
	if err != nil {
		return err
	}

	questioner, answerer, err := buildAgents(ctx, study)
	if err != nil {
		return err
	}
	defer func() {
		if err := agent.Close(questioner); err != nil {
			slog.Warn("closing questioner", "error", err)
		}
		if err := agent.Close(answerer); err != nil {
			slog.Warn("closing answerer", "error", err)
		}
	}()

	runner := orchestration.NewDialogRunner(ds, questioner, answerer, pool,
		orchestration.WithBeamSize(study.BeamSize),
		orchestration.WithArchitecture(study.Decoder, study.Encoder),
	)
	if cfg.Verbose() {
		runner.OnProgress(verboseProgressListener(out))
	} else {
		runner.OnProgress(simpleProgressListener(out))
	}

	doc, err := runner.Run(ctx, study.Split)
	if err != nil {
		if errors.Is(err, orchestration.ErrMissingFilenames) {
			fmt.Fprintf(out, "Split %q has no image filename table; dialog output not saved.\n", study.Split) //nolint:errcheck
		}
		return err
	}

	path, err := results.Write(cfg.OutputDir(), doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Results saved to: %s\n", path) //nolint:errcheck

	if cfg.Publish() {
		publisher, err := results.NewPublisher(*study.Publish)
		if err != nil {
			return err
		}
		url, err := publisher.Publish(ctx, path, study.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Published to: %s\n", url) //nolint:errcheck
	} else if flags.publish {
		slog.Warn("--publish given but the study has no publish section")
	}

	return nil
}

// loadInputs reads the dataset, image pool and optional filename table
// concurrently.
func loadInputs(ctx context.Context, cfg *config.StudyRunConfig) (*dataset.FileDataset, imagepool.Table, error) {
	study := cfg.Study()

	var (
		ds        *dataset.FileDataset
		pool      imagepool.Table
		filenames []string
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ds, err = dataset.Load(cfg.DatasetPath(),
			dataset.WithSplit(study.Split),
			dataset.WithBatchSize(study.BatchSize),
			dataset.WithNumRounds(study.NumRounds),
		)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		pool, err = imagepool.Load(cfg.ImagePoolPath())
		if err != nil {
			return fmt.Errorf("failed to load image pool: %w", err)
		}
		return nil
	})
	if tablePath := cfg.FilenameTablePath(); tablePath != "" {
		g.Go(func() error {
			var err error
			filenames, err = dataset.LoadFilenameTable(tablePath)
			if err != nil {
				return fmt.Errorf("failed to load filename table: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if !ds.HasSplit(study.Split) {
		return nil, nil, fmt.Errorf("dataset %s has no split %q (have %s)",
			cfg.DatasetPath(), study.Split, strings.Join(ds.Splits(), ", "))
	}
	if filenames != nil {
		if err := ds.SetImageFilenames(study.Split, filenames); err != nil {
			return nil, nil, fmt.Errorf("failed to apply filename table: %w", err)
		}
	}
	return ds, pool, nil
}

// buildAgents constructs the configured agents. An agent missing from the
// study stays a nil interface so the runner can report it.
func buildAgents(ctx context.Context, study *models.StudyConfig) (agent.Questioner, agent.Agent, error) {
	var (
		questioner agent.Questioner
		answerer   agent.Agent
	)

	if study.Questioner.Configured() {
		q, err := agent.New(ctx, study.Questioner)
		if err != nil {
			return nil, nil, fmt.Errorf("questioner: %w", err)
		}
		questioner = q
	}
	if study.Answerer.Configured() {
		a, err := agent.New(ctx, study.Answerer)
		if err != nil {
			_ = agent.Close(questioner)
			return nil, nil, fmt.Errorf("answerer: %w", err)
		}
		answerer = a
	}
	return questioner, answerer, nil
}

func verboseProgressListener(out io.Writer) orchestration.ProgressListener {
	return func(event orchestration.ProgressEvent) {
		switch event.EventType {
		case orchestration.EventRunStart:
			fmt.Fprintf(out, "Generating dialogs for split %q (%d rounds)...\n\n", event.Split, event.TotalRounds) //nolint:errcheck
		case orchestration.EventBatchStart:
			fmt.Fprintf(out, "Batch %d (%d images)\n", event.BatchNum+1, event.BatchSize) //nolint:errcheck
		case orchestration.EventRoundComplete:
			fmt.Fprintf(out, "  Round %d/%d done\n", event.Round+1, event.TotalRounds) //nolint:errcheck
		case orchestration.EventBatchComplete:
			fmt.Fprintf(out, "  %d transcripts so far\n\n", event.Transcripts) //nolint:errcheck
		case orchestration.EventRunComplete:
			fmt.Fprintf(out, "Generated %d transcripts in %d batch(es)\n", event.Transcripts, event.BatchNum) //nolint:errcheck
		}
	}
}

func simpleProgressListener(out io.Writer) orchestration.ProgressListener {
	return func(event orchestration.ProgressEvent) {
		switch event.EventType {
		case orchestration.EventBatchComplete:
			fmt.Fprintf(out, "✓ batch %d (%d transcripts)\n", event.BatchNum+1, event.Transcripts) //nolint:errcheck
		case orchestration.EventRunComplete:
			fmt.Fprintf(out, "Generated %d transcripts\n", event.Transcripts) //nolint:errcheck
		}
	}
}
