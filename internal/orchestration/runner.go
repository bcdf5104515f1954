package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dialogeval/humanstudy/internal/agent"
	"github.com/dialogeval/humanstudy/internal/dataset"
	"github.com/dialogeval/humanstudy/internal/imagepool"
	"github.com/dialogeval/humanstudy/internal/models"
	"github.com/dialogeval/humanstudy/internal/vocab"
)

// DialogRunner simulates fixed-length conversations between a questioner and
// an answerer for every example of a dataset split.
type DialogRunner struct {
	ds         dataset.Dataset
	questioner agent.Questioner
	answerer   agent.Agent
	pool       imagepool.Table

	beamSize int
	decoder  string
	encoder  string

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventRunStart      EventType = "run_start"
	EventBatchStart    EventType = "batch_start"
	EventRoundComplete EventType = "round_complete"
	EventBatchComplete EventType = "batch_complete"
	EventRunComplete   EventType = "run_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType   EventType
	Split       string
	BatchNum    int
	BatchSize   int
	Round       int
	TotalRounds int
	Transcripts int
}

// RunnerOption configures a DialogRunner.
type RunnerOption func(*DialogRunner)

// WithBeamSize sets the beam width used by both agents. Defaults to
// models.DefaultBeamSize.
func WithBeamSize(n int) RunnerOption {
	return func(r *DialogRunner) {
		r.beamSize = n
	}
}

// WithArchitecture records the decoder and encoder names in the run metadata.
func WithArchitecture(decoder, encoder string) RunnerOption {
	return func(r *DialogRunner) {
		r.decoder = decoder
		r.encoder = encoder
	}
}

// NewDialogRunner creates a runner. Missing agents are reported by Run.
func NewDialogRunner(ds dataset.Dataset, questioner agent.Questioner, answerer agent.Agent, pool imagepool.Table, opts ...RunnerOption) *DialogRunner {
	r := &DialogRunner{
		ds:         ds,
		questioner: questioner,
		answerer:   answerer,
		pool:       pool,
		beamSize:   models.DefaultBeamSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnProgress registers a progress listener
func (r *DialogRunner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *DialogRunner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run generates a transcript for every example of split. The dataset's split
// is switched for the duration of the call and restored before returning.
//
// It returns ErrMissingFilenames when the split cannot be mapped to image
// files. Any agent or data error aborts the run.
func (r *DialogRunner) Run(ctx context.Context, split string) (*models.OutputDocument, error) {
	if r.questioner == nil || r.answerer == nil {
		return nil, &ConfigurationError{Message: "must supply both agents"}
	}
	if r.ds == nil {
		return nil, &ConfigurationError{Message: "no dataset"}
	}
	if r.beamSize < 1 {
		return nil, &ConfigurationError{Message: fmt.Sprintf("beam size must be at least 1, got %d", r.beamSize)}
	}

	oldSplit := r.ds.Split()
	r.ds.SetSplit(split)
	defer r.ds.SetSplit(oldSplit)

	filenames, ok := r.ds.ImageFilenames(split)
	if !ok {
		slog.Error("Need image filenames for the split to locate image files; not saving dialog output", "split", split)
		return nil, ErrMissingFilenames
	}

	numRounds := r.ds.NumRounds()
	v := r.ds.Vocabulary()

	doc := &models.OutputDocument{Data: []models.DialogTranscript{}}
	r.notifyProgress(ProgressEvent{EventType: EventRunStart, Split: split, TotalRounds: numRounds})

	batchNum := 0
	for batch, err := range r.ds.Batches() {
		if err != nil {
			return nil, fmt.Errorf("reading batch %d: %w", batchNum, err)
		}
		slog.Debug("Running batch", "batch", batchNum, "size", batch.Size())
		r.notifyProgress(ProgressEvent{EventType: EventBatchStart, Split: split, BatchNum: batchNum, BatchSize: batch.Size(), TotalRounds: numRounds})

		transcripts, err := r.runBatch(ctx, batch, filenames, numRounds, v, batchNum)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", batchNum, err)
		}
		doc.Data = append(doc.Data, transcripts...)

		r.notifyProgress(ProgressEvent{EventType: EventBatchComplete, Split: split, BatchNum: batchNum, BatchSize: batch.Size(), TotalRounds: numRounds, Transcripts: len(doc.Data)})
		batchNum++
	}

	doc.Opts = models.RunMetadata{
		QuestionerCheckpoint: r.questioner.Checkpoint(),
		AnswererCheckpoint:   r.answerer.Checkpoint(),
		BeamSize:             r.beamSize,
		Decoder:              r.decoder,
		Encoder:              r.encoder,
	}

	r.notifyProgress(ProgressEvent{EventType: EventRunComplete, Split: split, BatchNum: batchNum, TotalRounds: numRounds, Transcripts: len(doc.Data)})
	return doc, nil
}

func (r *DialogRunner) runBatch(ctx context.Context, batch *dataset.Batch, filenames []string, numRounds int, v vocab.Vocabulary, batchNum int) ([]models.DialogTranscript, error) {
	n := batch.Size()
	transcripts := make([]models.DialogTranscript, n)
	for j, idx := range batch.Index {
		if idx < 0 || idx >= len(filenames) {
			return nil, fmt.Errorf("dataset index %d has no image filename", idx)
		}
		imageID := filenames[idx]
		pool, ok := r.pool.Lookup(imageID)
		if !ok {
			return nil, &ImagePoolLookupError{ImageID: imageID}
		}
		transcripts[j] = models.DialogTranscript{
			ImageID:   imageID,
			ImagePool: pool,
			Dialog:    make([]models.Exchange, 0, numRounds),
		}
	}

	for _, a := range []agent.Agent{r.answerer, r.questioner} {
		if err := a.SetEvalMode(ctx); err != nil {
			return nil, fmt.Errorf("setting eval mode: %w", err)
		}
		if err := a.ResetState(ctx); err != nil {
			return nil, fmt.Errorf("resetting agent: %w", err)
		}
	}

	if err := r.answerer.Observe(ctx, agent.ContextStep(), agent.Observation{
		Image:       batch.ImageFeatures,
		Caption:     batch.Captions,
		CaptionLens: batch.CaptionLens,
	}); err != nil {
		return nil, fmt.Errorf("answerer context: %w", err)
	}
	if err := r.questioner.Observe(ctx, agent.ContextStep(), agent.Observation{
		Caption:     batch.Captions,
		CaptionLens: batch.CaptionLens,
	}); err != nil {
		return nil, fmt.Errorf("questioner context: %w", err)
	}

	for j := range transcripts {
		caption, err := vocab.Caption(batch.Captions[j], v)
		if err != nil {
			return nil, fmt.Errorf("caption of example %d: %w", batch.Index[j], err)
		}
		transcripts[j].Caption = caption
	}

	for round := range numRounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		exchanges, err := r.runRound(ctx, round, n, v)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		for j := range transcripts {
			transcripts[j].Dialog = append(transcripts[j].Dialog, exchanges[j])
		}
		r.notifyProgress(ProgressEvent{EventType: EventRoundComplete, BatchNum: batchNum, BatchSize: n, Round: round, TotalRounds: numRounds})
	}

	return transcripts, nil
}

// runRound performs one question/answer exchange and renders it per example.
func (r *DialogRunner) runRound(ctx context.Context, round, n int, v vocab.Vocabulary) ([]models.Exchange, error) {
	step := agent.RoundStep(round)

	questions, err := r.questioner.DecodeGreedy(ctx, r.beamSize)
	if err != nil {
		return nil, fmt.Errorf("decoding question: %w", err)
	}
	if err := questions.Validate(n); err != nil {
		return nil, fmt.Errorf("questioner: %w", err)
	}
	asked := agent.Observation{Questions: questions.Tokens, QuestionLens: questions.Lengths}
	if err := r.questioner.Observe(ctx, step, asked); err != nil {
		return nil, fmt.Errorf("questioner observing question: %w", err)
	}
	if err := r.answerer.Observe(ctx, step, asked); err != nil {
		return nil, fmt.Errorf("answerer observing question: %w", err)
	}

	answers, err := r.answerer.DecodeGreedy(ctx, r.beamSize)
	if err != nil {
		return nil, fmt.Errorf("decoding answer: %w", err)
	}
	if err := answers.Validate(n); err != nil {
		return nil, fmt.Errorf("answerer: %w", err)
	}
	answered := agent.Observation{Answers: answers.Tokens, AnswerLens: answers.Lengths}
	if err := r.answerer.Observe(ctx, step, answered); err != nil {
		return nil, fmt.Errorf("answerer observing answer: %w", err)
	}
	if err := r.questioner.Observe(ctx, step, answered); err != nil {
		return nil, fmt.Errorf("questioner observing answer: %w", err)
	}

	if err := r.questioner.RefreshEncoding(ctx); err != nil {
		return nil, fmt.Errorf("refreshing questioner encoding: %w", err)
	}

	exchanges := make([]models.Exchange, n)
	for j := range n {
		q, err := vocab.Question(questions.Tokens[j], questions.Lengths[j], v)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", j, err)
		}
		a, err := vocab.Answer(answers.Tokens[j], answers.Lengths[j], v)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w", j, err)
		}
		exchanges[j] = models.Exchange{Question: q, Answer: a}
	}
	return exchanges, nil
}
