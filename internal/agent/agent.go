//go:generate go tool mockgen -package mockagent -destination mockagent/mocks.go github.com/dialogeval/humanstudy/internal/agent Agent,Questioner

// Package agent defines the dialog agents driven by the simulation and the
// implementations that back them: scripted in-process agents and remote model
// servers reached over JSON-RPC.
package agent

import (
	"context"
	"fmt"
	"io"
)

// Phase distinguishes the pre-dialog context observation from dialog rounds.
type Phase int

const (
	// PhaseContext is the observation of the image and caption that precedes
	// the first question.
	PhaseContext Phase = iota
	// PhaseRound is a question/answer exchange.
	PhaseRound
)

func (p Phase) String() string {
	switch p {
	case PhaseContext:
		return "context"
	case PhaseRound:
		return "round"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	switch p {
	case PhaseContext, PhaseRound:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "context":
		*p = PhaseContext
	case "round":
		*p = PhaseRound
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// Step identifies when an observation happens.
type Step struct {
	Phase Phase `json:"phase"`
	// Round is meaningful only for PhaseRound.
	Round int `json:"round"`
}

// ContextStep is the step of the initial image/caption observation.
func ContextStep() Step {
	return Step{Phase: PhaseContext}
}

// RoundStep is the step of dialog round r, counted from zero.
func RoundStep(r int) Step {
	return Step{Phase: PhaseRound, Round: r}
}

func (s Step) String() string {
	if s.Phase == PhaseRound {
		return fmt.Sprintf("round %d", s.Round)
	}
	return s.Phase.String()
}

// Observation carries batched inputs to an agent. Only the fields relevant to
// the step are set.
type Observation struct {
	Image        [][]float32 `json:"image,omitempty"`
	Caption      [][]int     `json:"caption,omitempty"`
	CaptionLens  []int       `json:"caption_lens,omitempty"`
	Questions    [][]int     `json:"questions,omitempty"`
	QuestionLens []int       `json:"question_lens,omitempty"`
	Answers      [][]int     `json:"answers,omitempty"`
	AnswerLens   []int       `json:"answer_lens,omitempty"`
}

// Decoded is a batch of generated utterances. Lengths[i] is the number of
// non-padding tokens of Tokens[i] that belong to the utterance.
type Decoded struct {
	Tokens  [][]int `json:"tokens"`
	Lengths []int   `json:"lengths"`
}

// Validate checks that the decoded batch has size n.
func (d *Decoded) Validate(n int) error {
	if d == nil {
		return fmt.Errorf("no decoded output")
	}
	if len(d.Tokens) != n || len(d.Lengths) != n {
		return fmt.Errorf("decoded %d sequences with %d lengths, expected %d", len(d.Tokens), len(d.Lengths), n)
	}
	return nil
}

// Agent is a stateful dialog participant. Calls on one agent are not safe for
// concurrent use.
type Agent interface {
	// SetEvalMode disables learning updates.
	SetEvalMode(ctx context.Context) error
	// ResetState clears the dialog history ahead of a new batch.
	ResetState(ctx context.Context) error
	Observe(ctx context.Context, step Step, obs Observation) error
	// DecodeGreedy generates one utterance per example with beam search of
	// the given width.
	DecodeGreedy(ctx context.Context, beamSize int) (*Decoded, error)
	// Checkpoint names the weights the agent was loaded from.
	Checkpoint() string
}

// Questioner is the agent that asks. It re-encodes its dialog history after
// each round.
type Questioner interface {
	Agent
	RefreshEncoding(ctx context.Context) error
}

// Close releases an agent's resources when it holds any.
func Close(a Agent) error {
	if c, ok := a.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
