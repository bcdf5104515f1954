package agent

import (
	"context"
	"fmt"
	"slices"
)

// ScriptedAgent replays a fixed list of utterances, one per round, for every
// example in the batch. It stands in for a model in dry runs.
type ScriptedAgent struct {
	checkpoint string
	utterances [][]int

	endIndex int

	evalMode  bool
	batchSize int
	decodes   int
	refreshes int
	history   []Step
}

// ScriptedOption configures a ScriptedAgent.
type ScriptedOption func(*ScriptedAgent)

// WithEndIndex sets the vocabulary index of the end marker. Reported lengths
// stop before it, the way a decoder reports them, so rendered text never
// carries the marker. Zero disables the cut.
func WithEndIndex(idx int) ScriptedOption {
	return func(s *ScriptedAgent) {
		s.endIndex = idx
	}
}

// NewScriptedAgent creates an agent that answers round r with
// utterances[r % len(utterances)].
func NewScriptedAgent(checkpoint string, utterances [][]int, opts ...ScriptedOption) *ScriptedAgent {
	s := &ScriptedAgent{
		checkpoint: checkpoint,
		utterances: utterances,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ScriptedAgent) SetEvalMode(_ context.Context) error {
	s.evalMode = true
	return nil
}

func (s *ScriptedAgent) ResetState(_ context.Context) error {
	s.batchSize = 0
	s.decodes = 0
	s.refreshes = 0
	s.history = nil
	return nil
}

func (s *ScriptedAgent) Observe(_ context.Context, step Step, obs Observation) error {
	if step.Phase == PhaseContext {
		if len(obs.Caption) == 0 {
			return fmt.Errorf("scripted agent: context observation has no caption")
		}
		s.batchSize = len(obs.Caption)
	} else if s.batchSize == 0 {
		return fmt.Errorf("scripted agent: %s observed before context", step)
	}
	s.history = append(s.history, step)
	return nil
}

func (s *ScriptedAgent) DecodeGreedy(_ context.Context, beamSize int) (*Decoded, error) {
	if !s.evalMode {
		return nil, fmt.Errorf("scripted agent: decode outside eval mode")
	}
	if beamSize < 1 {
		return nil, fmt.Errorf("scripted agent: beam size must be at least 1, got %d", beamSize)
	}
	if s.batchSize == 0 {
		return nil, fmt.Errorf("scripted agent: decode before context observation")
	}
	if len(s.utterances) == 0 {
		return nil, fmt.Errorf("scripted agent: no utterances configured")
	}

	utt := s.utterances[s.decodes%len(s.utterances)]
	s.decodes++

	out := &Decoded{
		Tokens:  make([][]int, s.batchSize),
		Lengths: make([]int, s.batchSize),
	}
	n := 0
	for _, idx := range utt {
		if s.endIndex > 0 && idx == s.endIndex {
			break
		}
		if idx > 0 {
			n++
		}
	}
	for i := range s.batchSize {
		out.Tokens[i] = slices.Clone(utt)
		out.Lengths[i] = n
	}
	return out, nil
}

func (s *ScriptedAgent) RefreshEncoding(_ context.Context) error {
	if s.batchSize == 0 {
		return fmt.Errorf("scripted agent: refresh before context observation")
	}
	s.refreshes++
	return nil
}

func (s *ScriptedAgent) Checkpoint() string {
	return s.checkpoint
}

// History returns the steps observed since the last reset.
func (s *ScriptedAgent) History() []Step {
	return slices.Clone(s.history)
}

// Refreshes returns how many times RefreshEncoding ran since the last reset.
func (s *ScriptedAgent) Refreshes() int {
	return s.refreshes
}
