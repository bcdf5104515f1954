package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied to study files that leave a field unset.
const (
	DefaultSplit     = "test"
	DefaultImagePool = "data/human_study/img_pool.json"
	DefaultOutputDir = "dialog_output"
	DefaultBeamSize  = 5
)

// StudyConfig describes one human-study data generation run.
type StudyConfig struct {
	Name          string         `yaml:"name" json:"name"`
	Description   string         `yaml:"description,omitempty" json:"description,omitempty"`
	Dataset       string         `yaml:"dataset" json:"dataset"`
	FilenameTable string         `yaml:"filename_table,omitempty" json:"filename_table,omitempty"`
	Split         string         `yaml:"split,omitempty" json:"split,omitempty"`
	ImagePool     string         `yaml:"image_pool,omitempty" json:"image_pool,omitempty"`
	OutputDir     string         `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	BeamSize      int            `yaml:"beam_size,omitempty" json:"beam_size,omitempty"`
	BatchSize     int            `yaml:"batch_size,omitempty" json:"batch_size,omitempty"`
	NumRounds     int            `yaml:"num_rounds,omitempty" json:"num_rounds,omitempty"`
	Decoder       string         `yaml:"decoder,omitempty" json:"decoder,omitempty"`
	Encoder       string         `yaml:"encoder,omitempty" json:"encoder,omitempty"`
	Questioner    AgentConfig    `yaml:"questioner" json:"questioner"`
	Answerer      AgentConfig    `yaml:"answerer" json:"answerer"`
	Publish       *PublishConfig `yaml:"publish,omitempty" json:"publish,omitempty"`
}

// AgentConfig selects an agent implementation. Params is decoded by the
// implementation itself.
type AgentConfig struct {
	Type       string         `yaml:"type" json:"type"`
	Checkpoint string         `yaml:"checkpoint,omitempty" json:"checkpoint,omitempty"`
	Params     map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// Configured reports whether the study file declared this agent at all.
func (a AgentConfig) Configured() bool {
	return a.Type != ""
}

// PublishConfig points at the blob container that receives results.json.
type PublishConfig struct {
	AccountURL string `yaml:"account_url" json:"account_url"`
	Container  string `yaml:"container" json:"container"`
	Prefix     string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
}

// LoadStudyConfig loads a study from a YAML file and applies defaults.
func LoadStudyConfig(path string) (*StudyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var study StudyConfig
	if err := yaml.Unmarshal(data, &study); err != nil {
		return nil, err
	}
	study.ApplyDefaults()

	if err := study.Validate(); err != nil {
		return nil, err
	}

	return &study, nil
}

// ApplyDefaults fills unset optional fields.
func (s *StudyConfig) ApplyDefaults() {
	if s.Split == "" {
		s.Split = DefaultSplit
	}
	if s.ImagePool == "" {
		s.ImagePool = DefaultImagePool
	}
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}
	if s.BeamSize == 0 {
		s.BeamSize = DefaultBeamSize
	}
}

// Validate checks that the study is runnable. Missing agents are left to the
// dialog driver, which reports them as a configuration error.
func (s *StudyConfig) Validate() error {
	if s.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if s.BeamSize < 1 {
		return fmt.Errorf("beam_size must be at least 1, got %d", s.BeamSize)
	}
	if s.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative, got %d", s.BatchSize)
	}
	if s.NumRounds < 0 {
		return fmt.Errorf("num_rounds must not be negative, got %d", s.NumRounds)
	}
	if s.Publish != nil {
		if s.Publish.AccountURL == "" || s.Publish.Container == "" {
			return fmt.Errorf("publish requires account_url and container")
		}
	}
	return nil
}
