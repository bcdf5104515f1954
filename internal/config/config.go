package config

import (
	"path/filepath"

	"github.com/dialogeval/humanstudy/internal/models"
)

// StudyRunConfig is a study file plus the invocation details that are not
// part of it. Relative paths in the study are resolved against StudyDir.
type StudyRunConfig struct {
	study     *models.StudyConfig
	studyDir  string
	outputDir string
	verbose   bool
	publish   bool
}

// Option configures a StudyRunConfig.
type Option func(*StudyRunConfig)

// NewStudyRunConfig applies opts in order; the last option wins.
func NewStudyRunConfig(study *models.StudyConfig, opts ...Option) *StudyRunConfig {
	cfg := &StudyRunConfig{study: study}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithStudyDir sets the directory relative study paths are resolved against.
func WithStudyDir(dir string) Option {
	return func(c *StudyRunConfig) {
		c.studyDir = dir
	}
}

// WithOutputDir overrides the study's output_dir.
func WithOutputDir(dir string) Option {
	return func(c *StudyRunConfig) {
		c.outputDir = dir
	}
}

// WithVerbose enables per-round progress output.
func WithVerbose(verbose bool) Option {
	return func(c *StudyRunConfig) {
		c.verbose = verbose
	}
}

// WithPublish enables uploading results to the study's publish target.
func WithPublish(publish bool) Option {
	return func(c *StudyRunConfig) {
		c.publish = publish
	}
}

func (c *StudyRunConfig) Study() *models.StudyConfig { return c.study }

func (c *StudyRunConfig) StudyDir() string { return c.studyDir }

func (c *StudyRunConfig) Verbose() bool { return c.verbose }

// Publish reports whether results should be uploaded. It requires both the
// flag and a publish section in the study.
func (c *StudyRunConfig) Publish() bool {
	return c.publish && c.study != nil && c.study.Publish != nil
}

// OutputDir returns the override if set, else the study's output_dir,
// resolved against StudyDir. Explicit overrides are taken as given.
func (c *StudyRunConfig) OutputDir() string {
	if c.outputDir != "" {
		return c.outputDir
	}
	if c.study == nil {
		return ""
	}
	return c.Resolve(c.study.OutputDir)
}

// DatasetPath returns the resolved dataset file path.
func (c *StudyRunConfig) DatasetPath() string {
	if c.study == nil {
		return ""
	}
	return c.Resolve(c.study.Dataset)
}

// ImagePoolPath returns the resolved image pool file path.
func (c *StudyRunConfig) ImagePoolPath() string {
	if c.study == nil {
		return ""
	}
	return c.Resolve(c.study.ImagePool)
}

// FilenameTablePath returns the resolved filename table path, or "" when the
// study has none.
func (c *StudyRunConfig) FilenameTablePath() string {
	if c.study == nil || c.study.FilenameTable == "" {
		return ""
	}
	return c.Resolve(c.study.FilenameTable)
}

// Resolve makes a relative path relative to StudyDir.
func (c *StudyRunConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.studyDir == "" {
		return path
	}
	return filepath.Join(c.studyDir, path)
}
