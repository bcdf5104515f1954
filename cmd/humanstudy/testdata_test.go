package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureDataset = `{
  "vocabulary": ["<pad>", "<START>", "a", "dog", "<END>"],
  "batch_size": 2,
  "num_rounds": 2,
  "splits": {
    "test": {
      "img_fnames": ["img_1", "img_2", "img_3"],
      "examples": [
        {"img_feat": [0.1], "cap": [1, 2, 3, 4]},
        {"img_feat": [0.2], "cap": [1, 3, 4]},
        {"img_feat": [0.3], "cap": [1, 2, 4]}
      ]
    },
    "val": {
      "examples": [{"img_feat": [0.4], "cap": [1, 2, 4]}]
    }
  }
}`

const fixturePool = `{
  "img_1": ["img_1", "img_2"],
  "img_2": ["img_2", "img_3"],
  "img_3": ["img_3", "img_1"]
}`

const fixtureStudy = `name: fixture-study
dataset: dataset.json
image_pool: pool.json
output_dir: out
beam_size: 3
decoder: gen
encoder: hre
questioner:
  type: scripted
  checkpoint: qbot.vd
  params:
    utterances: [[1, 2, 3]]
answerer:
  type: scripted
  checkpoint: abot.vd
  params:
    utterances: [[1, 3]]
`

// writeFixture lays out a runnable study in a temp dir and returns the
// study file path. extra is appended to the study YAML.
func writeFixture(t *testing.T, study string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dataset.json"), []byte(fixtureDataset), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pool.json"), []byte(fixturePool), 0o644))
	path := filepath.Join(dir, "study.yaml")
	require.NoError(t, os.WriteFile(path, []byte(study), 0o644))
	return path
}
