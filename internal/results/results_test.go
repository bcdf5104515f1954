package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dialogeval/humanstudy/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() *models.OutputDocument {
	return &models.OutputDocument{
		Data: []models.DialogTranscript{{
			ImageID:   "COCO_1.jpg",
			ImagePool: []string{"COCO_1.jpg", "COCO_4.jpg"},
			Caption:   "a dog on a couch",
			Dialog: []models.Exchange{
				{Question: "is it big ", Answer: "yes"},
				{Question: "what color is it ", Answer: "brown"},
			},
		}},
		Opts: models.RunMetadata{QuestionerCheckpoint: "q.vd", AnswererCheckpoint: "a.vd", BeamSize: 5, Decoder: "gen", Encoder: "hre"},
	}
}

func TestWriteAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dialog_output")

	path, err := Write(dir, sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "results.json"), path)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc(), doc)
}

func TestWrite_OutputDirIsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Write(blocker, sampleDoc())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create output dir")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.json"))
	require.ErrorContains(t, err, "read results")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Load(bad)
	require.ErrorContains(t, err, "parse results")
}
