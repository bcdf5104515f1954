package wizard

import (
	"testing"

	"github.com/dialogeval/humanstudy/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleAnswers() *StudyAnswers {
	return &StudyAnswers{
		Name:                 "visdial-human-study",
		Dataset:              "data/visdial_test.json.gz",
		Split:                "test",
		ImagePool:            "data/human_study/img_pool.json",
		BeamSize:             5,
		QuestionerCheckpoint: "checkpoints/qbot.vd",
		QuestionerAddr:       "127.0.0.1:9001",
		AnswererCheckpoint:   "checkpoints/abot.vd",
		AnswererAddr:         "127.0.0.1:9002",
	}
}

func TestGenerateStudyYAML_RoundTrips(t *testing.T) {
	out, err := GenerateStudyYAML(sampleAnswers())
	require.NoError(t, err)

	assert.Contains(t, out, "# visdial-human-study: generated by humanstudy init\n")

	var study models.StudyConfig
	require.NoError(t, yaml.Unmarshal([]byte(out), &study))
	assert.Equal(t, "visdial-human-study", study.Name)
	assert.Equal(t, "data/visdial_test.json.gz", study.Dataset)
	assert.Equal(t, "test", study.Split)
	assert.Equal(t, 5, study.BeamSize)
	assert.Equal(t, models.DefaultOutputDir, study.OutputDir)
	assert.Equal(t, "rpc", study.Questioner.Type)
	assert.Equal(t, "checkpoints/qbot.vd", study.Questioner.Checkpoint)
	assert.Equal(t, "127.0.0.1:9001", study.Questioner.Params["addr"])
	assert.Equal(t, "127.0.0.1:9002", study.Answerer.Params["addr"])
	assert.Nil(t, study.Publish)
}

func TestGenerateStudyYAML_RejectsInvalid(t *testing.T) {
	a := sampleAnswers()
	a.Dataset = ""
	_, err := GenerateStudyYAML(a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset is required")

	a = sampleAnswers()
	a.BeamSize = 0
	_, err = GenerateStudyYAML(a)
	require.Error(t, err)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "study", false},
		{"kebab", "visdial-human-study", false},
		{"digits", "study-2", false},
		{"empty", "", true},
		{"uppercase", "Study", true},
		{"trailing hyphen", "study-", true},
		{"spaces", "my study", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
