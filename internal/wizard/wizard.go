package wizard

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/dialogeval/humanstudy/internal/models"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// StudyAnswers holds all fields collected during the interactive wizard.
type StudyAnswers struct {
	Name                 string
	Dataset              string
	Split                string
	ImagePool            string
	BeamSize             int
	QuestionerCheckpoint string
	QuestionerAddr       string
	AnswererCheckpoint   string
	AnswererAddr         string
}

var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateName checks that a study name is kebab-case.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("name %q must be kebab-case (lowercase letters, digits, hyphens)", name)
	}
	return nil
}

// RunStudyWizard runs an interactive huh form to collect a starter study.
// If initialName is non-empty, it pre-populates the name field.
func RunStudyWizard(in io.Reader, out io.Writer, initialName string) (*StudyAnswers, error) {
	var (
		name      = initialName
		dataset   string
		split     = models.DefaultSplit
		imagePool = models.DefaultImagePool
		beamRaw   = strconv.Itoa(models.DefaultBeamSize)
		qbotCkpt  string
		qbotAddr  = "127.0.0.1:9001"
		abotCkpt  string
		abotAddr  = "127.0.0.1:9002"
	)

	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Study name").
				Description("A kebab-case name for the study").
				Placeholder("visdial-human-study").
				Value(&name).
				Validate(func(s string) error {
					return ValidateName(strings.TrimSpace(s))
				}),
			huh.NewInput().
				Title("Dataset").
				Description("Path to the dataset document (.json, .json.gz or .json.zst)").
				Placeholder("data/visdial_test.json.gz").
				Value(&dataset).
				Validate(required("dataset")),
			huh.NewSelect[string]().
				Title("Split").
				Options(
					huh.NewOption("test", "test"),
					huh.NewOption("val", "val"),
					huh.NewOption("train", "train"),
				).
				Value(&split),
			huh.NewInput().
				Title("Image pool").
				Description("JSON table mapping each image to its candidate pool").
				Value(&imagePool).
				Validate(required("image pool")),
			huh.NewInput().
				Title("Beam size").
				Value(&beamRaw).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return fmt.Errorf("beam size must be a positive integer")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Questioner checkpoint").
				Placeholder("checkpoints/qbot.vd").
				Value(&qbotCkpt),
			huh.NewInput().
				Title("Questioner server address").
				Value(&qbotAddr).
				Validate(required("questioner address")),
			huh.NewInput().
				Title("Answerer checkpoint").
				Placeholder("checkpoints/abot.vd").
				Value(&abotCkpt),
			huh.NewInput().
				Title("Answerer server address").
				Value(&abotAddr).
				Validate(required("answerer address")),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	beam, _ := strconv.Atoi(strings.TrimSpace(beamRaw))
	return &StudyAnswers{
		Name:                 strings.TrimSpace(name),
		Dataset:              strings.TrimSpace(dataset),
		Split:                split,
		ImagePool:            strings.TrimSpace(imagePool),
		BeamSize:             beam,
		QuestionerCheckpoint: strings.TrimSpace(qbotCkpt),
		QuestionerAddr:       strings.TrimSpace(qbotAddr),
		AnswererCheckpoint:   strings.TrimSpace(abotCkpt),
		AnswererAddr:         strings.TrimSpace(abotAddr),
	}, nil
}

// Study converts the answers into a study config with rpc agents.
func (a *StudyAnswers) Study() *models.StudyConfig {
	return &models.StudyConfig{
		Name:      a.Name,
		Dataset:   a.Dataset,
		Split:     a.Split,
		ImagePool: a.ImagePool,
		OutputDir: models.DefaultOutputDir,
		BeamSize:  a.BeamSize,
		Questioner: models.AgentConfig{
			Type:       "rpc",
			Checkpoint: a.QuestionerCheckpoint,
			Params:     map[string]any{"addr": a.QuestionerAddr},
		},
		Answerer: models.AgentConfig{
			Type:       "rpc",
			Checkpoint: a.AnswererCheckpoint,
			Params:     map[string]any{"addr": a.AnswererAddr},
		},
	}
}

// GenerateStudyYAML renders a starter study file from the answers.
func GenerateStudyYAML(a *StudyAnswers) (string, error) {
	study := a.Study()
	if err := study.Validate(); err != nil {
		return "", fmt.Errorf("invalid study: %w", err)
	}

	data, err := yaml.Marshal(study)
	if err != nil {
		return "", fmt.Errorf("failed to render study: %w", err)
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "# %s: generated by humanstudy init\n", a.Name)
	buf.Write(data)
	return buf.String(), nil
}
