package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dialogeval/humanstudy/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid study", func(t *testing.T) {
		studyPath := writeFixture(t, fixtureStudy)
		out, err := executeCommand(t, "validate", studyPath)
		require.NoError(t, err)
		assert.Contains(t, out, "✓ "+studyPath)
	})

	t.Run("schema errors", func(t *testing.T) {
		studyPath := writeFixture(t, fixtureStudy+"unexpected: true\n")
		out, err := executeCommand(t, "validate", studyPath)
		require.Error(t, err)
		assert.Contains(t, out, "✗ "+studyPath)
		assert.Contains(t, err.Error(), "schema error")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := executeCommand(t, "validate", filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

func TestShowCommand(t *testing.T) {
	studyPath := writeFixture(t, fixtureStudy)
	require.NoError(t, runStudy(t.Context(), &bytes.Buffer{}, studyPath, runFlags{}))
	resultsPath := filepath.Join(filepath.Dir(studyPath), "out", "results.json")

	t.Run("table", func(t *testing.T) {
		out, err := executeCommand(t, "show", resultsPath)
		require.NoError(t, err)
		assert.Contains(t, out, "caption: a dog")
		assert.Contains(t, out, "3 dialogs · qbot qbot.vd · abot abot.vd · beam 3")
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := executeCommand(t, "show", "--format", "markdown", resultsPath)
		require.NoError(t, err)
		assert.Contains(t, out, "# Dialog transcripts")
		assert.Contains(t, out, "1. **Q:** a dog  \n   **A:** dog")
	})

	t.Run("html", func(t *testing.T) {
		out, err := executeCommand(t, "show", "--format", "html", resultsPath)
		require.NoError(t, err)
		assert.Contains(t, out, "<h1>Dialog transcripts</h1>")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := executeCommand(t, "show", "--format", "pdf", resultsPath)
		require.ErrorContains(t, err, `unknown format "pdf"`)
	})
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "studies", "pilot.yaml")

	out, err := executeCommand(t, "init", "pilot", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+output)

	study, err := models.LoadStudyConfig(output)
	require.NoError(t, err)
	assert.Equal(t, "pilot", study.Name)
	assert.Equal(t, "rpc", study.Questioner.Type)
	assert.Equal(t, "127.0.0.1:9002", study.Answerer.Params["addr"])

	_, err = executeCommand(t, "init", "pilot", "-o", output)
	require.ErrorContains(t, err, "already exists")

	_, err = executeCommand(t, "init", "pilot", "-o", output, "--force")
	require.NoError(t, err)

	_, err = executeCommand(t, "init", "Not Valid", "-o", filepath.Join(dir, "x.yaml"))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "x.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestParseUtterances(t *testing.T) {
	got, err := parseUtterances([]string{"1,2,3", " 1, 3 "})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2, 3}, {1, 3}}, got)

	_, err = parseUtterances(nil)
	require.Error(t, err)

	_, err = parseUtterances([]string{"1,x"})
	require.ErrorContains(t, err, `"x" is not a token index`)

	_, err = parseUtterances([]string{","})
	require.ErrorContains(t, err, "utterance 1 is empty")
}

func TestResolveTCPAddr(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		name        string
		addr        string
		allowRemote bool
		want        string
	}{
		{"port only", "9001", false, "127.0.0.1:9001"},
		{"empty host", ":9001", false, "127.0.0.1:9001"},
		{"all interfaces", "0.0.0.0:9001", false, "127.0.0.1:9001"},
		{"explicit host", "10.0.0.5:9001", false, "10.0.0.5:9001"},
		{"allow remote", "0.0.0.0:9001", true, "0.0.0.0:9001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveTCPAddr(tt.addr, tt.allowRemote, logger))
		})
	}
}

func TestServeAgentCommand_Stdio(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"agent.info"}` + "\n"))
	cmd.SetArgs([]string{"serve-agent", "--checkpoint", "demo.vd", "--utterance", "1,2"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"checkpoint":"demo.vd"`)
	assert.Contains(t, out.String(), `"id":1`)
}

func TestServeAgentCommand_EndIndex(t *testing.T) {
	requests := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"agent.setEvalMode"}`,
		`{"jsonrpc":"2.0","id":2,"method":"agent.observe","params":{"step":{"phase":"context","round":0},"observation":{"caption":[[1,2]]}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"agent.decode","params":{"beam_size":1}}`,
	}, "\n") + "\n"

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(requests))
	cmd.SetArgs([]string{"serve-agent", "--utterance", "1,3,4", "--end-index", "4"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"lengths":[2]`)
}

func TestServeAgentCommand_RequiresUtterance(t *testing.T) {
	_, err := executeCommand(t, "serve-agent")
	require.Error(t, err)
}
