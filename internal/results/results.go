// Package results writes and reads the results.json document produced by a
// study run.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dialogeval/humanstudy/internal/models"
)

// Filename is the name of the document written into the output folder.
const Filename = "results.json"

// Write encodes doc to <dir>/results.json, creating dir if needed. A failure
// part-way through encoding can leave a truncated file behind.
func Write(dir string, doc *models.OutputDocument) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, Filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create results file: %w", err)
	}

	if err := json.NewEncoder(f).Encode(doc); err != nil {
		f.Close() //nolint:errcheck
		return "", fmt.Errorf("write results: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close results file: %w", err)
	}
	return path, nil
}

// Load reads a results document.
func Load(path string) (*models.OutputDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var doc models.OutputDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	return &doc, nil
}
