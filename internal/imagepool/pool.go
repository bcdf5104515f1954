// Package imagepool loads the table that maps each study image to the pool of
// images shown alongside it in the human-evaluation UI. The first entry of a
// pool is the image itself, the next five are its nearest neighbours by visual
// similarity, and the remainder are random fill images.
package imagepool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dialogeval/humanstudy/internal/validation"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Table maps an image identifier to its ordered pool.
type Table map[string][]string

// Lookup returns the pool of imageID.
func (t Table) Lookup(imageID string) ([]string, bool) {
	pool, ok := t[imageID]
	return pool, ok
}

// Load reads and validates an image pool file.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image pool: %w", err)
	}

	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("image pool %s: %w", path, err)
	}
	slog.Debug("Loaded image pool", "path", path, "images", len(table))
	return table, nil
}

// Parse decodes and validates an image pool document.
func Parse(data []byte) (Table, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if errs := validation.ValidateImagePool(doc); len(errs) > 0 {
		return nil, fmt.Errorf("invalid: %s", strings.Join(errs, "; "))
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	for id, pool := range table {
		if pool[0] != id {
			slog.Warn("Image pool does not start with its own image", "image_id", id, "first", pool[0])
		}
	}
	return table, nil
}
