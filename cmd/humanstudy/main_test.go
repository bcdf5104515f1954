package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dialogeval/humanstudy/internal/orchestration"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitSuccess},
		{"missing filenames", orchestration.ErrMissingFilenames, ExitMissingData},
		{"wrapped missing filenames", fmt.Errorf("run: %w", orchestration.ErrMissingFilenames), ExitMissingData},
		{"configuration error", &orchestration.ConfigurationError{Message: "must supply both agents"}, ExitError},
		{"pool lookup", &orchestration.ImagePoolLookupError{ImageID: "img_9"}, ExitError},
		{"regular error", errors.New("boom"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
