package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dialogeval/humanstudy/internal/orchestration"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Transcripts written
	ExitMissingData = 1 // Split has no filename table; nothing written
	ExitError       = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, orchestration.ErrMissingFilenames) {
		return ExitMissingData
	}
	return ExitError
}
