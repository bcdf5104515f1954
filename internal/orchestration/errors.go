package orchestration

import (
	"errors"
	"fmt"
)

// ErrMissingFilenames is returned when the requested split has no image
// filename table. No output should be written in that case.
var ErrMissingFilenames = errors.New("split has no image filename table")

// ConfigurationError reports a run that cannot start because of how it was
// assembled.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// ImagePoolLookupError reports an image that has no entry in the image pool
// table.
type ImagePoolLookupError struct {
	ImageID string
}

func (e *ImagePoolLookupError) Error() string {
	return fmt.Sprintf("image %q not found in image pool", e.ImageID)
}
