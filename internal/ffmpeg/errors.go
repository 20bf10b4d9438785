// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the ffmpeg executable could not be located.
	ErrNotFound = errors.New("ffmpeg binary not found")
	// ErrFailed means ffmpeg ran but did not produce usable output.
	ErrFailed = errors.New("ffmpeg conversion failed")
)

// ExitError carries the diagnostic output of a failed ffmpeg run.
type ExitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%v: %v", ErrFailed, e.Err)
	}
	return fmt.Sprintf("%v: %v: %s", ErrFailed, e.Err, e.Stderr)
}

func (e *ExitError) Unwrap() []error { return []error{ErrFailed, e.Err} }

// Diagnostics returns the trimmed ffmpeg output.
func (e *ExitError) Diagnostics() string { return e.Stderr }
