// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
)

// ErrNotRecognized is wrapped by every reason a buffer is not a supported
// PCM WAV container. Callers fall back to another decoder on it.
var ErrNotRecognized = errors.New("not a recognized PCM WAV container")

var (
	ErrNotWavFile             = fmt.Errorf("%w: not a WAV file", ErrNotRecognized)
	ErrTruncatedHeader        = fmt.Errorf("%w: truncated WAV header", ErrNotRecognized)
	ErrUnsupportedWavLayout   = fmt.Errorf("%w: unsupported WAV layout", ErrNotRecognized)
	ErrUnsupportedSampleWidth = fmt.Errorf("%w: only 16-bit integer and 32-bit float PCM supported", ErrNotRecognized)
)

// ErrUnsupportedSampleFormat is reported by Parse, for containers that are
// required to be PCM WAV, such as converter output.
var ErrUnsupportedSampleFormat = errors.New("unsupported sample format")
