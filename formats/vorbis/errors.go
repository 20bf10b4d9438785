// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrNotVorbisFile wraps the oggvorbis error when the stream does not open
// with a Vorbis identification header.
var ErrNotVorbisFile = errors.New("not an Ogg Vorbis stream")

// ErrCorruptStream reports malformed pages that made the decoder fail
// mid-packet.
var ErrCorruptStream = errors.New("corrupt Ogg Vorbis stream")
