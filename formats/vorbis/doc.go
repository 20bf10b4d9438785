// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with github.com/jfreymuth/oggvorbis.
//
// The decoder yields float32 samples directly, interleaved per channel.
// Ogg containers carrying other codecs, such as Opus, are not matched and
// are left to the external decoder.
package vorbis
