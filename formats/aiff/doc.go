// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF and AIFF-C files through github.com/go-audio/aiff.
//
// Integer samples of 8, 16, 24 or 32 bits are scaled into [-1, 1) by the
// full-scale value of their depth. The Decoder recognizes the FORM/AIFF
// and FORM/AIFC magic so it can be placed in an audio.Registry ahead of
// an external decoder.
package aiff
