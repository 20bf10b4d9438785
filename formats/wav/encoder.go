// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/speechprep/utils"
)

// CanonicalRate is the sample rate written by EncodePCM16.
const CanonicalRate = 16000

// WriteWAV16 writes a mono 16-bit PCM WAV stream. The RIFF and data sizes
// are patched in once all samples are written, so w must be seekable.
func WriteWAV16(w io.WriteSeeker, sampleRate int, samples []int16) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedWavLayout, sampleRate)
	}

	enc := gowav.NewEncoder(w, sampleRate, 16, 1, formatPCM)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize WAV header: %w", err)
	}
	return nil
}

// EncodePCM16 writes samples to path as a mono 16 kHz 16-bit PCM WAV
// file. Samples are scaled by 32767, rounded, and clamped. A partially
// written file is removed on failure.
func EncodePCM16(samples []float32, path string) error {
	return EncodePCM16At(samples, CanonicalRate, path)
}

// EncodePCM16At is EncodePCM16 with an explicit header sample rate.
func EncodePCM16At(samples []float32, sampleRate int, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				err = errors.Join(err, rerr)
			}
		}
	}()

	if err := WriteWAV16(f, sampleRate, utils.Float32ToInt16Slice(samples)); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
