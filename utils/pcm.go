// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

const (
	// DecodeScale divides signed 16-bit PCM into float samples.
	DecodeScale = 32768.0
	// EncodeScale multiplies float samples back into signed 16-bit PCM.
	//
	// The asymmetry with DecodeScale is kept for output compatibility with
	// files produced by earlier versions; a decode/encode round trip of a
	// full-scale sample can move it by one quantization step.
	EncodeScale = 32767.0
)

// Int16ToFloat32 converts a signed 16-bit PCM sample to float32 by dividing by 32768.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / DecodeScale
}

// Float32ToInt16 scales x by 32767, rounds to the nearest integer (half away
// from zero) and clamps the result to the int16 range. NaN maps to 0.
func Float32ToInt16(x float32) int16 {
	v := math.Round(float64(x) * EncodeScale)
	if math.IsNaN(v) {
		return 0
	}
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Float32ToInt16Slice converts a whole sample slice with Float32ToInt16.
func Float32ToInt16Slice(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = Float32ToInt16(s)
	}
	return out
}
