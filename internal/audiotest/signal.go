// SPDX-License-Identifier: EPL-2.0

package audiotest

import "math"

// Sine returns frames of an interleaved sine wave at amplitude amp. Every
// channel carries the same signal.
func Sine(sampleRate, channels, frames int, frequency float64, amp float32) []float32 {
	out := make([]float32, frames*channels)
	for f := range frames {
		v := amp * float32(math.Sin(2*math.Pi*frequency*float64(f)/float64(sampleRate)))
		for c := range channels {
			out[f*channels+c] = v
		}
	}
	return out
}

// Sparse returns n mono samples that are zero except for the first nonZero,
// which hold value.
func Sparse(n, nonZero int, value float32) []float32 {
	out := make([]float32, n)
	for i := range min(n, nonZero) {
		out[i] = value
	}
	return out
}

// Int16s converts float samples in [-1, 1] to PCM16 by truncating x*32767.
func Int16s(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = int16(s * 32767)
	}
	return out
}

// RMS returns the root mean square of samples[from:to].
func RMS(samples []float32, from, to int) float64 {
	if to <= from {
		return 0
	}
	var sum float64
	for _, s := range samples[from:to] {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(to-from))
}
