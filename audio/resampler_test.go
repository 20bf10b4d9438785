// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ik5/speechprep/internal/audiotest"
)

func resampleOrFatal(t *testing.T, in []float32, from, to int) []float32 {
	t.Helper()

	out, err := Resample(context.Background(), in, from, to, DefaultSincParams())
	if err != nil {
		t.Fatalf("Resample(%d -> %d) error = %v", from, to, err)
	}
	return out
}

func TestResample_IdentityIsExact(t *testing.T) {
	t.Parallel()

	in := audiotest.Sine(16000, 1, 3000, 440, 0.8)
	out := resampleOrFatal(t, in, 16000, 16000)

	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("out[%d] = %v, want %v (identity must not drift)", i, out[i], in[i])
		}
	}
}

func TestResample_OutputLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to, n int
		want        int
	}{
		{44100, 16000, 22050, 8000},
		{48000, 16000, 48000, 16000},
		{8000, 16000, 4000, 8000},
		{22050, 16000, 1000, 726}, // ceil(725.62)
		{11025, 16000, 3, 5},      // ceil(4.35)
	}

	for _, tt := range tests {
		out := resampleOrFatal(t, make([]float32, tt.n), tt.from, tt.to)
		if len(out) != tt.want {
			t.Errorf("Resample(%d samples, %d -> %d) len = %d, want %d", tt.n, tt.from, tt.to, len(out), tt.want)
		}
	}
}

func TestResample_DownsamplePreservesSine(t *testing.T) {
	t.Parallel()

	const freq = 440.0
	in := audiotest.Sine(44100, 1, 44100, freq, 0.5)
	out := resampleOrFatal(t, in, 44100, 16000)

	// Skip the edges where the kernel reaches past the block.
	for k := 500; k < len(out)-500; k++ {
		want := 0.5 * math.Sin(2*math.Pi*freq*float64(k)/16000)
		if d := math.Abs(float64(out[k]) - want); d > 0.01 {
			t.Fatalf("out[%d] = %v, want %v (diff %v)", k, out[k], want, d)
		}
	}
}

func TestResample_UpsamplePreservesSine(t *testing.T) {
	t.Parallel()

	const freq = 1000.0
	in := audiotest.Sine(16000, 1, 8000, freq, 0.5)
	out := resampleOrFatal(t, in, 16000, 48000)

	if len(out) != 24000 {
		t.Fatalf("len = %d, want 24000", len(out))
	}
	for k := 1000; k < len(out)-1000; k++ {
		want := 0.5 * math.Sin(2*math.Pi*freq*float64(k)/48000)
		if d := math.Abs(float64(out[k]) - want); d > 0.01 {
			t.Fatalf("out[%d] = %v, want %v (diff %v)", k, out[k], want, d)
		}
	}
}

func TestResample_DCGain(t *testing.T) {
	t.Parallel()

	in := make([]float32, 10000)
	for i := range in {
		in[i] = 0.5
	}
	out := resampleOrFatal(t, in, 48000, 16000)

	for k := 200; k < len(out)-200; k++ {
		if math.Abs(float64(out[k])-0.5) > 0.002 {
			t.Fatalf("out[%d] = %v, want ≈0.5", k, out[k])
		}
	}
}

func TestResample_RejectsAliases(t *testing.T) {
	t.Parallel()

	// 12 kHz is above the 8 kHz Nyquist limit of the target rate. Dropping
	// samples would fold it down to 4 kHz at full level.
	in := audiotest.Sine(48000, 1, 48000, 12000, 0.5)
	out := resampleOrFatal(t, in, 48000, 16000)

	if rms := audiotest.RMS(out, 500, len(out)-500); rms > 0.005 {
		t.Errorf("aliased RMS = %v, want < 0.005", rms)
	}

	naive := make([]float32, 0, len(in)/3)
	for i := 0; i < len(in); i += 3 {
		naive = append(naive, in[i])
	}
	if rms := audiotest.RMS(naive, 500, len(naive)-500); rms < 0.3 {
		t.Fatalf("naive decimation RMS = %v, test signal does not alias as expected", rms)
	}
}

func TestResample_NearestInterpolation(t *testing.T) {
	t.Parallel()

	params := DefaultSincParams()
	params.Interpolation = InterpolationNearest

	in := audiotest.Sine(22050, 1, 22050, 300, 0.5)
	out, err := Resample(context.Background(), in, 22050, 16000, params)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	for k := 500; k < len(out)-500; k++ {
		want := 0.5 * math.Sin(2*math.Pi*300*float64(k)/16000)
		if d := math.Abs(float64(out[k]) - want); d > 0.01 {
			t.Fatalf("out[%d] = %v, want %v", k, out[k], want)
		}
	}
}

func TestNewSincResampler_InvalidParams(t *testing.T) {
	t.Parallel()

	mutate := func(fn func(*SincParams)) SincParams {
		p := DefaultSincParams()
		fn(&p)
		return p
	}

	tests := []struct {
		name     string
		from, to int
		chunk    int
		params   SincParams
	}{
		{"zero from rate", 0, 16000, 100, DefaultSincParams()},
		{"negative to rate", 44100, -1, 100, DefaultSincParams()},
		{"empty chunk", 44100, 16000, 0, DefaultSincParams()},
		{"zero sinc length", 44100, 16000, 100, mutate(func(p *SincParams) { p.SincLen = 0 })},
		{"zero cutoff", 44100, 16000, 100, mutate(func(p *SincParams) { p.Cutoff = 0 })},
		{"cutoff above nyquist", 44100, 16000, 100, mutate(func(p *SincParams) { p.Cutoff = 1.2 })},
		{"no oversampling", 44100, 16000, 100, mutate(func(p *SincParams) { p.Oversampling = 0 })},
		{"relative ratio below one", 44100, 16000, 100, mutate(func(p *SincParams) { p.MaxRatioRelative = 0.5 })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewSincResampler(tt.from, tt.to, tt.chunk, tt.params)
			if !errors.Is(err, ErrResamplerInit) {
				t.Errorf("NewSincResampler() error = %v, want ErrResamplerInit", err)
			}
		})
	}
}

func TestNewSincResampler_RoundsSincLen(t *testing.T) {
	t.Parallel()

	params := DefaultSincParams()
	params.SincLen = 250
	params.Oversampling = 16

	r, err := NewSincResampler(44100, 16000, 441, params)
	if err != nil {
		t.Fatalf("NewSincResampler() error = %v", err)
	}
	if r.params.SincLen != 256 {
		t.Errorf("SincLen = %d, want 256", r.params.SincLen)
	}
	if len(r.kernel) != 256*16+1 {
		t.Errorf("len(kernel) = %d, want %d", len(r.kernel), 256*16+1)
	}
	if r.ChunkSize() != 441 || r.OutputLen() != 160 {
		t.Errorf("ChunkSize()/OutputLen() = %d/%d, want 441/160", r.ChunkSize(), r.OutputLen())
	}
	if got := r.Ratio(); math.Abs(got-16000.0/44100.0) > 1e-12 {
		t.Errorf("Ratio() = %v", got)
	}
}

func TestSincResampler_ProcessWrongLength(t *testing.T) {
	t.Parallel()

	r, err := NewSincResampler(48000, 16000, 480, DefaultSincParams())
	if err != nil {
		t.Fatalf("NewSincResampler() error = %v", err)
	}

	_, err = r.Process(context.Background(), make([]float32, 479))
	if !errors.Is(err, ErrResamplerProcess) {
		t.Errorf("Process() error = %v, want ErrResamplerProcess", err)
	}
}

func TestSincResampler_ProcessCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resample(ctx, make([]float32, 4800), 48000, 16000, DefaultSincParams())
	if !errors.Is(err, ErrResamplerProcess) {
		t.Errorf("Resample() error = %v, want ErrResamplerProcess", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resample() error = %v, want wrapped context.Canceled", err)
	}
}

func TestMakeKernel_SymmetricAndNormalized(t *testing.T) {
	t.Parallel()

	const sincLen, factor = 64, 32
	k := makeKernel(sincLen, factor, 0.9, BlackmanHarris2)

	total := sincLen * factor
	for j := 0; j <= total/2; j++ {
		if math.Abs(float64(k[j]-k[total-j])) > 1e-6 {
			t.Fatalf("kernel not symmetric at %d: %v vs %v", j, k[j], k[total-j])
		}
	}

	var sum float64
	for j := range total {
		sum += float64(k[j])
	}
	if math.Abs(sum/factor-1) > 1e-4 {
		t.Errorf("kernel DC gain = %v, want 1", sum/factor)
	}

	center := total / 2
	for j, v := range k {
		if v > k[center] {
			t.Fatalf("kernel[%d] = %v exceeds center %v", j, v, k[center])
		}
	}
}

func TestMakeWindow(t *testing.T) {
	t.Parallel()

	for _, wf := range []WindowFunction{BlackmanHarris2, BlackmanHarris, Hann} {
		w := makeWindow(101, wf)
		if math.Abs(w[50]-1) > 1e-3 {
			t.Errorf("%s: center = %v, want ≈1", wf, w[50])
		}
		if w[0] > 1e-3 || w[100] > 1e-3 {
			t.Errorf("%s: edges = %v, %v, want ≈0", wf, w[0], w[100])
		}
	}

	if got := makeWindow(1, Hann); len(got) != 1 || got[0] != 1 {
		t.Errorf("makeWindow(1) = %v, want [1]", got)
	}
}

func BenchmarkResample_44100To16000(b *testing.B) {
	in := audiotest.Sine(44100, 1, 44100, 440, 0.5)
	params := DefaultSincParams()
	ctx := context.Background()

	for b.Loop() {
		if _, err := Resample(ctx, in, 44100, 16000, params); err != nil {
			b.Fatal(err)
		}
	}
}
