// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"testing"
)

func TestDownmixToMono_MonoPassthrough(t *testing.T) {
	t.Parallel()

	in := []float32{0.1, -0.2, 0.3}
	out, err := DownmixToMono(in, 1)
	if err != nil {
		t.Fatalf("DownmixToMono() error = %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	if &out[0] != &in[0] {
		t.Error("DownmixToMono() copied mono input, want the same slice")
	}
}

func TestDownmixToMono_StereoAverages(t *testing.T) {
	t.Parallel()

	in := []float32{0.4, 0.6, -1, 1, 0.25, 0.75, -0.5, -0.3}
	out, err := DownmixToMono(in, 2)
	if err != nil {
		t.Fatalf("DownmixToMono() error = %v", err)
	}

	if len(out) != len(in)/2 {
		t.Fatalf("len = %d, want %d", len(out), len(in)/2)
	}
	for i := range out {
		want := (in[2*i] + in[2*i+1]) / 2
		if out[i] != want {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestDownmixToMono_TrailingSampleDropped(t *testing.T) {
	t.Parallel()

	out, err := DownmixToMono([]float32{0.2, 0.4, 0.9}, 2)
	if err != nil {
		t.Fatalf("DownmixToMono() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if want := float32(0.2+0.4) / 2; out[0] != want {
		t.Errorf("out[0] = %v, want %v", out[0], want)
	}
}

func TestDownmixToMono_UnsupportedLayouts(t *testing.T) {
	t.Parallel()

	for _, ch := range []int{0, 3, 4, 6, -1} {
		_, err := DownmixToMono(make([]float32, 12), ch)
		if !errors.Is(err, ErrUnsupportedChannelLayout) {
			t.Errorf("DownmixToMono(ch=%d) error = %v, want ErrUnsupportedChannelLayout", ch, err)
		}
	}
}

func TestDownmixToMono_Empty(t *testing.T) {
	t.Parallel()

	out, err := DownmixToMono(nil, 2)
	if err != nil {
		t.Fatalf("DownmixToMono() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}

func TestBuffer_Mono(t *testing.T) {
	t.Parallel()

	stereo := &Buffer{Samples: []float32{1, 0, 0, 1}, SampleRate: 48000, Channels: 2}
	mono, err := stereo.Mono()
	if err != nil {
		t.Fatalf("Mono() error = %v", err)
	}
	if mono.Channels != 1 || mono.SampleRate != 48000 {
		t.Errorf("Mono() format = %d Hz x%d, want 48000 Hz x1", mono.SampleRate, mono.Channels)
	}
	if len(mono.Samples) != 2 || mono.Samples[0] != 0.5 || mono.Samples[1] != 0.5 {
		t.Errorf("Mono() samples = %v, want [0.5 0.5]", mono.Samples)
	}
	if len(stereo.Samples) != 4 {
		t.Error("Mono() modified the source buffer")
	}

	already := &Buffer{Samples: []float32{0.1}, SampleRate: 16000, Channels: 1}
	if got, _ := already.Mono(); got != already {
		t.Error("Mono() on a mono buffer should return it unchanged")
	}
}

func BenchmarkDownmixToMono_Stereo(b *testing.B) {
	in := make([]float32, 2*48000)
	for b.Loop() {
		_, _ = DownmixToMono(in, 2)
	}
}
