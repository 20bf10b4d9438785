// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// WindowFunction selects the taper applied to the sinc kernel.
type WindowFunction int

const (
	// BlackmanHarris2 is the 4-term Blackman-Harris window squared.
	BlackmanHarris2 WindowFunction = iota
	BlackmanHarris
	Hann
)

func (w WindowFunction) String() string {
	switch w {
	case BlackmanHarris2:
		return "blackman-harris2"
	case BlackmanHarris:
		return "blackman-harris"
	case Hann:
		return "hann"
	default:
		return "unknown"
	}
}

// makeWindow returns a symmetric window of npoints values.
func makeWindow(npoints int, wf WindowFunction) []float64 {
	w := make([]float64, npoints)
	if npoints == 1 {
		w[0] = 1
		return w
	}

	n := float64(npoints - 1)
	for i := range w {
		x := float64(i) / n
		switch wf {
		case Hann:
			w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*x)
		case BlackmanHarris:
			w[i] = blackmanHarris(x)
		default:
			v := blackmanHarris(x)
			w[i] = v * v
		}
	}
	return w
}

func blackmanHarris(x float64) float64 {
	const (
		a0 = 0.35875
		a1 = 0.48829
		a2 = 0.14128
		a3 = 0.01168
	)
	return a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x) - a3*math.Cos(6*math.Pi*x)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// makeKernel samples a windowed sinc of sincLen taps at oversampling points
// per tap. Entry j is the weight for an input sample at distance
// j/oversampling - sincLen/2 from the output position. The extra final entry
// lets linear interpolation read one step past the last tap. The kernel is
// scaled for unity gain at DC.
func makeKernel(sincLen, oversampling int, cutoff float64, wf WindowFunction) []float32 {
	total := sincLen * oversampling
	win := makeWindow(total+1, wf)
	half := float64(sincLen) / 2

	raw := make([]float64, total+1)
	var sum float64
	for j := range raw {
		x := float64(j)/float64(oversampling) - half
		raw[j] = cutoff * sinc(cutoff*x) * win[j]
		if j < total {
			sum += raw[j]
		}
	}

	scale := float64(oversampling) / sum
	kernel := make([]float32, total+1)
	for j, v := range raw {
		kernel[j] = float32(v * scale)
	}
	return kernel
}
