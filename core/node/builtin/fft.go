package builtin

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/node"
)

// FFTMetadata describes the fft node type.
func FFTMetadata() node.Metadata {
	return node.Metadata{
		ID:          "fft",
		DisplayName: "FFT",
		Category:    "transform",
		Inputs:      []node.Port{{ID: "main", Label: "Signal", Type: node.DataTypeAny}},
		Outputs:     []node.Port{{ID: "main", Label: "Spectrum", Type: node.DataTypeSpectrum}},
		Params: []node.ParamSpec{
			{Name: "window", Type: node.ParamEnum, Default: "hann", Enum: []string{"rectangular", "hann", "hamming"}},
		},
	}
}

// FFT transforms channel "main" of an input Frame into a magnitude
// spectrum on output channel "main". The input is zero-padded up to the
// next power of two; the output carries N/2+1 bins (DC through Nyquist).
type FFT struct {
	window string

	scratch     *frame.BufferPool
	scratchSize int
}

var _ node.Executor = (*FFT)(nil)

// Configure validates the window function name.
func (f *FFT) Configure(params map[string]any) error {
	window, err := stringParam(params, "window", "hann")
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	switch window {
	case "rectangular", "hann", "hamming":
		f.window = window
	default:
		return fmt.Errorf("%w: unknown window %q", errkind.ErrInvalidConfig, window)
	}
	return nil
}

// Process runs a windowed FFT over channel "main" and publishes its
// magnitude spectrum on output channel "main".
func (f *FFT) Process(ctx context.Context, input *frame.Frame) (*frame.Frame, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: fft received a nil frame", errkind.ErrProcessingError)
	}
	vector, ok := input.Get("main")
	if !ok {
		return nil, fmt.Errorf("%w: fft input frame has no channel %q", errkind.ErrProcessingError, "main")
	}

	samples := vector.Data()
	n := nextPowerOfTwo(len(samples))

	if f.scratch == nil || f.scratchSize != n {
		f.scratch = frame.NewBufferPool(n)
		f.scratchSize = n
	}
	windowedReal := f.scratch.Acquire()
	defer windowedReal.Release()

	real := windowedReal.Buf()
	for i := 0; i < n; i++ {
		if i < len(samples) {
			real[i] = samples[i] * windowCoefficient(f.window, i, len(samples))
		}
	}

	windowed := make([]complex128, n)
	for i, v := range real {
		windowed[i] = complex(v, 0)
	}

	spectrum := fft(windowed)
	bins := n/2 + 1
	magnitudes := make([]float64, bins)
	for i := 0; i < bins; i++ {
		magnitudes[i] = cmplx.Abs(spectrum[i]) / float64(n)
	}

	input.Release()
	out := frame.New(input.TimestampUs, input.Seq)
	out.Set("main", frame.NewSharedVector(magnitudes))
	return out, nil
}

// Run delegates to Process for every received Frame.
func (f *FFT) Run(ctx context.Context, input <-chan *frame.Frame, output chan<- *frame.Frame) error {
	return runViaProcess(ctx, f, input, output)
}

func windowCoefficient(kind string, i, n int) float64 {
	if n <= 1 {
		return 1
	}
	switch kind {
	case "hann":
		return 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	case "hamming":
		return 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	default: // rectangular
		return 1
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// fft computes the discrete Fourier transform of x (len(x) a power of
// two) via recursive radix-2 Cooley-Tukey.
func fft(x []complex128) []complex128 {
	n := len(x)
	if n == 1 {
		return x
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = x[2*i]
		odd[i] = x[2*i+1]
	}

	evenT := fft(even)
	oddT := fft(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		twiddle := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n))) * oddT[k]
		out[k] = evenT[k] + twiddle
		out[k+n/2] = evenT[k] - twiddle
	}
	return out
}
