package builtin

import (
	"context"
	"fmt"
	"math"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/node"
)

// FilterMetadata describes the filter node type.
func FilterMetadata() node.Metadata {
	return node.Metadata{
		ID:          "filter",
		DisplayName: "Filter",
		Category:    "transform",
		Inputs:      []node.Port{{ID: "main", Label: "Signal", Type: node.DataTypeAny}},
		Outputs:     []node.Port{{ID: "main", Label: "Signal", Type: node.DataTypeAny}},
		Params: []node.ParamSpec{
			{Name: "type", Type: node.ParamEnum, Default: "lowpass", Enum: []string{"lowpass", "highpass", "bandpass"}},
			{Name: "cutoff_hz", Type: node.ParamNumber, Default: 1000.0},
			{Name: "q", Type: node.ParamNumber, Default: 0.707},
			{Name: "sample_rate", Type: node.ParamNumber, Default: 48000.0},
		},
	}
}

// biquadCoeffs are the direct-form-1 biquad coefficients, normalized so
// a0 == 1.
type biquadCoeffs struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// Filter is a second-order IIR filter (RBJ cookbook biquad) applied
// independently to every channel of a Frame. Each channel keeps its own
// delay-line state across Process calls, since channel count is not
// known until the first Frame arrives.
type Filter struct {
	kind       string
	cutoffHz   float64
	q          float64
	sampleRate float64
	coeffs     biquadCoeffs

	state map[string]*biquadState
}

type biquadState struct {
	x1, x2, y1, y2 float64
}

var _ node.Executor = (*Filter)(nil)

// Configure validates parameters and precomputes the biquad coefficients.
func (f *Filter) Configure(params map[string]any) error {
	kind, err := stringParam(params, "type", "lowpass")
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	switch kind {
	case "lowpass", "highpass", "bandpass":
	default:
		return fmt.Errorf("%w: unknown filter type %q", errkind.ErrInvalidConfig, kind)
	}

	cutoff, err := floatParam(params, "cutoff_hz", 1000.0)
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	q, err := floatParam(params, "q", 0.707)
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	if q <= 0 {
		return fmt.Errorf("%w: q must be positive, got %v", errkind.ErrInvalidConfig, q)
	}
	rate, err := floatParam(params, "sample_rate", 48000.0)
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	if rate <= 0 {
		return fmt.Errorf("%w: sample_rate must be positive, got %v", errkind.ErrInvalidConfig, rate)
	}
	if cutoff <= 0 || cutoff >= rate/2 {
		return fmt.Errorf("%w: cutoff_hz must be in (0, sample_rate/2), got %v", errkind.ErrInvalidConfig, cutoff)
	}

	f.kind = kind
	f.cutoffHz = cutoff
	f.q = q
	f.sampleRate = rate
	f.coeffs = computeBiquad(kind, cutoff, q, rate)
	f.state = make(map[string]*biquadState)
	return nil
}

// computeBiquad derives normalized biquad coefficients using the RBJ
// audio cookbook formulas.
func computeBiquad(kind string, cutoffHz, q, sampleRate float64) biquadCoeffs {
	omega := 2 * math.Pi * cutoffHz / sampleRate
	sinOmega := math.Sin(omega)
	cosOmega := math.Cos(omega)
	alpha := sinOmega / (2 * q)

	var b0, b1, b2, a0, a1, a2 float64
	switch kind {
	case "highpass":
		b0 = (1 + cosOmega) / 2
		b1 = -(1 + cosOmega)
		b2 = (1 + cosOmega) / 2
		a0 = 1 + alpha
		a1 = -2 * cosOmega
		a2 = 1 - alpha
	case "bandpass":
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cosOmega
		a2 = 1 - alpha
	default: // lowpass
		b0 = (1 - cosOmega) / 2
		b1 = 1 - cosOmega
		b2 = (1 - cosOmega) / 2
		a0 = 1 + alpha
		a1 = -2 * cosOmega
		a2 = 1 - alpha
	}

	return biquadCoeffs{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

// Process applies the configured biquad to every channel of input.
func (f *Filter) Process(ctx context.Context, input *frame.Frame) (*frame.Frame, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: filter received a nil frame", errkind.ErrProcessingError)
	}

	out := frame.New(input.TimestampUs, input.Seq)
	for _, name := range input.Channels() {
		vector, _ := input.Get(name)
		st, ok := f.state[name]
		if !ok {
			st = &biquadState{}
			f.state[name] = st
		}

		data := vector.Data()
		filtered := make([]float64, len(data))
		for i, x0 := range data {
			y0 := f.coeffs.b0*x0 + f.coeffs.b1*st.x1 + f.coeffs.b2*st.x2 - f.coeffs.a1*st.y1 - f.coeffs.a2*st.y2
			st.x2, st.x1 = st.x1, x0
			st.y2, st.y1 = st.y1, y0
			filtered[i] = y0
		}
		out.Set(name, frame.NewSharedVector(filtered))
	}
	input.Release()
	return out, nil
}

// Run delegates to Process for every received Frame.
func (f *Filter) Run(ctx context.Context, input <-chan *frame.Frame, output chan<- *frame.Frame) error {
	return runViaProcess(ctx, f, input, output)
}
