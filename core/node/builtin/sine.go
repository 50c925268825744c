package builtin

import (
	"context"
	"fmt"
	"math"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/node"
)

// SineGeneratorMetadata describes the sine_generator node type.
func SineGeneratorMetadata() node.Metadata {
	return node.Metadata{
		ID:          "sine_generator",
		DisplayName: "Sine Generator",
		Category:    "source",
		Outputs:     []node.Port{{ID: "main", Label: "Signal", Type: node.DataTypeAudio}},
		Params: []node.ParamSpec{
			{Name: "frequency_hz", Type: node.ParamNumber, Default: 440.0},
			{Name: "amplitude", Type: node.ParamNumber, Default: 1.0},
			{Name: "sample_rate", Type: node.ParamNumber, Default: 48000.0},
			{Name: "block_size", Type: node.ParamNumber, Default: 512.0},
		},
	}
}

// SineGenerator is a source node producing a continuous-phase sine tone.
// It is driven by Trigger calls: every input Frame it receives (its
// contents are ignored) causes it to emit one block of samples, with
// phase continuing seamlessly from the previous block.
type SineGenerator struct {
	frequencyHz float64
	amplitude   float64
	sampleRate  float64
	blockSize   int
	phase       float64
}

var _ node.Executor = (*SineGenerator)(nil)

// Configure validates and stores the generator's parameters. A second
// call resets phase to zero, matching Configure's idempotence contract.
func (g *SineGenerator) Configure(params map[string]any) error {
	freq, err := floatParam(params, "frequency_hz", 440.0)
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	amp, err := floatParam(params, "amplitude", 1.0)
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	rate, err := floatParam(params, "sample_rate", 48000.0)
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	if rate <= 0 {
		return fmt.Errorf("%w: sample_rate must be positive, got %v", errkind.ErrInvalidConfig, rate)
	}
	block, err := intParam(params, "block_size", 512)
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	if block <= 0 {
		return fmt.Errorf("%w: block_size must be positive, got %d", errkind.ErrInvalidConfig, block)
	}

	g.frequencyHz = freq
	g.amplitude = amp
	g.sampleRate = rate
	g.blockSize = block
	g.phase = 0
	return nil
}

// Process ignores input's channel contents and produces one block of
// continuous-phase sine samples on channel "main".
func (g *SineGenerator) Process(ctx context.Context, input *frame.Frame) (*frame.Frame, error) {
	samples := make([]float64, g.blockSize)
	step := 2 * math.Pi * g.frequencyHz / g.sampleRate
	for i := range samples {
		samples[i] = g.amplitude * math.Sin(g.phase)
		g.phase += step
	}
	g.phase = math.Mod(g.phase, 2*math.Pi)

	seq := uint64(0)
	ts := int64(0)
	if input != nil {
		seq = input.Seq
		ts = input.TimestampUs
	}
	out := frame.New(ts, seq)
	out.Set("main", frame.NewSharedVector(samples))
	return out, nil
}

// Run delegates to Process for every received Frame.
func (g *SineGenerator) Run(ctx context.Context, input <-chan *frame.Frame, output chan<- *frame.Frame) error {
	return runViaProcess(ctx, g, input, output)
}
