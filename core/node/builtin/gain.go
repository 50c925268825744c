package builtin

import (
	"context"
	"fmt"
	"math"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/node"
)

// GainMetadata describes the gain node type.
func GainMetadata() node.Metadata {
	return node.Metadata{
		ID:          "gain",
		DisplayName: "Gain",
		Category:    "transform",
		Inputs:      []node.Port{{ID: "main", Label: "Signal", Type: node.DataTypeAny}},
		Outputs:     []node.Port{{ID: "main", Label: "Signal", Type: node.DataTypeAny}},
		Params: []node.ParamSpec{
			{Name: "gain_db", Type: node.ParamNumber, Default: 0.0},
		},
	}
}

// Gain scales every channel of a Frame by a configured decibel gain.
type Gain struct {
	linear float64
}

var _ node.Executor = (*Gain)(nil)

// Configure converts gain_db to a linear multiplier.
func (g *Gain) Configure(params map[string]any) error {
	db, err := floatParam(params, "gain_db", 0.0)
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	g.linear = math.Pow(10, db/20)
	return nil
}

// Process multiplies every sample of every channel by the configured
// linear gain, producing fresh SharedVectors rather than mutating input's.
func (g *Gain) Process(ctx context.Context, input *frame.Frame) (*frame.Frame, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: gain received a nil frame", errkind.ErrProcessingError)
	}

	out := frame.New(input.TimestampUs, input.Seq)
	for _, name := range input.Channels() {
		vector, _ := input.Get(name)
		data := vector.Data()
		scaled := make([]float64, len(data))
		for i, v := range data {
			scaled[i] = v * g.linear
		}
		out.Set(name, frame.NewSharedVector(scaled))
	}
	input.Release()
	return out, nil
}

// Run delegates to Process for every received Frame.
func (g *Gain) Run(ctx context.Context, input <-chan *frame.Frame, output chan<- *frame.Frame) error {
	return runViaProcess(ctx, g, input, output)
}
