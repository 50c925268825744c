package builtin

import (
	"context"
	"math"

	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/node"
	"github.com/FYZAFH/audiotab/core/obs"
)

// DebugSinkMetadata describes the debug_sink node type.
func DebugSinkMetadata() node.Metadata {
	return node.Metadata{
		ID:          "debug_sink",
		DisplayName: "Debug Sink",
		Category:    "sink",
		Inputs:      []node.Port{{ID: "main", Label: "Signal", Type: node.DataTypeAny}},
	}
}

// DebugSink logs per-channel length, mean, and RMS for every Frame it
// receives, using whatever obs.Provider is attached to the processing
// context. It has no parameters.
type DebugSink struct{}

var _ node.Executor = (*DebugSink)(nil)

// Configure accepts no parameters.
func (s *DebugSink) Configure(params map[string]any) error { return nil }

// Process logs a summary of every channel in input and returns nil,
// since a sink produces no output Frame.
func (s *DebugSink) Process(ctx context.Context, input *frame.Frame) (*frame.Frame, error) {
	if input == nil {
		return nil, nil
	}
	defer input.Release()

	observer := obs.ObserverFromContext(ctx)
	if observer == nil {
		return nil, nil
	}

	for _, name := range input.Channels() {
		vector, _ := input.Get(name)
		data := vector.Data()
		mean, rms := summarize(data)
		observer.Debug(ctx, "frame channel summary",
			obs.Int64(obs.AttrFrameSeq, int64(input.Seq)),
			obs.String("channel", name),
			obs.Int("samples", len(data)),
			obs.Float64("mean", mean),
			obs.Float64("rms", rms),
		)
	}
	return nil, nil
}

// Run delegates to Process for every received Frame.
func (s *DebugSink) Run(ctx context.Context, input <-chan *frame.Frame, output chan<- *frame.Frame) error {
	return runViaProcess(ctx, s, input, output)
}

func summarize(data []float64) (mean, rms float64) {
	if len(data) == 0 {
		return 0, 0
	}
	var sum, sumSq float64
	for _, v := range data {
		sum += v
		sumSq += v * v
	}
	n := float64(len(data))
	return sum / n, math.Sqrt(sumSq / n)
}
