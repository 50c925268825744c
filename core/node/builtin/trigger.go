package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/node"
)

// TriggerSourceMetadata describes the trigger_source node type.
func TriggerSourceMetadata() node.Metadata {
	return node.Metadata{
		ID:          "trigger_source",
		DisplayName: "Trigger Source",
		Category:    "source",
		Outputs:     []node.Port{{ID: "main", Label: "Event", Type: node.DataTypeTrigger}},
		Params: []node.ParamSpec{
			{Name: "payload_value", Type: node.ParamNumber, Default: 1.0},
			{Name: "interval_ms", Type: node.ParamNumber, Default: 0.0},
		},
	}
}

// TriggerSource emits a one-sample event Frame, tagged so downstream
// nodes can distinguish trigger events from continuous signal data.
// Per spec §4.2 it supports two firing modes: manual (the default,
// interval_ms == 0 — a Frame only comes from an external
// pipeline.Trigger call) and periodic (interval_ms > 0 — it drives
// itself off an internal ticker and treats any externally supplied
// Frame as a pacing no-op, like AudioSource).
type TriggerSource struct {
	payloadValue float64
	interval     time.Duration
	seq          uint64
}

var _ node.Executor = (*TriggerSource)(nil)
var _ node.SelfDriving = (*TriggerSource)(nil)

// Configure validates and stores the source's parameters.
func (s *TriggerSource) Configure(params map[string]any) error {
	value, err := floatParam(params, "payload_value", 1.0)
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	intervalMs, err := floatParam(params, "interval_ms", 0)
	if err != nil {
		return fmt.Errorf("%w: %s", errkind.ErrInvalidConfig, err)
	}
	if intervalMs < 0 {
		return fmt.Errorf("%w: interval_ms must not be negative, got %v", errkind.ErrInvalidConfig, intervalMs)
	}
	s.payloadValue = value
	s.interval = time.Duration(intervalMs * float64(time.Millisecond))
	s.seq = 0
	return nil
}

// DrivesSelf reports whether a positive interval_ms was configured.
func (s *TriggerSource) DrivesSelf() bool {
	return s.interval > 0
}

// Process emits a single-sample event Frame carrying the configured
// payload value, preserving input's timestamp and sequence id when one
// is supplied.
func (s *TriggerSource) Process(ctx context.Context, input *frame.Frame) (*frame.Frame, error) {
	seq := uint64(0)
	ts := int64(0)
	if input != nil {
		seq = input.Seq
		ts = input.TimestampUs
	}
	out := frame.New(ts, seq)
	out.Set("main", frame.NewSharedVector([]float64{s.payloadValue}))
	out.SetMeta("event", "trigger")
	return out, nil
}

// Run fires on every externally supplied Frame in manual mode
// (interval_ms == 0), exactly like Process via runViaProcess. In
// periodic mode it instead fires on its own ticker, assigning each
// emitted Frame a monotonically increasing sequence id and the fire
// time as its timestamp; input Frames are drained and released as
// pacing no-ops in that mode, same as AudioSource's self-driving Run.
func (s *TriggerSource) Run(ctx context.Context, input <-chan *frame.Frame, output chan<- *frame.Frame) error {
	if !s.DrivesSelf() {
		return runViaProcess(ctx, s, input, output)
	}

	go s.drainPacingFrames(ctx, input)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.seq++
			out := frame.New(now.UnixMicro(), s.seq)
			out.Set("main", frame.NewSharedVector([]float64{s.payloadValue}))
			out.SetMeta("event", "trigger")
			select {
			case output <- out:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// drainPacingFrames releases every Frame arriving on input without
// acting on it, mirroring AudioSource.drainPacingFrames for a
// self-driving periodic trigger.
func (s *TriggerSource) drainPacingFrames(ctx context.Context, input <-chan *frame.Frame) {
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-input:
			if !ok {
				return
			}
			if f != nil {
				f.Release()
			}
		}
	}
}
