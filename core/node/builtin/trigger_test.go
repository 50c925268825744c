package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/FYZAFH/audiotab/core/frame"
)

func TestTriggerSourceEmitsConfiguredPayload(t *testing.T) {
	s := &TriggerSource{}
	if err := s.Configure(map[string]any{"payload_value": 3.5}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	in := frame.New(1234, 7)
	out, err := s.Process(context.Background(), in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if out.TimestampUs != 1234 || out.Seq != 7 {
		t.Fatalf("output frame = %+v, want ts=1234 seq=7", out)
	}
	vector, ok := out.Get("main")
	if !ok || vector.Data()[0] != 3.5 {
		t.Fatalf("output channel main = %v, want [3.5]", vector)
	}
	if tag, _ := out.Meta("event"); tag != "trigger" {
		t.Fatalf("event metadata = %q, want trigger", tag)
	}
}

func TestTriggerSourceDefaultsPayload(t *testing.T) {
	s := &TriggerSource{}
	if err := s.Configure(nil); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	out, _ := s.Process(context.Background(), nil)
	vector, _ := out.Get("main")
	if vector.Data()[0] != 1.0 {
		t.Fatalf("default payload_value = %v, want 1.0", vector.Data()[0])
	}
}

func TestTriggerSourceRejectsNegativeInterval(t *testing.T) {
	s := &TriggerSource{}
	if err := s.Configure(map[string]any{"interval_ms": -5.0}); err == nil {
		t.Fatalf("Configure() with negative interval_ms should fail")
	}
}

func TestTriggerSourceDrivesSelfOnlyWithPositiveInterval(t *testing.T) {
	s := &TriggerSource{}
	if err := s.Configure(nil); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if s.DrivesSelf() {
		t.Fatalf("DrivesSelf() = true with default config, want false")
	}

	if err := s.Configure(map[string]any{"interval_ms": 5.0}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if !s.DrivesSelf() {
		t.Fatalf("DrivesSelf() = false with interval_ms=5, want true")
	}
}

func TestTriggerSourceRunFiresPeriodicallyWithoutInput(t *testing.T) {
	s := &TriggerSource{}
	if err := s.Configure(map[string]any{"payload_value": 2.0, "interval_ms": 5.0}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	input := make(chan *frame.Frame)
	output := make(chan *frame.Frame, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx, input, output) }()

	select {
	case out := <-output:
		vector, ok := out.Get("main")
		if !ok || vector.Data()[0] != 2.0 {
			t.Fatalf("output channel main = %v, want [2.0]", vector)
		}
		if out.Seq == 0 {
			t.Fatalf("output Seq = 0, want a positive, monotonically assigned sequence id")
		}
	case <-time.After(time.Second):
		t.Fatalf("Run() produced no output from its own ticker with no input Frame")
	}

	cancel()
	if err := <-runErr; err != context.Canceled {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}
