package builtin

import (
	"context"
	"testing"

	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/obs"
)

type recordingProvider struct {
	obs.Provider
	messages []string
}

func (r *recordingProvider) Debug(ctx context.Context, msg string, attrs ...obs.Attribute) {
	r.messages = append(r.messages, msg)
}

func TestDebugSinkLogsPerChannelSummary(t *testing.T) {
	s := &DebugSink{}
	_ = s.Configure(nil)

	provider := &recordingProvider{}
	ctx := obs.ContextWithObserver(context.Background(), provider)

	f := frame.New(0, 1)
	f.Set("main", frame.NewSharedVector([]float64{1, 2, 3}))

	out, err := s.Process(ctx, f)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if out != nil {
		t.Fatalf("DebugSink.Process() should return nil output, got %v", out)
	}
	if len(provider.messages) != 1 {
		t.Fatalf("expected 1 log message, got %d", len(provider.messages))
	}
}

func TestDebugSinkHandlesMissingObserver(t *testing.T) {
	s := &DebugSink{}
	_ = s.Configure(nil)

	f := frame.New(0, 1)
	f.Set("main", frame.NewSharedVector([]float64{1}))

	if _, err := s.Process(context.Background(), f); err != nil {
		t.Fatalf("Process() without an observer should not fail, got %v", err)
	}
}

func TestDebugSinkHandlesNilFrame(t *testing.T) {
	s := &DebugSink{}
	_ = s.Configure(nil)
	if _, err := s.Process(context.Background(), nil); err != nil {
		t.Fatalf("Process(nil) error = %v", err)
	}
}
