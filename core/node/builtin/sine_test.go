package builtin

import (
	"context"
	"math"
	"testing"

	"github.com/FYZAFH/audiotab/core/frame"
)

func TestSineGeneratorProducesConfiguredBlockSize(t *testing.T) {
	g := &SineGenerator{}
	if err := g.Configure(map[string]any{
		"frequency_hz": 440.0,
		"sample_rate":  48000.0,
		"block_size":   128.0,
	}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	out, err := g.Process(context.Background(), frame.New(0, 1))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	vector, ok := out.Get("main")
	if !ok {
		t.Fatalf("output frame missing channel main")
	}
	if vector.Len() != 128 {
		t.Fatalf("Len() = %d, want 128", vector.Len())
	}
}

func TestSineGeneratorPhaseIsContinuousAcrossBlocks(t *testing.T) {
	g := &SineGenerator{}
	if err := g.Configure(map[string]any{"frequency_hz": 100.0, "sample_rate": 8000.0, "block_size": 4.0}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	_, _ = g.Process(context.Background(), nil)
	second, _ := g.Process(context.Background(), nil)

	secondData, _ := second.Get("main")

	step := 2 * math.Pi * 100.0 / 8000.0
	expected := math.Sin(4 * step) // block_size=4, phase starts at zero on a fresh Configure
	if math.Abs(secondData.Data()[0]-expected) > 1e-9 {
		t.Fatalf("second block first sample = %v, want %v (phase discontinuity)", secondData.Data()[0], expected)
	}
}

func TestSineGeneratorRejectsNonPositiveSampleRate(t *testing.T) {
	g := &SineGenerator{}
	if err := g.Configure(map[string]any{"sample_rate": 0.0}); err == nil {
		t.Fatalf("Configure() with zero sample_rate should fail")
	}
}
