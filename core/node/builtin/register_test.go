package builtin

import (
	"testing"

	"github.com/FYZAFH/audiotab/core/registry"
)

func TestRegisterAllRegistersEverySourceTransformSink(t *testing.T) {
	reg := registry.New()
	if err := RegisterAll(reg); err != nil {
		t.Fatalf("RegisterAll() error = %v", err)
	}
	if reg.Size() != 7 {
		t.Fatalf("Size() = %d, want 7", reg.Size())
	}
	for _, id := range []string{"sine_generator", "trigger_source", "audio_source", "gain", "fft", "filter", "debug_sink"} {
		if _, _, ok := reg.Lookup(id); !ok {
			t.Fatalf("expected node type %q to be registered", id)
		}
	}
}

func TestRegisterAllRejectsDoubleRegistration(t *testing.T) {
	reg := registry.New()
	if err := RegisterAll(reg); err != nil {
		t.Fatalf("RegisterAll() error = %v", err)
	}
	if err := RegisterAll(reg); err == nil {
		t.Fatalf("second RegisterAll() on the same registry should fail")
	}
}
