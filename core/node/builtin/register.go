package builtin

import (
	"github.com/FYZAFH/audiotab/core/node"
	"github.com/FYZAFH/audiotab/core/registry"
)

// RegisterAll registers every built-in node type under reg. It is the
// catalog a fresh deployment host starts from; callers may register
// additional, deployment-specific node types alongside it.
func RegisterAll(reg *registry.Registry) error {
	entries := []struct {
		metadata node.Metadata
		factory  node.Factory
	}{
		{SineGeneratorMetadata(), func() node.Executor { return &SineGenerator{} }},
		{TriggerSourceMetadata(), func() node.Executor { return &TriggerSource{} }},
		{AudioSourceMetadata(), func() node.Executor { return &AudioSource{} }},
		{GainMetadata(), func() node.Executor { return &Gain{} }},
		{FFTMetadata(), func() node.Executor { return &FFT{} }},
		{FilterMetadata(), func() node.Executor { return &Filter{} }},
		{DebugSinkMetadata(), func() node.Executor { return &DebugSink{} }},
	}

	for _, entry := range entries {
		if err := reg.Register(entry.metadata, entry.factory); err != nil {
			return err
		}
	}
	return nil
}
