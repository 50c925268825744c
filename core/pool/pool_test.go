package pool

import (
	"context"
	"testing"
	"time"

	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/graph"
	"github.com/FYZAFH/audiotab/core/metrics"
	"github.com/FYZAFH/audiotab/core/node"
	"github.com/FYZAFH/audiotab/core/pipeline"
	"github.com/FYZAFH/audiotab/core/registry"
)

type passthrough struct{}

func (passthrough) Configure(map[string]any) error { return nil }
func (passthrough) Process(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return f, nil
}
func (passthrough) Run(ctx context.Context, in <-chan *frame.Frame, out chan<- *frame.Frame) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-in:
			if !ok {
				return nil
			}
			select {
			case out <- f:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func buildPipeline(t *testing.T, id string) *pipeline.Pipeline {
	t.Helper()
	reg := registry.New()
	_ = reg.Register(node.Metadata{
		ID:      "pass",
		Inputs:  []node.Port{{ID: "main", Type: node.DataTypeAny}},
		Outputs: []node.Port{{ID: "main", Type: node.DataTypeAny}},
	}, func() node.Executor { return passthrough{} })
	_ = reg.Register(node.Metadata{
		ID:     "end",
		Inputs: []node.Port{{ID: "main", Type: node.DataTypeAny}},
	}, func() node.Executor { return passthrough{} })

	doc := graph.Document{
		Nodes:       []graph.NodeDecl{{ID: "a", Type: "pass"}, {ID: "b", Type: "end"}},
		Connections: []graph.ConnectionDecl{{From: "a", To: "b"}},
	}
	compiled, err := graph.Load(doc, reg)
	if err != nil {
		t.Fatalf("graph.Load() error = %v", err)
	}
	return pipeline.New(id, compiled, metrics.NewCollector(id))
}

func TestPoolDeployWithinCapacity(t *testing.T) {
	pl := New(2)
	ctx := context.Background()

	p1 := buildPipeline(t, "p1")
	if err := pl.Deploy(ctx, p1); err != nil {
		t.Fatalf("Deploy(p1) error = %v", err)
	}
	if _, ok := pl.Get("p1"); !ok {
		t.Fatalf("Get(p1) not found after Deploy")
	}

	if err := pl.Remove(ctx, "p1"); err != nil {
		t.Fatalf("Remove(p1) error = %v", err)
	}
}

func TestPoolDeployBlocksBeyondCapacity(t *testing.T) {
	pl := New(1)
	ctx := context.Background()

	p1 := buildPipeline(t, "p1")
	if err := pl.Deploy(ctx, p1); err != nil {
		t.Fatalf("Deploy(p1) error = %v", err)
	}

	p2 := buildPipeline(t, "p2")
	deployCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if err := pl.Deploy(deployCtx, p2); err == nil {
		t.Fatalf("Deploy(p2) should have blocked and timed out beyond capacity")
	}

	_ = pl.Remove(ctx, "p1")
}

func TestPoolIDsSorted(t *testing.T) {
	pl := New(2)
	ctx := context.Background()
	_ = pl.Deploy(ctx, buildPipeline(t, "zeta"))
	_ = pl.Deploy(ctx, buildPipeline(t, "alpha"))

	ids := pl.IDs()
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "zeta" {
		t.Fatalf("IDs() = %v, want alpha before zeta", ids)
	}

	_ = pl.Remove(ctx, "zeta")
	_ = pl.Remove(ctx, "alpha")
}
