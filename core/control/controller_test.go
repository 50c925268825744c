package control

import (
	"context"
	"testing"
	"time"

	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/graph"
	"github.com/FYZAFH/audiotab/core/node"
	"github.com/FYZAFH/audiotab/core/pool"
	"github.com/FYZAFH/audiotab/core/registry"
)

type echoExecutor struct{}

func (echoExecutor) Configure(map[string]any) error { return nil }
func (echoExecutor) Process(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return f, nil
}
func (echoExecutor) Run(ctx context.Context, in <-chan *frame.Frame, out chan<- *frame.Frame) error {
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

func buildRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	if err := reg.Register(node.Metadata{
		ID:      "echo",
		Inputs:  []node.Port{{ID: "main", Type: node.DataTypeAny}},
		Outputs: []node.Port{{ID: "main", Type: node.DataTypeAny}},
	}, func() node.Executor { return echoExecutor{} }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(node.Metadata{
		ID:     "sink",
		Inputs: []node.Port{{ID: "main", Type: node.DataTypeAny}},
	}, func() node.Executor { return echoExecutor{} }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return reg
}

func testDoc() graph.Document {
	return graph.Document{
		Nodes: []graph.NodeDecl{
			{ID: "in", Type: "echo"},
			{ID: "out", Type: "sink"},
		},
		Connections: []graph.ConnectionDecl{{From: "in", To: "out"}},
	}
}

func TestGetNodeRegistryReturnsSortedMetadata(t *testing.T) {
	reg := buildRegistry(t)
	c := New(reg, pool.New(4), nil, nil, nil)

	all := c.GetNodeRegistry()
	if len(all) != 2 {
		t.Fatalf("GetNodeRegistry() returned %d entries, want 2", len(all))
	}
	if all[0].ID != "echo" || all[1].ID != "sink" {
		t.Fatalf("GetNodeRegistry() = %+v, want sorted echo, sink", all)
	}
}

func TestDeployGraphAssignsIDAndAppearsInStates(t *testing.T) {
	reg := buildRegistry(t)
	c := New(reg, pool.New(4), nil, nil, nil)

	ctx := context.Background()
	id, err := c.DeployGraph(ctx, "", testDoc())
	if err != nil {
		t.Fatalf("DeployGraph() error = %v", err)
	}
	if id == "" {
		t.Fatalf("DeployGraph() returned empty id")
	}

	states := c.GetAllPipelineStates()
	if _, ok := states[id]; !ok {
		t.Fatalf("GetAllPipelineStates() missing deployed pipeline %q", id)
	}

	if err := c.ControlPipeline(ctx, id, ActionStop); err != nil {
		t.Fatalf("ControlPipeline(stop) error = %v", err)
	}
}

func TestControlPipelineUnknownIDFails(t *testing.T) {
	reg := buildRegistry(t)
	c := New(reg, pool.New(4), nil, nil, nil)

	if err := c.ControlPipeline(context.Background(), "nonexistent", ActionPause); err == nil {
		t.Fatalf("ControlPipeline() on unknown id should fail")
	}
}

func TestDiscoverHardwareWithNoDriversReturnsEmpty(t *testing.T) {
	c := New(buildRegistry(t), pool.New(4), nil, nil, nil)
	infos, err := c.DiscoverHardware(context.Background())
	if err != nil {
		t.Fatalf("DiscoverHardware() error = %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("DiscoverHardware() = %v, want empty", infos)
	}
}

func TestWatchStatesTracksDeployedPipeline(t *testing.T) {
	reg := buildRegistry(t)
	c := New(reg, pool.New(4), nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.WatchStates(ctx)

	if _, err := c.DeployGraph(ctx, "watch-test", testDoc()); err != nil {
		t.Fatalf("DeployGraph() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for c.hub.Subscribers() < 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	// WatchStates runs without panicking and GetAllPipelineStates reflects
	// the deployed pipeline; broadcast delivery itself is exercised by
	// Hub's own tests since there are no subscribers connected here.
	if _, ok := c.GetAllPipelineStates()["watch-test"]; !ok {
		t.Fatalf("expected watch-test pipeline to be tracked")
	}
}
