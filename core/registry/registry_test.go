package registry

import (
	"context"
	"testing"

	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/node"
)

type stubExecutor struct{}

func (stubExecutor) Configure(map[string]any) error { return nil }
func (stubExecutor) Process(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return f, nil
}
func (stubExecutor) Run(ctx context.Context, in <-chan *frame.Frame, out chan<- *frame.Frame) error {
	return nil
}

func stubMetadata(id string) node.Metadata {
	return node.Metadata{ID: id, DisplayName: id, Category: "test"}
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()

	if err := r.Register(stubMetadata("sine"), func() node.Executor { return stubExecutor{} }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	metadata, factory, ok := r.Lookup("sine")
	if !ok {
		t.Fatalf("Lookup(sine) not found")
	}
	if metadata.ID != "sine" {
		t.Fatalf("metadata.ID = %q, want sine", metadata.ID)
	}
	if factory() == nil {
		t.Fatalf("factory() returned nil executor")
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := New()
	factory := func() node.Executor { return stubExecutor{} }

	if err := r.Register(stubMetadata("gain"), factory); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := r.Register(stubMetadata("gain"), factory); err == nil {
		t.Fatalf("second Register() with same id should fail")
	}
}

func TestNewUnknownType(t *testing.T) {
	r := New()
	if _, err := r.New("does-not-exist"); err == nil {
		t.Fatalf("New() for unknown type should fail")
	}
}

func TestAllSortedByID(t *testing.T) {
	r := New()
	factory := func() node.Executor { return stubExecutor{} }
	_ = r.Register(stubMetadata("zeta"), factory)
	_ = r.Register(stubMetadata("alpha"), factory)

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d entries, want 2", len(all))
	}
	if all[0].ID != "alpha" || all[1].ID != "zeta" {
		t.Fatalf("All() not sorted: got %v", all)
	}
}
