package sched

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/FYZAFH/audiotab/core/graph"
)

func TestPopDrainsHigherPriorityFirst(t *testing.T) {
	q := NewQueue(4)
	q.Push(Item{PipelineID: "low-1", Priority: graph.PriorityLow})
	q.Push(Item{PipelineID: "crit-1", Priority: graph.PriorityCritical})
	q.Push(Item{PipelineID: "normal-1", Priority: graph.PriorityNormal})

	ctx := context.Background()
	first, ok := q.Pop(ctx)
	if !ok || first.PipelineID != "crit-1" {
		t.Fatalf("first pop = %+v, want crit-1", first)
	}
	second, ok := q.Pop(ctx)
	if !ok || second.PipelineID != "normal-1" {
		t.Fatalf("second pop = %+v, want normal-1", second)
	}
	third, ok := q.Pop(ctx)
	if !ok || third.PipelineID != "low-1" {
		t.Fatalf("third pop = %+v, want low-1", third)
	}
}

func TestPopPreservesFIFOWithinLevel(t *testing.T) {
	q := NewQueue(4)
	q.Push(Item{PipelineID: "a", Priority: graph.PriorityNormal})
	q.Push(Item{PipelineID: "b", Priority: graph.PriorityNormal})

	first, _ := q.Pop(context.Background())
	second, _ := q.Pop(context.Background())
	if first.PipelineID != "a" || second.PipelineID != "b" {
		t.Fatalf("pop order = %s, %s; want a, b", first.PipelineID, second.PipelineID)
	}
}

func TestPopBlocksUntilPush(t *testing.T) {
	q := NewQueue(4)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push(Item{PipelineID: "late", Priority: graph.PriorityHigh})
	}()

	item, ok := q.Pop(ctx)
	if !ok || item.PipelineID != "late" {
		t.Fatalf("Pop() = %+v, %v; want late, true", item, ok)
	}
}

func TestPopReturnsFalseOnCancel(t *testing.T) {
	q := NewQueue(4)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, ok := q.Pop(ctx); ok {
		t.Fatalf("Pop() on empty cancelled queue should return ok=false")
	}
}

func TestUnknownPriorityDefaultsToNormal(t *testing.T) {
	q := NewQueue(4)
	q.Push(Item{PipelineID: "x", Priority: graph.Priority("bogus")})
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
	item, ok := q.Pop(context.Background())
	if !ok || item.Priority != graph.PriorityNormal {
		t.Fatalf("item priority = %v, want Normal", item.Priority)
	}
}

func TestSubmitBoundsActiveConcurrency(t *testing.T) {
	q := NewQueue(2)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Start(ctx)

	var active, maxSeen int32
	release := make(chan struct{})
	for i := 0; i < 5; i++ {
		q.Submit(Item{PipelineID: "t", Priority: graph.PriorityNormal}, func(ctx context.Context) (any, error) {
			n := atomic.AddInt32(&active, 1)
			for {
				old := atomic.LoadInt32(&maxSeen)
				if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&active, -1)
			return nil, nil
		})
	}

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&maxSeen); got > 2 {
		t.Fatalf("observed active concurrency %d, want <= 2 (maxConcurrency)", got)
	}
	close(release)

	results := q.WaitAll()
	if len(results) != 5 {
		t.Fatalf("WaitAll() returned %d results, want 5", len(results))
	}
}

func TestWaitAllDrainsPendingAndActiveAndReturnsOutputs(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	var mu sync.Mutex
	seen := make(map[string]bool)

	for _, id := range []string{"a", "b", "c"} {
		id := id
		q.Submit(Item{PipelineID: id, Priority: graph.PriorityNormal}, func(ctx context.Context) (any, error) {
			mu.Lock()
			seen[id] = true
			mu.Unlock()
			if id == "b" {
				return nil, errors.New("boom")
			}
			return id, nil
		})
	}

	results := q.WaitAll()
	if len(results) != 3 {
		t.Fatalf("WaitAll() returned %d results, want 3", len(results))
	}
	for _, r := range results {
		if r.Item.PipelineID == "b" && r.Err == nil {
			t.Fatalf("result for b should carry its task's error")
		}
	}
	mu.Lock()
	defer mu.Unlock()
	for _, id := range []string{"a", "b", "c"} {
		if !seen[id] {
			t.Fatalf("task %s never ran; WaitAll returned before draining both sets", id)
		}
	}
}
