package sched

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/FYZAFH/audiotab/core/graph"
)

// Budgets are the descriptive per-level scheduling targets named in §4.9.
// They are not enforced by Queue itself — a caller may use them to flag a
// work item that sat in the queue longer than its level's budget allows.
var Budgets = map[graph.Priority]time.Duration{
	graph.PriorityCritical: 10 * time.Millisecond,
	graph.PriorityHigh:     50 * time.Millisecond,
	graph.PriorityNormal:   200 * time.Millisecond,
	graph.PriorityLow:      1000 * time.Millisecond,
}

// levelOrder is the strict priority order both queues drain in: every
// Critical item is handed out before any High item, and so on.
var levelOrder = []graph.Priority{
	graph.PriorityCritical,
	graph.PriorityHigh,
	graph.PriorityNormal,
	graph.PriorityLow,
}

// Item is one unit of schedulable work: typically a pipeline trigger
// request, tagged with the priority of the pipeline it targets.
type Item struct {
	PipelineID string
	Payload    any
	Priority   graph.Priority
	EnqueuedAt time.Time
}

// TaskFunc is the work a Submit-ed Item runs once admitted into the
// active set.
type TaskFunc func(ctx context.Context) (any, error)

// Result is one completed task's recorded outcome, returned in bulk by
// WaitAll.
type Result struct {
	Item   Item
	Output any
	Err    error
}

type queuedTask struct {
	item Item
	task TaskFunc
}

// Queue is a strict multi-level priority FIFO with two access modes over
// the same ordering:
//
//   - Push/Pop expose it as a passive queue a caller drains and executes
//     itself, in arrival order within a level and priority order across
//     levels.
//   - Submit/Start/WaitAll expose it as an active, bounded-concurrency
//     admission path (§4.9): Start's dispatch loop admits submitted
//     tasks into an active set capped at maxConcurrency, in the same
//     (priority desc, FIFO) order, frees a slot and admits the next
//     pending task as soon as one completes, and WaitAll drains both
//     the active and pending sets, returning every task's output.
//
// The two modes use independent internal level sets; a Push'd Item is
// never picked up by the dispatch loop and a Submit'd task is never
// returned by Pop.
type Queue struct {
	mu     sync.Mutex
	levels map[graph.Priority][]Item
	signal chan struct{}

	tmu        sync.Mutex
	taskLevels map[graph.Priority][]queuedTask
	taskSignal chan struct{}

	sem            *semaphore.Weighted
	maxConcurrency int64
	wg             sync.WaitGroup

	resultsMu sync.Mutex
	results   []Result
}

// NewQueue returns an empty Queue whose Submit/Start/WaitAll admission
// path runs at most maxConcurrency tasks at once. maxConcurrency <= 0 is
// treated as 1. Push/Pop are unaffected by maxConcurrency.
func NewQueue(maxConcurrency int64) *Queue {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Queue{
		levels: map[graph.Priority][]Item{
			graph.PriorityCritical: nil,
			graph.PriorityHigh:     nil,
			graph.PriorityNormal:   nil,
			graph.PriorityLow:      nil,
		},
		signal: make(chan struct{}, 1),
		taskLevels: map[graph.Priority][]queuedTask{
			graph.PriorityCritical: nil,
			graph.PriorityHigh:     nil,
			graph.PriorityNormal:   nil,
			graph.PriorityLow:      nil,
		},
		taskSignal:     make(chan struct{}, 1),
		sem:            semaphore.NewWeighted(maxConcurrency),
		maxConcurrency: maxConcurrency,
	}
}

// Push enqueues item at its declared priority level. An item with an
// unrecognized priority is enqueued at Normal.
func (q *Queue) Push(item Item) {
	if _, ok := q.levels[item.Priority]; !ok {
		item.Priority = graph.PriorityNormal
	}
	if item.EnqueuedAt.IsZero() {
		item.EnqueuedAt = time.Now()
	}

	q.mu.Lock()
	q.levels[item.Priority] = append(q.levels[item.Priority], item)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Pop removes and returns the highest-priority, oldest-enqueued item, or
// blocks until one arrives or ctx is cancelled.
func (q *Queue) Pop(ctx context.Context) (Item, bool) {
	for {
		if item, ok := q.tryPop(); ok {
			return item, true
		}
		select {
		case <-q.signal:
		case <-ctx.Done():
			return Item{}, false
		}
	}
}

func (q *Queue) tryPop() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, level := range levelOrder {
		items := q.levels[level]
		if len(items) == 0 {
			continue
		}
		item := items[0]
		q.levels[level] = items[1:]
		return item, true
	}
	return Item{}, false
}

// Len returns the total number of items sitting in the passive (Push)
// queue across all levels. It does not count Submit-ed tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	total := 0
	for _, items := range q.levels {
		total += len(items)
	}
	return total
}

// Submit enqueues task at item's priority level for bounded-concurrency
// execution. It returns immediately; task runs once Start's dispatch
// loop admits it into the active set. An item with an unrecognized
// priority is enqueued at Normal.
func (q *Queue) Submit(item Item, task TaskFunc) {
	if _, ok := q.taskLevels[item.Priority]; !ok {
		item.Priority = graph.PriorityNormal
	}
	if item.EnqueuedAt.IsZero() {
		item.EnqueuedAt = time.Now()
	}

	q.wg.Add(1)
	q.tmu.Lock()
	q.taskLevels[item.Priority] = append(q.taskLevels[item.Priority], queuedTask{item: item, task: task})
	q.tmu.Unlock()

	select {
	case q.taskSignal <- struct{}{}:
	default:
	}
}

// Start begins admitting Submit-ed tasks into the active set, in
// strict (priority desc, FIFO) order, up to maxConcurrency at a time.
// It returns immediately; the dispatch loop runs until ctx is
// cancelled, at which point any task still pending is left queued.
func (q *Queue) Start(ctx context.Context) {
	go q.dispatchLoop(ctx)
}

func (q *Queue) dispatchLoop(ctx context.Context) {
	for {
		qt, ok := q.nextTask(ctx)
		if !ok {
			return
		}
		if err := q.sem.Acquire(ctx, 1); err != nil {
			q.wg.Done()
			return
		}
		go q.runTask(ctx, qt)
	}
}

func (q *Queue) nextTask(ctx context.Context) (queuedTask, bool) {
	for {
		if qt, ok := q.tryPopTask(); ok {
			return qt, true
		}
		select {
		case <-q.taskSignal:
		case <-ctx.Done():
			return queuedTask{}, false
		}
	}
}

func (q *Queue) tryPopTask() (queuedTask, bool) {
	q.tmu.Lock()
	defer q.tmu.Unlock()
	for _, level := range levelOrder {
		items := q.taskLevels[level]
		if len(items) == 0 {
			continue
		}
		qt := items[0]
		q.taskLevels[level] = items[1:]
		return qt, true
	}
	return queuedTask{}, false
}

// runTask executes one admitted task, records its output, frees its
// active-set slot, and admits the next pending task (via dispatchLoop's
// next iteration once a slot is available).
func (q *Queue) runTask(ctx context.Context, qt queuedTask) {
	defer q.sem.Release(1)
	defer q.wg.Done()

	output, err := qt.task(ctx)

	q.resultsMu.Lock()
	q.results = append(q.results, Result{Item: qt.item, Output: output, Err: err})
	q.resultsMu.Unlock()
}

// WaitAll blocks until every task Submit-ed so far — whether still
// pending or currently active — has completed, then returns and clears
// the accumulated results (success and error outcomes alike). Callers
// that need strict batch semantics should stop submitting before
// calling WaitAll: a Submit racing with an in-flight WaitAll can extend
// the batch it waits for rather than starting a new one.
func (q *Queue) WaitAll() []Result {
	q.wg.Wait()
	q.resultsMu.Lock()
	defer q.resultsMu.Unlock()
	results := q.results
	q.results = nil
	return results
}
