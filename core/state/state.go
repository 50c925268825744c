package state

import "time"

// Phase names the broad variant of a PipelineState. It exists primarily so
// CanTransition can operate on a simple comparable value; the rich payload
// per phase lives alongside it in PipelineState.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseInitializing Phase = "initializing"
	PhaseRunning      Phase = "running"
	PhasePaused       Phase = "paused"
	PhaseCompleted    Phase = "completed"
	PhaseError        Phase = "error"
)

// PipelineState is an immutable value carrying the variant data for whatever
// phase it represents. Only the fields relevant to Phase are meaningful;
// the rest are zero. Transitions never mutate a PipelineState in place —
// they produce a new value, checked against CanTransition first.
type PipelineState struct {
	Phase Phase

	// Initializing
	Progress int

	// Running
	StartTime      time.Time
	FramesProcessed uint64

	// Paused
	PauseTime time.Time

	// Completed
	Duration    time.Duration
	TotalFrames uint64

	// Error
	Message     string
	Recoverable bool
}

// Idle is the initial state of every pipeline before start.
func Idle() PipelineState {
	return PipelineState{Phase: PhaseIdle}
}

// Initializing reports deployment progress as a 0..100 percentage.
func Initializing(progress int) PipelineState {
	return PipelineState{Phase: PhaseInitializing, Progress: progress}
}

// Running carries the wall-clock start time and a live frame counter.
func Running(startTime time.Time, framesProcessed uint64) PipelineState {
	return PipelineState{Phase: PhaseRunning, StartTime: startTime, FramesProcessed: framesProcessed}
}

// Paused carries the time the pipeline was paused.
func Paused(pauseTime time.Time) PipelineState {
	return PipelineState{Phase: PhasePaused, PauseTime: pauseTime}
}

// Completed carries total run duration and total frames observed at the
// source node.
func Completed(duration time.Duration, totalFrames uint64) PipelineState {
	return PipelineState{Phase: PhaseCompleted, Duration: duration, TotalFrames: totalFrames}
}

// Error carries a human-readable message and whether the failure is
// recoverable (e.g. retried by redeploying) or terminal.
func Error(message string, recoverable bool) PipelineState {
	return PipelineState{Phase: PhaseError, Message: message, Recoverable: recoverable}
}

// allowed enumerates every (from, to) phase pair permitted by the pipeline
// lifecycle in §4.5 together with the pause/resume control-surface actions.
// Completed -> Completed is explicitly included so that calling stop on an
// already-completed pipeline is a no-op rather than a rejected transition.
var allowed = map[Phase]map[Phase]bool{
	PhaseIdle: {
		PhaseInitializing: true,
	},
	PhaseInitializing: {
		PhaseRunning: true,
		PhaseError:   true,
	},
	PhaseRunning: {
		PhasePaused:    true,
		PhaseCompleted: true,
		PhaseError:     true,
	},
	PhasePaused: {
		PhaseRunning:   true,
		PhaseCompleted: true,
	},
	PhaseCompleted: {
		PhaseCompleted: true,
	},
	PhaseError: {},
}

// CanTransition is the pure predicate mediating every state change. It
// takes only phase tags, not full PipelineState values, because the
// variant payload never affects whether a transition is legal.
func CanTransition(current, next Phase) bool {
	targets, ok := allowed[current]
	if !ok {
		return false
	}
	return targets[next]
}
