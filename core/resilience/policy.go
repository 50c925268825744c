package resilience

import "time"

// ErrorPolicy controls what the shell does when a node's Process call
// returns an error for a given frame.
type ErrorPolicy string

const (
	// Propagate returns the error; the node's task terminates and the
	// pipeline moves toward the Error state.
	Propagate ErrorPolicy = "propagate"

	// SkipFrame discards the offending frame and continues with the next.
	SkipFrame ErrorPolicy = "skip_frame"

	// UseDefault emits a pre-configured default frame in place of the
	// failed one and continues.
	UseDefault ErrorPolicy = "use_default"
)

// RestartKind names the variant of a RestartStrategy.
type RestartKind string

const (
	RestartNever          RestartKind = "never"
	RestartImmediate      RestartKind = "immediate"
	RestartExponential    RestartKind = "exponential"
	RestartCircuitBreaker RestartKind = "circuit_breaker"
)

// RestartStrategy is declared per node and readable via Shell.RestartStrategy,
// but is not enforced by the shell itself — see the package doc comment and
// the TODO in shell.go. Storing and exposing it now keeps the attribute
// forward-compatible with a future supervisor loop without pretending the
// supervision exists today.
type RestartStrategy struct {
	Kind RestartKind

	// Exponential
	Base     time.Duration
	Max      time.Duration
	Attempts int

	// CircuitBreaker
	Threshold int
	Timeout   time.Duration
}

// Never means a failed node task is not restarted.
func Never() RestartStrategy { return RestartStrategy{Kind: RestartNever} }

// Immediate restarts a failed node task without delay.
func Immediate() RestartStrategy { return RestartStrategy{Kind: RestartImmediate} }

// Exponential restarts with exponential backoff up to max attempts.
func Exponential(base, max time.Duration, attempts int) RestartStrategy {
	return RestartStrategy{Kind: RestartExponential, Base: base, Max: max, Attempts: attempts}
}

// CircuitBreaker stops restarting after threshold consecutive failures
// until timeout elapses.
func CircuitBreaker(threshold int, timeout time.Duration) RestartStrategy {
	return RestartStrategy{Kind: RestartCircuitBreaker, Threshold: threshold, Timeout: timeout}
}
