// Package resilience implements the transparent shell that wraps every
// node.Executor before the pipeline executor spawns it: it times each
// frame, records metrics, and applies the node's configured error policy.
// It also carries a RestartStrategy value, declared per node but — per the
// spec's own open question — not yet enforced by any supervisor loop; see
// the TODO on Shell.RestartStrategy.
package resilience
