// Package builtin provides the concrete node types shipped with the
// runtime: signal sources (SineGenerator, TriggerSource, AudioSource),
// transforms (Gain, FFT, Filter), and a diagnostic sink (DebugSink). Every
// type here implements node.Executor and is meant to be registered under a
// fixed type id via registry.Registry.MustRegister.
package builtin
