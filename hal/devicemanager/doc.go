// Package devicemanager implements hal.Manager: it owns the set of
// currently-running hal.Device instances, persists hal.DeviceProfile
// records as newline-delimited JSON, and watches the profile file with
// fsnotify so that profile edits take effect without a process restart.
// All bookkeeping is serialized behind a single mutex; device I/O itself
// happens on the hardware driver's own goroutines.
package devicemanager
