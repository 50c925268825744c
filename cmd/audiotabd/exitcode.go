package main

import (
	"errors"

	"github.com/FYZAFH/audiotab/core/errkind"
)

// exitCodeFor maps an error returned from the command tree to the exit
// codes spec §6 assigns a CLI host: 1 invalid graph, 2 device failure,
// 3 everything else.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, errkind.ErrInvalidGraph):
		return exitInvalidGraph
	case errors.Is(err, errkind.ErrDeviceError):
		return exitDeviceError
	default:
		return exitRuntimeFault
	}
}
