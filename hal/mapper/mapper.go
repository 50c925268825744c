package mapper

import (
	"fmt"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/hal"
)

// Apply routes interleaved physical samples (frameCount frames of
// mapping.PhysicalCount channels each) into mapping.VirtualCount planar
// float64 slices, applying each virtual channel's calibration in the same
// pass. Routes are walked in order; direct and reorder routes copy a
// single physical channel, merge averages several, and duplicate repeats
// one physical channel across Count consecutive virtual outputs.
func Apply(physical []float64, frameCount int, mapping hal.ChannelMapping, calibration []hal.Calibration) ([][]float64, error) {
	if len(physical) != frameCount*mapping.PhysicalCount {
		return nil, fmt.Errorf("%w: physical sample count %d != frames %d * physical_count %d",
			errkind.ErrProcessingError, len(physical), frameCount, mapping.PhysicalCount)
	}
	if len(calibration) != mapping.VirtualCount {
		return nil, fmt.Errorf("%w: calibration count %d != virtual_count %d",
			errkind.ErrProcessingError, len(calibration), mapping.VirtualCount)
	}

	virtual := make([][]float64, mapping.VirtualCount)
	for i := range virtual {
		virtual[i] = make([]float64, frameCount)
	}

	virtualIndex := 0
	for _, route := range mapping.Routes {
		switch route.Kind {
		case hal.RouteDirect, hal.RouteReorder:
			if len(route.Sources) != 1 {
				return nil, fmt.Errorf("%w: %s route must carry exactly one source index, got %d",
					errkind.ErrInvalidConfig, route.Kind, len(route.Sources))
			}
			src := route.Sources[0]
			if err := checkPhysicalIndex(src, mapping.PhysicalCount); err != nil {
				return nil, err
			}
			if err := checkVirtualSlot(virtualIndex, mapping.VirtualCount); err != nil {
				return nil, err
			}
			fillDirect(virtual[virtualIndex], physical, frameCount, mapping.PhysicalCount, src)
			virtualIndex++
		case hal.RouteMerge:
			if len(route.Sources) < 2 {
				return nil, fmt.Errorf("%w: merge route needs at least two source indices, got %d",
					errkind.ErrInvalidConfig, len(route.Sources))
			}
			for _, src := range route.Sources {
				if err := checkPhysicalIndex(src, mapping.PhysicalCount); err != nil {
					return nil, err
				}
			}
			if err := checkVirtualSlot(virtualIndex, mapping.VirtualCount); err != nil {
				return nil, err
			}
			fillMerge(virtual[virtualIndex], physical, frameCount, mapping.PhysicalCount, route.Sources)
			virtualIndex++
		case hal.RouteDuplicate:
			if len(route.Sources) != 1 {
				return nil, fmt.Errorf("%w: duplicate route must carry exactly one source index, got %d",
					errkind.ErrInvalidConfig, len(route.Sources))
			}
			src := route.Sources[0]
			if err := checkPhysicalIndex(src, mapping.PhysicalCount); err != nil {
				return nil, err
			}
			count := route.Count
			if count <= 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				if err := checkVirtualSlot(virtualIndex, mapping.VirtualCount); err != nil {
					return nil, err
				}
				fillDirect(virtual[virtualIndex], physical, frameCount, mapping.PhysicalCount, src)
				virtualIndex++
			}
		default:
			return nil, fmt.Errorf("%w: unknown route kind %q", errkind.ErrProcessingError, route.Kind)
		}
	}

	if virtualIndex != mapping.VirtualCount {
		return nil, fmt.Errorf("%w: routes produced %d virtual channels, want %d",
			errkind.ErrProcessingError, virtualIndex, mapping.VirtualCount)
	}

	for i, cal := range calibration {
		calibrate(virtual[i], cal)
	}

	return virtual, nil
}

// checkPhysicalIndex validates a route source index against the packet's
// declared physical channel count (§4.11: "out-of-range physical index").
func checkPhysicalIndex(src, physicalCount int) error {
	if src < 0 || src >= physicalCount {
		return fmt.Errorf("%w: route source index %d out of range [0,%d)",
			errkind.ErrInvalidConfig, src, physicalCount)
	}
	return nil
}

// checkVirtualSlot validates that a route still has a virtual output slot
// left to fill, catching a route list that overproduces relative to
// mapping.VirtualCount before it can index past the end of virtual.
func checkVirtualSlot(virtualIndex, virtualCount int) error {
	if virtualIndex >= virtualCount {
		return fmt.Errorf("%w: routes produce more than virtual_count %d channels",
			errkind.ErrInvalidConfig, virtualCount)
	}
	return nil
}

func fillDirect(dst []float64, physical []float64, frameCount, physicalCount, src int) {
	for frame := 0; frame < frameCount; frame++ {
		dst[frame] = physical[frame*physicalCount+src]
	}
}

func fillMerge(dst []float64, physical []float64, frameCount, physicalCount int, sources []int) {
	n := float64(len(sources))
	for frame := 0; frame < frameCount; frame++ {
		sum := 0.0
		for _, src := range sources {
			sum += physical[frame*physicalCount+src]
		}
		dst[frame] = sum / n
	}
}

func calibrate(channel []float64, cal hal.Calibration) {
	for i, v := range channel {
		channel[i] = v*cal.Gain + cal.Offset
	}
}
