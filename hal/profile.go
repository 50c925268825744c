package hal

import (
	"fmt"

	"github.com/FYZAFH/audiotab/core/errkind"
)

// RouteKind names how a channel mapping's route derives one virtual sample
// from the physical packet buffer (§4.11).
type RouteKind string

const (
	RouteDirect    RouteKind = "direct"
	RouteReorder   RouteKind = "reorder"
	RouteMerge     RouteKind = "merge"
	RouteDuplicate RouteKind = "duplicate"
)

// Route is one entry of a ChannelMapping. Direct and reorder routes read a
// single physical source index; merge averages several; duplicate repeats
// a single physical source across Count virtual positions.
type Route struct {
	Kind    RouteKind `json:"kind"`
	Sources []int     `json:"sources"`
	Count   int       `json:"count,omitempty"`
}

// ChannelMapping routes PhysicalCount hardware channels onto VirtualCount
// pipeline channels by iterating Routes in order (§4.11).
type ChannelMapping struct {
	PhysicalCount int     `json:"physical_count"`
	VirtualCount  int     `json:"virtual_count"`
	Routes        []Route `json:"routes"`
}

// Calibration is the linear gain/offset applied to every sample of a
// mapped virtual channel: v = v*Gain + Offset.
type Calibration struct {
	Gain   float64 `json:"gain"`
	Offset float64 `json:"offset"`
}

// DeviceProfile is the persisted, user-facing description of one device
// endpoint: which driver and physical device it binds to, how it should
// be opened, and how its physical channels map onto pipeline channels.
type DeviceProfile struct {
	ProfileID    string         `json:"profile_id"`
	DriverID     string         `json:"driver_id"`
	DeviceID     string         `json:"device_id"`
	Direction    Direction      `json:"direction"`
	Alias        string         `json:"alias"`
	Enabled      bool           `json:"enabled"`
	SampleRate   int            `json:"sample_rate"`
	ChannelCount int            `json:"channel_count"`
	Format       SampleFormat   `json:"format"`
	BufferSize   int            `json:"buffer_size"`
	Mapping      ChannelMapping `json:"mapping"`
	Calibration  []Calibration  `json:"calibration"`
}

// Validate checks internal consistency of a profile's mapping and
// calibration lengths against its declared channel counts.
func (p DeviceProfile) Validate() error {
	if p.ProfileID == "" {
		return fmt.Errorf("%w: device profile missing profile_id", errkind.ErrInvalidConfig)
	}
	if p.DriverID == "" || p.DeviceID == "" {
		return fmt.Errorf("%w: device profile %q missing driver_id/device_id", errkind.ErrInvalidConfig, p.ProfileID)
	}
	if p.Mapping.PhysicalCount != p.ChannelCount {
		return fmt.Errorf("%w: device profile %q mapping physical_count %d != channel_count %d",
			errkind.ErrInvalidConfig, p.ProfileID, p.Mapping.PhysicalCount, p.ChannelCount)
	}
	if len(p.Calibration) != p.Mapping.VirtualCount {
		return fmt.Errorf("%w: device profile %q has %d calibration entries, want %d (virtual_count)",
			errkind.ErrInvalidConfig, p.ProfileID, len(p.Calibration), p.Mapping.VirtualCount)
	}

	produced := 0
	for _, route := range p.Mapping.Routes {
		switch route.Kind {
		case RouteDirect, RouteReorder:
			if len(route.Sources) != 1 {
				return fmt.Errorf("%w: device profile %q: %s route must have exactly one source", errkind.ErrInvalidConfig, p.ProfileID, route.Kind)
			}
			produced++
		case RouteMerge:
			if len(route.Sources) < 2 {
				return fmt.Errorf("%w: device profile %q: merge route needs at least two sources", errkind.ErrInvalidConfig, p.ProfileID)
			}
			produced++
		case RouteDuplicate:
			if len(route.Sources) != 1 {
				return fmt.Errorf("%w: device profile %q: duplicate route must have exactly one source", errkind.ErrInvalidConfig, p.ProfileID)
			}
			count := route.Count
			if count <= 0 {
				count = 1
			}
			produced += count
		default:
			return fmt.Errorf("%w: device profile %q: unknown route kind %q", errkind.ErrInvalidConfig, p.ProfileID, route.Kind)
		}
		for _, src := range route.Sources {
			if src < 0 || src >= p.Mapping.PhysicalCount {
				return fmt.Errorf("%w: device profile %q: route source index %d out of range [0,%d)",
					errkind.ErrInvalidConfig, p.ProfileID, src, p.Mapping.PhysicalCount)
			}
		}
	}
	if produced != p.Mapping.VirtualCount {
		return fmt.Errorf("%w: device profile %q routes produce %d virtual channels, want %d",
			errkind.ErrInvalidConfig, p.ProfileID, produced, p.Mapping.VirtualCount)
	}

	return nil
}
