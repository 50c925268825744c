package mapper

import (
	"math"
	"testing"

	"github.com/FYZAFH/audiotab/hal"
)

func TestApplyDirectRoutesPassThrough(t *testing.T) {
	mapping := hal.ChannelMapping{
		PhysicalCount: 2,
		VirtualCount:  2,
		Routes: []hal.Route{
			{Kind: hal.RouteDirect, Sources: []int{0}},
			{Kind: hal.RouteDirect, Sources: []int{1}},
		},
	}
	cal := []hal.Calibration{{Gain: 1}, {Gain: 1}}
	physical := []float64{1, 10, 2, 20, 3, 30}

	virtual, err := Apply(physical, 3, mapping, cal)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got, want := virtual[0], []float64{1, 2, 3}; !floatsEqual(got, want) {
		t.Fatalf("virtual[0] = %v, want %v", got, want)
	}
	if got, want := virtual[1], []float64{10, 20, 30}; !floatsEqual(got, want) {
		t.Fatalf("virtual[1] = %v, want %v", got, want)
	}
}

func TestApplyMergeAverages(t *testing.T) {
	mapping := hal.ChannelMapping{
		PhysicalCount: 2,
		VirtualCount:  1,
		Routes:        []hal.Route{{Kind: hal.RouteMerge, Sources: []int{0, 1}}},
	}
	cal := []hal.Calibration{{Gain: 1}}
	physical := []float64{2, 4}

	virtual, err := Apply(physical, 1, mapping, cal)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if virtual[0][0] != 3 {
		t.Fatalf("merged sample = %v, want 3", virtual[0][0])
	}
}

func TestApplyDuplicateReplicates(t *testing.T) {
	mapping := hal.ChannelMapping{
		PhysicalCount: 1,
		VirtualCount:  2,
		Routes:        []hal.Route{{Kind: hal.RouteDuplicate, Sources: []int{0}, Count: 2}},
	}
	cal := []hal.Calibration{{Gain: 1}, {Gain: 1}}
	physical := []float64{5}

	virtual, err := Apply(physical, 1, mapping, cal)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if virtual[0][0] != 5 || virtual[1][0] != 5 {
		t.Fatalf("duplicated channels = %v / %v, want both 5", virtual[0], virtual[1])
	}
}

func TestApplyAppliesGainAndOffset(t *testing.T) {
	mapping := hal.ChannelMapping{
		PhysicalCount: 1,
		VirtualCount:  1,
		Routes:        []hal.Route{{Kind: hal.RouteDirect, Sources: []int{0}}},
	}
	cal := []hal.Calibration{{Gain: 2, Offset: 1}}
	physical := []float64{3}

	virtual, err := Apply(physical, 1, mapping, cal)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if virtual[0][0] != 7 {
		t.Fatalf("calibrated sample = %v, want 7 (3*2+1)", virtual[0][0])
	}
}

func TestApplyRejectsMismatchedSampleCount(t *testing.T) {
	mapping := hal.ChannelMapping{PhysicalCount: 2, VirtualCount: 1, Routes: []hal.Route{{Kind: hal.RouteDirect, Sources: []int{0}}}}
	_, err := Apply([]float64{1, 2, 3}, 2, mapping, []hal.Calibration{{Gain: 1}})
	if err == nil {
		t.Fatalf("Apply() with wrong sample count should fail")
	}
}

func TestApplyRejectsOutOfRangePhysicalIndex(t *testing.T) {
	mapping := hal.ChannelMapping{
		PhysicalCount: 2,
		VirtualCount:  1,
		Routes:        []hal.Route{{Kind: hal.RouteDirect, Sources: []int{2}}},
	}
	_, err := Apply([]float64{1, 2}, 1, mapping, []hal.Calibration{{Gain: 1}})
	if err == nil {
		t.Fatalf("Apply() with out-of-range physical index should fail")
	}
}

func TestApplyRejectsMalformedDirectRoute(t *testing.T) {
	mapping := hal.ChannelMapping{
		PhysicalCount: 2,
		VirtualCount:  1,
		Routes:        []hal.Route{{Kind: hal.RouteDirect, Sources: []int{}}},
	}
	_, err := Apply([]float64{1, 2}, 1, mapping, []hal.Calibration{{Gain: 1}})
	if err == nil {
		t.Fatalf("Apply() with a reorder/direct route carrying zero source indices should fail")
	}
}

func TestApplyRejectsMalformedDuplicateRoute(t *testing.T) {
	mapping := hal.ChannelMapping{
		PhysicalCount: 1,
		VirtualCount:  1,
		Routes:        []hal.Route{{Kind: hal.RouteDuplicate, Sources: []int{0, 0}, Count: 1}},
	}
	_, err := Apply([]float64{1}, 1, mapping, []hal.Calibration{{Gain: 1}})
	if err == nil {
		t.Fatalf("Apply() with a duplicate route carrying more than one source index should fail")
	}
}

func TestApplyRejectsRoutesOverproducingVirtualChannels(t *testing.T) {
	mapping := hal.ChannelMapping{
		PhysicalCount: 1,
		VirtualCount:  1,
		Routes: []hal.Route{
			{Kind: hal.RouteDirect, Sources: []int{0}},
			{Kind: hal.RouteDirect, Sources: []int{0}},
		},
	}
	_, err := Apply([]float64{1}, 1, mapping, []hal.Calibration{{Gain: 1}})
	if err == nil {
		t.Fatalf("Apply() with routes producing more than virtual_count channels should fail")
	}
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}
