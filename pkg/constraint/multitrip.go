package constraint

import (
	"fmt"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

// Well-known state keys this module owns.
const (
	KeyReloadIntervals = "RELOAD_INTERVALS"
	KeyReloadResource  = "RELOAD_RESOURCE"
)

func init() {
	Register("multitrip", func(cfg *Config) Module { return NewMultiTripModule(cfg) })
}

// Interval is a contiguous run of activity indices between multi-trip
// marker activities: [Start, End) in tour-activity index
// space. CapacityModule resets its running load at an Interval boundary;
// RechargeModule resets only after a recharge marker, and TransportModule
// accumulates over the whole route without resetting.
type Interval struct {
	Start, End int
}

// Intervals splits a tour into multi-trip intervals, walking activities in
// order and starting a new interval each time a marker activity (reload,
// dispatch, recharge) is reached. Grounded on validation.Agent's
// sequential path-walk idiom (Move accumulating state one room at a time
// along an explored path); here the walk accumulates nothing itself, it
// only watches for the marker transition that agent.go's CanTraverse gate
// check plays for a locked door — both are a single forward pass making a
// binary decision (continue the same state, or start fresh) at each step.
func Intervals(tour *model.Tour) []Interval {
	if len(tour.Activities) == 0 {
		return nil
	}
	var intervals []Interval
	start := 0
	for i, act := range tour.Activities {
		if act.JobType().IsMultiTripMarker() {
			intervals = append(intervals, Interval{Start: start, End: i + 1})
			start = i + 1
		}
	}
	if start < len(tour.Activities) {
		intervals = append(intervals, Interval{Start: start, End: len(tour.Activities)})
	}
	return intervals
}

// MultiTripModule records RELOAD_INTERVALS (the Interval boundaries
// themselves) and RELOAD_RESOURCE (which reload job, if any, ended the
// interval containing a given activity) so that downstream soft objectives
// — work-balance in particular — can read per-interval statistics without
// recomputing the walk themselves.
type MultiTripModule struct {
	cfg *Config
}

// NewMultiTripModule returns a multi-trip bookkeeping module.
func NewMultiTripModule(cfg *Config) *MultiTripModule {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &MultiTripModule{cfg: cfg}
}

// Name implements Module.
func (m *MultiTripModule) Name() string { return "multitrip" }

// StateKeys implements Module.
func (m *MultiTripModule) StateKeys() []string {
	return []string{KeyReloadIntervals, KeyReloadResource}
}

// CheckActivity implements HardActivityConstraint: a marker job (reload,
// dispatch, recharge) may only be inserted as the last activity of an
// otherwise jobless tail — it can't be the route's very first activity
// (there would be nothing to reload from), and no real job may follow it.
// Grounded on original_source's CapacityHardActivityConstraint marker gate
// (is_first || is_not_last). Neither branch halts the search: a marker
// rejected here says nothing about whether a non-marker job fits at the
// same index.
func (m *MultiTripModule) CheckActivity(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int) Result {
	if !job.TypeAt(placeIdx).IsMultiTripMarker() {
		return NewHardResult("MultiTrip", "multitrip.markerEndsJoblessTail()", true, "not a marker job")
	}
	if idx == 0 {
		return NewHardResult("MultiTrip", "multitrip.markerEndsJoblessTail()", false,
			"marker job cannot be the route's first activity")
	}
	activities := rc.Route.Tour.Activities
	for i := idx; i < len(activities); i++ {
		if activities[i].Job != nil && !activities[i].JobType().IsMultiTripMarker() {
			return NewHardResult("MultiTrip", "multitrip.markerEndsJoblessTail()", false,
				fmt.Sprintf("a real job follows activity %d; marker must end a jobless tail", idx))
		}
	}
	return NewHardResult("MultiTrip", "multitrip.markerEndsJoblessTail()", true, "ends a jobless tail")
}

// Resweep stamps every activity with the Interval it belongs to and, for
// reload-terminated intervals, the job ID of the reload activity that
// closed it.
func (m *MultiTripModule) Resweep(rc *state.RouteContext) {
	intervals := Intervals(rc.Route.Tour)
	for _, iv := range intervals {
		var resource string
		if iv.End > 0 && iv.End <= len(rc.Route.Tour.Activities) {
			last := rc.Route.Tour.Activities[iv.End-1]
			if last.JobType() == model.JobReload && last.Job != nil {
				resource = last.Job.ID()
			}
		}
		for i := iv.Start; i < iv.End; i++ {
			rc.State.Set(i, KeyReloadIntervals, iv)
			if resource != "" {
				rc.State.Set(i, KeyReloadResource, resource)
			}
		}
	}
}
