package constraint

import (
	"fmt"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

// Well-known state keys this module owns.
const (
	KeyTotalDistance = "TOTAL_DISTANCE"
	KeyTotalDuration = "TOTAL_DURATION"
)

func init() {
	Register("transport", func(cfg *Config) Module { return NewTransportModule(cfg) })
}

// TransportModule accumulates running distance/duration along a route and
// rejects a candidate insertion that would arrive outside every one of the
// job's time windows or past the actor's shift end. Grounded on
// validation.CheckPathBounds's existence-then-bounds-check shape
// (GetPath, then compare path length against min/max), generalized from a
// single start-to-boss path query to a running accumulation over every
// activity, since a route's feasibility must be checked as it grows, not
// only once at the end.
type TransportModule struct {
	cfg *Config
}

// NewTransportModule returns a transport module. cfg.Transport must be set.
func NewTransportModule(cfg *Config) *TransportModule {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &TransportModule{cfg: cfg}
}

// Name implements Module.
func (m *TransportModule) Name() string { return "transport" }

// StateKeys implements Module.
func (m *TransportModule) StateKeys() []string {
	return []string{KeyTotalDistance, KeyTotalDuration}
}

// Resweep recomputes TOTAL_DISTANCE and TOTAL_DURATION for every activity
// as the running sum of leg distance/duration plus service duration, and
// also stamps each Activity's own Arrival/Departure fields — the only
// place in the pipeline that does, since CheckActivity reads a candidate's
// immediate predecessor's Departure directly off the committed Activity
// rather than through RouteState (a position being evaluated for insertion
// has no RouteState entry of its own yet).
func (m *TransportModule) Resweep(rc *state.RouteContext) error {
	activities := rc.Route.Tour.Activities
	var dist float64
	var dur int64
	prevLoc := rc.Route.Actor.ActiveShift().Start.LocationID
	prevDeparture := rc.Route.Actor.ActiveShift().Window.Start

	for i, act := range activities {
		loc := activityLocation(act)
		var travel int64
		if loc != "" && prevLoc != "" {
			d, err := m.cfg.Transport.Distance(prevLoc, loc)
			if err != nil {
				return fmt.Errorf("transport: distance %s -> %s: %w", prevLoc, loc, err)
			}
			t, err := m.cfg.Transport.Duration(prevLoc, loc)
			if err != nil {
				return fmt.Errorf("transport: duration %s -> %s: %w", prevLoc, loc, err)
			}
			dist += d
			dur += t
			travel = t
		}
		arrival := prevDeparture + travel
		departure := arrival
		if act.Job != nil {
			svc := serviceDuration(act.Job, act.PlaceIdx)
			dur += svc
			departure = arrival + svc
		}
		act.Arrival = arrival
		act.Departure = departure
		prevDeparture = departure
		if loc != "" {
			prevLoc = loc
		}
		rc.State.Set(i, KeyTotalDistance, dist)
		rc.State.Set(i, KeyTotalDuration, dur)
	}
	return nil
}

// CheckActivity implements HardActivityConstraint: the arrival time at the
// candidate activity must fall within at least one of the job's time
// windows, and within the actor's shift window.
func (m *TransportModule) CheckActivity(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int) Result {
	prevLoc := rc.Route.Actor.ActiveShift().Start.LocationID
	prevDeparture := rc.Route.Actor.ActiveShift().Window.Start
	if idx > 0 {
		prevLoc = activityLocation(rc.Route.Tour.Activities[idx-1])
		prevDeparture = rc.Route.Tour.Activities[idx-1].Departure
	}

	newLoc := jobLocation(job, placeIdx)
	var travel int64
	if prevLoc != "" && newLoc != "" {
		t, err := m.cfg.Transport.Duration(prevLoc, newLoc)
		if err != nil {
			return NewHardResultStopped("Transport", "transport.arrivesInWindow()", fmt.Sprintf("duration lookup failed: %v", err))
		}
		travel = t
	}

	arrival := prevDeparture + travel
	windows := jobPlace(job, placeIdx).TimeWindows
	if len(windows) == 0 {
		return checkShiftEnd(rc, arrival)
	}
	for _, w := range windows {
		if w.Contains(arrival) {
			return checkShiftEnd(rc, arrival)
		}
	}
	return NewHardResult("Transport", "transport.arrivesInWindow()", false,
		fmt.Sprintf("arrival %d falls outside every time window of job %s", arrival, job.ID()))
}

func checkShiftEnd(rc *state.RouteContext, arrival int64) Result {
	shift := rc.Route.Actor.ActiveShift()
	if arrival > shift.Window.End {
		return NewHardResultStopped("Transport", "transport.arrivesInWindow()",
			fmt.Sprintf("arrival %d is past shift end %d", arrival, shift.Window.End))
	}
	return NewHardResult("Transport", "transport.arrivesInWindow()", true, "arrival within window")
}

func serviceDuration(job *model.Job, placeIdx int) int64 {
	return jobPlace(job, placeIdx).Duration
}
