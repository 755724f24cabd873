package constraint

import (
	"fmt"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

// Well-known state keys this module owns (SUPPLEMENTED
// FEATURES: recharge).
const (
	KeyRechargeDistance  = "RECHARGE_DISTANCE"
	KeyRechargeIntervals = "RECHARGE_INTERVALS"
)

func init() {
	Register("recharge", func(cfg *Config) Module { return NewRechargeModule(cfg) })
}

// RechargeModule is a second, independent implementation of the
// accumulate-and-gate pattern CapacityModule implements — registered under
// a distinct name, the same way orthogonal.go registers "orthogonal" as a
// drop-in alternative to force_directed.go's "force_directed" under the
// shared Embedder interface. Where CapacityModule resets a multi-dimension
// load vector at each multi-trip marker, RechargeModule resets a single
// scalar: cumulative travel distance since the last JobRecharge activity
// (or the start of the route). Exceeding an actor's recharge distance
// threshold forces a new interval boundary the same way a reload marker
// does for capacity.
type RechargeModule struct {
	cfg *Config
}

// NewRechargeModule returns a recharge module. cfg.Transport must be set;
// recharge requires a transport oracle to accumulate distance between
// consecutive activities, unlike capacity which only reads job demand.
func NewRechargeModule(cfg *Config) *RechargeModule {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &RechargeModule{cfg: cfg}
}

// Name implements Module.
func (m *RechargeModule) Name() string { return "recharge" }

// StateKeys implements Module.
func (m *RechargeModule) StateKeys() []string {
	return []string{KeyRechargeDistance, KeyRechargeIntervals}
}

// Resweep recomputes RECHARGE_DISTANCE for every activity, resetting to
// zero after each JobRecharge marker.
func (m *RechargeModule) Resweep(rc *state.RouteContext) error {
	activities := rc.Route.Tour.Activities
	var running float64
	prevLocation := rc.Route.Actor.ActiveShift().Start.LocationID

	for i, act := range activities {
		loc := activityLocation(act)
		if loc != "" && prevLocation != "" {
			d, err := m.cfg.Transport.Distance(prevLocation, loc)
			if err != nil {
				return fmt.Errorf("recharge: distance %s -> %s: %w", prevLocation, loc, err)
			}
			running += d
		}
		if loc != "" {
			prevLocation = loc
		}
		rc.State.Set(i, KeyRechargeDistance, running)
		if act.JobType() == model.JobRecharge {
			running = 0
		}
	}
	return nil
}

// CheckActivity implements HardActivityConstraint: rejects a candidate
// insertion if the accumulated distance since the last recharge would
// exceed the actor's recharge policy threshold.
func (m *RechargeModule) CheckActivity(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int) Result {
	shift := rc.Route.Actor.ActiveShift()
	if shift.Recharge == nil {
		return NewHardResult("Recharge", "recharge.withinRange()", true, "actor has no recharge policy")
	}

	var dist float64
	prevLoc := shift.Start.LocationID
	if idx > 0 {
		prev := rc.Route.Tour.Activities[idx-1]
		if prev.JobType() != model.JobRecharge {
			running, _ := rc.State.Get(idx-1, KeyRechargeDistance)
			dist, _ = running.(float64)
		}
		prevLoc = activityLocation(prev)
	}
	newLoc := jobLocation(job, placeIdx)
	if prevLoc != "" && newLoc != "" {
		if d, err := m.cfg.Transport.Distance(prevLoc, newLoc); err == nil {
			dist += d
		}
	}

	if dist > shift.Recharge.DistanceThreshold {
		return NewHardResultStopped("Recharge", "recharge.withinRange()",
			fmt.Sprintf("accumulated distance %.2f exceeds threshold %.2f at activity %d", dist, shift.Recharge.DistanceThreshold, idx))
	}
	return NewHardResult("Recharge", "recharge.withinRange()", true, "within recharge range")
}

func activityLocation(act *model.Activity) string {
	if act.Job == nil {
		return ""
	}
	return jobLocation(act.Job, act.PlaceIdx)
}

func jobLocation(job *model.Job, placeIdx int) string {
	return jobPlace(job, placeIdx).LocationID
}

// jobPlace returns the place at placeIdx for a Multi job, or the Single
// job's place, falling back to place 0 if placeIdx is out of range — a
// candidate activity being evaluated for insertion always targets a single
// concrete place regardless of how many places the job has in total.
func jobPlace(job *model.Job, placeIdx int) model.Place {
	places := job.Places()
	if len(places) == 0 {
		return model.Place{}
	}
	if placeIdx < 0 || placeIdx >= len(places) {
		placeIdx = 0
	}
	return places[placeIdx]
}
