package constraint

import (
	"fmt"
	"sort"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

// Well-known state keys this module owns.
const (
	KeyCurrentCapacity   = "CURRENT_CAPACITY"
	KeyMaxPastCapacity   = "MAX_PAST_CAPACITY"
	KeyMaxFutureCapacity = "MAX_FUTURE_CAPACITY"
	KeyMaxLoad           = "MAX_LOAD"
)

func init() {
	Register("capacity", func(cfg *Config) Module { return NewCapacityModule(cfg) })
}

// CapacityModule tracks multi-dimensional load along a route with the
// two-sweep idiom ported from force_directed.simulateForces:
// simulateForces iterates sorted room IDs left-to-right accumulating
// spring/repulsion forces in one deterministic pass; CapacityModule instead
// runs two passes per multi-trip interval — forward to compute the running
// load and its running peak-so-far (MAX_PAST_CAPACITY), and backward to
// compute the running peak yet to come (MAX_FUTURE_CAPACITY). Both sweeps
// are pure functions of the activities already in the tour, re-run in full
// on every resweep.
type CapacityModule struct {
	cfg *Config
}

// NewCapacityModule returns a capacity module.
func NewCapacityModule(cfg *Config) *CapacityModule {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &CapacityModule{cfg: cfg}
}

// Name implements Module.
func (m *CapacityModule) Name() string { return "capacity" }

// StateKeys implements Module.
func (m *CapacityModule) StateKeys() []string {
	return []string{KeyCurrentCapacity, KeyMaxPastCapacity, KeyMaxFutureCapacity, KeyMaxLoad}
}

// Resweep recomputes CURRENT_CAPACITY, MAX_PAST_CAPACITY, and
// MAX_FUTURE_CAPACITY for every activity, one multi-trip Interval at a
// time. Each interval's running load is preloaded with the sum of every
// static delivery demand within it — delivery load is carried from the
// interval's start and dropped off as each delivery activity is reached —
// then pickup and dynamic demand add to the running total as they're
// visited. MAX_PAST_CAPACITY is the running peak seen up to and including
// an activity; MAX_FUTURE_CAPACITY is the peak from an activity to the end
// of its own interval.
func (m *CapacityModule) Resweep(rc *state.RouteContext) {
	activities := rc.Route.Tour.Activities
	dims := capacityDimensions(rc.Route.Actor)

	for _, iv := range Intervals(rc.Route.Tour) {
		preload := make([]int64, dims)
		for i := iv.Start; i < iv.End; i++ {
			addVec(preload, demandOf(activities[i]).Delivery)
		}

		running := append([]int64(nil), preload...)
		maxPast := append([]int64(nil), preload...)
		for i := iv.Start; i < iv.End; i++ {
			d := demandOf(activities[i])
			subVec(running, d.Delivery)
			addVec(running, d.Pickup)
			addVec(running, d.Dynamic)
			for k := range maxPast {
				if running[k] > maxPast[k] {
					maxPast[k] = running[k]
				}
			}
			rc.State.Set(i, KeyCurrentCapacity, append([]int64(nil), running...))
			rc.State.Set(i, KeyMaxPastCapacity, append([]int64(nil), maxPast...))
		}

		maxFuture := make([]int64, dims)
		for i := iv.End - 1; i >= iv.Start; i-- {
			cur, _ := rc.State.Get(i, KeyCurrentCapacity)
			c, _ := cur.([]int64)
			for k := 0; k < dims && k < len(c); k++ {
				if c[k] > maxFuture[k] {
					maxFuture[k] = c[k]
				}
			}
			rc.State.Set(i, KeyMaxFutureCapacity, append([]int64(nil), maxFuture...))
		}
	}
}

// CheckActivity implements HardActivityConstraint, applying the
// three-branch demand check a route-level capacity profile requires:
// static delivery demand is checked against the peak load already reached
// (it had to fit the whole way here), static pickup demand against the
// peak yet to come (it will ride along for the rest of the interval), and
// dynamic demand against both the peak yet to come and the load right now
// — a dynamic violation against the future peak is fatal to this route
// (Stopped), but a violation only against the current load isn't, since a
// later reload interval may still have room for it.
func (m *CapacityModule) CheckActivity(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int) Result {
	demand := jobDemand(job, placeIdx)
	cap := rc.Route.Actor.VehicleType.Capacity

	maxPast := vecAt(rc, idx-1, KeyMaxPastCapacity, len(cap))
	maxFuture := vecAt(rc, idx-1, KeyMaxFutureCapacity, len(cap))
	current := vecAt(rc, idx-1, KeyCurrentCapacity, len(cap))

	if ok, d, got, limit := demandFits(maxPast, demand.Delivery, cap); !ok {
		return NewHardResultStopped("Capacity", "capacity.fitsAtEveryActivity()",
			fmt.Sprintf("dimension %d: delivery load %d exceeds capacity %d at or before activity %d", d, got, limit, idx))
	}
	if ok, d, got, limit := demandFits(maxFuture, demand.Pickup, cap); !ok {
		return NewHardResultStopped("Capacity", "capacity.fitsAtEveryActivity()",
			fmt.Sprintf("dimension %d: pickup load %d exceeds capacity %d at or after activity %d", d, got, limit, idx))
	}
	if ok, d, got, limit := demandFits(maxFuture, demand.Dynamic, cap); !ok {
		return NewHardResultStopped("Capacity", "capacity.fitsAtEveryActivity()",
			fmt.Sprintf("dimension %d: dynamic load %d exceeds capacity %d at or after activity %d", d, got, limit, idx))
	}
	if ok, d, got, limit := demandFits(current, demand.Dynamic, cap); !ok {
		return NewHardResult("Capacity", "capacity.fitsAtEveryActivity()", false,
			fmt.Sprintf("dimension %d: dynamic load %d exceeds capacity %d at activity %d", d, got, limit, idx))
	}
	return NewHardResult("Capacity", "capacity.fitsAtEveryActivity()", true, "within capacity")
}

// CheckRoute implements HardRouteConstraint: job is admissible into rc if
// some multi-trip interval admits every one of its pieces independently —
// a Multi's pickup-then-delivery pair need not share an interval, so a
// route that can't fit the whole job starting at any single point may
// still be able to fit each piece at its own interval. Grounded on
// original_source's can_handle_demand_on_intervals, adapted from its
// per-insertion-index form to a whole-route admissibility probe: the
// result does not depend on the candidate index, although
// Pipeline.CheckInsertion calls it once per candidate index, after every
// activity-level check has passed.
func (m *CapacityModule) CheckRoute(sol *state.SolutionContext, rc *state.RouteContext, job *model.Job) Result {
	if job == nil {
		return NewHardResult("Capacity", "capacity.canHandleDemandOnIntervals()", true, "no job to place")
	}
	cap := rc.Route.Actor.VehicleType.Capacity
	intervals := Intervals(rc.Route.Tour)
	if len(intervals) == 0 {
		intervals = []Interval{{Start: 0, End: len(rc.Route.Tour.Activities)}}
	}

	for piece := 0; piece < job.PieceCount(); piece++ {
		demand := job.DemandAt(piece)
		if !anyIntervalAdmits(rc, intervals, demand, cap) {
			return NewHardResult("Capacity", "capacity.canHandleDemandOnIntervals()", false,
				fmt.Sprintf("no interval in route %s admits piece %d of job %s", rc.Route.Actor.ID, piece, job.ID()))
		}
	}
	return NewHardResult("Capacity", "capacity.canHandleDemandOnIntervals()", true, "some interval admits every piece")
}

func anyIntervalAdmits(rc *state.RouteContext, intervals []Interval, demand model.Demand, cap []int64) bool {
	for _, iv := range intervals {
		maxPast := vecAt(rc, iv.End-1, KeyMaxPastCapacity, len(cap))
		maxFuture := vecAt(rc, iv.Start, KeyMaxFutureCapacity, len(cap))
		if ok, _, _, _ := demandFits(maxPast, demand.Delivery, cap); !ok {
			continue
		}
		if ok, _, _, _ := demandFits(maxFuture, demand.Pickup, cap); !ok {
			continue
		}
		if ok, _, _, _ := demandFits(maxFuture, demand.Dynamic, cap); !ok {
			continue
		}
		return true
	}
	return false
}

// Merge implements JobMerger: two Singles whose demands sum without
// dimension overflow fuse into one Single at source's place, carrying the
// combined demand. A Multi on either side, or an overflowing sum, refuses
// to merge — grounded on original_source's ConstraintModule::merge, which
// puts the same demand-sum refusal on CapacityConstraintModule.
func (m *CapacityModule) Merge(source, candidate *model.Job) (*model.Job, ViolationCode) {
	if source == nil || candidate == nil || source.Single == nil || candidate.Single == nil {
		return nil, ViolationNotMergeable
	}
	sd, cd := source.Single.Demand, candidate.Single.Demand
	if !hasAnyDemand(sd) && !hasAnyDemand(cd) {
		return source, ViolationNone
	}
	merged, ok := sumDemand(sd, cd)
	if !ok {
		return nil, ViolationDemandOverflow
	}
	out := *source.Single
	out.Demand = merged
	return &model.Job{Single: &out}, ViolationNone
}

func capacityDimensions(a *model.Actor) int {
	if a == nil || a.VehicleType == nil {
		return 0
	}
	return len(a.VehicleType.Capacity)
}

func demandOf(act *model.Activity) model.Demand {
	if act.Job == nil {
		return model.Demand{}
	}
	return jobDemand(act.Job, act.PlaceIdx)
}

func jobDemand(job *model.Job, placeIdx int) model.Demand {
	if job == nil {
		return model.Demand{}
	}
	return job.DemandAt(placeIdx)
}

// vecAt reads a per-activity capacity vector from rc.State, returning a
// zero vector of length dims if nothing is stored at idx (a before-the-
// route predecessor, or a state key that hasn't been swept yet).
func vecAt(rc *state.RouteContext, idx int, key string, dims int) []int64 {
	v, ok := rc.State.Get(idx, key)
	if !ok {
		return make([]int64, dims)
	}
	vec, ok := v.([]int64)
	if !ok {
		return make([]int64, dims)
	}
	return vec
}

// demandFits reports whether base+add stays within cap in every dimension,
// returning the first violating dimension and its values otherwise.
func demandFits(base, add, cap []int64) (ok bool, dim int, got, limit int64) {
	for d, c := range cap {
		v := int64(0)
		if d < len(base) {
			v = base[d]
		}
		if d < len(add) {
			v += add[d]
		}
		if v > c {
			return false, d, v, c
		}
	}
	return true, -1, 0, 0
}

func addVec(dst, src []int64) {
	for d := range dst {
		if d < len(src) {
			dst[d] += src[d]
		}
	}
}

func subVec(dst, src []int64) {
	for d := range dst {
		if d < len(src) {
			dst[d] -= src[d]
		}
	}
}

func hasAnyDemand(d model.Demand) bool {
	return anyNonZero(d.Delivery) || anyNonZero(d.Pickup) || anyNonZero(d.Dynamic)
}

func anyNonZero(v []int64) bool {
	for _, x := range v {
		if x != 0 {
			return true
		}
	}
	return false
}

// sumDemand adds a and b component-wise across all three demand fields,
// refusing (ok=false) if any dimension would overflow int64.
func sumDemand(a, b model.Demand) (model.Demand, bool) {
	delivery, ok := addOverflowSafe(a.Delivery, b.Delivery)
	if !ok {
		return model.Demand{}, false
	}
	pickup, ok := addOverflowSafe(a.Pickup, b.Pickup)
	if !ok {
		return model.Demand{}, false
	}
	dynamic, ok := addOverflowSafe(a.Dynamic, b.Dynamic)
	if !ok {
		return model.Demand{}, false
	}
	return model.Demand{Delivery: delivery, Pickup: pickup, Dynamic: dynamic}, true
}

func addOverflowSafe(a, b []int64) ([]int64, bool) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		var av, bv int64
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		sum := av + bv
		if (av > 0 && bv > 0 && sum < 0) || (av < 0 && bv < 0 && sum > 0) {
			return nil, false
		}
		out[i] = sum
	}
	return out, true
}

// sortedKeys is kept as a small deterministic-iteration helper in the same
// spirit as force_directed.go's repeated sort.Strings(roomIDs) calls. No
// code in this package calls it.
func sortedKeys(m map[string]*state.RouteContext) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
