package constraint

import (
	"fmt"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

// Well-known dimension keys this module reads.
const (
	KeySkills        = "SKILLS"
	KeyGroup         = "GROUP"
	KeyTags          = "TAGS"
	KeyCompatibility = "COMPATIBILITY"
)

func init() {
	Register("skills", func(cfg *Config) Module { return NewSkillsModule(cfg) })
}

// SkillsModule checks that the actor assigned to a route is capable of
// serving a job's skill requirement. Grounded on
// validation.CheckKeyReachability's shape: that check asked "is the
// required key obtainable by the time it's needed", returning a single
// pass/fail plus a details string listing every violation found; here the
// question is "does this actor carry every skill the job requires",
// answered per-activity instead of once per key since skills are an
// activity-level admission check, not a route-level reachability property.
type SkillsModule struct {
	cfg *Config
}

// NewSkillsModule returns a skills module.
func NewSkillsModule(cfg *Config) *SkillsModule {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &SkillsModule{cfg: cfg}
}

// Name implements Module.
func (m *SkillsModule) Name() string { return "skills" }

// StateKeys implements Module. SkillsModule is stateless — it reads
// Actor/Job dimensions directly and writes nothing to RouteState.
func (m *SkillsModule) StateKeys() []string { return nil }

// CheckActivity implements HardActivityConstraint: the job's required
// skills must all be present on the actor. Unlike capacity, a skill
// mismatch at one activity says nothing about any other activity, so this
// result never sets Stopped.
func (m *SkillsModule) CheckActivity(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int) Result {
	required := job.Skills()
	if len(required) == 0 {
		return NewHardResult("Skills", "actor.hasSkills(job)", true, "job requires no skills")
	}

	var missing []string
	for _, skill := range required {
		if !rc.Route.Actor.HasSkill(skill) {
			missing = append(missing, skill)
		}
	}

	if len(missing) > 0 {
		return NewHardResult("Skills", "actor.hasSkills(job)", false,
			fmt.Sprintf("actor %s missing skills %v required by job %s", rc.Route.Actor.ID, missing, job.ID()))
	}
	return NewHardResult("Skills", "actor.hasSkills(job)", true, "all required skills present")
}

// DispatchTier is one (max_visits, window) admission slot for a dispatch
// job (SUPPLEMENTED FEATURES: dispatch job-type with time-windowed capacity
// limits). Admission decrements the tier's remaining count; once a tier is
// exhausted, visits falling in its window are rejected even if an
// adjacent tier still has room.
type DispatchTier struct {
	Window    model.TimeWindow
	MaxVisits int
}

func init() {
	Register("dispatch", func(cfg *Config) Module { return NewDispatchModule(cfg) })
}

// DispatchModule enforces DispatchTier admission for JobDispatch
// activities. Tiers are supplied per-actor via the actor's Dimensions
// bag under KeyDispatchTiers, since the number and shape of tiers is a
// per-vehicle-type configuration detail, not a constant.
type DispatchModule struct {
	cfg       *Config
	remaining map[string]map[int]int // actorID -> tier index -> visits left
}

// KeyDispatchTiers names the Actor.Dimensions entry holding []DispatchTier.
const KeyDispatchTiers = "DISPATCH_TIERS"

// NewDispatchModule returns a dispatch module with a fresh per-actor tier
// budget. Call Reset before each new solution evaluation so a stale budget
// from a previous candidate never leaks into the next.
func NewDispatchModule(cfg *Config) *DispatchModule {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &DispatchModule{cfg: cfg, remaining: make(map[string]map[int]int)}
}

// Name implements Module.
func (m *DispatchModule) Name() string { return "dispatch" }

// StateKeys implements Module.
func (m *DispatchModule) StateKeys() []string { return nil }

// Reset clears the per-actor tier budget, re-seeding it from each actor's
// configured tiers on first use.
func (m *DispatchModule) Reset() {
	m.remaining = make(map[string]map[int]int)
}

func (m *DispatchModule) tiersFor(actor *model.Actor) ([]DispatchTier, bool) {
	raw, ok := actor.Dimensions.Get(KeyDispatchTiers)
	if !ok {
		return nil, false
	}
	tiers, ok := raw.([]DispatchTier)
	return tiers, ok
}

// CheckActivity implements HardActivityConstraint: a dispatch job visited
// at time t is admitted only if some tier whose window contains t still
// has remaining visits. This is a pure feasibility probe — it never
// mutates the tier budget, since BestPosition calls it once per candidate
// (actor, index) pair while searching and only one of those candidates
// will ever actually be committed. The budget itself is decremented by
// AcceptInsertion, fired only on a real commit.
func (m *DispatchModule) CheckActivity(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int) Result {
	if job.Single == nil || job.Single.Type != model.JobDispatch {
		return NewHardResult("Dispatch", "dispatch.tierHasRoom()", true, "not a dispatch job")
	}

	tiers, ok := m.tiersFor(rc.Route.Actor)
	if !ok || len(tiers) == 0 {
		return NewHardResult("Dispatch", "dispatch.tierHasRoom()", false, "actor has no configured dispatch tiers")
	}

	arrival := m.arrivalAt(rc, idx, job, placeIdx)
	budget := m.ensureBudget(rc.Route.Actor.ID, tiers)

	for i, tier := range tiers {
		if tier.Window.Contains(arrival) && budget[i] > 0 {
			return NewHardResult("Dispatch", "dispatch.tierHasRoom()", true, "admitted under a tier with remaining capacity")
		}
	}
	return NewHardResult("Dispatch", "dispatch.tierHasRoom()", false, "no dispatch tier has remaining capacity for this arrival time")
}

// ensureBudget returns actorID's tier budget, lazily seeding it from tiers
// on first use.
func (m *DispatchModule) ensureBudget(actorID string, tiers []DispatchTier) map[int]int {
	budget, ok := m.remaining[actorID]
	if !ok {
		budget = make(map[int]int)
		for i, t := range tiers {
			budget[i] = t.MaxVisits
		}
		m.remaining[actorID] = budget
	}
	return budget
}

// AcceptInsertion implements constraint.InsertionAcceptor: decrements the
// dispatch tier that admits job's committed arrival time. Called once per
// real commit from Evaluator.Commit, never from the probe-only
// CheckActivity.
func (m *DispatchModule) AcceptInsertion(sol *state.SolutionContext, routeIdx int, job *model.Job) {
	if job.Single == nil || job.Single.Type != model.JobDispatch {
		return
	}
	if routeIdx < 0 || routeIdx >= len(sol.Routes) {
		return
	}
	rc := sol.Routes[routeIdx]
	tiers, ok := m.tiersFor(rc.Route.Actor)
	if !ok || len(tiers) == 0 {
		return
	}
	idx := activityIndexOf(rc, job)
	if idx < 0 {
		return
	}
	arrival := rc.Route.Tour.Activities[idx].Arrival
	budget := m.ensureBudget(rc.Route.Actor.ID, tiers)
	for i, tier := range tiers {
		if tier.Window.Contains(arrival) && budget[i] > 0 {
			budget[i]--
			return
		}
	}
}

// activityIndexOf returns the index of job's own activity within rc, or -1
// if it isn't there.
func activityIndexOf(rc *state.RouteContext, job *model.Job) int {
	for i, a := range rc.Route.Tour.Activities {
		if a.Job != nil && a.Job.ID() == job.ID() {
			return i
		}
	}
	return -1
}

// arrivalAt computes the candidate activity's arrival time the same way
// TransportModule.CheckActivity does: the predecessor's stamped Departure
// plus travel time to the candidate's location, since RouteState carries
// no generic "arrival" key of its own.
func (m *DispatchModule) arrivalAt(rc *state.RouteContext, idx int, job *model.Job, placeIdx int) int64 {
	prevLoc := rc.Route.Actor.ActiveShift().Start.LocationID
	prevDeparture := rc.Route.Actor.ActiveShift().Window.Start
	if idx > 0 {
		prevLoc = activityLocation(rc.Route.Tour.Activities[idx-1])
		prevDeparture = rc.Route.Tour.Activities[idx-1].Departure
	}
	newLoc := jobLocation(job, placeIdx)
	if prevLoc == "" || newLoc == "" || m.cfg.Transport == nil {
		return prevDeparture
	}
	t, err := m.cfg.Transport.Duration(prevLoc, newLoc)
	if err != nil {
		return prevDeparture
	}
	return prevDeparture + t
}
