package state

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/dshills/vrpcore/pkg/model"
)

// SolutionContext is a full candidate solution: one RouteContext per actor
// in use, plus the job-ID sets the data model names: Unassigned (not
// yet placed), Required (must be placed for the solution to be considered
// complete), Ignored (excluded from this search, e.g. locked to another
// actor), and Locked (placed and forbidden from being ruined).
//
// The four job sets use go-set/v3 rather than a plain
// map[string]bool idiom (Agent.visited/discovered) because
// set operations here are genuinely set algebra — Unassigned.Difference
// after a batch insertion, Locked.Union when an operator pins a subtour —
// not just membership probes.
type SolutionContext struct {
	Problem    *model.Problem
	Routes     []*RouteContext
	Unassigned *set.Set[string]
	Required   *set.Set[string]
	Ignored    *set.Set[string]
	Locked     *set.Set[string]
}

// NewSolutionContext returns an empty solution over problem, with every job
// ID marked Required and Unassigned.
func NewSolutionContext(problem *model.Problem) *SolutionContext {
	required := set.New[string](len(problem.Jobs))
	unassigned := set.New[string](len(problem.Jobs))
	for id := range problem.Jobs {
		required.Insert(id)
		unassigned.Insert(id)
	}
	return &SolutionContext{
		Problem:    problem,
		Routes:     []*RouteContext{},
		Unassigned: unassigned,
		Required:   required,
		Ignored:    set.New[string](0),
		Locked:     set.New[string](0),
	}
}

// RouteFor returns the route context whose actor ID matches actorID, or nil
// if no route exists for that actor yet.
func (sc *SolutionContext) RouteFor(actorID string) *RouteContext {
	for _, rc := range sc.Routes {
		if rc.Route.Actor.ID == actorID {
			return rc
		}
	}
	return nil
}

// MarkAssigned moves jobID out of Unassigned. Called by the insertion
// evaluator once a candidate placement is committed.
func (sc *SolutionContext) MarkAssigned(jobID string) {
	sc.Unassigned.Remove(jobID)
}

// MarkUnassigned moves jobID into Unassigned, used by ruin operators that
// remove a job from its route.
func (sc *SolutionContext) MarkUnassigned(jobID string) {
	if !sc.Locked.Contains(jobID) {
		sc.Unassigned.Insert(jobID)
	}
}

// IsComplete reports whether every Required job is assigned (Unassigned
// contains no Required job).
func (sc *SolutionContext) IsComplete() bool {
	for _, id := range sc.Required.Slice() {
		if sc.Unassigned.Contains(id) {
			return false
		}
	}
	return true
}

// Clone returns a deep-enough copy: new route contexts (each independently
// mutable) and copies of the four job sets, so mutating the clone never
// affects the solution it was cloned from.
func (sc *SolutionContext) Clone() *SolutionContext {
	routes := make([]*RouteContext, len(sc.Routes))
	for i, rc := range sc.Routes {
		routes[i] = rc.Clone()
	}
	return &SolutionContext{
		Problem:    sc.Problem,
		Routes:     routes,
		Unassigned: sc.Unassigned.Copy(),
		Required:   sc.Required.Copy(),
		Ignored:    sc.Ignored.Copy(),
		Locked:     sc.Locked.Copy(),
	}
}
