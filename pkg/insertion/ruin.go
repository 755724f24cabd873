package insertion

import (
	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/rng"
	"github.com/dshills/vrpcore/pkg/state"
)

// ruinRandom removes a random subset of assigned, unlocked jobs from sol,
// sized at roughly fraction of the currently-assigned job count (at least
// one, if any are assigned). Grounded on synthesis.GrammarSynthesizer's
// rng-driven expandToSize sizing (rng.IntRange picking a target count
// within configured bounds), generalized from picking how many rooms to
// add to picking how many jobs to remove.
func ruinRandom(sol *state.SolutionContext, fraction float64, r *rng.RNG) []string {
	assigned := assignedJobIDs(sol)
	if len(assigned) == 0 {
		return nil
	}
	r.Shuffle(len(assigned), func(i, j int) { assigned[i], assigned[j] = assigned[j], assigned[i] })

	n := int(float64(len(assigned)) * fraction)
	if n < 1 {
		n = 1
	}
	if n > len(assigned) {
		n = len(assigned)
	}
	victims := assigned[:n]
	removeJobs(sol, victims)
	return victims
}

// ruinWorst removes the n most expensive assigned jobs, measured by the
// distance detour each one's activity currently contributes to its route.
// Grounded on validation.Agent's cost-accumulation-then-compare idiom,
// narrowed from a path's total cost to a single activity's marginal share
// of it.
func ruinWorst(sol *state.SolutionContext, n int) []string {
	type scored struct {
		jobID string
		cost  float64
	}
	// A Multi job contributes one activity per piece; its detour cost is the
	// sum across every piece, so a Multi with several cheap-looking pieces
	// isn't underranked against a Single bearing the same total detour.
	byJob := make(map[string]float64)
	for _, rc := range sol.Routes {
		activities := rc.Route.Tour.Activities
		for i, a := range activities {
			if a.Job == nil || sol.Locked.Contains(a.Job.ID()) {
				continue
			}
			byJob[a.Job.ID()] += activityDetour(sol, rc, i)
		}
	}
	candidates := make([]scored, 0, len(byJob))
	for jobID, cost := range byJob {
		candidates = append(candidates, scored{jobID: jobID, cost: cost})
	}
	if len(candidates) == 0 {
		return nil
	}
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			swap := candidates[j].cost > candidates[i].cost
			if candidates[j].cost == candidates[i].cost {
				swap = candidates[j].jobID < candidates[i].jobID
			}
			if swap {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}
	if n > len(candidates) {
		n = len(candidates)
	}
	victims := make([]string, n)
	for i := 0; i < n; i++ {
		victims[i] = candidates[i].jobID
	}
	removeJobs(sol, victims)
	return victims
}

// activityDetour estimates how much distance activity i at rc adds over
// its route's direct prev-to-next edge, the same delta InsertionCost would
// have charged to insert it.
func activityDetour(sol *state.SolutionContext, rc *state.RouteContext, i int) float64 {
	transport := sol.Problem.Transport
	activities := rc.Route.Tour.Activities
	actor := rc.Route.Actor

	var prevLoc, curLoc, nextLoc string
	if i > 0 {
		prevLoc = locationOf(activities[i-1], actor)
	} else {
		prevLoc = actor.ActiveShift().Start.LocationID
	}
	curLoc = locationOf(activities[i], actor)
	if i+1 < len(activities) {
		nextLoc = locationOf(activities[i+1], actor)
	} else if end := actor.ActiveShift().End; end != nil {
		nextLoc = end.LocationID
	} else {
		nextLoc = prevLoc
	}

	direct, err := transport.Distance(prevLoc, nextLoc)
	if err != nil {
		return 0
	}
	toCur, err := transport.Distance(prevLoc, curLoc)
	if err != nil {
		return 0
	}
	fromCur, err := transport.Distance(curLoc, nextLoc)
	if err != nil {
		return 0
	}
	return toCur + fromCur - direct
}

// removeJobs drops every activity carrying a job ID in victims from its
// route, invalidates the route's state from the removal point on, and
// moves each job back into sol.Unassigned.
func removeJobs(sol *state.SolutionContext, victims []string) {
	victimSet := make(map[string]bool, len(victims))
	for _, id := range victims {
		victimSet[id] = true
	}
	for _, rc := range sol.Routes {
		activities := rc.Route.Tour.Activities
		for i := len(activities) - 1; i >= 0; i-- {
			a := activities[i]
			if a.Job == nil || !victimSet[a.Job.ID()] {
				continue
			}
			_ = rc.Route.Tour.RemoveAt(i)
			rc.State.RemoveFrom(i)
			sol.MarkUnassigned(a.Job.ID())
		}
	}
}

// assignedJobIDs lists every distinct assigned, unlocked job ID. A Multi
// job occupies one activity per piece, so the same ID is deduplicated
// rather than appearing once per piece.
func assignedJobIDs(sol *state.SolutionContext) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, rc := range sol.Routes {
		for _, a := range rc.Route.Tour.Activities {
			if a.Job == nil || sol.Locked.Contains(a.Job.ID()) || seen[a.Job.ID()] {
				continue
			}
			seen[a.Job.ID()] = true
			ids = append(ids, a.Job.ID())
		}
	}
	return ids
}

// jobByID resolves jobID against the problem's job set.
func jobByID(sol *state.SolutionContext, jobID string) *model.Job {
	return sol.Problem.Jobs[jobID]
}
