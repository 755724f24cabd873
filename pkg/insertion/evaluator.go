package insertion

import (
	"github.com/dshills/vrpcore/pkg/cache"
	"github.com/dshills/vrpcore/pkg/constraint"
	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

// Evaluator answers the insertion search's one question — where, if
// anywhere, does job fit most cheaply into the current solution — by
// sweeping every route's candidate indices through the constraint
// pipeline, consulting the two-level cache before paying for a fresh
// pipeline evaluation. Grounded on validation.DefaultValidator's
// evaluate-then-memoize shape, generalized from a one-shot whole-dungeon
// validation pass to a repeated per-candidate-position query.
type Evaluator struct {
	Pipeline  *constraint.Pipeline
	Solutions *cache.SolutionCache
}

// NewEvaluator returns an evaluator over pipeline, optionally backed by a
// shared SolutionCache. A nil cache still works; every lookup simply
// falls through to the pipeline.
func NewEvaluator(pipeline *constraint.Pipeline, solutions *cache.SolutionCache) *Evaluator {
	return &Evaluator{Pipeline: pipeline, Solutions: solutions}
}

// PiecePosition is the index a single piece of a Multi job was placed at,
// within the actor's route, recorded in insertion order.
type PiecePosition struct {
	Index int
}

// Position is a candidate insertion point plus the feasibility/cost
// verdict the evaluator reached for it. For a Single job, Index is the
// only placement and Pieces is empty. For a Multi job, Pieces carries one
// entry per piece in Multi order; Index is unused in that case.
type Position struct {
	state.InsertionPosition
	Result constraint.Result
	Cost   float64
	Pieces []PiecePosition
}

// EvaluatePosition checks whether placeIdx of job may be inserted at idx
// within rc, checking the SolutionCache first (a hit shared across the
// whole generation) and the per-job cache second (a hit scoped to this
// job's search only), falling through to the pipeline and memoizing into
// both on a miss.
func (e *Evaluator) EvaluatePosition(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int, jobs *cache.JobCache) constraint.Result {
	key := cache.InsertionKey{ActorID: rc.Route.Actor.ID, JobID: job.ID(), Index: idx, PlaceIdx: placeIdx}
	if e.Solutions != nil {
		if r, ok := e.Solutions.GetHardActivity(key); ok {
			return r
		}
	}
	if jobs != nil {
		if r, ok := jobs.Get(key); ok {
			return r
		}
	}
	result := e.Pipeline.CheckInsertion(sol, rc, idx, job, placeIdx)
	if e.Solutions != nil {
		e.Solutions.PutHardActivity(key, result)
	}
	if jobs != nil {
		jobs.Put(key, result)
	}
	return result
}

// InsertionCost estimates the marginal transport cost of inserting the
// piece at placeIdx of job at idx within rc: the detour distance through
// the new stop minus the direct edge it replaces.
func (e *Evaluator) InsertionCost(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int) (float64, error) {
	transport := sol.Problem.Transport
	places := job.Places()
	if placeIdx < 0 || placeIdx >= len(places) {
		return 0, nil
	}
	locationID := places[placeIdx].LocationID
	activities := rc.Route.Tour.Activities

	var before, after float64
	var prevLoc, nextLoc string
	if idx > 0 {
		prevLoc = locationOf(activities[idx-1], rc.Route.Actor)
	} else {
		prevLoc = rc.Route.Actor.ActiveShift().Start.LocationID
	}
	if idx < len(activities) {
		nextLoc = locationOf(activities[idx], rc.Route.Actor)
	} else if end := rc.Route.Actor.ActiveShift().End; end != nil {
		nextLoc = end.LocationID
	} else {
		nextLoc = prevLoc
	}

	if prevLoc != "" && nextLoc != "" {
		d, err := transport.Distance(prevLoc, nextLoc)
		if err != nil {
			return 0, err
		}
		before = d
	}
	toNew, err := transport.Distance(prevLoc, locationID)
	if err != nil {
		return 0, err
	}
	fromNew, err := transport.Distance(locationID, nextLoc)
	if err != nil {
		return 0, err
	}
	after = toNew + fromNew
	return after - before, nil
}

func locationOf(a *model.Activity, actor *model.Actor) string {
	if a.Job == nil {
		return actor.ActiveShift().Start.LocationID
	}
	places := a.Job.Places()
	if a.PlaceIdx < 0 || a.PlaceIdx >= len(places) {
		return ""
	}
	return places[a.PlaceIdx].LocationID
}

// BestPosition scans every route in sol for the cheapest feasible
// placement of job, dispatching to bestSinglePosition for an
// ordinary one-piece job and bestMultiPosition for a Multi (§3: "all its
// Singles appear together, in Multi order"). Returns ok=false if no route
// admits the job anywhere.
func (e *Evaluator) BestPosition(sol *state.SolutionContext, job *model.Job, jobs *cache.JobCache) (Position, bool) {
	if job.PieceCount() > 1 {
		return e.bestMultiPosition(sol, job, jobs)
	}
	return e.bestSinglePosition(sol, job, jobs)
}

// bestSinglePosition scans every route for the cheapest feasible index to
// insert a one-piece job, stopping a route's sweep early the moment a
// HardActivity check reports Stopped (CAP-2 pruning: once capacity is
// saturated, every later index in that route is saturated too).
func (e *Evaluator) bestSinglePosition(sol *state.SolutionContext, job *model.Job, jobs *cache.JobCache) (Position, bool) {
	var best Position
	found := false

	for _, rc := range sol.Routes {
		activities := rc.Route.Tour.Activities
		for idx := 0; idx <= len(activities); idx++ {
			result := e.EvaluatePosition(sol, rc, idx, job, 0, jobs)
			if !result.Satisfied {
				if result.Stopped {
					break
				}
				continue
			}
			cost, err := e.InsertionCost(sol, rc, idx, job, 0)
			if err != nil {
				continue
			}
			if !found || cost < best.Cost {
				best = Position{
					InsertionPosition: state.InsertionPosition{ActorID: rc.Route.Actor.ID, Index: idx},
					Result:            result,
					Cost:              cost,
				}
				found = true
			}
		}
	}
	return best, found
}

// bestMultiPosition finds the cheapest per-route placement of every piece
// of a Multi job, in Multi order, each piece strictly after the previous
// piece's index. Each route is tried by simulating the whole placement on
// a cloned RouteContext (rc.Clone) so a partial, ultimately-infeasible
// attempt never mutates the real route; the clone is resweapt after each
// piece so the next piece's feasibility check sees the accumulated
// capacity/time effect of the pieces already placed. Simulation
// deliberately bypasses both caches: a clone and the real route share the
// same (actorID, jobID, index, placeIdx) key space, and memoizing a result
// computed against a transient clone would poison the cache for the real
// route.
func (e *Evaluator) bestMultiPosition(sol *state.SolutionContext, job *model.Job, jobs *cache.JobCache) (Position, bool) {
	var best Position
	found := false

	for _, rc := range sol.Routes {
		sim := rc.Clone()
		pieces := make([]PiecePosition, 0, job.PieceCount())
		total := 0.0
		lowerBound := 0
		ok := true

		for placeIdx := 0; placeIdx < job.PieceCount(); placeIdx++ {
			idx, cost, admitted := e.bestPieceIndex(sol, sim, job, placeIdx, lowerBound)
			if !admitted {
				ok = false
				break
			}
			activity := &model.Activity{Job: job, PlaceIdx: placeIdx}
			if err := sim.Route.Tour.Insert(idx, activity); err != nil {
				ok = false
				break
			}
			sim.State.RemoveFrom(idx)
			if err := e.Pipeline.Resweep(sim); err != nil {
				ok = false
				break
			}
			pieces = append(pieces, PiecePosition{Index: idx})
			total += cost
			lowerBound = idx + 1
		}

		if !ok {
			continue
		}
		if !found || total < best.Cost {
			best = Position{
				InsertionPosition: state.InsertionPosition{ActorID: rc.Route.Actor.ID},
				Cost:              total,
				Pieces:            pieces,
			}
			found = true
		}
	}
	return best, found
}

// bestPieceIndex finds the cheapest feasible index, at or after
// lowerBound, to insert placeIdx of job into sim — evaluated directly
// against the pipeline, bypassing both caches (see bestMultiPosition).
func (e *Evaluator) bestPieceIndex(sol *state.SolutionContext, sim *state.RouteContext, job *model.Job, placeIdx, lowerBound int) (int, float64, bool) {
	activities := sim.Route.Tour.Activities
	bestIdx := -1
	bestCost := 0.0

	for idx := lowerBound; idx <= len(activities); idx++ {
		result := e.Pipeline.CheckInsertion(sol, sim, idx, job, placeIdx)
		if !result.Satisfied {
			if result.Stopped {
				break
			}
			continue
		}
		cost, err := e.InsertionCost(sol, sim, idx, job, placeIdx)
		if err != nil {
			continue
		}
		if bestIdx < 0 || cost < bestCost {
			bestIdx = idx
			bestCost = cost
		}
	}
	if bestIdx < 0 {
		return 0, 0, false
	}
	return bestIdx, bestCost, true
}

// routeIndex returns the index of actorID's route within sol.Routes, or -1
// if none exists.
func routeIndex(sol *state.SolutionContext, actorID string) int {
	for i, rc := range sol.Routes {
		if rc.Route.Actor.ID == actorID {
			return i
		}
	}
	return -1
}

// Commit inserts job at pos into sol, invalidating the SolutionCache's
// entries for the affected actor since every later index's cached result
// is now stale, then notifies every InsertionAcceptor module that the
// commit actually happened.
func (e *Evaluator) Commit(sol *state.SolutionContext, pos Position, job *model.Job) error {
	rc := sol.RouteFor(pos.ActorID)

	if len(pos.Pieces) > 0 {
		for placeIdx, piece := range pos.Pieces {
			activity := &model.Activity{Job: job, PlaceIdx: placeIdx}
			if err := rc.Route.Tour.Insert(piece.Index, activity); err != nil {
				return err
			}
			rc.State.RemoveFrom(piece.Index)
		}
	} else {
		activity := &model.Activity{Job: job, PlaceIdx: 0}
		if err := rc.Route.Tour.Insert(pos.Index, activity); err != nil {
			return err
		}
		rc.State.RemoveFrom(pos.Index)
	}

	sol.MarkAssigned(job.ID())
	if e.Solutions != nil {
		e.Solutions.InvalidateActor(pos.ActorID)
	}
	if err := e.Pipeline.Resweep(rc); err != nil {
		return err
	}
	if idx := routeIndex(sol, pos.ActorID); idx >= 0 {
		e.Pipeline.AcceptInsertion(sol, idx, job)
	}
	return nil
}
