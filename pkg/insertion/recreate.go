package insertion

import (
	"github.com/dshills/vrpcore/pkg/cache"
	"github.com/dshills/vrpcore/pkg/rng"
	"github.com/dshills/vrpcore/pkg/state"
)

// recreateGreedy re-inserts every job in jobIDs, each at its own cheapest
// feasible position across the whole solution, committing as soon as a
// position is found (first-improvement, not globally optimal — matching
// the design goal of shipping simple, swappable operators rather than a
// tuned metaheuristic). Jobs no route admits stay in sol.Unassigned.
func recreateGreedy(sol *state.SolutionContext, eval *Evaluator, jobIDs []string) {
	jobs := cache.NewJobCache()
	for _, id := range jobIDs {
		job := jobByID(sol, id)
		if job == nil {
			continue
		}
		jobs.Reset()
		pos, ok := eval.BestPosition(sol, job, jobs)
		if !ok {
			continue
		}
		_ = eval.Commit(sol, pos, job)
	}
}

// recreateRegret re-inserts jobIDs in the order that maximizes "regret": at
// each step, for every still-unplaced job, compute its best and
// second-best insertion cost across all routes; insert the job whose gap
// between best and second-best is largest first, since deferring it risks
// losing its only good slot to a competing job. Falls back to the job's
// sole candidate (no regret comparison possible) when only one route
// admits it, and drops to plain greedy order once no job has two distinct
// feasible routes left to compare. Grounded on synthesis.GrammarSynthesizer's
// multi-attempt-then-best-wins shape (tryGenerate retried and the lowest-
// error attempt kept), adapted here to a per-job best-vs-second-best
// comparison instead of whole-graph retries.
func recreateRegret(sol *state.SolutionContext, eval *Evaluator, jobIDs []string) {
	remaining := append([]string(nil), jobIDs...)
	jobs := cache.NewJobCache()

	for len(remaining) > 0 {
		bestIdx := -1
		var bestPos Position
		bestRegret := -1.0

		for i, id := range remaining {
			job := jobByID(sol, id)
			if job == nil {
				continue
			}
			jobs.Reset()
			first, second, ok := bestTwoPositions(sol, eval, job.ID(), jobs)
			if !ok {
				continue
			}
			regret := second.Cost - first.Cost
			if regret > bestRegret {
				bestRegret = regret
				bestIdx = i
				bestPos = first
			}
		}

		if bestIdx == -1 {
			// No remaining job has any feasible position; stop, leaving the
			// rest unassigned.
			return
		}

		job := jobByID(sol, remaining[bestIdx])
		// bestPos was chosen by regret over first-piece cost only; for a
		// Multi job it carries no Pieces, so re-resolve the actual commit
		// position through BestPosition (which places every piece) rather
		// than committing bestPos directly.
		commitPos := bestPos
		if job.PieceCount() > 1 {
			if resolved, ok := eval.BestPosition(sol, job, jobs); ok {
				commitPos = resolved
			}
		}
		_ = eval.Commit(sol, commitPos, job)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
}

// bestTwoPositions returns the cheapest and second-cheapest feasible
// positions for job across every route in sol. ok is false if no route
// admits the job at all; second equals first if only one route does. A
// Multi job is regret-ordered by its first piece only — a documented
// simplification; Commit still places every piece correctly once the job
// is actually chosen for insertion.
func bestTwoPositions(sol *state.SolutionContext, eval *Evaluator, jobID string, jobs *cache.JobCache) (first, second Position, ok bool) {
	realJob := sol.Problem.Jobs[jobID]
	haveFirst, haveSecond := false, false

	for _, rc := range sol.Routes {
		activities := rc.Route.Tour.Activities
		for idx := 0; idx <= len(activities); idx++ {
			result := eval.EvaluatePosition(sol, rc, idx, realJob, 0, jobs)
			if !result.Satisfied {
				if result.Stopped {
					break
				}
				continue
			}
			cost, err := eval.InsertionCost(sol, rc, idx, realJob, 0)
			if err != nil {
				continue
			}
			pos := Position{
				InsertionPosition: state.InsertionPosition{ActorID: rc.Route.Actor.ID, Index: idx},
				Result:            result,
				Cost:              cost,
			}
			switch {
			case !haveFirst || cost < first.Cost:
				second, haveSecond = first, haveFirst
				first, haveFirst = pos, true
			case !haveSecond || cost < second.Cost:
				second, haveSecond = pos, true
			}
		}
	}
	if !haveFirst {
		return Position{}, Position{}, false
	}
	if !haveSecond {
		second = first
	}
	return first, second, true
}

// fractionForRNG derives a ruin fraction in [0.1, 0.4] from r, used by
// RandomGreedy so successive generations vary how much of the solution
// each mutation disturbs.
func fractionForRNG(r *rng.RNG) float64 {
	return r.Float64Range(0.1, 0.4)
}
