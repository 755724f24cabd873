package population

import "github.com/dshills/vrpcore/pkg/state"

// Objectives is the multi-objective score an Individual is compared on.
// Lower is better on every field, following the solver's cost-minimization
// convention (pkg/constraint's soft modules already score this way).
type Objectives struct {
	Cost       float64
	Unassigned int
}

// Dominates reports whether a is at least as good as b on every objective
// and strictly better on at least one — the standard Pareto dominance
// relation HeuristicPopulation ranks individuals by.
func (a Objectives) Dominates(b Objectives) bool {
	betterOrEqual := a.Cost <= b.Cost && a.Unassigned <= b.Unassigned
	strictlyBetter := a.Cost < b.Cost || a.Unassigned < b.Unassigned
	return betterOrEqual && strictlyBetter
}

// Individual is one candidate solution held by the population: the
// solution itself, its objective scores, and the per-route fitness a
// MinVariation(is_global=false) termination predicate reads by actor ID.
type Individual struct {
	Solution     *state.SolutionContext
	Objectives   Objectives
	RouteFitness map[string]float64
}

// NewIndividual returns an individual wrapping sol with the given
// objectives.
func NewIndividual(sol *state.SolutionContext, objectives Objectives) *Individual {
	return &Individual{Solution: sol, Objectives: objectives, RouteFitness: make(map[string]float64)}
}
