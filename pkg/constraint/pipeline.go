package constraint

import (
	"fmt"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

// Pipeline orchestrates an ordered set of constraint modules against a
// candidate job insertion or a completed solution. Grounded on
// validation.DefaultValidator.Validate's three-step shape
// (checkHardConstraints, then checkSoftConstraints, then computeMetrics):
// Pipeline.CheckInsertion plays the hard-constraints role (first
// disqualifying failure wins) and Pipeline.ScoreSolution plays the
// soft-constraints role (every module contributes to an aggregate score).
type Pipeline struct {
	modules []Module
}

// NewPipeline returns a pipeline over modules, in the order they should be
// evaluated. Order matters for Stopped short-circuiting: put the cheapest,
// most commonly-disqualifying checks first (skills, then capacity, then
// transport) so expensive oracle lookups are skipped whenever possible.
func NewPipeline(modules ...Module) *Pipeline {
	return &Pipeline{modules: modules}
}

// StateKeyOwners returns, for every state key any module declares owning,
// the list of module names that declared it. A key owned by more than one
// module is a configuration error (STATE-1): two modules racing to write
// the same key produce results that depend on evaluation order.
func (p *Pipeline) StateKeyOwners() map[string][]string {
	owners := make(map[string][]string)
	for _, m := range p.modules {
		for _, key := range m.StateKeys() {
			owners[key] = append(owners[key], m.Name())
		}
	}
	return owners
}

// CheckStateKeyOwnership returns an error naming every state key owned by
// more than one registered module.
func (p *Pipeline) CheckStateKeyOwnership() error {
	var conflicts []string
	for key, owners := range p.StateKeyOwners() {
		if len(owners) > 1 {
			conflicts = append(conflicts, fmt.Sprintf("%s: %v", key, owners))
		}
	}
	if len(conflicts) > 0 {
		return fmt.Errorf("constraint pipeline: state key ownership conflicts: %v", conflicts)
	}
	return nil
}

// CheckInsertion evaluates every HardActivityConstraint module against a
// candidate insertion of job at idx within rc, then, if all of those are
// satisfied, every HardRouteConstraint module. Evaluation stops at the
// first unsatisfied result — whether or not that module set Stopped —
// since a hard-constraint pipeline never needs a second disqualifying
// reason once it has one; Stopped additionally tells the caller (the
// insertion evaluator sweeping later activities in the same route) that no
// later activity needs checking either.
func (p *Pipeline) CheckInsertion(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int) Result {
	for _, m := range p.modules {
		hc, ok := m.(HardActivityConstraint)
		if !ok {
			continue
		}
		result := hc.CheckActivity(sol, rc, idx, job, placeIdx)
		if !result.Satisfied {
			return result
		}
	}
	for _, m := range p.modules {
		hc, ok := m.(HardRouteConstraint)
		if !ok {
			continue
		}
		result := hc.CheckRoute(sol, rc, job)
		if !result.Satisfied {
			return result
		}
	}
	return NewHardResult("Pipeline", "pipeline.allHardConstraintsSatisfied()", true, "all hard constraints satisfied")
}

// AcceptInsertion notifies every InsertionAcceptor module that job has
// been committed into sol.Routes[routeIdx], after the route has been
// resweapt to reflect the insertion. Unlike CheckInsertion, this fires
// exactly once per real commit, never once per candidate a search probed
// and discarded.
func (p *Pipeline) AcceptInsertion(sol *state.SolutionContext, routeIdx int, job *model.Job) {
	for _, m := range p.modules {
		if ia, ok := m.(InsertionAcceptor); ok {
			ia.AcceptInsertion(sol, routeIdx, job)
		}
	}
}

// ScoreSolution evaluates every SoftRouteConstraint module (at route scope)
// plus any module exposing a ScoreSolution method (at solution scope, used
// by BalanceModule) and returns every individual Result, one per
// solution-scope module plus one per route for each route-scope module.
func (p *Pipeline) ScoreSolution(sol *state.SolutionContext) []Result {
	var results []Result
	for _, m := range p.modules {
		if sc, ok := m.(interface {
			ScoreSolution(*state.SolutionContext) Result
		}); ok {
			results = append(results, sc.ScoreSolution(sol))
			continue
		}
		sr, ok := m.(SoftRouteConstraint)
		if !ok {
			continue
		}
		for _, rc := range sol.Routes {
			results = append(results, sr.ScoreRoute(sol, rc))
		}
	}
	return results
}

// Resweep re-derives every module's RouteState for rc by calling each
// module's Resweep method, if it has one, in registration order. Modules
// without per-activity state (SkillsModule, DispatchModule) are skipped.
func (p *Pipeline) Resweep(rc *state.RouteContext) error {
	for _, m := range p.modules {
		switch sweeper := m.(type) {
		case interface{ Resweep(*state.RouteContext) }:
			sweeper.Resweep(rc)
		case interface{ Resweep(*state.RouteContext) error }:
			if err := sweeper.Resweep(rc); err != nil {
				return fmt.Errorf("constraint pipeline: module %s resweep: %w", m.Name(), err)
			}
		}
	}
	return nil
}
