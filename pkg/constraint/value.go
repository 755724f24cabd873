package constraint

import (
	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

// Well-known state key this module writes.
const KeyTotalValue = "TOTAL_VALUE"

func init() {
	Register("value", func(cfg *Config) Module { return NewValueModule(cfg) })
}

// ValueModule is a pluggable per-job value accumulator, ported from
// vrp-core/src/solver/objectives/generic_value.rs (SUPPLEMENTED FEATURES):
// it sums the Value field of every assigned job and scores a route higher
// the more high-value jobs it serves, normalized against the highest
// possible value the jobs in this solution could contribute.
type ValueModule struct {
	cfg *Config
}

// NewValueModule returns a value module.
func NewValueModule(cfg *Config) *ValueModule {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ValueModule{cfg: cfg}
}

// Name implements Module.
func (m *ValueModule) Name() string { return "value" }

// StateKeys implements Module.
func (m *ValueModule) StateKeys() []string { return []string{KeyTotalValue} }

// ScoreRoute implements SoftRouteConstraint: the route's total accumulated
// job value, normalized by the maximum value any single route in this
// problem could theoretically accumulate (the sum of every job's value).
func (m *ValueModule) ScoreRoute(sol *state.SolutionContext, rc *state.RouteContext) Result {
	var routeValue, maxValue float64
	for _, job := range sol.Problem.Jobs {
		maxValue += jobValue(job)
	}
	for _, act := range rc.Route.Tour.Activities {
		if act.Job != nil {
			routeValue += jobValue(act.Job)
		}
	}

	n := len(rc.Route.Tour.Activities)
	if n > 0 {
		rc.State.Set(n-1, KeyTotalValue, routeValue)
	}

	if maxValue == 0 {
		return NewSoftResult("Value", "value.normalizedTotal()", 0.0, "no job carries value in this problem")
	}
	score := routeValue / maxValue * m.cfg.Weight
	return NewSoftResult("Value", "value.normalizedTotal()", score, "route value normalized against problem-wide maximum")
}

func jobValue(job *model.Job) float64 {
	if job.Single != nil {
		return job.Single.Value
	}
	if job.Multi != nil {
		return job.Multi.Value
	}
	return 0
}
