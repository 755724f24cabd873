package constraint

import (
	"math"

	"github.com/dshills/vrpcore/pkg/state"
)

// Well-known state keys this module declares in StateKeys. ScoreSolution
// computes its score directly and does not write these keys to RouteState.
const (
	KeyBalanceMaxLoad  = "BALANCE_MAX_LOAD"
	KeyBalanceActivity = "BALANCE_ACTIVITY"
	KeyBalanceDistance = "BALANCE_DISTANCE"
	KeyBalanceDuration = "BALANCE_DURATION"
)

func init() {
	Register("balance", func(cfg *Config) Module { return NewBalanceModule(cfg) })
}

// BalanceModule scores a solution's work-balance across its routes: the
// closer the per-route activity-count/distance/duration totals are to
// each other, the higher the score. Ported in spirit from
// vrp-core/src/solver/objectives/work_balance.rs (SUPPLEMENTED FEATURES),
// averaging the coefficient of variation (stddev / mean) across routes of
// those three measures. Load is not one of the measures.
//
// Activity counts are whole-route totals: BalanceModule does not read
// RELOAD_INTERVALS (MultiTripModule's state key), so an actor's reload
// trips are not counted separately.
type BalanceModule struct {
	cfg *Config
}

// NewBalanceModule returns a work-balance module.
func NewBalanceModule(cfg *Config) *BalanceModule {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &BalanceModule{cfg: cfg}
}

// Name implements Module.
func (m *BalanceModule) Name() string { return "balance" }

// StateKeys implements Module.
func (m *BalanceModule) StateKeys() []string {
	return []string{KeyBalanceMaxLoad, KeyBalanceActivity, KeyBalanceDistance, KeyBalanceDuration}
}

// ScoreSolution computes the work-balance score across every route in sol.
// This runs at the solution level rather than per-route (unlike
// ScoreRoute below, kept to satisfy SoftRouteConstraint for routes
// evaluated independently during insertion search) because balance is
// inherently a cross-route comparison.
func (m *BalanceModule) ScoreSolution(sol *state.SolutionContext) Result {
	if len(sol.Routes) < 2 {
		return NewSoftResult("Balance", "balance.coefficientOfVariation()", 1.0, "fewer than 2 routes, balance trivially satisfied")
	}

	activityCounts := make([]float64, len(sol.Routes))
	distances := make([]float64, len(sol.Routes))
	durations := make([]float64, len(sol.Routes))

	for i, rc := range sol.Routes {
		activityCounts[i] = float64(rc.Route.Tour.JobCount())
		n := len(rc.Route.Tour.Activities)
		if n > 0 {
			distances[i] = rc.State.GetFloat64(n-1, KeyTotalDistance)
			durations[i] = float64(rc.State.GetInt64(n-1, KeyTotalDuration))
		}
	}

	cv := (coeffVariation(activityCounts) + coeffVariation(distances) + coeffVariation(durations)) / 3.0
	score := math.Max(0.0, 1.0-cv/m.cfg.MaxVariationCoeff)
	return NewSoftResult("Balance", "balance.coefficientOfVariation()", score*m.cfg.Weight,
		"work balance across routes scored by coefficient of variation")
}

// ScoreRoute implements SoftRouteConstraint as a per-route stand-in: a
// single route has no peers to compare against during isolated insertion
// evaluation, so it always returns a neutral score; ScoreSolution is what
// the evolution strategy actually consults once per generation.
func (m *BalanceModule) ScoreRoute(sol *state.SolutionContext, rc *state.RouteContext) Result {
	return NewSoftResult("Balance", "balance.coefficientOfVariation()", 1.0, "balance evaluated at solution scope, see ScoreSolution")
}

func coeffVariation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / mean
}
