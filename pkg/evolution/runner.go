// Grounded on dungeon.DefaultGenerator.Generate's pipeline shape: validate
// config, compute a config hash, derive per-stage RNGs from it, run each
// stage with a cancellation check between them, wrap every stage error
// with the stage's name.
package evolution

import (
	"context"
	"fmt"

	"github.com/dshills/vrpcore/pkg/insertion"
	"github.com/dshills/vrpcore/pkg/population"
	"github.com/dshills/vrpcore/pkg/quota"
	"github.com/dshills/vrpcore/pkg/rng"
	"github.com/dshills/vrpcore/pkg/state"
	"github.com/dshills/vrpcore/pkg/termination"
)

// Result is the outcome of a completed evolution run.
type Result struct {
	Best   *population.Individual
	Reason string
	Stats  termination.Statistics
}

// resolvedOperators looks up every configured operator name in the global
// insertion registry, returning an error naming the first one not found.
func resolvedOperators(cfg *Config) ([]insertion.Operator, []float64, error) {
	ops := make([]insertion.Operator, 0, len(cfg.Operators))
	weights := make([]float64, 0, len(cfg.Operators))
	for _, o := range cfg.Operators {
		op := insertion.Get(o.Name)
		if op == nil {
			return nil, nil, fmt.Errorf("evolution: operator %q is not registered", o.Name)
		}
		weight := o.Weight
		if weight <= 0 {
			weight = 1.0
		}
		ops = append(ops, op)
		weights = append(weights, weight)
	}
	return ops, weights, nil
}

// pickOperator draws one operator from ops using weights and r.
func pickOperator(ops []insertion.Operator, weights []float64, r *rng.RNG) insertion.Operator {
	idx := r.WeightedChoice(weights)
	if idx < 0 {
		idx = 0
	}
	return ops[idx]
}

// buildComposite constructs a termination.Composite from cfg.Termination,
// raising q the first generation any configured predicate stops the run.
func buildComposite(cfg TerminationCfg, q *quota.Quota) *termination.Composite {
	composite := termination.NewComposite(q)
	if cfg.MaxGenerations > 0 {
		composite.Add(termination.NewMaxGeneration(cfg.MaxGenerations))
	}
	if cfg.MaxTime > 0 {
		composite.Add(termination.NewMaxTime(cfg.MaxTime))
	}
	if cfg.MinVariationWindow > 0 {
		composite.Add(termination.NewMinVariation(termination.Sample, cfg.MinVariationWindow, cfg.MinVariationTheta, true, ""))
	}
	return composite
}

// mutateAndScore runs one operator mutation over parent, returning the
// mutated offspring as a new Individual. ctx cancellation is checked after
// the mutation returns, mirroring Generate's between-stage select/default.
func mutateAndScore(ctx context.Context, op insertion.Operator, parent *state.SolutionContext, eval *insertion.Evaluator, r *rng.RNG) (*population.Individual, error) {
	child, err := op.Mutate(ctx, parent, eval, r)
	if err != nil {
		return nil, fmt.Errorf("operator %s: %w", op.Name(), err)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return population.NewIndividual(child, Score(child)), nil
}
