package insertion

import (
	"context"

	"github.com/dshills/vrpcore/pkg/rng"
	"github.com/dshills/vrpcore/pkg/state"
)

// RandomGreedy ruins a random fraction of assigned jobs and recreates them
// in arbitrary order, each at its own first-improvement position. The
// cheapest operator to evaluate per generation; a good default for large
// problems where a full regret pass over every unplaced job is too slow.
type RandomGreedy struct{}

// Name implements Operator.
func (RandomGreedy) Name() string { return "random-greedy" }

// Mutate implements Operator.
func (RandomGreedy) Mutate(ctx context.Context, sol *state.SolutionContext, eval *Evaluator, r *rng.RNG) (*state.SolutionContext, error) {
	next := sol.Clone()
	victims := ruinRandom(next, fractionForRNG(r), r)
	recreateGreedy(next, eval, victims)
	return next, ctx.Err()
}

// WorstRegret ruins the most expensive jobs currently in the solution and
// recreates them in regret order, favoring the jobs with the narrowest
// window of good placements. More thorough, and more expensive per call,
// than RandomGreedy.
type WorstRegret struct {
	// Count is how many jobs to ruin per mutation. Defaults to 3 if <= 0.
	Count int
}

// Name implements Operator.
func (WorstRegret) Name() string { return "worst-regret" }

// Mutate implements Operator.
func (w WorstRegret) Mutate(ctx context.Context, sol *state.SolutionContext, eval *Evaluator, r *rng.RNG) (*state.SolutionContext, error) {
	n := w.Count
	if n <= 0 {
		n = 3
	}
	next := sol.Clone()
	victims := ruinWorst(next, n)
	recreateRegret(next, eval, victims)
	return next, ctx.Err()
}

func init() {
	Register("random-greedy", RandomGreedy{})
	Register("worst-regret", WorstRegret{})
}
