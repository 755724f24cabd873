package insertion

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/vrpcore/pkg/rng"
	"github.com/dshills/vrpcore/pkg/state"
)

// Operator is one ruin-and-recreate mutation: given a solution and an
// evaluator to place jobs back with, it destroys part of the solution and
// rebuilds it, returning the mutated copy. Implementations must use only
// the supplied RNG for randomness so a run stays deterministic end to end
// (the same contract synthesis.GraphSynthesizer's doc comment states for
// graph synthesis strategies).
//
// Available implementations:
//   - "random-greedy" (RandomGreedy): random-subset ruin, first-fit-cheapest recreate
//   - "worst-regret" (WorstRegret): worst-job ruin, regret-k recreate
type Operator interface {
	// Mutate returns a new SolutionContext derived from sol.
	Mutate(ctx context.Context, sol *state.SolutionContext, eval *Evaluator, r *rng.RNG) (*state.SolutionContext, error)

	// Name returns the operator's identifier for registration.
	Name() string
}

var (
	operatorsMu sync.RWMutex
	operators   = make(map[string]Operator)
)

// Register adds an operator to the global registry. Panics if name is
// already registered.
func Register(name string, op Operator) {
	operatorsMu.Lock()
	defer operatorsMu.Unlock()
	if _, exists := operators[name]; exists {
		panic(fmt.Sprintf("insertion: operator %q already registered", name))
	}
	operators[name] = op
}

// Get retrieves a registered operator by name, or nil if not found.
func Get(name string) Operator {
	operatorsMu.RLock()
	defer operatorsMu.RUnlock()
	return operators[name]
}

// List returns every registered operator name.
func List() []string {
	operatorsMu.RLock()
	defer operatorsMu.RUnlock()
	names := make([]string, 0, len(operators))
	for name := range operators {
		names = append(names, name)
	}
	return names
}
