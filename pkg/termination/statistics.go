package termination

import "time"

// Statistics is the per-generation snapshot every predicate evaluates
// against. The evolution strategy builds one of these once per generation
// and passes it to Composite.Check.
type Statistics struct {
	// Generation is the number of completed generations so far.
	Generation int

	// StartedAt is when the run began, used by MaxTime to compute elapsed
	// wall-clock time.
	StartedAt time.Time

	// Now is the timestamp this generation's statistics were captured at.
	// Passed explicitly rather than read via time.Now() inside the
	// predicates so a test can drive MaxTime/MinVariation(Period) with a
	// synthetic clock.
	Now time.Time

	// BestFitness is the current generation's best solution fitness
	// (lower is better, following the solver's cost-minimization convention).
	BestFitness float64

	// RouteFitness, keyed by actor ID, is each route's individual fitness
	// — consulted by a MinVariation predicate configured with
	// IsGlobal=false and a specific Key.
	RouteFitness map[string]float64
}
