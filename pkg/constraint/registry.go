package constraint

import (
	"fmt"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

// Module is the contract every constraint module implements. StateKeys
// names the route-state keys this module owns — the set STATE-1 checks
// against to catch two modules writing the same key.
//
// A module implements whichever of the checking interfaces below apply to
// it by satisfying their method sets; Pipeline type-asserts each module
// against HardActivityConstraint, HardRouteConstraint and
// SoftRouteConstraint at call time, each time it evaluates or scores. No
// Pipeline method asserts SoftActivityConstraint. This mirrors embedding.Embedder's
// single-interface contract, split into four because this constraint
// pipeline distinguishes hard/soft and route/activity independently, where
// Embedder had only one Embed operation to implement.
type Module interface {
	Name() string
	StateKeys() []string
}

// HardRouteConstraint evaluates whether a candidate job can be admitted
// into a route at all, considering the route as a whole rather than one
// candidate index (e.g. whether any multi-trip interval has room for it).
type HardRouteConstraint interface {
	Module
	CheckRoute(sol *state.SolutionContext, rc *state.RouteContext, job *model.Job) Result
}

// SoftRouteConstraint scores a route as a whole (e.g. work-balance,
// generic value).
type SoftRouteConstraint interface {
	Module
	ScoreRoute(sol *state.SolutionContext, rc *state.RouteContext) Result
}

// HardActivityConstraint evaluates a single candidate activity insertion
// (e.g. capacity, time window, skills). placeIdx identifies which of job's
// places is being tested — 0 for a Single, the piece index for a Multi, so
// a module can look up that piece's own demand/type/time windows instead of
// always assuming the job's first place.
type HardActivityConstraint interface {
	Module
	CheckActivity(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int) Result
}

// SoftActivityConstraint scores a single candidate activity insertion.
type SoftActivityConstraint interface {
	Module
	ScoreActivity(sol *state.SolutionContext, rc *state.RouteContext, idx int, job *model.Job, placeIdx int) Result
}

// InsertionAcceptor is notified once a job insertion is actually committed
// to sol.Routes[routeIdx] (as opposed to merely probed by CheckActivity
// during the search sweep). A module implements this when its feasibility
// bookkeeping must only advance on a real commit — DispatchModule's tier
// budget is the example in this package: a tier's remaining-visits count
// must decrement once, on commit, not once per candidate position the
// search happened to probe. Optional.
type InsertionAcceptor interface {
	Module
	AcceptInsertion(sol *state.SolutionContext, routeIdx int, job *model.Job)
}

// SolutionStateAcceptor runs once per fully-assembled solution (after a
// mutation operator's recreate phase completes) to let a module promote or
// demote conditionally-admitted jobs and recompute any state that depends
// on the whole solution rather than one route in isolation. Optional; no
// module in this package implements it, and Pipeline does not call it.
type SolutionStateAcceptor interface {
	Module
	AcceptSolutionState(sol *state.SolutionContext)
}

// ViolationCode names why JobMerger.Merge refused to combine two jobs.
type ViolationCode string

// Violation codes JobMerger implementations may return.
const (
	ViolationNone               ViolationCode = ""
	ViolationDifferentLocation  ViolationCode = "different_location"
	ViolationIncompatibleSkills ViolationCode = "incompatible_skills"
	ViolationDemandOverflow     ViolationCode = "demand_overflow"
	ViolationNotMergeable       ViolationCode = "not_mergeable"
)

// JobMerger reconciles two already-admitted jobs a ruin/recreate operator
// is considering fusing into a single route slot (e.g. two deliveries at
// the same stop, visited together instead of as separate activities).
// Returns the merged job on success, or a ViolationCode naming why the two
// cannot merge. Optional.
type JobMerger interface {
	Module
	Merge(source, candidate *model.Job) (*model.Job, ViolationCode)
}

// Config parameterizes a module factory, the same way embedding.Config
// parameterizes an Embedder. Fields unused by a given module are simply
// ignored, the way force_directed.go ignores CorridorMaxBends.
type Config struct {
	Name              string
	MaxVariationCoeff float64 // used by balance.go
	RechargeDistance  float64 // checked by Validate only; recharge.go uses each shift's Recharge.DistanceThreshold
	Weight            float64 // used by value.go and balance.go to scale soft scores
	Transport         model.TransportOracle // used by recharge.go and transport.go
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxVariationCoeff: 0.3,
		RechargeDistance:  500.0,
		Weight:            1.0,
	}
}

// Validate checks the config's own fields.
func (c *Config) Validate() error {
	if c.MaxVariationCoeff < 0 {
		return fmt.Errorf("MaxVariationCoeff must be >= 0, got %f", c.MaxVariationCoeff)
	}
	if c.RechargeDistance <= 0 {
		return fmt.Errorf("RechargeDistance must be > 0, got %f", c.RechargeDistance)
	}
	if c.Weight < 0 {
		return fmt.Errorf("Weight must be >= 0, got %f", c.Weight)
	}
	return nil
}

var registry = make(map[string]func(*Config) Module)

// Register adds a module factory to the registry. Panics on a nil factory
// or a duplicate name, exactly as embedding.Register does — registration
// happens at package init time, so a programming error here should fail
// loudly and immediately rather than surface as a confusing runtime error
// deep inside a generation run.
func Register(name string, factory func(*Config) Module) {
	if factory == nil {
		panic(fmt.Sprintf("constraint: Register factory for %s is nil", name))
	}
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("constraint: Register called twice for %s", name))
	}
	registry[name] = factory
}

// Get retrieves a module by name and initializes it with the given config.
func Get(name string, config *Config) (Module, error) {
	factory, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("constraint module %q not registered", name)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return factory(config), nil
}

// List returns the names of all registered modules.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
