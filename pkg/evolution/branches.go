package evolution

import (
	"context"
	"fmt"
	"time"

	set "github.com/hashicorp/go-set/v3"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/vrpcore/pkg/cache"
	"github.com/dshills/vrpcore/pkg/constraint"
	"github.com/dshills/vrpcore/pkg/insertion"
	"github.com/dshills/vrpcore/pkg/population"
	"github.com/dshills/vrpcore/pkg/quota"
	"github.com/dshills/vrpcore/pkg/rng"
	"github.com/dshills/vrpcore/pkg/state"
	"github.com/dshills/vrpcore/pkg/telemetry"
	"github.com/dshills/vrpcore/pkg/termination"
)

// Branches runs Config.Islands independent populations in parallel,
// migrating each island's best individuals to its ring neighbor every
// Config.MigrationInterval generations, until a shared termination quota
// is raised. Grounded on golang.org/x/sync/errgroup's WithContext idiom
// (events.NewEvents in the virtengine SDK), generalized from one
// cancel-propagating goroutine group to a repeating
// run-a-round/migrate/run-another-round loop.
type Branches struct {
	Config    *Config
	Pipeline  *constraint.Pipeline
	Cache     *cache.SolutionCache
	Telemetry telemetry.Telemetry
}

// NewBranches returns a Branches strategy over cfg and pipeline. solutions
// may be nil; otherwise Run gives each island its own copy of it through
// CloneOnlyWith, holding only that island's actors. tel may be nil, in
// which case telemetry.NoopTelemetry{} is used.
func NewBranches(cfg *Config, pipeline *constraint.Pipeline, solutions *cache.SolutionCache, tel telemetry.Telemetry) *Branches {
	if tel == nil {
		tel = telemetry.NoopTelemetry{}
	}
	return &Branches{Config: cfg, Pipeline: pipeline, Cache: solutions, Telemetry: tel}
}

// island holds one population's persistent state across migration rounds.
type island struct {
	id         string
	pop        *population.HeuristicPopulation
	composite  *termination.Composite
	generation int
	eval       *insertion.Evaluator
}

// Run partitions seeds round-robin across Config.Islands populations and
// evolves them in lockstep rounds of Config.MigrationInterval generations,
// migrating Config.MigrationCount individuals between ring neighbors after
// every round, until the shared quota is raised or ctx is cancelled.
func (b *Branches) Run(ctx context.Context, seeds []*state.SolutionContext) (*Result, error) {
	if err := b.Config.Validate(); err != nil {
		return nil, fmt.Errorf("evolution config: %w", err)
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("evolution: at least one seed solution is required")
	}

	configHash := b.Config.Hash()
	ops, weights, err := resolvedOperators(b.Config)
	if err != nil {
		return nil, err
	}

	q := quota.New(ctx)
	islandActors := make([]*set.Set[string], b.Config.Islands)
	for i := range islandActors {
		islandActors[i] = set.New[string](0)
	}
	for i, sol := range seeds {
		target := i % b.Config.Islands
		for _, rc := range sol.Routes {
			islandActors[target].Insert(rc.Route.Actor.ID)
		}
	}

	islands := make([]*island, b.Config.Islands)
	for i := range islands {
		var islandCache *cache.SolutionCache
		if b.Cache != nil {
			forked, err := b.Cache.CloneOnlyWith(islandActors[i])
			if err != nil {
				return nil, fmt.Errorf("evolution: forking island %d cache: %w", i, err)
			}
			islandCache = forked
		}
		islands[i] = &island{
			id:        fmt.Sprintf("island-%d", i),
			pop:       population.NewHeuristicPopulation(b.Config.PopulationSize),
			composite: buildComposite(b.Config.Termination, q),
			eval:      insertion.NewEvaluator(b.Pipeline, islandCache),
		}
	}
	for i, sol := range seeds {
		target := islands[i%len(islands)]
		target.pop.Add(population.NewIndividual(sol, Score(sol)))
	}

	startedAt := time.Now()
	for !q.Reached() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		group, gctx := errgroup.WithContext(ctx)
		for _, isl := range islands {
			isl := isl
			group.Go(func() error {
				return b.runRound(gctx, isl, ops, weights, configHash, startedAt, q)
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}

		migrate(islands, b.Config.MigrationCount)
	}

	return b.collect(islands, startedAt), nil
}

// runRound advances isl by Config.MigrationInterval generations, or until
// q is reached.
func (b *Branches) runRound(ctx context.Context, isl *island, ops []insertion.Operator, weights []float64, configHash []byte, startedAt time.Time, q *quota.Quota) error {
	for n := 0; n < b.Config.MigrationInterval; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if q.Reached() {
			return nil
		}

		genRNG := rng.NewRNG(b.Config.Seed, fmt.Sprintf("%s-generation-%d", isl.id, isl.generation), configHash)
		parents := isl.pop.Select(b.Config.OffspringPerGeneration, genRNG)
		offspring := make([]*population.Individual, 0, len(parents))
		for _, parent := range parents {
			op := pickOperator(ops, weights, genRNG)
			child, err := mutateAndScore(ctx, op, parent.Solution, isl.eval, genRNG)
			if err != nil {
				return fmt.Errorf("%s generation %d: %w", isl.id, isl.generation, err)
			}
			offspring = append(offspring, child)
		}

		improved := isl.pop.AddAll(offspring)
		isl.generation++

		stats := termination.Statistics{
			Generation:  isl.generation,
			StartedAt:   startedAt,
			Now:         time.Now(),
			BestFitness: bestFitness(isl.pop),
		}
		b.Telemetry.OnGeneration(telemetry.GenerationEvent{Stats: stats, Pop: isl.pop, Improved: improved, IslandID: isl.id})

		if stop, _ := isl.composite.Check(stats); stop {
			return nil
		}
	}
	return nil
}

// migrate moves each island's top count individuals into its ring
// neighbor's population (island i feeds island i+1, wrapping around).
func migrate(islands []*island, count int) {
	if len(islands) < 2 {
		return
	}
	migrants := make([][]*population.Individual, len(islands))
	for i, isl := range islands {
		migrants[i] = topIndividuals(isl.pop, count)
	}
	for i, isl := range islands {
		next := islands[(i+1)%len(islands)]
		next.pop.AddAll(migrants[i])
		_ = isl
	}
}

// topIndividuals returns up to count of pop's rank-0 individuals, lowest
// cost first.
func topIndividuals(pop *population.HeuristicPopulation, count int) []*population.Individual {
	ranked := pop.Ranked()
	front := make([]*population.Individual, 0, len(ranked))
	for _, r := range ranked {
		if r.Rank == 0 {
			front = append(front, r.Individual)
		}
	}
	for i := 0; i < len(front); i++ {
		for j := i + 1; j < len(front); j++ {
			if front[j].Objectives.Cost < front[i].Objectives.Cost {
				front[i], front[j] = front[j], front[i]
			}
		}
	}
	if count > len(front) {
		count = len(front)
	}
	return front[:count]
}

// collect picks the best individual across every island and assembles the
// final Result, reporting it to Telemetry.
func (b *Branches) collect(islands []*island, startedAt time.Time) *Result {
	var best *population.Individual
	var bestStats termination.Statistics
	reason := "MaxGeneration"
	for _, isl := range islands {
		candidate := bestIndividual(isl.pop)
		if candidate == nil {
			continue
		}
		if best == nil || candidate.Objectives.Cost < best.Objectives.Cost {
			best = candidate
			bestStats = termination.Statistics{
				Generation:  isl.generation,
				StartedAt:   startedAt,
				Now:         time.Now(),
				BestFitness: candidate.Objectives.Cost,
			}
		}
	}
	result := &Result{Best: best, Reason: reason, Stats: bestStats}
	b.Telemetry.OnResult(telemetry.ResultEvent{Best: best, Reason: reason, Stats: bestStats})
	return result
}
