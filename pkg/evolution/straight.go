package evolution

import (
	"context"
	"fmt"
	"time"

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

// Straight runs a single population through one generation loop on the
// calling goroutine: select parents, mutate each with a weighted-random
// operator, score the offspring, fold them back into the population,
// report the generation to Telemetry, and check the termination composite.
// Grounded on dungeon.DefaultGenerator.Generate's single-threaded,
// stage-after-stage pipeline shape.
type Straight struct {
	Config    *Config
	Pipeline  *constraint.Pipeline
	Cache     *cache.SolutionCache
	Telemetry telemetry.Telemetry
}

// NewStraight returns a Straight strategy over cfg and pipeline. cache may
// be nil (every insertion lookup falls through to the pipeline). tel may
// be nil, in which case telemetry.NoopTelemetry{} is used.
func NewStraight(cfg *Config, pipeline *constraint.Pipeline, solutions *cache.SolutionCache, tel telemetry.Telemetry) *Straight {
	if tel == nil {
		tel = telemetry.NoopTelemetry{}
	}
	return &Straight{Config: cfg, Pipeline: pipeline, Cache: solutions, Telemetry: tel}
}

// Run evolves seeds until the configured termination composite fires or
// ctx is cancelled. seeds becomes the population's initial individuals;
// at least one is required.
func (s *Straight) Run(ctx context.Context, seeds []*state.SolutionContext) (*Result, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, fmt.Errorf("evolution config: %w", err)
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("evolution: at least one seed solution is required")
	}

	configHash := s.Config.Hash()
	ops, weights, err := resolvedOperators(s.Config)
	if err != nil {
		return nil, err
	}
	eval := insertion.NewEvaluator(s.Pipeline, s.Cache)

	pop := population.NewHeuristicPopulation(s.Config.PopulationSize)
	for _, sol := range seeds {
		pop.Add(population.NewIndividual(sol, Score(sol)))
	}

	q := quota.New(ctx)
	composite := buildComposite(s.Config.Termination, q)

	startedAt := time.Now()
	generation := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if q.Reached() {
			break
		}

		genRNG := rng.NewRNG(s.Config.Seed, fmt.Sprintf("generation-%d", generation), configHash)
		parents := pop.Select(s.Config.OffspringPerGeneration, genRNG)
		offspring := make([]*population.Individual, 0, len(parents))
		for _, parent := range parents {
			op := pickOperator(ops, weights, genRNG)
			child, err := mutateAndScore(ctx, op, parent.Solution, eval, genRNG)
			if err != nil {
				return nil, fmt.Errorf("generation %d: %w", generation, err)
			}
			offspring = append(offspring, child)
		}

		improved := pop.AddAll(offspring)
		generation++

		stats := termination.Statistics{
			Generation:  generation,
			StartedAt:   startedAt,
			Now:         time.Now(),
			BestFitness: bestFitness(pop),
		}
		s.Telemetry.OnGeneration(telemetry.GenerationEvent{Stats: stats, Pop: pop, Improved: improved})

		if stop, reason := composite.Check(stats); stop {
			result := &Result{Best: bestIndividual(pop), Reason: reason, Stats: stats}
			s.Telemetry.OnResult(telemetry.ResultEvent{Best: result.Best, Reason: reason, Stats: stats})
			return result, nil
		}
	}

	stats := termination.Statistics{Generation: generation, StartedAt: startedAt, Now: time.Now(), BestFitness: bestFitness(pop)}
	result := &Result{Best: bestIndividual(pop), Reason: "ContextCancelled", Stats: stats}
	s.Telemetry.OnResult(telemetry.ResultEvent{Best: result.Best, Reason: result.Reason, Stats: stats})
	return result, ctx.Err()
}

// bestFitness returns the population's lowest current Cost, or 0 if empty.
func bestFitness(pop *population.HeuristicPopulation) float64 {
	best := bestIndividual(pop)
	if best == nil {
		return 0
	}
	return best.Objectives.Cost
}

// bestIndividual returns the rank-0 individual with the lowest Cost, or
// nil if pop is empty.
func bestIndividual(pop *population.HeuristicPopulation) *population.Individual {
	var best *population.Individual
	for _, r := range pop.Ranked() {
		if r.Rank != 0 {
			continue
		}
		if best == nil || r.Individual.Objectives.Cost < best.Objectives.Cost {
			best = r.Individual
		}
	}
	return best
}
