package evolution

import (
	"context"
	"testing"

	"github.com/dshills/vrpcore/pkg/cache"
	"github.com/dshills/vrpcore/pkg/constraint"
	"github.com/dshills/vrpcore/pkg/insertion"
	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/population"
	"github.com/dshills/vrpcore/pkg/state"
	"github.com/dshills/vrpcore/pkg/telemetry"
	"github.com/dshills/vrpcore/pkg/transportcost"
)

func testSeed(t *testing.T) *state.SolutionContext {
	t.Helper()
	coords := map[string][2]float64{
		"depot": {0, 0},
		"a":     {1, 0},
		"b":     {2, 0},
		"c":     {3, 0},
	}
	oracle, err := transportcost.NewEuclidean(coords, 1.0)
	if err != nil {
		t.Fatalf("NewEuclidean: %v", err)
	}
	problem := model.NewProblem(oracle)

	vt := &model.VehicleType{ID: "van", Capacity: []int64{10}}
	actor := &model.Actor{
		ID:          "actor-1",
		VehicleType: vt,
		Shifts: []model.Shift{{
			Start:  model.Place{LocationID: "depot"},
			Window: model.TimeWindow{Start: 0, End: 100000},
		}},
	}
	if err := problem.AddActor(actor); err != nil {
		t.Fatalf("AddActor: %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		job := &model.Job{Single: &model.Single{
			ID:    "job-" + id,
			Type:  model.JobDelivery,
			Place: model.Place{LocationID: id},
		}}
		if err := problem.AddJob(job); err != nil {
			t.Fatalf("AddJob: %v", err)
		}
	}

	sol := state.NewSolutionContext(problem)
	sol.Routes = append(sol.Routes, state.NewRouteContext(model.NewRoute(actor)))

	pipeline := constraint.NewPipeline()
	solutions, err := cache.NewSolutionCache(64)
	if err != nil {
		t.Fatalf("NewSolutionCache: %v", err)
	}
	eval := insertion.NewEvaluator(pipeline, solutions)
	jobs := cache.NewJobCache()
	for _, id := range []string{"job-a", "job-b", "job-c"} {
		job := sol.Problem.Jobs[id]
		pos, ok := eval.BestPosition(sol, job, jobs)
		if !ok {
			t.Fatalf("setup: expected feasible position for %s", id)
		}
		if err := eval.Commit(sol, pos, job); err != nil {
			t.Fatalf("setup commit: %v", err)
		}
	}
	return sol
}

func straightConfig() *Config {
	return &Config{
		Seed:                   7,
		PopulationSize:         6,
		OffspringPerGeneration: 2,
		Operators:              []OperatorCfg{{Name: "random-greedy", Weight: 1}},
		Termination:            TerminationCfg{MaxGenerations: 3},
		Strategy:               StrategyStraight,
	}
}

func TestConfigValidateRejectsZeroPopulation(t *testing.T) {
	cfg := straightConfig()
	cfg.PopulationSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for zero populationSize")
	}
}

func TestConfigValidateRejectsNoTerminationPredicate(t *testing.T) {
	cfg := straightConfig()
	cfg.Termination = TerminationCfg{}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for no termination predicate")
	}
}

func TestConfigValidateRequiresIslandsForBranches(t *testing.T) {
	cfg := straightConfig()
	cfg.Strategy = StrategyBranches
	cfg.Islands = 1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for branches strategy with <= 1 island")
	}
}

func TestConfigHashIsDeterministic(t *testing.T) {
	cfg := straightConfig()
	h1 := cfg.Hash()
	h2 := cfg.Hash()
	if string(h1) != string(h2) {
		t.Fatalf("expected Hash to be stable across calls")
	}
	other := straightConfig()
	other.PopulationSize = 99
	if string(cfg.Hash()) == string(other.Hash()) {
		t.Fatalf("expected different configs to hash differently")
	}
}

func TestStraightRunStopsAtMaxGeneration(t *testing.T) {
	sol := testSeed(t)
	pipeline := constraint.NewPipeline()
	strat := NewStraight(straightConfig(), pipeline, nil, telemetry.NoopTelemetry{})

	result, err := strat.Run(context.Background(), []*state.SolutionContext{sol})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Reason != "MaxGeneration" {
		t.Fatalf("expected MaxGeneration, got %s", result.Reason)
	}
	if result.Stats.Generation != 3 {
		t.Fatalf("expected 3 generations, got %d", result.Stats.Generation)
	}
	if result.Best == nil {
		t.Fatalf("expected a best individual")
	}
}

func TestStraightRunRejectsEmptySeeds(t *testing.T) {
	pipeline := constraint.NewPipeline()
	strat := NewStraight(straightConfig(), pipeline, nil, nil)
	if _, err := strat.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty seeds")
	}
}

func TestStraightRunRespectsContextCancellation(t *testing.T) {
	sol := testSeed(t)
	pipeline := constraint.NewPipeline()
	cfg := straightConfig()
	cfg.Termination = TerminationCfg{MaxGenerations: 1000000}
	strat := NewStraight(cfg, pipeline, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := strat.Run(ctx, []*state.SolutionContext{sol}); err == nil {
		t.Fatalf("expected context cancellation error")
	}
}

func branchesConfig() *Config {
	cfg := straightConfig()
	cfg.Strategy = StrategyBranches
	cfg.Islands = 2
	cfg.MigrationInterval = 2
	cfg.MigrationCount = 1
	cfg.Termination = TerminationCfg{MaxGenerations: 4}
	return cfg
}

func TestBranchesRunMigratesAndConverges(t *testing.T) {
	sol := testSeed(t)
	pipeline := constraint.NewPipeline()
	strat := NewBranches(branchesConfig(), pipeline, nil, telemetry.NoopTelemetry{})

	result, err := strat.Run(context.Background(), []*state.SolutionContext{sol})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Best == nil {
		t.Fatalf("expected a best individual across islands")
	}
}

func TestBranchesRunRejectsSingleIsland(t *testing.T) {
	cfg := branchesConfig()
	cfg.Islands = 1
	pipeline := constraint.NewPipeline()
	strat := NewBranches(cfg, pipeline, nil, nil)
	if _, err := strat.Run(context.Background(), []*state.SolutionContext{}); err == nil {
		t.Fatalf("expected error for a branches config with a single island")
	}
}

func TestScoreCountsUnassignedAndDistance(t *testing.T) {
	sol := testSeed(t)
	obj := Score(sol)
	if obj.Unassigned != 0 {
		t.Fatalf("expected all jobs assigned in the fixture, got %d unassigned", obj.Unassigned)
	}
	if obj.Cost <= 0 {
		t.Fatalf("expected positive route distance, got %f", obj.Cost)
	}
}

func TestBestFitnessAndBestIndividualAgreeOnEmptyPopulation(t *testing.T) {
	pop := population.NewHeuristicPopulation(4)
	if bestIndividual(pop) != nil {
		t.Fatalf("expected nil best individual for an empty population")
	}
	if bestFitness(pop) != 0 {
		t.Fatalf("expected 0 best fitness for an empty population, got %f", bestFitness(pop))
	}
}
