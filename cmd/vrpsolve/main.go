package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"

	"github.com/dshills/vrpcore/pkg/cache"
	"github.com/dshills/vrpcore/pkg/constraint"
	"github.com/dshills/vrpcore/pkg/evolution"
	"github.com/dshills/vrpcore/pkg/format"
	"github.com/dshills/vrpcore/pkg/insertion"
	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
	"github.com/dshills/vrpcore/pkg/telemetry"
)

const version = "1.0.0"

// CLI flags
var (
	problemPath = flag.String("problem", "", "Path to problem JSON document (required)")
	configPath  = flag.String("config", "", "Path to YAML evolution configuration file (required)")
	outputPath  = flag.String("output", "solution.json", "Path to write the solution JSON document")
	seedFlag    = flag.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	verbose     = flag.Bool("verbose", false, "Enable verbose (debug-level) logging")
	versionF    = flag.Bool("version", false, "Print version and exit")
	help        = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("vrpsolve version %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *problemPath == "" || *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -problem and -config flags are required")
		printUsage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := log.NewLogger(os.Stderr, log.LevelOption(level))

	logger.Info("loading problem", "path", *problemPath)
	data, err := os.ReadFile(*problemPath)
	if err != nil {
		return fmt.Errorf("reading problem document: %w", err)
	}
	problem, err := format.ParseProblem(data)
	if err != nil {
		return fmt.Errorf("parsing problem document: %w", err)
	}
	logger.Info("problem parsed", "jobs", len(problem.Jobs), "actors", len(problem.Actors))

	logger.Info("loading config", "path", *configPath)
	cfg, err := evolution.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading evolution config: %w", err)
	}
	if *seedFlag != 0 {
		logger.Info("overriding seed", "from", cfg.Seed, "to", *seedFlag)
		cfg.Seed = *seedFlag
	}

	pipeline := constraint.NewPipeline()
	solutions, err := cache.NewSolutionCache(256)
	if err != nil {
		return fmt.Errorf("building solution cache: %w", err)
	}
	jobs := cache.NewJobCache()
	eval := insertion.NewEvaluator(pipeline, solutions)

	seed := state.NewSolutionContext(problem)
	for _, actor := range problem.Actors {
		seed.Routes = append(seed.Routes, state.NewRouteContext(model.NewRoute(actor)))
	}
	for _, job := range problem.Jobs {
		pos, ok := eval.BestPosition(seed, job, jobs)
		if !ok {
			logger.Debug("no feasible initial position", "job", job.ID())
			continue
		}
		if err := eval.Commit(seed, pos, job); err != nil {
			return fmt.Errorf("seeding initial solution: %w", err)
		}
	}
	logger.Info("initial solution seeded", "assigned", len(problem.Jobs)-seed.Unassigned.Size(), "unassigned", seed.Unassigned.Size())

	tel := telemetry.NewConsoleTelemetry(logger)

	var result *evolution.Result
	start := time.Now()
	switch cfg.Strategy {
	case evolution.StrategyBranches:
		strat := evolution.NewBranches(cfg, pipeline, solutions, tel)
		result, err = strat.Run(ctx, []*state.SolutionContext{seed})
	default:
		strat := evolution.NewStraight(cfg, pipeline, solutions, tel)
		result, err = strat.Run(ctx, []*state.SolutionContext{seed})
	}
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("evolution run: %w", err)
	}
	logger.Info("run complete", "reason", result.Reason, "generations", result.Stats.Generation, "elapsed", elapsed)

	if result.Best == nil {
		return fmt.Errorf("evolution run produced no best individual")
	}

	doc := format.BuildSolution(result.Best.Solution, time.Now().Truncate(time.Second))
	data, err = format.MarshalSolution(doc)
	if err != nil {
		return fmt.Errorf("marshaling solution: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(*outputPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(*outputPath, data, 0644); err != nil {
		return fmt.Errorf("writing solution document: %w", err)
	}

	fmt.Printf("Solved (seed=%d, strategy=%s) in %v: cost=%.2f unassigned=%d -> %s\n",
		cfg.Seed, cfg.Strategy, elapsed, result.Best.Objectives.Cost, result.Best.Objectives.Unassigned, *outputPath)
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: vrpsolve -problem <problem.json> -config <evolution.yaml> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'vrpsolve -help' for detailed help")
}

func printHelp() {
	fmt.Printf("vrpsolve version %s\n\n", version)
	fmt.Println("A command-line tool for solving vehicle routing problems.")
	fmt.Println("\nUsage:")
	fmt.Println("  vrpsolve -problem <problem.json> -config <evolution.yaml> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -problem string")
	fmt.Println("        Path to problem JSON document")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML evolution configuration file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output string")
	fmt.Println("        Path to write the solution JSON document (default: solution.json)")
	fmt.Println("  -seed uint")
	fmt.Println("        Override the seed from config (0 = use config seed) (default: 0)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose (debug-level) logging")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Solve a problem with a given evolution configuration")
	fmt.Println("  vrpsolve -problem fleet.json -config evolution.yaml")
	fmt.Println("\n  # Solve with an overridden seed and verbose logging")
	fmt.Println("  vrpsolve -problem fleet.json -config evolution.yaml -seed 12345 -verbose")
	fmt.Println("\nConfiguration File:")
	fmt.Println("  The YAML configuration file specifies evolution parameters including:")
	fmt.Println("  - Seed (for deterministic runs)")
	fmt.Println("  - Population size and offspring per generation")
	fmt.Println("  - Mutation operators and their weights")
	fmt.Println("  - Termination predicates (maxGenerations, maxTime, minVariationWindow)")
	fmt.Println("  - Strategy (straight or branches) and island topology")
}
