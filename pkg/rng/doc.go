// Package rng provides deterministic random number generation for the solver.
//
// # Overview
//
// The RNG type ensures reproducible evolution runs by deriving
// stage-specific seeds from a master seed. This allows each part of a run
// (a generation, an island, a mutation operator) to have an independent
// random sequence while the overall run stays deterministic for a given
// seed and configuration.
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where:
//   - masterSeed: top-level seed for the entire run
//   - stageName: identifier for the generation/island/operator deriving this RNG
//   - configHash: hash of the evolution configuration
//
// This ensures:
//  1. Same inputs always produce same RNG sequence (determinism)
//  2. Different stages get independent random sequences (isolation)
//  3. Config changes result in different sequences (sensitivity)
//
// # Usage
//
// Derive an RNG per generation or per island:
//
//	configHash := cfg.Hash()
//	genRNG := rng.NewRNG(masterSeed, fmt.Sprintf("gen-%d", generation), configHash)
//	islandRNG := rng.NewRNG(masterSeed, fmt.Sprintf("island-%d", id), configHash)
//
// Use the RNG for all random decisions made at that point:
//
//	op := pickOperator(operators, weights, genRNG)
//	idx := genRNG.Intn(len(candidates))
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Each goroutine (each island, in
// Branches) should use its own RNG instance, derived before the goroutine
// is spawned and passed in explicitly.
//
// # Performance
//
// The underlying math/rand.Rand is highly efficient:
//   - Uint64(): ~2ns per call
//   - Intn():   ~3ns per call
//   - Float64(): ~2ns per call
//
// Creating a new RNG costs ~8µs due to SHA-256 computation. Reuse RNG
// instances within a stage for best performance.
package rng
