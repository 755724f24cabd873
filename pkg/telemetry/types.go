package telemetry

import (
	"github.com/dshills/vrpcore/pkg/population"
	"github.com/dshills/vrpcore/pkg/termination"
)

// GenerationEvent carries what a generation produced: the statistics the
// termination composite evaluated, the population it ran against, and
// whether this generation's offspring improved the population's best
// individual.
type GenerationEvent struct {
	Stats     termination.Statistics
	Pop       *population.HeuristicPopulation
	Improved  bool
	IslandID  string // empty outside Branches mode
}

// ResultEvent carries the outcome of a completed run: the best individual
// found, the reason the run stopped, and the final statistics snapshot.
type ResultEvent struct {
	Best   *population.Individual
	Reason string
	Stats  termination.Statistics
}

// Telemetry is the observation interface an evolution strategy calls into.
// Both methods must return quickly and must not mutate anything passed to
// them — a slow or panicking telemetry sink must never be able to stall or
// crash the solver loop.
type Telemetry interface {
	OnGeneration(event GenerationEvent)
	OnResult(event ResultEvent)
}

// NoopTelemetry discards every event. The zero value of a strategy
// Config's Telemetry field should never be nil; strategies fall back to
// this instead of nil-checking on every call, the same defensive default
// dungeon.Config's optional callback fields use.
type NoopTelemetry struct{}

// OnGeneration implements Telemetry.
func (NoopTelemetry) OnGeneration(GenerationEvent) {}

// OnResult implements Telemetry.
func (NoopTelemetry) OnResult(ResultEvent) {}
