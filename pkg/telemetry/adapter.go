package telemetry

import "cosmossdk.io/log"

// ConsoleTelemetry adapts Telemetry onto a structured logger, logging one
// line per generation (at Debug, since a long run can produce thousands)
// and one line for the final result (at Info).
type ConsoleTelemetry struct {
	logger log.Logger
}

// NewConsoleTelemetry returns a ConsoleTelemetry writing through logger.
func NewConsoleTelemetry(logger log.Logger) *ConsoleTelemetry {
	return &ConsoleTelemetry{logger: logger.With("component", "evolution")}
}

// OnGeneration implements Telemetry.
func (c *ConsoleTelemetry) OnGeneration(event GenerationEvent) {
	populationSize := 0
	if event.Pop != nil {
		populationSize = event.Pop.Size()
	}
	fields := []interface{}{
		"generation", event.Stats.Generation,
		"bestFitness", event.Stats.BestFitness,
		"populationSize", populationSize,
		"improved", event.Improved,
	}
	if event.IslandID != "" {
		fields = append(fields, "island", event.IslandID)
	}
	c.logger.Debug("generation complete", fields...)
}

// OnResult implements Telemetry.
func (c *ConsoleTelemetry) OnResult(event ResultEvent) {
	fields := []interface{}{
		"reason", event.Reason,
		"generation", event.Stats.Generation,
	}
	if event.Best != nil {
		fields = append(fields, "cost", event.Best.Objectives.Cost, "unassigned", event.Best.Objectives.Unassigned)
	}
	c.logger.Info("run terminated", fields...)
}
