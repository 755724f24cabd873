// Package format implements the solver's external JSON contract: parsing
// a problem document into a model.Problem, and rendering a solved
// state.SolutionContext back out as a solution document — tours, stops,
// activities, unassigned jobs with human-readable reasons, and aggregate
// statistics. Times are RFC3339; distances and durations follow the
// transport oracle's own units.
package format
