// Package population implements HeuristicPopulation: the bounded,
// dominance-ranked set of candidate solutions an evolution strategy
// selects parents from and inserts offspring into. Capacity is enforced
// by evicting the dominated-furthest member — the individual in the
// worst-ranked (most dominated) front with the largest objective-space
// distance from the non-dominated front — whenever an insertion would
// exceed it.
package population
