package state

import "github.com/dshills/vrpcore/pkg/model"

// InsertionContext wraps a SolutionContext with the scratch fields an
// insertion candidate search needs while it probes positions: the job
// currently being evaluated for insertion. It does not record the chosen
// position; that is an InsertionPosition. It never outlives a single insertion
// evaluation; the evolution strategy discards it (or commits its
// SolutionContext back into the population) once the search completes.
type InsertionContext struct {
	Solution *SolutionContext
	Job      *model.Job
}

// NewInsertionContext returns an insertion context over a clone of
// solution, so probing candidate positions never mutates the solution the
// search started from.
func NewInsertionContext(solution *SolutionContext, job *model.Job) *InsertionContext {
	return &InsertionContext{Solution: solution.Clone(), Job: job}
}

// InsertionPosition names a single candidate placement: the actor's route
// and the activity index within its tour the job would be inserted at.
type InsertionPosition struct {
	ActorID string
	Index   int
}
