package model

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// TransportOracle resolves travel distance and duration between two
// location IDs. Implementations live in pkg/transportcost; Problem only
// holds the interface so pkg/model stays free of cost-matrix concerns.
type TransportOracle interface {
	Distance(from, to string) (float64, error)
	Duration(from, to string) (int64, error)
}

// Problem is the solver's top-level input: the job set, the fleet, and the
// transport oracle jobs and actors are resolved against. Grounded on
// graph.NewGraph's container-with-maps-and-seed shape, generalized from a
// dungeon's rooms/connectors to a fleet's jobs/actors.
type Problem struct {
	Jobs      map[string]*Job   `json:"-"`
	Actors    map[string]*Actor `json:"-"`
	Transport TransportOracle   `json:"-"`
}

// NewProblem returns an empty problem.
func NewProblem(transport TransportOracle) *Problem {
	return &Problem{
		Jobs:      make(map[string]*Job),
		Actors:    make(map[string]*Actor),
		Transport: transport,
	}
}

// AddJob validates and registers a job, rejecting duplicate IDs the same
// way graph.Graph.AddRoom rejects duplicate room IDs.
func (p *Problem) AddJob(j *Job) error {
	if j == nil {
		return fmt.Errorf("cannot add nil job")
	}
	if err := j.Validate(); err != nil {
		return fmt.Errorf("job validation failed: %w", err)
	}
	id := j.ID()
	if _, exists := p.Jobs[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}
	p.Jobs[id] = j
	return nil
}

// AddActor validates and registers an actor, rejecting duplicate IDs.
func (p *Problem) AddActor(a *Actor) error {
	if a == nil {
		return fmt.Errorf("cannot add nil actor")
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("actor validation failed: %w", err)
	}
	if _, exists := p.Actors[a.ID]; exists {
		return fmt.Errorf("actor with ID %s already exists", a.ID)
	}
	p.Actors[a.ID] = a
	return nil
}

// Validate re-checks every job and actor already admitted through AddJob/
// AddActor and accumulates every failure instead of stopping at the first,
// so a caller loading a whole problem document (pkg/format.ParseProblem)
// can report every malformed job/actor in one pass rather than forcing a
// fix-one-rerun-cycle per error. Uses github.com/hashicorp/go-multierror,
// the same accumulate-and-report-all idiom its dependents use for
// batch-validation results; AddJob/AddActor themselves stay fail-fast since
// a single incremental insert has only one thing to report.
func (p *Problem) Validate() error {
	var result *multierror.Error
	for _, j := range p.Jobs {
		if err := j.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("job %s: %w", j.ID(), err))
		}
	}
	for _, a := range p.Actors {
		if err := a.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("actor %s: %w", a.ID, err))
		}
	}
	if len(p.Jobs) == 0 {
		result = multierror.Append(result, fmt.Errorf("problem has no jobs"))
	}
	if len(p.Actors) == 0 {
		result = multierror.Append(result, fmt.Errorf("problem has no actors"))
	}
	return result.ErrorOrNil()
}

// RemoveJob removes a job by ID. Mirrors graph.Graph.RemoveRoom's
// existence check, without the cascading edge cleanup a room removal
// required — a job has no adjacency list of its own to prune.
func (p *Problem) RemoveJob(id string) error {
	if _, exists := p.Jobs[id]; !exists {
		return fmt.Errorf("job %s does not exist", id)
	}
	delete(p.Jobs, id)
	return nil
}
