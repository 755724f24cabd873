package model

import (
	set "github.com/hashicorp/go-set/v3"
)

// CompatibilityGraph is a bipartite adjacency between job IDs and actor IDs:
// an edge exists when the actor is capable of serving the job (skills,
// capacity, group/compatibility dimensions all satisfied). Callers build
// it with AddActor/AddJob; nothing in this module builds one from a Problem,
// and the insertion evaluator (pkg/insertion) does not consult it.
//
// Ported from graph.go's BFS reachability machinery: GetReachable becomes
// CompatibleActors, IsWeaklyConnected becomes HasFeasiblePartition. GetPath
// and RemoveRoom's cascading-edge-removal logic fold into AddEdge/Remove
// below. GetCycles is dropped entirely — this graph is bipartite by
// construction (job-to-actor edges only), so no cycle can ever occur.
type CompatibilityGraph struct {
	jobToActors map[string]*set.Set[string]
	actorToJobs map[string]*set.Set[string]
}

// NewCompatibilityGraph returns an empty compatibility graph.
func NewCompatibilityGraph() *CompatibilityGraph {
	return &CompatibilityGraph{
		jobToActors: make(map[string]*set.Set[string]),
		actorToJobs: make(map[string]*set.Set[string]),
	}
}

// AddEdge records that actorID is capable of serving jobID.
func (g *CompatibilityGraph) AddEdge(jobID, actorID string) {
	if g.jobToActors[jobID] == nil {
		g.jobToActors[jobID] = set.New[string](4)
	}
	if g.actorToJobs[actorID] == nil {
		g.actorToJobs[actorID] = set.New[string](4)
	}
	g.jobToActors[jobID].Insert(actorID)
	g.actorToJobs[actorID].Insert(jobID)
}

// RemoveJob removes a job and all edges referencing it, mirroring
// graph.Graph.RemoveRoom's cascading-edge removal.
func (g *CompatibilityGraph) RemoveJob(jobID string) {
	actors, ok := g.jobToActors[jobID]
	if !ok {
		return
	}
	for _, actorID := range actors.Slice() {
		if jobs := g.actorToJobs[actorID]; jobs != nil {
			jobs.Remove(jobID)
		}
	}
	delete(g.jobToActors, jobID)
}

// RemoveActor removes an actor and all edges referencing it.
func (g *CompatibilityGraph) RemoveActor(actorID string) {
	jobs, ok := g.actorToJobs[actorID]
	if !ok {
		return
	}
	for _, jobID := range jobs.Slice() {
		if actors := g.jobToActors[jobID]; actors != nil {
			actors.Remove(actorID)
		}
	}
	delete(g.actorToJobs, actorID)
}

// CompatibleActors returns the actor IDs capable of serving jobID.
func (g *CompatibilityGraph) CompatibleActors(jobID string) []string {
	actors, ok := g.jobToActors[jobID]
	if !ok {
		return nil
	}
	return actors.Slice()
}

// CompatibleJobs returns the job IDs actorID is capable of serving.
func (g *CompatibilityGraph) CompatibleJobs(actorID string) []string {
	jobs, ok := g.actorToJobs[actorID]
	if !ok {
		return nil
	}
	return jobs.Slice()
}

// HasFeasiblePartition reports whether every job in the graph has at least
// one compatible actor. A false result means the problem instance, as
// configured, cannot produce a complete solution regardless of search
// effort — the equivalent of graph.go's IsWeaklyConnected check, but
// evaluated per-job rather than over a single connected-component test
// since a VRP compatibility graph is naturally partitioned by skill/group,
// not expected to form one component.
func (g *CompatibilityGraph) HasFeasiblePartition() bool {
	for jobID, actors := range g.jobToActors {
		if actors.Empty() {
			_ = jobID
			return false
		}
	}
	return true
}
