package model

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func testActor(id string, capacity []int64) *Actor {
	return &Actor{
		ID:          id,
		VehicleType: &VehicleType{ID: "vt-" + id, Capacity: capacity},
		Shifts: []Shift{{
			Start:  Place{LocationID: "depot"},
			Window: TimeWindow{Start: 0, End: 3600},
		}},
	}
}

func testSingleJob(id string, jobType JobType, demand []int64) *Job {
	return &Job{Single: &Single{
		ID:     id,
		Type:   jobType,
		Place:  Place{LocationID: "loc-" + id, Duration: 60},
		Demand: Demand{Delivery: demand},
	}}
}

func TestJobValidate(t *testing.T) {
	j := testSingleJob("j1", JobService, []int64{1})
	if err := j.Validate(); err != nil {
		t.Fatalf("expected valid job, got %v", err)
	}

	bad := &Job{}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for job with neither single nor multi set")
	}

	both := &Job{Single: &Single{ID: "x", Place: Place{LocationID: "l"}}, Multi: &Multi{ID: "x", Jobs: []*Single{{ID: "y", Place: Place{LocationID: "l"}}}}}
	if err := both.Validate(); err == nil {
		t.Fatal("expected error for job with both single and multi set")
	}
}

func TestMultiJobOrderPreserved(t *testing.T) {
	pickup := &Single{ID: "p1", Type: JobPickup, Place: Place{LocationID: "a"}, Demand: Demand{Pickup: []int64{2}}}
	delivery := &Single{ID: "d1", Type: JobDelivery, Place: Place{LocationID: "b"}, Demand: Demand{Delivery: []int64{2}}}
	m := &Multi{ID: "pd1", Jobs: []*Single{pickup, delivery}}
	if err := m.Validate(); err != nil {
		t.Fatalf("expected valid multi job, got %v", err)
	}
	j := &Job{Multi: m}
	places := j.Places()
	if len(places) != 2 || places[0].LocationID != "a" || places[1].LocationID != "b" {
		t.Fatalf("expected ordered places [a b], got %v", places)
	}
}

func TestActorCanCarry(t *testing.T) {
	a := testActor("v1", []int64{10, 5})
	if !a.CanCarry([]int64{5, 3}) {
		t.Fatal("expected demand within capacity to fit")
	}
	if a.CanCarry([]int64{11, 0}) {
		t.Fatal("expected demand exceeding first capacity dimension to be rejected")
	}
	if a.CanCarry([]int64{0, 6}) {
		t.Fatal("expected demand exceeding second capacity dimension to be rejected")
	}
}

func TestTourInsertAndRemove(t *testing.T) {
	tour := NewTour()
	a1 := &Activity{Job: testSingleJob("j1", JobService, []int64{1})}
	a2 := &Activity{Job: testSingleJob("j2", JobService, []int64{1})}

	if err := tour.Insert(0, a1); err != nil {
		t.Fatalf("insert a1: %v", err)
	}
	if err := tour.Insert(1, a2); err != nil {
		t.Fatalf("insert a2: %v", err)
	}
	if err := tour.Insert(0, &Activity{Job: testSingleJob("j0", JobService, []int64{1})}); err != nil {
		t.Fatalf("insert j0 at head: %v", err)
	}

	if tour.JobCount() != 3 {
		t.Fatalf("expected 3 activities, got %d", tour.JobCount())
	}
	if tour.Activities[1] != a1 {
		t.Fatal("expected a1 to have shifted to index 1 after head insert")
	}

	if err := tour.RemoveAt(0); err != nil {
		t.Fatalf("remove head: %v", err)
	}
	if tour.Activities[0] != a1 {
		t.Fatal("expected a1 at index 0 after removing head")
	}

	if err := tour.Insert(-1, a2); err == nil {
		t.Fatal("expected error inserting at negative index")
	}
	if err := tour.RemoveAt(99); err == nil {
		t.Fatal("expected error removing out-of-range index")
	}
}

func TestCompatibilityGraphReachability(t *testing.T) {
	g := NewCompatibilityGraph()
	g.AddEdge("j1", "a1")
	g.AddEdge("j1", "a2")
	g.AddEdge("j2", "a2")

	actors := g.CompatibleActors("j1")
	if len(actors) != 2 {
		t.Fatalf("expected 2 compatible actors for j1, got %d", len(actors))
	}

	if !g.HasFeasiblePartition() {
		t.Fatal("expected feasible partition when every job has a compatible actor")
	}

	g.AddEdge("j3", "a3")
	g.RemoveActor("a3")
	if g.HasFeasiblePartition() {
		t.Fatal("expected infeasible partition after removing j3's only compatible actor")
	}
}

// TestProperty_CompatibilityGraphFeasibleWhenEveryJobEdged is a property
// test, grounded on the teacher's TestProperty_GraphConnectivity: for any
// randomly generated bipartite job/actor edge set where every job gets at
// least one edge, HasFeasiblePartition must report true, and every job's
// CompatibleActors must be non-empty.
func TestProperty_CompatibilityGraphFeasibleWhenEveryJobEdged(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		jobCount := rapid.IntRange(1, 30).Draw(t, "jobCount")
		actorCount := rapid.IntRange(1, 10).Draw(t, "actorCount")

		g := NewCompatibilityGraph()
		for i := 0; i < jobCount; i++ {
			jobID := fmt.Sprintf("j%03d", i)
			edgeCount := rapid.IntRange(1, actorCount).Draw(t, fmt.Sprintf("edges_%d", i))
			chosen := make(map[int]bool, edgeCount)
			for len(chosen) < edgeCount {
				idx := rapid.IntRange(0, actorCount-1).Draw(t, fmt.Sprintf("actor_%d_%d", i, len(chosen)))
				chosen[idx] = true
			}
			for idx := range chosen {
				g.AddEdge(jobID, fmt.Sprintf("a%03d", idx))
			}
		}

		if !g.HasFeasiblePartition() {
			t.Fatalf("expected feasible partition when every job has >=1 edge")
		}
		for i := 0; i < jobCount; i++ {
			jobID := fmt.Sprintf("j%03d", i)
			if len(g.CompatibleActors(jobID)) == 0 {
				t.Fatalf("job %s has no compatible actors despite at least one edge drawn", jobID)
			}
		}

		// Removing every actor compatible with a given job must flip the
		// partition infeasible for that job specifically.
		victim := fmt.Sprintf("j%03d", rapid.IntRange(0, jobCount-1).Draw(t, "victim"))
		for _, actorID := range g.CompatibleActors(victim) {
			g.RemoveActor(actorID)
		}
		if g.HasFeasiblePartition() {
			t.Fatalf("expected infeasible partition after removing all of %s's compatible actors", victim)
		}
	})
}

func TestProblemAddJobRejectsDuplicate(t *testing.T) {
	p := NewProblem(nil)
	j := testSingleJob("j1", JobService, []int64{1})
	if err := p.AddJob(j); err != nil {
		t.Fatalf("unexpected error adding job: %v", err)
	}
	if err := p.AddJob(j); err == nil {
		t.Fatal("expected error adding duplicate job ID")
	}
}
