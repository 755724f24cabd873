package format

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dshills/vrpcore/pkg/cache"
	"github.com/dshills/vrpcore/pkg/constraint"
	"github.com/dshills/vrpcore/pkg/insertion"
	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

const problemFixture = `{
  "plan": {
    "jobs": [
      {"id": "job-a", "type": "delivery", "places": [{"locationId": "a", "duration": 60}]},
      {"id": "job-b", "type": "delivery", "places": [{"locationId": "b", "duration": 60}]}
    ]
  },
  "fleet": {
    "vehicles": [
      {"id": "veh-1", "typeId": "van", "shifts": [
        {"start": {"locationId": "depot"}, "window": {"start": "2026-01-01T00:00:00Z", "end": "2026-01-01T10:00:00Z"}}
      ]}
    ],
    "profiles": [
      {"id": "van", "capacity": [10], "costPerDistance": 1.5, "fixedCost": 5}
    ]
  },
  "matrix": [
    {
      "profileId": "van",
      "locationIds": ["depot", "a", "b"],
      "distances": [[0, 1, 2], [1, 0, 1], [2, 1, 0]],
      "durations": [[0, 10, 20], [10, 0, 10], [20, 10, 0]]
    }
  ]
}`

func TestParseProblemBuildsJobsActorsAndOracle(t *testing.T) {
	problem, err := ParseProblem([]byte(problemFixture))
	if err != nil {
		t.Fatalf("ParseProblem: %v", err)
	}
	if len(problem.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(problem.Jobs))
	}
	if len(problem.Actors) != 1 {
		t.Fatalf("expected 1 actor, got %d", len(problem.Actors))
	}
	actor, ok := problem.Actors["veh-1"]
	if !ok {
		t.Fatalf("expected actor veh-1 to exist")
	}
	if actor.VehicleType.ID != "van" {
		t.Fatalf("expected vehicle type van, got %s", actor.VehicleType.ID)
	}
	d, err := problem.Transport.Distance("depot", "a")
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if d != 1 {
		t.Fatalf("expected distance 1, got %f", d)
	}
}

func TestParseProblemRejectsUnknownProfile(t *testing.T) {
	bad := `{
		"plan": {"jobs": []},
		"fleet": {
			"vehicles": [{"id": "veh-1", "typeId": "ghost", "shifts": [{"start": {"locationId": "depot"}, "window": {"start": "2026-01-01T00:00:00Z", "end": "2026-01-01T01:00:00Z"}}]}],
			"profiles": [{"id": "van", "capacity": [1]}]
		},
		"matrix": [{"profileId": "van", "locationIds": ["depot"], "distances": [[0]], "durations": [[0]]}]
	}`
	if _, err := ParseProblem([]byte(bad)); err == nil {
		t.Fatalf("expected error for unknown profile reference")
	}
}

func TestParseProblemRejectsMissingMatrix(t *testing.T) {
	bad := `{"plan": {"jobs": []}, "fleet": {"vehicles": [], "profiles": []}, "matrix": []}`
	if _, err := ParseProblem([]byte(bad)); err == nil {
		t.Fatalf("expected error when no routing matrix is supplied")
	}
}

func TestParseProblemBuildsMultiPlaceJobWithSyntheticIDs(t *testing.T) {
	doc := `{
		"plan": {"jobs": [
			{"id": "pair-1", "type": "pickup", "places": [
				{"locationId": "a", "duration": 10},
				{"locationId": "b", "duration": 10}
			]}
		]},
		"fleet": {"vehicles": [], "profiles": []},
		"matrix": [{"profileId": "van", "locationIds": ["a", "b"], "distances": [[0,1],[1,0]], "durations": [[0,1],[1,0]]}]
	}`
	problem, err := ParseProblem([]byte(doc))
	if err != nil {
		t.Fatalf("ParseProblem: %v", err)
	}
	job, ok := problem.Jobs["pair-1"]
	if !ok {
		t.Fatalf("expected job pair-1 to exist")
	}
	if job.Multi == nil {
		t.Fatalf("expected a multi-place job")
	}
	if len(job.Multi.Jobs) != 2 {
		t.Fatalf("expected 2 singles, got %d", len(job.Multi.Jobs))
	}
	if job.Multi.Jobs[0].ID != "pair-1-0" || job.Multi.Jobs[1].ID != "pair-1-1" {
		t.Fatalf("expected synthesized per-place IDs, got %s and %s", job.Multi.Jobs[0].ID, job.Multi.Jobs[1].ID)
	}
}

func solvedFixture(t *testing.T) *state.SolutionContext {
	t.Helper()
	problem, err := ParseProblem([]byte(problemFixture))
	if err != nil {
		t.Fatalf("ParseProblem: %v", err)
	}
	sol := state.NewSolutionContext(problem)
	actor := problem.Actors["veh-1"]
	sol.Routes = append(sol.Routes, state.NewRouteContext(model.NewRoute(actor)))

	pipeline := constraint.NewPipeline()
	solutions, err := cache.NewSolutionCache(64)
	if err != nil {
		t.Fatalf("NewSolutionCache: %v", err)
	}
	eval := insertion.NewEvaluator(pipeline, solutions)
	jobs := cache.NewJobCache()
	for _, id := range []string{"job-a", "job-b"} {
		job := sol.Problem.Jobs[id]
		pos, ok := eval.BestPosition(sol, job, jobs)
		if !ok {
			t.Fatalf("setup: expected feasible position for %s", id)
		}
		if err := eval.Commit(sol, pos, job); err != nil {
			t.Fatalf("setup commit: %v", err)
		}
	}
	return sol
}

func TestBuildSolutionRendersToursAndStatistic(t *testing.T) {
	sol := solvedFixture(t)
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	doc := BuildSolution(sol, epoch)
	if len(doc.Tours) != 1 {
		t.Fatalf("expected 1 tour, got %d", len(doc.Tours))
	}
	tour := doc.Tours[0]
	if tour.VehicleID != "veh-1" {
		t.Fatalf("expected vehicleId veh-1, got %s", tour.VehicleID)
	}
	if len(tour.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(tour.Stops))
	}
	if doc.Statistic.Distance <= 0 {
		t.Fatalf("expected positive total distance")
	}
	if len(doc.Unassigned) != 0 {
		t.Fatalf("expected no unassigned jobs, got %d", len(doc.Unassigned))
	}
}

func TestBuildSolutionReportsUnassignedWithReason(t *testing.T) {
	sol := solvedFixture(t)
	sol.MarkUnassigned("job-a")
	epoch := time.Now()

	doc := BuildSolution(sol, epoch)
	if len(doc.Unassigned) != 1 {
		t.Fatalf("expected 1 unassigned job, got %d", len(doc.Unassigned))
	}
	u := doc.Unassigned[0]
	if u.JobID != "job-a" {
		t.Fatalf("expected job-a, got %s", u.JobID)
	}
	if len(u.Reasons) != 1 || u.Reasons[0].Code != ReasonNoFeasiblePosition {
		t.Fatalf("expected ReasonNoFeasiblePosition, got %+v", u.Reasons)
	}
}

func TestMarshalSolutionProducesValidJSON(t *testing.T) {
	sol := solvedFixture(t)
	doc := BuildSolution(sol, time.Now())

	data, err := MarshalSolution(doc)
	if err != nil {
		t.Fatalf("MarshalSolution: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("round-trip unmarshal: %v", err)
	}
	if _, ok := out["tours"]; !ok {
		t.Fatalf("expected tours key in marshaled output")
	}
}

func TestReasonDescriptionFallsBackForUnknownCode(t *testing.T) {
	if ReasonDescription(999) == "" {
		t.Fatalf("expected a non-empty fallback description")
	}
}
