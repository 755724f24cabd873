package export

import (
	"testing"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

func testSolution(t *testing.T) *state.SolutionContext {
	t.Helper()
	problem := model.NewProblem(nil)
	job := &model.Job{Single: &model.Single{ID: "j1", Place: model.Place{LocationID: "a"}}}
	if err := problem.AddJob(job); err != nil {
		t.Fatalf("unexpected error adding job: %v", err)
	}
	actor := &model.Actor{
		ID:          "driver-1",
		VehicleType: &model.VehicleType{ID: "van", Capacity: []int64{10}},
		Shifts:      []model.Shift{{Start: model.Place{LocationID: "depot"}, Window: model.TimeWindow{Start: 0, End: 1000}}},
	}
	if err := problem.AddActor(actor); err != nil {
		t.Fatalf("unexpected error adding actor: %v", err)
	}

	sol := state.NewSolutionContext(problem)
	rc := state.NewRouteContext(model.NewRoute(actor))
	if err := rc.Route.Tour.Insert(0, &model.Activity{Job: job}); err != nil {
		t.Fatalf("unexpected error inserting activity: %v", err)
	}
	sol.Routes = append(sol.Routes, rc)
	sol.MarkAssigned("j1")
	return sol
}

func TestBuildDebugFlattensRoutes(t *testing.T) {
	sol := testSolution(t)
	dbg := BuildDebug(sol)
	if len(dbg.Routes) != 1 {
		t.Fatalf("expected 1 route in debug dump, got %d", len(dbg.Routes))
	}
	if dbg.Routes[0].ActorID != "driver-1" {
		t.Fatalf("expected actor ID driver-1, got %s", dbg.Routes[0].ActorID)
	}
	if len(dbg.Routes[0].JobIDs) != 1 || dbg.Routes[0].JobIDs[0] != "j1" {
		t.Fatalf("expected job IDs [j1], got %v", dbg.Routes[0].JobIDs)
	}
}

func TestExportJSONRoundTrips(t *testing.T) {
	sol := testSolution(t)
	dbg := BuildDebug(sol)
	data, err := ExportJSON(dbg)
	if err != nil {
		t.Fatalf("unexpected error exporting JSON: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty JSON output")
	}
}

func TestBuildRouteMapSkipsUnknownLocations(t *testing.T) {
	sol := testSolution(t)
	coords := map[string][2]float64{
		"depot": {0, 0},
	}
	routeMap, err := BuildRouteMap(sol, coords)
	if err != nil {
		t.Fatalf("unexpected error building route map: %v", err)
	}
	path, ok := routeMap.Paths["driver-1"]
	if !ok {
		t.Fatal("expected a route path for driver-1")
	}
	if len(path.Points) != 1 {
		t.Fatalf("expected only the depot start point to resolve, got %d points", len(path.Points))
	}
}

func TestExportSVGProducesNonEmptyOutput(t *testing.T) {
	sol := testSolution(t)
	coords := map[string][2]float64{
		"depot": {0, 0},
		"a":     {10, 10},
	}
	data, err := ExportSolutionSVG(sol, coords, DefaultSVGOptions())
	if err != nil {
		t.Fatalf("unexpected error exporting SVG: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty SVG output")
	}
}
