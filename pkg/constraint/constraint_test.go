package constraint

import (
	"testing"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
	"github.com/dshills/vrpcore/pkg/transportcost"
)

func testActorWithCapacity(capacity []int64) *model.Actor {
	return &model.Actor{
		ID:          "a1",
		VehicleType: &model.VehicleType{ID: "vt1", Capacity: capacity},
		Shifts: []model.Shift{{
			Start:  model.Place{LocationID: "depot"},
			Window: model.TimeWindow{Start: 0, End: 100000},
		}},
	}
}

// testDemandJob builds a pickup-demand job: load taken on here rides along
// for the rest of the interval, so it is checked against MAX_FUTURE_CAPACITY
// rather than MAX_PAST_CAPACITY — this is what lets
// TestCapacityModuleResetsAtMultiTripMarker observe the full demand amount
// still present in CURRENT_CAPACITY at the activity that introduced it.
func testDemandJob(id string, demand []int64) *model.Job {
	return &model.Job{Single: &model.Single{
		ID:     id,
		Type:   model.JobPickup,
		Place:  model.Place{LocationID: "loc-" + id},
		Demand: model.Demand{Pickup: demand},
	}}
}

func testReloadJob(id string) *model.Job {
	return &model.Job{Single: &model.Single{
		ID:    id,
		Type:  model.JobReload,
		Place: model.Place{LocationID: "depot"},
	}}
}

func TestCapacityModuleRejectsOverCapacityInsertion(t *testing.T) {
	m := NewCapacityModule(nil)
	actor := testActorWithCapacity([]int64{10})
	route := model.NewRoute(actor)
	rc := state.NewRouteContext(route)

	j1 := testDemandJob("j1", []int64{6})
	route.Tour.Insert(0, &model.Activity{Job: j1})
	m.Resweep(rc)

	j2 := testDemandJob("j2", []int64{5})
	result := m.CheckActivity(nil, rc, 1, j2, 0)
	if result.Satisfied {
		t.Fatal("expected capacity check to reject insertion exceeding capacity")
	}
	if !result.Stopped {
		t.Fatal("expected capacity check to set Stopped on violation")
	}
}

func TestCapacityModuleAllowsWithinCapacity(t *testing.T) {
	m := NewCapacityModule(nil)
	actor := testActorWithCapacity([]int64{10})
	route := model.NewRoute(actor)
	rc := state.NewRouteContext(route)

	j1 := testDemandJob("j1", []int64{4})
	route.Tour.Insert(0, &model.Activity{Job: j1})
	m.Resweep(rc)

	j2 := testDemandJob("j2", []int64{3})
	result := m.CheckActivity(nil, rc, 1, j2, 0)
	if !result.Satisfied {
		t.Fatalf("expected insertion within capacity to be accepted, got %v", result)
	}
}

func TestCapacityModuleResetsAtMultiTripMarker(t *testing.T) {
	m := NewCapacityModule(nil)
	actor := testActorWithCapacity([]int64{10})
	route := model.NewRoute(actor)
	rc := state.NewRouteContext(route)

	route.Tour.Insert(0, &model.Activity{Job: testDemandJob("j1", []int64{8})})
	route.Tour.Insert(1, &model.Activity{Job: testReloadJob("r1")})
	route.Tour.Insert(2, &model.Activity{Job: testDemandJob("j2", []int64{8})})
	m.Resweep(rc)

	cur, _ := rc.State.Get(2, KeyCurrentCapacity)
	load, ok := cur.([]int64)
	if !ok || len(load) == 0 || load[0] != 8 {
		t.Fatalf("expected capacity to reset to 8 after reload marker, got %v", cur)
	}
}

func TestSkillsModuleRejectsMissingSkill(t *testing.T) {
	m := NewSkillsModule(nil)
	actor := testActorWithCapacity([]int64{10})
	actor.VehicleType.Skills = []string{"refrigerated"}
	route := model.NewRoute(actor)
	rc := state.NewRouteContext(route)

	job := &model.Job{Single: &model.Single{ID: "j1", Place: model.Place{LocationID: "l1"}, Skills: []string{"hazmat"}}}
	result := m.CheckActivity(nil, rc, 0, job, 0)
	if result.Satisfied {
		t.Fatal("expected skills check to reject job requiring unheld skill")
	}
}

func TestMultiTripIntervals(t *testing.T) {
	tour := model.NewTour()
	tour.Insert(0, &model.Activity{Job: testDemandJob("j1", []int64{1})})
	tour.Insert(1, &model.Activity{Job: testReloadJob("r1")})
	tour.Insert(2, &model.Activity{Job: testDemandJob("j2", []int64{1})})

	intervals := Intervals(tour)
	if len(intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d: %v", len(intervals), intervals)
	}
	if intervals[0] != (Interval{Start: 0, End: 2}) {
		t.Fatalf("expected first interval [0,2), got %v", intervals[0])
	}
	if intervals[1] != (Interval{Start: 2, End: 3}) {
		t.Fatalf("expected second interval [2,3), got %v", intervals[1])
	}
}

func TestPipelineStateKeyOwnershipNoConflict(t *testing.T) {
	p := NewPipeline(NewCapacityModule(nil), NewSkillsModule(nil), NewMultiTripModule(nil))
	if err := p.CheckStateKeyOwnership(); err != nil {
		t.Fatalf("expected no ownership conflicts, got %v", err)
	}
}

func TestPipelineCheckInsertionStopsAtFirstFailure(t *testing.T) {
	actor := testActorWithCapacity([]int64{5})
	route := model.NewRoute(actor)
	rc := state.NewRouteContext(route)
	p := NewPipeline(NewCapacityModule(nil))

	job := testDemandJob("j1", []int64{10})
	result := p.CheckInsertion(nil, rc, 0, job, 0)
	if result.Satisfied {
		t.Fatal("expected pipeline to reject insertion exceeding capacity")
	}
}

func TestMultiTripModuleRejectsMarkerAsFirstActivity(t *testing.T) {
	m := NewMultiTripModule(nil)
	actor := testActorWithCapacity([]int64{10})
	route := model.NewRoute(actor)
	rc := state.NewRouteContext(route)

	result := m.CheckActivity(nil, rc, 0, testReloadJob("r1"), 0)
	if result.Satisfied {
		t.Fatal("expected marker job to be rejected as the route's first activity")
	}
}

func TestMultiTripModuleRejectsMarkerBeforeARealJob(t *testing.T) {
	m := NewMultiTripModule(nil)
	actor := testActorWithCapacity([]int64{10})
	route := model.NewRoute(actor)
	rc := state.NewRouteContext(route)

	route.Tour.Insert(0, &model.Activity{Job: testDemandJob("j1", []int64{1})})
	route.Tour.Insert(1, &model.Activity{Job: testDemandJob("j2", []int64{1})})

	// Inserting a marker at idx 1 would leave j2 after it.
	result := m.CheckActivity(nil, rc, 1, testReloadJob("r1"), 0)
	if result.Satisfied {
		t.Fatal("expected marker job to be rejected when a real job would follow it")
	}
	if result.Stopped {
		t.Fatal("expected the marker rejection to not be Stopped, since a non-marker job at the same index may still fit")
	}
}

func TestMultiTripModuleAllowsMarkerEndingJoblessTail(t *testing.T) {
	m := NewMultiTripModule(nil)
	actor := testActorWithCapacity([]int64{10})
	route := model.NewRoute(actor)
	rc := state.NewRouteContext(route)

	route.Tour.Insert(0, &model.Activity{Job: testDemandJob("j1", []int64{1})})

	result := m.CheckActivity(nil, rc, 1, testReloadJob("r1"), 0)
	if !result.Satisfied {
		t.Fatalf("expected marker job ending a jobless tail to be admitted, got %v", result)
	}
}

func TestCapacityModuleMergeCombinesTwoSingleDemands(t *testing.T) {
	m := NewCapacityModule(nil)
	source := testDemandJob("j1", []int64{3})
	candidate := testDemandJob("j2", []int64{4})

	merged, code := m.Merge(source, candidate)
	if code != ViolationNone {
		t.Fatalf("expected merge to succeed, got violation %v", code)
	}
	if merged.Single.Demand.Pickup[0] != 7 {
		t.Fatalf("expected combined pickup demand of 7, got %v", merged.Single.Demand.Pickup)
	}
	if merged.Single.ID != source.Single.ID {
		t.Fatal("expected merged job to keep source's place/ID")
	}
}

func TestCapacityModuleMergeRefusesMultiJob(t *testing.T) {
	m := NewCapacityModule(nil)
	source := testDemandJob("j1", []int64{3})
	multi := &model.Job{Multi: &model.Multi{ID: "m1", Jobs: []*model.Single{
		{ID: "m1-0", Place: model.Place{LocationID: "a"}},
	}}}

	_, code := m.Merge(source, multi)
	if code != ViolationNotMergeable {
		t.Fatalf("expected ViolationNotMergeable for a Multi operand, got %v", code)
	}
}

func TestCapacityModuleMergeRefusesOverflow(t *testing.T) {
	m := NewCapacityModule(nil)
	source := testDemandJob("j1", []int64{9223372036854775800})
	candidate := testDemandJob("j2", []int64{1000})

	_, code := m.Merge(source, candidate)
	if code != ViolationDemandOverflow {
		t.Fatalf("expected ViolationDemandOverflow, got %v", code)
	}
}

func TestDispatchModuleDecrementsOnlyOnAcceptInsertion(t *testing.T) {
	tiers := []DispatchTier{{Window: model.TimeWindow{Start: 0, End: 1000}, MaxVisits: 1}}
	cfg := &Config{}
	m := NewDispatchModule(cfg)
	actor := testActorWithCapacity([]int64{10})
	actor.Dimensions = model.NewDimensions()
	actor.Dimensions.Set(KeyDispatchTiers, tiers)
	route := model.NewRoute(actor)
	rc := state.NewRouteContext(route)

	job := &model.Job{Single: &model.Single{ID: "d1", Type: model.JobDispatch, Place: model.Place{LocationID: "depot"}}}

	// Probing the same candidate repeatedly must never exhaust the budget.
	for i := 0; i < 5; i++ {
		result := m.CheckActivity(nil, rc, 0, job, 0)
		if !result.Satisfied {
			t.Fatalf("expected repeated probing to stay feasible, got %v on iteration %d", result, i)
		}
	}

	route.Tour.Insert(0, &model.Activity{Job: job, Arrival: 0})
	sol := &state.SolutionContext{Routes: []*state.RouteContext{rc}}
	m.AcceptInsertion(sol, 0, job)

	second := &model.Job{Single: &model.Single{ID: "d2", Type: model.JobDispatch, Place: model.Place{LocationID: "depot"}}}
	result := m.CheckActivity(nil, rc, 1, second, 0)
	if result.Satisfied {
		t.Fatal("expected the tier to be exhausted after AcceptInsertion committed the first dispatch")
	}
}

func TestTransportModuleRejectsArrivalOutsideWindow(t *testing.T) {
	oracle, err := transportcost.NewEuclidean(map[string][2]float64{
		"depot": {0, 0},
		"far":   {1000, 0},
	}, 1.0)
	if err != nil {
		t.Fatalf("unexpected error building oracle: %v", err)
	}

	actor := testActorWithCapacity([]int64{10})
	route := model.NewRoute(actor)
	rc := state.NewRouteContext(route)

	m := NewTransportModule(&Config{Transport: oracle, Weight: 1.0, MaxVariationCoeff: 0.3, RechargeDistance: 1})
	job := &model.Job{Single: &model.Single{
		ID:    "j1",
		Place: model.Place{LocationID: "far", TimeWindows: []model.TimeWindow{{Start: 0, End: 10}}},
	}}
	result := m.CheckActivity(nil, rc, 0, job, 0)
	if result.Satisfied {
		t.Fatal("expected arrival far outside time window to be rejected")
	}
}
