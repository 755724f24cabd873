package format

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/transportcost"
)

// ParseProblem decodes a problem document into a model.Problem: every
// profile becomes a model.VehicleType, every vehicle a model.Actor over
// one of those types, every job a model.Job, and the transport matrices
// become the Problem's single TransportOracle.
//
// Only one active routing matrix is supported: if more than one profile
// supplies a matrix, the first is used for every actor regardless of
// profile. Per-profile routing would require model.TransportOracle itself
// to take a profile argument, which no constraint module in this package
// needs today.
func ParseProblem(data []byte) (*model.Problem, error) {
	var doc ProblemDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("format: parsing problem document: %w", err)
	}

	oracle, err := buildOracle(doc.Matrix)
	if err != nil {
		return nil, err
	}
	problem := model.NewProblem(oracle)

	types := make(map[string]*model.VehicleType, len(doc.Fleet.Profiles))
	for _, p := range doc.Fleet.Profiles {
		types[p.ID] = &model.VehicleType{
			ID:              p.ID,
			Capacity:        p.Capacity,
			Skills:          p.Skills,
			CostPerDistance: p.CostPerDistance,
			CostPerDuration: p.CostPerDuration,
			FixedCost:       p.FixedCost,
		}
	}

	for _, v := range doc.Fleet.Vehicles {
		vt, ok := types[v.ProfileID]
		if !ok {
			return nil, fmt.Errorf("format: vehicle %s references unknown profile %q", v.ID, v.ProfileID)
		}
		actor := &model.Actor{
			ID:          v.ID,
			VehicleType: vt,
			Shifts:      make([]model.Shift, len(v.Shifts)),
			ShiftIndex:  v.ShiftIndex,
		}
		for i, s := range v.Shifts {
			actor.Shifts[i] = toShift(s)
		}
		if err := problem.AddActor(actor); err != nil {
			return nil, fmt.Errorf("format: %w", err)
		}
	}

	for _, j := range doc.Plan.Jobs {
		job, err := toJob(j)
		if err != nil {
			return nil, fmt.Errorf("format: %w", err)
		}
		if err := problem.AddJob(job); err != nil {
			return nil, fmt.Errorf("format: %w", err)
		}
	}

	if err := problem.Validate(); err != nil {
		return nil, fmt.Errorf("format: problem document failed validation: %w", err)
	}
	return problem, nil
}

func buildOracle(matrices []MatrixDocument) (model.TransportOracle, error) {
	if len(matrices) == 0 {
		return nil, fmt.Errorf("format: at least one routing matrix is required")
	}
	m := matrices[0]
	oracle, err := transportcost.NewMatrix(m.LocationIDs, m.Distances, m.Durations)
	if err != nil {
		return nil, fmt.Errorf("format: matrix %q: %w", m.ProfileID, err)
	}
	return oracle, nil
}

func toShift(s ShiftDocument) model.Shift {
	shift := model.Shift{
		Start:       toPlace(s.Start),
		Window:      model.TimeWindow{Start: s.Window.Start.Unix(), End: s.Window.End.Unix()},
		BreakPolicy: s.BreakPolicy,
	}
	if s.End != nil {
		end := toPlace(*s.End)
		shift.End = &end
	}
	return shift
}

func toPlace(p PlaceDocument) model.Place {
	place := model.Place{LocationID: p.LocationID, Duration: p.Duration}
	for _, w := range p.TimeWindows {
		place.TimeWindows = append(place.TimeWindows, model.TimeWindow{Start: w.Start.Unix(), End: w.End.Unix()})
	}
	return place
}

func toJob(j JobDocument) (*model.Job, error) {
	if len(j.Places) == 0 {
		return nil, fmt.Errorf("job %s: at least one place is required", j.ID)
	}
	jobType, err := parseJobType(j.Type)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", j.ID, err)
	}
	demand := toDemand(j)
	if len(j.Places) == 1 {
		return &model.Job{Single: &model.Single{
			ID:     j.ID,
			Type:   jobType,
			Place:  toPlace(j.Places[0]),
			Demand: demand,
			Skills: j.Skills,
			Value:  j.Value,
		}}, nil
	}
	singles := make([]*model.Single, len(j.Places))
	for i, p := range j.Places {
		singles[i] = &model.Single{
			ID:     fmt.Sprintf("%s-%d", j.ID, i),
			Type:   jobType,
			Place:  toPlace(p),
			Demand: demand,
			Skills: j.Skills,
		}
	}
	return &model.Job{Multi: &model.Multi{ID: j.ID, Jobs: singles, Value: j.Value, Skills: j.Skills}}, nil
}

// toDemand maps the wire document's three demand arrays onto model.Demand.
// Every piece of a Multi job carries the same three demand vectors in the
// wire format today — per-piece demand documents are a possible future
// extension the wire format doesn't yet need.
func toDemand(j JobDocument) model.Demand {
	return model.Demand{
		Delivery: j.DeliveryDemand,
		Pickup:   j.PickupDemand,
		Dynamic:  j.DynamicDemand,
	}
}

func parseJobType(s string) (model.JobType, error) {
	switch s {
	case "pickup":
		return model.JobPickup, nil
	case "delivery":
		return model.JobDelivery, nil
	case "service":
		return model.JobService, nil
	case "break":
		return model.JobBreak, nil
	case "reload":
		return model.JobReload, nil
	case "dispatch":
		return model.JobDispatch, nil
	case "recharge":
		return model.JobRecharge, nil
	default:
		return 0, fmt.Errorf("unknown job type %q", s)
	}
}
