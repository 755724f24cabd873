package format

import (
	"encoding/json"
	"time"

	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/state"
)

// BuildSolution renders sol as a SolutionDocument. epoch anchors the
// problem's relative (seconds-since-epoch) timestamps back onto absolute
// RFC3339 instants.
func BuildSolution(sol *state.SolutionContext, epoch time.Time) *SolutionDocument {
	doc := &SolutionDocument{}
	for _, rc := range sol.Routes {
		if len(rc.Route.Tour.Activities) == 0 {
			continue
		}
		doc.Tours = append(doc.Tours, buildTour(sol, rc, epoch))
	}
	for _, t := range doc.Tours {
		doc.Statistic.Cost += t.Statistic.Cost
		doc.Statistic.Distance += t.Statistic.Distance
		doc.Statistic.Duration += t.Statistic.Duration
		doc.Statistic.Times.Driving += t.Statistic.Times.Driving
		doc.Statistic.Times.Serving += t.Statistic.Times.Serving
	}
	for _, jobID := range sol.Unassigned.Slice() {
		doc.Unassigned = append(doc.Unassigned, UnassignedDocument{
			JobID: jobID,
			Reasons: []ReasonDocument{{
				Code:        ReasonNoFeasiblePosition,
				Description: ReasonDescription(ReasonNoFeasiblePosition),
			}},
		})
	}
	return doc
}

func buildTour(sol *state.SolutionContext, rc *state.RouteContext, epoch time.Time) TourDocument {
	actor := rc.Route.Actor
	tour := TourDocument{
		VehicleID:  actor.ID,
		TypeID:     actor.VehicleType.ID,
		ShiftIndex: actor.ShiftIndex,
	}

	prevLoc := actor.ActiveShift().Start.LocationID
	for _, a := range rc.Route.Tour.Activities {
		loc := stopLocation(a, actor)
		if loc == "" {
			continue
		}
		leg := legDistance(sol, prevLoc, loc)
		tour.Statistic.Distance += leg
		tour.Statistic.Times.Driving += legDuration(sol, prevLoc, loc)
		serviceDuration := activityServiceDuration(a)
		tour.Statistic.Times.Serving += serviceDuration

		tour.Stops = append(tour.Stops, StopDocument{
			Location: loc,
			Time: TimeWindowDocument{
				Start: epoch.Add(time.Duration(a.Arrival) * time.Second),
				End:   epoch.Add(time.Duration(a.Departure) * time.Second),
			},
			Distance:   leg,
			Activities: []ActivityDocument{buildActivity(a)},
		})
		prevLoc = loc
	}

	tour.Statistic.Duration = tour.Statistic.Times.Driving + tour.Statistic.Times.Serving
	tour.Statistic.Cost = actor.VehicleType.FixedCost +
		tour.Statistic.Distance*actor.VehicleType.CostPerDistance +
		float64(tour.Statistic.Duration)*actor.VehicleType.CostPerDuration
	return tour
}

func buildActivity(a *model.Activity) ActivityDocument {
	if a.Job == nil {
		return ActivityDocument{Type: model.JobService.String()}
	}
	return ActivityDocument{
		JobID: a.Job.ID(),
		Type:  a.JobType().String(),
	}
}

func stopLocation(a *model.Activity, actor *model.Actor) string {
	if a.Job == nil {
		return actor.ActiveShift().Start.LocationID
	}
	places := a.Job.Places()
	if a.PlaceIdx < 0 || a.PlaceIdx >= len(places) {
		return ""
	}
	return places[a.PlaceIdx].LocationID
}

func activityServiceDuration(a *model.Activity) int64 {
	if a.Job == nil {
		return 0
	}
	places := a.Job.Places()
	if a.PlaceIdx < 0 || a.PlaceIdx >= len(places) {
		return 0
	}
	return places[a.PlaceIdx].Duration
}

func legDistance(sol *state.SolutionContext, from, to string) float64 {
	d, err := sol.Problem.Transport.Distance(from, to)
	if err != nil {
		return 0
	}
	return d
}

func legDuration(sol *state.SolutionContext, from, to string) int64 {
	d, err := sol.Problem.Transport.Duration(from, to)
	if err != nil {
		return 0
	}
	return d
}

// MarshalSolution serializes doc to JSON with 2-space indentation.
func MarshalSolution(doc *SolutionDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
