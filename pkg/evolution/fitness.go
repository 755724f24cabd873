package evolution

import (
	"github.com/dshills/vrpcore/pkg/model"
	"github.com/dshills/vrpcore/pkg/population"
	"github.com/dshills/vrpcore/pkg/state"
)

// Score computes an Individual's Objectives from a solved (or partially
// solved) SolutionContext: Cost is the sum of each route's travelled
// transport distance (start through every activity to the shift end),
// Unassigned is the count of jobs still outstanding. Grounded on
// dungeon.DefaultGenerator's post-pipeline metrics computation — a
// dedicated pass over the finished artifact rather than a running total
// kept during construction, so ruin-and-recreate operators never have to
// remember to update a cached score.
func Score(sol *state.SolutionContext) population.Objectives {
	var cost float64
	for _, rc := range sol.Routes {
		cost += routeDistance(sol, rc)
	}
	return population.Objectives{
		Cost:       cost,
		Unassigned: len(sol.Unassigned.Slice()),
	}
}

func routeDistance(sol *state.SolutionContext, rc *state.RouteContext) float64 {
	transport := sol.Problem.Transport
	actor := rc.Route.Actor
	activities := rc.Route.Tour.Activities

	prevLoc := actor.ActiveShift().Start.LocationID
	var total float64
	for _, a := range activities {
		loc := activityLocation(a, actor)
		if loc == "" {
			continue
		}
		if d, err := transport.Distance(prevLoc, loc); err == nil {
			total += d
		}
		prevLoc = loc
	}
	if end := actor.ActiveShift().End; end != nil {
		if d, err := transport.Distance(prevLoc, end.LocationID); err == nil {
			total += d
		}
	}
	return total
}

func activityLocation(a *model.Activity, actor *model.Actor) string {
	if a.Job == nil {
		return actor.ActiveShift().Start.LocationID
	}
	places := a.Job.Places()
	if a.PlaceIdx < 0 || a.PlaceIdx >= len(places) {
		return ""
	}
	return places[a.PlaceIdx].LocationID
}
