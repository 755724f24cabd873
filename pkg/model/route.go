package model

import "fmt"

// Activity is one stop on a Tour: a job (nil for the start/end activities),
// the place being visited, and the arrival/departure schedule computed by
// the insertion evaluator.
type Activity struct {
	Job       *Job  `json:"job,omitempty"`
	PlaceIdx  int   `json:"placeIdx"` // index into Job.Places() for multi-place jobs
	Arrival   int64 `json:"arrival"`
	Departure int64 `json:"departure"`
}

// JobType returns the activity's job-type marker, or JobService for the
// start/end activities which carry no job.
func (a *Activity) JobType() JobType {
	if a.Job == nil {
		return JobService
	}
	return a.Job.TypeAt(a.PlaceIdx)
}

// Place returns the Place this activity visits: the Single's own place, or
// the Multi piece at PlaceIdx.
func (a *Activity) Place() (Place, bool) {
	if a.Job == nil {
		return Place{}, false
	}
	places := a.Job.Places()
	if a.PlaceIdx < 0 || a.PlaceIdx >= len(places) {
		return Place{}, false
	}
	return places[a.PlaceIdx], true
}

// Tour is the ordered sequence of activities an Actor performs, bookended
// by implicit start/end activities at the actor's shift start/end places.
// The ordered-slice-with-insert-at-index shape is carried over from
// graph.go's Adjacency lists, which were ordered per-node neighbor slices
// built up by repeated AddConnector appends; here the slice holds an
// ordered route instead of an unordered neighbor set.
type Tour struct {
	Activities []*Activity `json:"activities"`
}

// NewTour returns an empty tour.
func NewTour() *Tour {
	return &Tour{Activities: []*Activity{}}
}

// Insert places activity at position idx, shifting later activities right.
// Mirrors the append-into-slice idiom of graph.go's AddConnector, adapted
// from an unordered append to a positional insert since route order is
// semantically meaningful.
func (t *Tour) Insert(idx int, activity *Activity) error {
	if idx < 0 || idx > len(t.Activities) {
		return fmt.Errorf("tour: insert index %d out of range [0, %d]", idx, len(t.Activities))
	}
	t.Activities = append(t.Activities, nil)
	copy(t.Activities[idx+1:], t.Activities[idx:])
	t.Activities[idx] = activity
	return nil
}

// RemoveAt removes the activity at position idx.
func (t *Tour) RemoveAt(idx int) error {
	if idx < 0 || idx >= len(t.Activities) {
		return fmt.Errorf("tour: remove index %d out of range [0, %d)", idx, len(t.Activities))
	}
	t.Activities = append(t.Activities[:idx], t.Activities[idx+1:]...)
	return nil
}

// JobCount returns the number of activities that carry a job (excludes any
// synthetic start/end markers a caller may have appended).
func (t *Tour) JobCount() int {
	n := 0
	for _, a := range t.Activities {
		if a.Job != nil {
			n++
		}
	}
	return n
}

// Route pairs a Tour with the Actor performing it.
type Route struct {
	Actor *Actor `json:"actor"`
	Tour  *Tour  `json:"tour"`
}

// NewRoute returns a route for actor with an empty tour.
func NewRoute(actor *Actor) *Route {
	return &Route{Actor: actor, Tour: NewTour()}
}
