package state

import "github.com/dshills/vrpcore/pkg/model"

// RouteState holds values keyed per (activity index, state key), produced
// by constraint modules as they sweep a route. The well-known state
// keys (CURRENT_CAPACITY, MAX_PAST_CAPACITY, MAX_FUTURE_CAPACITY,
// TOTAL_DISTANCE, and so on) are plain strings so modules outside this
// package can introduce their own without a central enum.
//
// Grounded on validation.Agent's currentRoom/capabilities fields, which
// accumulate as Move is called repeatedly along a path; here the
// accumulation runs once per activity index instead of once per room visit,
// and values are stored per-index rather than mutated in place, so a
// partial resweep (capacity module recomputing MAX_FUTURE_CAPACITY) never
// has to replay earlier activities.
type RouteState struct {
	values map[int]model.Dimensions
	route  model.Dimensions
}

// NewRouteState returns an empty route state.
func NewRouteState() *RouteState {
	return &RouteState{values: make(map[int]model.Dimensions), route: model.NewDimensions()}
}

// SetRoute stores value under key, scoped to the whole route rather than
// any one activity index — MAX_LOAD and similar once-per-route summaries
// belong here, not in the per-activity map Set/Get index into.
func (s *RouteState) SetRoute(key string, value interface{}) {
	s.route.Set(key, value)
}

// GetRoute returns the value stored under key at route scope.
func (s *RouteState) GetRoute(key string) (interface{}, bool) {
	return s.route.Get(key)
}

// Set stores value under key at activity index idx.
func (s *RouteState) Set(idx int, key string, value interface{}) {
	d, ok := s.values[idx]
	if !ok {
		d = model.NewDimensions()
		s.values[idx] = d
	}
	d.Set(key, value)
}

// Get returns the value stored under key at activity index idx.
func (s *RouteState) Get(idx int, key string) (interface{}, bool) {
	d, ok := s.values[idx]
	if !ok {
		return nil, false
	}
	return d.Get(key)
}

// GetInt64 returns the int64 stored under key at idx, or 0 if absent.
func (s *RouteState) GetInt64(idx int, key string) int64 {
	v, ok := s.Get(idx, key)
	if !ok {
		return 0
	}
	i, _ := v.(int64)
	return i
}

// GetFloat64 returns the float64 stored under key at idx, or 0 if absent.
func (s *RouteState) GetFloat64(idx int, key string) float64 {
	v, ok := s.Get(idx, key)
	if !ok {
		return 0
	}
	f, _ := v.(float64)
	return f
}

// RemoveFrom drops all stored values at indices >= idx. Used when an
// activity is removed or inserted mid-route and everything downstream needs
// to be resweapt rather than read stale.
func (s *RouteState) RemoveFrom(idx int) {
	for i := range s.values {
		if i >= idx {
			delete(s.values, i)
		}
	}
}

// Clone returns a deep-enough copy for InsertionContext scratch mutation:
// each index's Dimensions bag is cloned so the clone can be mutated freely.
func (s *RouteState) Clone() *RouteState {
	out := NewRouteState()
	for idx, d := range s.values {
		out.values[idx] = d.Clone()
	}
	out.route = s.route.Clone()
	return out
}

// RouteContext pairs a model.Route with the RouteState accumulated over it.
type RouteContext struct {
	Route *model.Route
	State *RouteState
}

// NewRouteContext returns a route context with fresh, empty state.
func NewRouteContext(route *model.Route) *RouteContext {
	return &RouteContext{Route: route, State: NewRouteState()}
}

// Clone returns a deep-enough copy of the route context: a new RouteState
// and a copy of the Tour's activity slice, so inserting into the clone's
// tour does not disturb the original's slice (the *Activity values
// themselves are shared).
func (rc *RouteContext) Clone() *RouteContext {
	clonedTour := &model.Tour{Activities: append([]*model.Activity(nil), rc.Route.Tour.Activities...)}
	return &RouteContext{
		Route: &model.Route{Actor: rc.Route.Actor, Tour: clonedTour},
		State: rc.State.Clone(),
	}
}
